package position

import "sort"

// PositionsSeenMap remembers positions by their text so repeated text can be
// traced back to every place it occurred.
type PositionsSeenMap struct {
	positions map[string]RawPositionArray
}

func NewPositionsSeenMap() *PositionsSeenMap {
	return &PositionsSeenMap{
		positions: make(map[string]RawPositionArray),
	}
}

func (me PositionsSeenMap) Add(pos RawPosition) {
	me.positions[pos.Text] = append(me.positions[pos.Text], pos)
}

// PositionsWithText returns every position added with the given text, ordered by offset.
func (me PositionsSeenMap) PositionsWithText(text string) RawPositionArray {
	positions := make(RawPositionArray, len(me.positions[text]))
	copy(positions, me.positions[text])
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].Offset < positions[j].Offset
	})
	return positions
}
