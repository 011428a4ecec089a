package position

import (
	"fmt"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// RawPosition represents a position in the source text
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int
	// Text is the actual text at this position
	Text string
}

// Length returns the length in bytes of the text at this position
func (p *RawPosition) Length() int {
	return len(p.Text)
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

// NewSpanPosition returns the position covering [start, end) of fileText.
func NewSpanPosition(fileText string, start, end int) RawPosition {
	if start < 0 {
		start = 0
	}
	if end > len(fileText) {
		end = len(fileText)
	}
	if end < start {
		end = start
	}
	return RawPosition{Text: fileText[start:end], Offset: start}
}

// GetLineAndColumn calculates the line and column number for a given position in the text
// Returns zero-based line and column numbers; the column counts bytes.
func (p RawPosition) GetLineAndColumn(text string) (line, col int) {
	end := p.Offset
	if end > len(text) {
		end = len(text)
	}
	if end <= 0 {
		return 0, 0
	}

	lastNewline := -1
	for i := 0; i < end; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}

	col = end - lastNewline - 1

	return line, col
}

// GetDisplayColumn returns the zero-based column of the position counted in
// grapheme clusters, which is what an editor shows to the user. Invalid UTF-8
// falls back to the byte column.
func (p RawPosition) GetDisplayColumn(text string) int {
	_, col := p.GetLineAndColumn(text)
	if col == 0 {
		return 0
	}

	end := p.Offset
	if end > len(text) {
		end = len(text)
	}

	count, err := textseg.TokenCount([]byte(text[end-col:end]), textseg.ScanGraphemeClusters)
	if err != nil {
		return col
	}
	return count
}

// GetEndPosition returns the empty position just past the end of p.
func (p RawPosition) GetEndPosition() RawPosition {
	return RawPosition{
		Text:   "",
		Offset: p.Offset + p.Length(),
	}
}

// GetRange calculates the line/column range for a RawPosition
func (p RawPosition) GetRange(fileText string) Range {
	startLine, startCol := p.GetLineAndColumn(fileText)
	endLine, endCol := p.GetEndPosition().GetLineAndColumn(fileText)
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}

func (p RawPosition) String() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

type RawPositionArray []RawPosition
