package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/importdecl/pkg/position"
)

func TestGetLineAndColumn(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{
			name:     "empty text",
			text:     "",
			offset:   0,
			wantLine: 0,
			wantCol:  0,
		},
		{
			name:     "single line, middle position",
			text:     "import Foundation",
			offset:   7,
			wantLine: 0,
			wantCol:  7,
		},
		{
			name:     "multiple lines, second line",
			text:     "import Foundation\n@testable import UIKit",
			offset:   28,
			wantLine: 1,
			wantCol:  10,
		},
		{
			name:     "offset past end is clamped",
			text:     "import A\n",
			offset:   99,
			wantLine: 1,
			wantCol:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := position.NewBasicPosition("", tt.offset)
			gotLine, gotCol := pos.GetLineAndColumn(tt.text)
			assert.Equal(t, tt.wantLine, gotLine, "line should match")
			assert.Equal(t, tt.wantCol, gotCol, "column should match")
		})
	}
}

func TestGetDisplayColumn(t *testing.T) {
	// "é" is two bytes, "👍🏽" is eight bytes but one grapheme cluster
	text := "let é = \"👍🏽\"; import Foundation"
	offset := len("let é = \"👍🏽\"; ")

	pos := position.NewBasicPosition("import", offset)
	_, byteCol := pos.GetLineAndColumn(text)

	assert.Equal(t, offset, byteCol, "byte column counts bytes")
	assert.Equal(t, 13, pos.GetDisplayColumn(text), "display column counts grapheme clusters")
}

func TestGetRange(t *testing.T) {
	text := "import Foundation\nimport UIKit"
	pos := position.NewBasicPosition("import UIKit", 18)

	got := pos.GetRange(text)

	assert.Equal(t, position.Range{
		Start: position.Place{Line: 1, Character: 0},
		End:   position.Place{Line: 1, Character: 12},
	}, got)
	assert.Equal(t, position.NewBasicPosition("", 30), pos.GetEndPosition())
}

func TestNewSpanPosition(t *testing.T) {
	text := "@testable import Foundation.Sort"

	pos := position.NewSpanPosition(text, 10, len(text))
	assert.Equal(t, "import Foundation.Sort", pos.Text)
	assert.Equal(t, 10, pos.Offset)

	clamped := position.NewSpanPosition(text, 10, 500)
	assert.Equal(t, pos, clamped, "end should be clamped to the text")

	empty := position.NewSpanPosition(text, 12, 3)
	assert.Equal(t, "", empty.Text, "inverted span is empty")
}

func TestPositionsSeenMap(t *testing.T) {
	seen := position.NewPositionsSeenMap()

	second := position.NewBasicPosition("import UIKit", 40)
	first := position.NewBasicPosition("import UIKit", 3)
	other := position.NewBasicPosition("import Foundation", 20)

	seen.Add(second)
	seen.Add(other)
	seen.Add(first)

	got := seen.PositionsWithText("import UIKit")
	assert.Equal(t, position.RawPositionArray{first, second}, got, "positions should be ordered by offset")
	assert.Equal(t, "import UIKit@3", got[0].String())
	assert.Empty(t, seen.PositionsWithText("import Missing"))
}
