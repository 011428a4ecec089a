package syntax

import (
	"sort"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidTokenBounds is returned when a token addresses bytes outside the source text.
var ErrInvalidTokenBounds = errors.Base("invalid token bounds")

// Project sorts tokens by offset and slices the text each one covers. Tokens
// sharing an offset keep their input order. The input slice is not modified.
//
// A token whose range does not fit inside text aborts the whole projection.
func Project(text string, tokens []Token) ([]ContentToken, error) {
	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	projected := make([]ContentToken, 0, len(sorted))
	for _, tok := range sorted {
		if tok.Offset < 0 || tok.Length < 0 || tok.Offset > len(text)-tok.Length {
			return nil, errors.Errorf("%s token at offset %d with length %d in %d bytes of text: %w",
				tok.Kind, tok.Offset, tok.Length, len(text), ErrInvalidTokenBounds)
		}
		projected = append(projected, ContentToken{
			Token: tok,
			Text:  text[tok.Offset:tok.End()],
		})
	}

	return projected, nil
}
