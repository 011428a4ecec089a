package syntax

import (
	"bytes"
	"encoding/json"
	"io"

	"fortio.org/safecast"
	"gitlab.com/tozd/go/errors"
)

// sourcekittenToken is one entry of `sourcekitten syntax` output.
type sourcekittenToken struct {
	Type   string `json:"type"`
	Offset uint64 `json:"offset"`
	Length uint64 `json:"length"`
}

// sourcekitSyntaxMap is the raw sourcekitd editor.open response.
type sourcekitSyntaxMap struct {
	SyntaxMap []struct {
		Kind   string `json:"key.kind"`
		Offset uint64 `json:"key.offset"`
		Length uint64 `json:"key.length"`
	} `json:"key.syntaxmap"`
}

// DecodeTokens reads a token list in either the `sourcekitten syntax` array
// form or the raw sourcekitd `key.syntaxmap` form.
func DecodeTokens(r io.Reader) ([]Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("reading tokens: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raw []sourcekittenToken
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Errorf("decoding token array: %w", err)
		}
	} else {
		var resp sourcekitSyntaxMap
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, errors.Errorf("decoding syntax map: %w", err)
		}
		raw = make([]sourcekittenToken, 0, len(resp.SyntaxMap))
		for _, entry := range resp.SyntaxMap {
			raw = append(raw, sourcekittenToken{Type: entry.Kind, Offset: entry.Offset, Length: entry.Length})
		}
	}

	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		offset, err := safecast.Conv[int](tok.Offset)
		if err != nil {
			return nil, errors.Errorf("token offset %d: %w", tok.Offset, ErrInvalidTokenBounds)
		}
		length, err := safecast.Conv[int](tok.Length)
		if err != nil {
			return nil, errors.Errorf("token length %d: %w", tok.Length, ErrInvalidTokenBounds)
		}
		tokens = append(tokens, Token{Kind: Kind(tok.Type), Offset: offset, Length: length})
	}

	return tokens, nil
}

// EncodeTokens writes tokens in the `sourcekitten syntax` array form.
func EncodeTokens(w io.Writer, tokens []Token) error {
	raw := make([]sourcekittenToken, 0, len(tokens))
	for _, tok := range tokens {
		offset, err := safecast.Conv[uint64](tok.Offset)
		if err != nil {
			return errors.Errorf("token offset %d: %w", tok.Offset, ErrInvalidTokenBounds)
		}
		length, err := safecast.Conv[uint64](tok.Length)
		if err != nil {
			return errors.Errorf("token length %d: %w", tok.Length, ErrInvalidTokenBounds)
		}
		raw = append(raw, sourcekittenToken{Type: string(tok.Kind), Offset: offset, Length: length})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return errors.Errorf("encoding tokens: %w", err)
	}
	return nil
}
