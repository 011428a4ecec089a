/*
Package syntax models the flat syntax-token stream produced by a lexer and
projects it onto the source text it was produced from.

	source text + []Token
	         |
	      Project
	         |
	         v
	  []ContentToken   (sorted by offset, each carrying its own text)

Tokens are facts about the text: a coarse kind and a byte range. Only
keywords and identifiers carry meaning for import scanning; every other kind
is passed through untouched.
*/
package syntax

import (
	"github.com/walteh/importdecl/pkg/position"
)

// Kind is the coarse syntactic category of a token. The set is open: any tag
// a lexer emits is accepted, the constants below are the ones this module
// knows by name.
type Kind string

const (
	KindKeyword          Kind = "source.lang.swift.syntaxtype.keyword"
	KindIdentifier       Kind = "source.lang.swift.syntaxtype.identifier"
	KindTypeIdentifier   Kind = "source.lang.swift.syntaxtype.typeidentifier"
	KindString           Kind = "source.lang.swift.syntaxtype.string"
	KindNumber           Kind = "source.lang.swift.syntaxtype.number"
	KindComment          Kind = "source.lang.swift.syntaxtype.comment"
	KindAttributeBuiltin Kind = "source.lang.swift.syntaxtype.attribute.builtin"
)

// String returns the short name of well known kinds and the raw tag otherwise.
func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindIdentifier:
		return "identifier"
	case KindTypeIdentifier:
		return "typeidentifier"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindComment:
		return "comment"
	case KindAttributeBuiltin:
		return "attribute.builtin"
	default:
		return string(k)
	}
}

// Token is a classified byte range of the source text.
type Token struct {
	// Kind is the syntactic category reported by the lexer
	Kind Kind

	// Offset is the byte offset of the first byte of the token
	Offset int

	// Length is the number of bytes covered by the token
	Length int
}

// End returns the offset one past the last byte of the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

// ContentToken is a Token paired with the exact text it covers.
type ContentToken struct {
	Token
	Text string
}

// Is reports whether the token has the given kind and text.
func (t ContentToken) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t ContentToken) Position() position.RawPosition {
	return position.NewBasicPosition(t.Text, t.Offset)
}
