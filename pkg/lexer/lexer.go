// Package lexer turns Swift source text into the same flat, SourceKit style
// token stream the import scanner consumes. It is a reference tokenizer: it
// classifies keywords, identifiers, attributes, literals and comments, and
// drops whitespace and punctuation the way SourceKit's syntax map does.
package lexer

import (
	"bytes"

	"github.com/alecthomas/participle/v2/lexer"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/importdecl/pkg/syntax"
)

var (
	// LexerRules defines the lexer rules for Swift source
	LexerRules = lexer.Rules{
		"Root": {
			{Name: "Whitespace", Pattern: `\s+`},
			{Name: "LineComment", Pattern: `//[^\n]*`},
			{Name: "BlockComment", Pattern: `/\*(?s:.*?)\*/`},
			{Name: "MultilineString", Pattern: `"""(?s:.*?)"""`},
			{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"`},
			{Name: "Attribute", Pattern: `@[\p{L}_][\p{L}\p{N}_]*`},
			{Name: "Number", Pattern: `0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|\d[\d_]*(?:\.\d[\d_]*)?(?:[eE][+-]?\d+)?`},
			{Name: "EscapedIdent", Pattern: "`[\\p{L}_][\\p{L}\\p{N}_]*`"},
			{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
			// Catch any remaining characters
			{Name: "Punct", Pattern: `.`},
		},
	}

	// SwiftLexer is the stateful lexer for Swift source
	SwiftLexer = lexer.MustStateful(LexerRules)
)

// keywords are the reserved words that SourceKit reports as keywords.
var keywords = map[string]struct{}{
	"associatedtype": {}, "class": {}, "deinit": {}, "enum": {}, "extension": {},
	"fileprivate": {}, "func": {}, "import": {}, "init": {}, "inout": {},
	"internal": {}, "let": {}, "open": {}, "operator": {}, "private": {},
	"precedencegroup": {}, "protocol": {}, "public": {}, "rethrows": {}, "static": {},
	"struct": {}, "subscript": {}, "typealias": {}, "var": {},
	"break": {}, "case": {}, "catch": {}, "continue": {}, "default": {},
	"defer": {}, "do": {}, "else": {}, "fallthrough": {}, "for": {},
	"guard": {}, "if": {}, "in": {}, "repeat": {}, "return": {},
	"throw": {}, "switch": {}, "where": {}, "while": {},
	"Any": {}, "as": {}, "await": {}, "false": {}, "is": {}, "nil": {},
	"self": {}, "Self": {}, "super": {}, "throws": {}, "true": {}, "try": {},
}

// IsKeyword reports whether word is lexed as a keyword.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// Tokenize lexes src and returns its syntax tokens ordered by offset.
func Tokenize(filename string, src []byte) ([]syntax.Token, error) {
	lex, err := SwiftLexer.Lex(filename, bytes.NewReader(src))
	if err != nil {
		return nil, errors.Errorf("creating lexer: %w", err)
	}

	names := lexer.SymbolsByRune(SwiftLexer)

	var tokens []syntax.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, errors.Errorf("lexing %s: %w", filename, err)
		}
		if tok.EOF() {
			break
		}

		kind, ok := classify(names[tok.Type], tok.Value)
		if !ok {
			continue
		}

		tokens = append(tokens, syntax.Token{
			Kind:   kind,
			Offset: tok.Pos.Offset,
			Length: len(tok.Value),
		})
	}

	return tokens, nil
}

func classify(rule, value string) (syntax.Kind, bool) {
	switch rule {
	case "LineComment", "BlockComment":
		return syntax.KindComment, true
	case "String", "MultilineString":
		return syntax.KindString, true
	case "Attribute":
		return syntax.KindAttributeBuiltin, true
	case "Number":
		return syntax.KindNumber, true
	case "EscapedIdent":
		return syntax.KindIdentifier, true
	case "Ident":
		if IsKeyword(value) {
			return syntax.KindKeyword, true
		}
		return syntax.KindIdentifier, true
	default:
		return "", false
	}
}
