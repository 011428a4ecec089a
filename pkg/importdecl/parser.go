/*
Package importdecl recovers import declarations from a flat syntax-token stream.

A declaration has the shape

	[@testable] import [kind] Path.To.Symbol

and is recognized with a single left-to-right pass over the tokens: one token
of lookbehind for the attribute, one token of lookahead for the kind, then
identifiers for as long as they are joined by a single '.' byte.

	decls, err := importdecl.Parse(src, tokens)
	if err != nil {
	    return err
	}
	for _, d := range decls {
	    fmt.Println(d) // @testable import func Foundation.Func.Sort
	}
*/
package importdecl

import (
	"github.com/walteh/importdecl/pkg/syntax"
	"gitlab.com/tozd/go/errors"
)

// Parse projects tokens onto contents and scans the result for import declarations.
func Parse(contents string, tokens []syntax.Token) ([]Declaration, error) {
	projected, err := syntax.Project(contents, tokens)
	if err != nil {
		return nil, errors.Errorf("projecting tokens: %w", err)
	}
	return Scan(contents, projected), nil
}

// Parser holds the declarations parsed from one file.
type Parser struct {
	sites []Site
}

// NewParser parses contents once; the result is read through the accessors.
func NewParser(contents string, tokens []syntax.Token) (*Parser, error) {
	projected, err := syntax.Project(contents, tokens)
	if err != nil {
		return nil, errors.Errorf("projecting tokens: %w", err)
	}
	return &Parser{
		sites: ScanSites(contents, projected),
	}, nil
}

func (p *Parser) Sites() []Site {
	out := make([]Site, len(p.sites))
	copy(out, p.sites)
	return out
}

func (p *Parser) Declarations() []Declaration {
	out := make([]Declaration, 0, len(p.sites))
	for _, site := range p.sites {
		out = append(out, site.Declaration)
	}
	return out
}

// Descriptions returns the canonical form of every declaration, in order.
func (p *Parser) Descriptions() []string {
	out := make([]string, 0, len(p.sites))
	for _, site := range p.sites {
		out = append(out, site.String())
	}
	return out
}
