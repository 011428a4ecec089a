package importdecl

import (
	"github.com/walteh/importdecl/pkg/position"
	"github.com/walteh/importdecl/pkg/syntax"
)

// Site is a Declaration together with where it was found.
type Site struct {
	Declaration

	// Keyword is the position of the import keyword token
	Keyword position.RawPosition

	// Span covers the declaration from its attribute (or the import keyword)
	// through the last token it consumed
	Span position.RawPosition
}

// Scan returns the import declarations found in tokens, in the order their
// import keywords appear. tokens must be sorted by offset, as Project returns
// them, and text is the source they were projected from.
func Scan(text string, tokens []syntax.ContentToken) []Declaration {
	sites := ScanSites(text, tokens)
	decls := make([]Declaration, 0, len(sites))
	for _, site := range sites {
		decls = append(decls, site.Declaration)
	}
	return decls
}

// ScanSites is Scan, keeping the position of every declaration.
//
// Every token position is visited exactly once by the outer loop; tokens read
// while looking ahead for a kind or path are not skipped. Only a keyword token
// whose text is exactly "import" opens a declaration.
func ScanSites(text string, tokens []syntax.ContentToken) []Site {
	var sites []Site

	for i, tok := range tokens {
		if !tok.Is(syntax.KindKeyword, importKeyword) {
			continue
		}

		start, end := tok.Offset, tok.End()

		// attribute: the previous token of any kind, matched on text alone
		attribute := AttributeNone
		if i > 0 {
			prev := tokens[i-1]
			attribute = ParseAttribute(prev.Text)
			if attribute == AttributeTestable {
				start = prev.Offset
			}
		}

		idx := i + 1

		kind := KindNone
		if idx < len(tokens) {
			if k, ok := ParseKind(tokens[idx].Text); ok {
				kind = k
				end = tokens[idx].End()
				idx++
			}
		}

		path := make(Path, 0, 1)
		for idx < len(tokens) {
			cur := tokens[idx]
			if cur.Kind != syntax.KindIdentifier {
				break
			}
			path = append(path, cur.Text)
			end = cur.End()
			if idx+1 < len(tokens) && !dotJoined(text, cur, tokens[idx+1]) {
				break
			}
			idx++
		}

		sites = append(sites, Site{
			Declaration: Declaration{
				Attribute: attribute,
				Kind:      kind,
				Path:      path,
			},
			Keyword: tok.Position(),
			Span:    position.NewSpanPosition(text, start, end),
		})
	}

	return sites
}

// dotJoined reports whether exactly one byte separates cur from next and that
// byte is a '.'.
func dotJoined(text string, cur, next syntax.ContentToken) bool {
	sep := next.Offset - 1
	if sep != cur.End() || sep < 0 || sep >= len(text) {
		return false
	}
	return text[sep] == '.'
}
