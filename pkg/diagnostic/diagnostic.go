package diagnostic

import (
	"fmt"

	"github.com/walteh/importdecl/pkg/importdecl"
	"github.com/walteh/importdecl/pkg/position"
)

// Severity represents the severity level of a diagnostic
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "info"
)

// Rank orders severities so thresholds can be compared; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInformation:
		return 1
	default:
		return 0
	}
}

const (
	CodeEmptyPath       = "empty-path"
	CodeDuplicateImport = "duplicate-import"
	CodeTestableImport  = "testable-import"
)

// Diagnostic represents a single diagnostic message
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Location position.RawPosition
}

// Check reports problems in the import declarations of one file. Sites must
// be in source order, as importdecl.ScanSites returns them.
func Check(sites []importdecl.Site) []Diagnostic {
	var diags []Diagnostic

	seen := position.NewPositionsSeenMap()

	for _, site := range sites {
		canonical := site.String()

		if len(site.Path) == 0 {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeEmptyPath,
				Message:  "import declaration has no module path",
				Location: site.Span,
			})
		} else if earlier := seen.PositionsWithText(canonical); len(earlier) > 0 {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeDuplicateImport,
				Message:  fmt.Sprintf("%q is already imported at offset %d", canonical, earlier[0].Offset),
				Location: site.Span,
			})
		}

		if site.Attribute == importdecl.AttributeTestable {
			diags = append(diags, Diagnostic{
				Severity: SeverityInformation,
				Code:     CodeTestableImport,
				Message:  fmt.Sprintf("%s is imported with @testable", site.Path),
				Location: site.Span,
			})
		}

		seen.Add(position.NewBasicPosition(canonical, site.Span.Offset))
	}

	return diags
}

// Max returns the highest severity among diags, or "" when there are none.
func Max(diags []Diagnostic) Severity {
	var highest Severity
	for _, d := range diags {
		if d.Severity.Rank() > highest.Rank() {
			highest = d.Severity
		}
	}
	return highest
}
