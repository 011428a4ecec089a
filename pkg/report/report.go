package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/importdecl/pkg/batch"
	"github.com/walteh/importdecl/pkg/config"
	"github.com/walteh/importdecl/pkg/diagnostic"
	"github.com/walteh/importdecl/pkg/position"
)

// Document is the machine readable form of a scan.
type Document struct {
	RunID string `json:"run_id" msgpack:"run_id"`
	Files []File `json:"files" msgpack:"files"`
}

type File struct {
	Path        string       `json:"path" msgpack:"path"`
	TokenSource string       `json:"token_source,omitempty" msgpack:"token_source,omitempty"`
	Error       string       `json:"error,omitempty" msgpack:"error,omitempty"`
	Imports     []Import     `json:"imports" msgpack:"imports"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
}

// Import is one declaration. Lines and columns are one-based; the end is
// just past the last byte of the declaration.
type Import struct {
	Line      int      `json:"line" msgpack:"line"`
	Column    int      `json:"column" msgpack:"column"`
	EndLine   int      `json:"end_line" msgpack:"end_line"`
	EndColumn int      `json:"end_column" msgpack:"end_column"`
	Attribute string   `json:"attribute" msgpack:"attribute"`
	Kind      string   `json:"kind,omitempty" msgpack:"kind,omitempty"`
	Path      []string `json:"path" msgpack:"path"`
	Canonical string   `json:"canonical" msgpack:"canonical"`
}

type Diagnostic struct {
	Line      int    `json:"line" msgpack:"line"`
	Column    int    `json:"column" msgpack:"column"`
	EndLine   int    `json:"end_line" msgpack:"end_line"`
	EndColumn int    `json:"end_column" msgpack:"end_column"`
	Severity  string `json:"severity" msgpack:"severity"`
	Code      string `json:"code" msgpack:"code"`
	Message   string `json:"message" msgpack:"message"`
}

// NewDocument converts a scan result into its report form.
func NewDocument(res *batch.Result) *Document {
	doc := &Document{
		RunID: res.RunID,
		Files: make([]File, 0, len(res.Files)),
	}

	for _, fr := range res.Files {
		file := File{
			Path:        fr.Path,
			TokenSource: fr.TokenSource,
			Imports:     make([]Import, 0, len(fr.Sites)),
		}
		if fr.Err != nil {
			file.Error = fr.Err.Error()
		}

		for _, site := range fr.Sites {
			start, end := locate(fr.Contents, site.Span)
			file.Imports = append(file.Imports, Import{
				Line:      start.Line,
				Column:    start.Character,
				EndLine:   end.Line,
				EndColumn: end.Character,
				Attribute: string(site.Attribute),
				Kind:      string(site.Kind),
				Path:      site.Path,
				Canonical: site.String(),
			})
		}

		for _, d := range fr.Diagnostics {
			start, end := locate(fr.Contents, d.Location)
			file.Diagnostics = append(file.Diagnostics, Diagnostic{
				Line:      start.Line,
				Column:    start.Character,
				EndLine:   end.Line,
				EndColumn: end.Character,
				Severity:  string(d.Severity),
				Code:      d.Code,
				Message:   d.Message,
			})
		}

		doc.Files = append(doc.Files, file)
	}

	return doc
}

// locate returns the one-based start and end of pos. Columns count grapheme
// clusters.
func locate(contents string, pos position.RawPosition) (start, end position.Place) {
	rng := pos.GetRange(contents)
	start = position.Place{Line: rng.Start.Line + 1, Character: pos.GetDisplayColumn(contents) + 1}
	end = position.Place{Line: rng.End.Line + 1, Character: pos.GetEndPosition().GetDisplayColumn(contents) + 1}
	return start, end
}

type Options struct {
	Color bool
}

// Write renders res to w in the given format.
func Write(w io.Writer, format string, res *batch.Result, opts Options) error {
	doc := NewDocument(res)

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.Errorf("encoding json report: %w", err)
		}
		return nil
	case config.FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(doc); err != nil {
			return errors.Errorf("encoding msgpack report: %w", err)
		}
		return nil
	case config.FormatText, "":
		return writeText(w, doc, opts)
	default:
		return errors.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, doc *Document, opts Options) error {
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	header := paint(color.Bold, color.FgCyan)
	faint := paint(color.Faint)
	failed := paint(color.FgRed)

	var b strings.Builder
	for _, file := range doc.Files {
		b.WriteString(header.Sprint(file.Path))
		b.WriteString("\n")

		if file.Error != "" {
			fmt.Fprintf(&b, "  %s\n", failed.Sprint(file.Error))
			continue
		}

		width := locationWidth(file)
		for _, imp := range file.Imports {
			loc := runewidth.FillRight(fmt.Sprintf("%d:%d", imp.Line, imp.Column), width)
			fmt.Fprintf(&b, "  %s  %s\n", faint.Sprint(loc), imp.Canonical)
		}
		for _, d := range file.Diagnostics {
			loc := runewidth.FillRight(fmt.Sprintf("%d:%d", d.Line, d.Column), width)
			sev := paint(severityColor(d.Severity)).Sprint(d.Severity)
			fmt.Fprintf(&b, "  %s  %s %s %s\n", faint.Sprint(loc), sev, faint.Sprintf("[%s]", d.Code), d.Message)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Errorf("writing text report: %w", err)
	}
	return nil
}

func locationWidth(file File) int {
	width := 0
	for _, imp := range file.Imports {
		width = max(width, runewidth.StringWidth(fmt.Sprintf("%d:%d", imp.Line, imp.Column)))
	}
	for _, d := range file.Diagnostics {
		width = max(width, runewidth.StringWidth(fmt.Sprintf("%d:%d", d.Line, d.Column)))
	}
	return width
}

func severityColor(severity string) color.Attribute {
	switch diagnostic.Severity(severity) {
	case diagnostic.SeverityError:
		return color.FgRed
	case diagnostic.SeverityWarning:
		return color.FgYellow
	default:
		return color.FgBlue
	}
}

// Summary is a one line description of a scan for logs and terminals.
func Summary(res *batch.Result) string {
	imports, failed := 0, 0
	for _, file := range res.Files {
		imports += len(file.Sites)
		if file.Err != nil {
			failed++
		}
	}
	return fmt.Sprintf("%d imports in %d files (%d failed, %d diagnostics)",
		imports, len(res.Files), failed, len(res.Diagnostics()))
}
