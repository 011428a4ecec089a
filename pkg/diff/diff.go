package diff

import (
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"

	"github.com/walteh/importdecl/pkg/importdecl"
)

// DiffExportedOnly pretty prints both values and returns a readable line diff,
// or "" when they print the same.
func DiffExportedOnly[T any](want T, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)

	gotStr, wantStr := printer.Sprint(got), printer.Sprint(want)
	if gotStr == wantStr {
		return ""
	}

	str := "\n\n"
	str += "to convert ACTUAL ⏩️ EXPECTED:\n\n"
	str += "add:    ➕\n"
	str += "remove: ➖\n"
	str += "\n"
	str += decorate(diff.Diff(gotStr, wantStr))

	return str
}

// Imports diffs two import lists by their canonical form. Lines only in
// before are prefixed with "-", lines only in after with "+", shared lines
// with " ". It returns "" when both lists render identically.
func Imports(before, after []importdecl.Declaration) string {
	a, b := describe(before), describe(after)
	if a == b {
		return ""
	}
	return diff.Diff(a, b)
}

// Changes returns the canonical forms added and removed between two import
// lists, each in the order they appear.
func Changes(before, after []importdecl.Declaration) (added, removed []string) {
	chunks := diff.DiffChunks(lines(before), lines(after))
	for _, chunk := range chunks {
		added = append(added, chunk.Added...)
		removed = append(removed, chunk.Deleted...)
	}
	return added, removed
}

func lines(decls []importdecl.Declaration) []string {
	out := make([]string, 0, len(decls))
	for _, decl := range decls {
		out = append(out, decl.String())
	}
	return out
}

func describe(decls []importdecl.Declaration) string {
	return strings.Join(lines(decls), "\n")
}

func decorate(d string) string {
	d = "\n" + d
	d = strings.ReplaceAll(strings.ReplaceAll(d, "\n-", "\n➖"), "\n+", "\n➕")
	return strings.TrimPrefix(d, "\n")
}
