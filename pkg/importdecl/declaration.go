package importdecl

import (
	"slices"
	"strings"
)

const importKeyword = "import"

// Attribute is the modifier that may precede the import keyword.
type Attribute string

const (
	AttributeNone     Attribute = "none"
	AttributeTestable Attribute = "@testable"
)

var attributes = map[string]Attribute{
	string(AttributeNone):     AttributeNone,
	string(AttributeTestable): AttributeTestable,
}

// ParseAttribute maps the exact text of a token to an Attribute. Unknown text
// yields AttributeNone.
func ParseAttribute(text string) Attribute {
	if attr, ok := attributes[text]; ok {
		return attr
	}
	return AttributeNone
}

// Kind is the declaration-kind qualifier that may follow the import keyword,
// as in `import struct Foundation.Date`. The zero value means no qualifier.
type Kind string

const (
	KindNone      Kind = ""
	KindTypealias Kind = "typealias"
	KindStruct    Kind = "struct"
	KindClass     Kind = "class"
	KindEnum      Kind = "enum"
	KindProtocol  Kind = "protocol"
	KindLet       Kind = "let"
	KindVar       Kind = "var"
	KindFunc      Kind = "func"
)

var kinds = map[string]Kind{
	string(KindTypealias): KindTypealias,
	string(KindStruct):    KindStruct,
	string(KindClass):     KindClass,
	string(KindEnum):      KindEnum,
	string(KindProtocol):  KindProtocol,
	string(KindLet):       KindLet,
	string(KindVar):       KindVar,
	string(KindFunc):      KindFunc,
}

// ParseKind maps the exact text of a token to a Kind.
func ParseKind(text string) (Kind, bool) {
	kind, ok := kinds[text]
	return kind, ok
}

// Path is a dotted module or symbol reference, one element per identifier.
type Path []string

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Declaration is one parsed import declaration.
type Declaration struct {
	Attribute Attribute
	Kind      Kind
	Path      Path
}

// HasKind reports whether a declaration-kind qualifier was present.
func (d Declaration) HasKind() bool {
	return d.Kind != KindNone
}

func (d Declaration) Equal(other Declaration) bool {
	return d.Attribute == other.Attribute &&
		d.Kind == other.Kind &&
		slices.Equal(d.Path, other.Path)
}

// String renders the canonical form, e.g. `@testable import func Foundation.Func.Sort`.
// The path component is always present, so a declaration without a path
// renders with a trailing space.
func (d Declaration) String() string {
	components := make([]string, 0, 4)
	if d.Attribute == AttributeTestable {
		components = append(components, string(d.Attribute))
	}
	components = append(components, importKeyword)
	if d.HasKind() {
		components = append(components, string(d.Kind))
	}
	components = append(components, d.Path.String())
	return strings.Join(components, " ")
}
