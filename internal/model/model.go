package model

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Position is a location inside a .nest source.
type Position = lexer.Position

type FieldKind int

const (
	KindLeaf      FieldKind = iota // references an existing type by name
	KindComposite                  // defines a new struct inline
)

func (k FieldKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindComposite:
		return "composite"
	default:
		return "invalid"
	}
}

// Attribute is an opaque annotation written as #[...]. Raw is kept verbatim;
// Name and Args are a best-effort split used by materializers.
type Attribute struct {
	Raw  string   // "json(\"id,omitempty\")"
	Name string   // "json"
	Args string   // "\"id,omitempty\""
	Pos  Position `json:"-" yaml:"-"`
}

// Value returns the unquoted argument when Args is a single string literal.
func (a Attribute) Value() (string, bool) {
	args := strings.TrimSpace(a.Args)
	if len(args) < 2 || args[0] != '"' || args[len(args)-1] != '"' {
		return "", false
	}
	v, err := strconv.Unquote(args)
	if err != nil {
		return "", false
	}
	return v, true
}

func (a Attribute) String() string {
	return "#[" + a.Raw + "]"
}

type FieldSpec struct {
	NestedAttributes []Attribute // applied to the generated struct, composite only
	Attributes       []Attribute // applied to the field in the enclosing struct
	Visibility       string
	Name             string
	TypeName         string // field type, and struct name when composite
	Kind             FieldKind
	Body             []*FieldSpec
	Pos              Position
}

func (f *FieldSpec) IsComposite() bool {
	return f != nil && f.Kind == KindComposite
}

// Spec promotes a composite field's body to a StructSpec of its own.
func (f *FieldSpec) Spec() *StructSpec {
	return &StructSpec{
		Attributes: f.NestedAttributes,
		Visibility: f.Visibility,
		Name:       f.TypeName,
		Fields:     f.Body,
		Pos:        f.Pos,
	}
}

type StructSpec struct {
	Attributes []Attribute
	Visibility string
	Name       string
	Fields     []*FieldSpec
	Pos        Position
}

type FieldDecl struct {
	Visibility string
	Attributes []Attribute
	Name       string
	TypeName   string
}

// StructDecl is one flat struct declaration. It never carries nested bodies.
type StructDecl struct {
	Attributes []Attribute
	Visibility string
	Name       string
	Fields     []FieldDecl
}

// Exported reports whether the visibility token asks for a public symbol.
func Exported(visibility string) bool {
	return strings.TrimSpace(visibility) != ""
}
