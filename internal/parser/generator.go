package parser

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/nestgen/internal/model"
)

const generatedHeader = "Code generated by nestgen. DO NOT EDIT."

// Declarer materializes flattened declarations in a host language. Callers
// must feed declarations in the order the Builder produced them.
type Declarer interface {
	Declare(decl *model.StructDecl) error
}

// Declare hands every declaration to d in order and stops at the first error.
func Declare(d Declarer, decls []*model.StructDecl) error {
	for _, decl := range decls {
		if err := d.Declare(decl); err != nil {
			return err
		}
	}
	return nil
}

// GoDeclarer renders declarations as Go type declarations into a jen.File.
type GoDeclarer struct {
	File *jen.File

	opts     *Options
	types    map[string]string // spec type name → Go type name
	names    map[string]bool   // every Go type name a declaration will take
	declared map[string]string // Go type name → spec name it came from
}

// NewGoDeclarer prepares a declarer for decls. All declarations must be known
// up front because a parent references its nested types before they are
// declared.
func NewGoDeclarer(f *jen.File, opts *Options, decls []*model.StructDecl) *GoDeclarer {
	g := &GoDeclarer{
		File:     f,
		opts:     opts,
		types:    make(map[string]string, len(decls)),
		names:    make(map[string]bool, len(decls)),
		declared: make(map[string]string, len(decls)),
	}
	for _, d := range decls {
		if d == nil {
			continue
		}
		name := g.goName(d.Name, d.Visibility)
		if _, ok := g.types[d.Name]; !ok {
			g.types[d.Name] = name
		}
		if !shouldOmitDecl(d, opts) {
			g.names[name] = true
		}
	}
	return g
}

func (g *GoDeclarer) Declare(decl *model.StructDecl) error {
	if shouldOmitDecl(decl, g.opts) {
		return nil
	}

	name := g.goName(decl.Name, decl.Visibility)
	if err := g.claim(name, decl.Name); err != nil {
		return err
	}

	fields := make([]jen.Code, 0, len(decl.Fields))
	seen := make(map[string]string, len(decl.Fields))
	for _, fd := range decl.Fields {
		fieldName := g.goName(fd.Name, fd.Visibility)
		if prev, ok := seen[fieldName]; ok {
			return fmt.Errorf("%w: field %s.%s is declared by both %q and %q", ErrDuplicateType, name, fieldName, prev, fd.Name)
		}
		seen[fieldName] = fd.Name
		fields = append(fields, g.field(fieldName, fd))
	}

	s := &jen.Statement{}
	for _, line := range commentLines(decl.Attributes, false) {
		s.Comment(line).Line()
	}
	s.Type().Id(name).Struct(fields...)
	g.File.Add(s)
	g.File.Line()

	if g.opts.PluralAliases {
		g.declarePlural(name, decl.Name)
	}
	return nil
}

func (g *GoDeclarer) declarePlural(name, specName string) {
	plural := inflection.Plural(name)
	if plural == name || g.names[plural] {
		return
	}
	if err := g.claim(plural, specName); err != nil {
		return
	}
	s := g.File.Type().Id(plural).Index()
	if g.opts.PointerSlice {
		s.Op("*")
	}
	s.Id(name)
	g.File.Line()
}

func (g *GoDeclarer) claim(name, specName string) error {
	if prev, ok := g.declared[name]; ok {
		return fmt.Errorf("%w: %s is declared by both %q and %q", ErrDuplicateType, name, prev, specName)
	}
	g.declared[name] = specName
	return nil
}

func (g *GoDeclarer) field(name string, fd model.FieldDecl) jen.Code {
	s := &jen.Statement{}
	for _, line := range commentLines(fd.Attributes, true) {
		s.Comment(line).Line()
	}

	typ := fd.TypeName
	if goType, ok := g.types[typ]; ok {
		typ = goType
	}
	s.Id(name).Id(typ)

	if tags := fieldTags(fd.Attributes); len(tags) > 0 {
		s.Tag(tags)
	}
	return s
}

// goName maps an identifier to Go. Under NamingVisibility a visibility token
// makes the name exported, its absence makes it unexported.
func (g *GoDeclarer) goName(name, visibility string) string {
	if g.opts.Naming == NamingVerbatim {
		return name
	}
	var out string
	if model.Exported(visibility) {
		out = strcase.ToCamel(name)
	} else {
		out = strcase.ToLowerCamel(name)
	}
	if out == "" {
		out = name
	}
	if token.IsKeyword(out) {
		out += "_"
	}
	return out
}

// commentLines renders doc, deprecation and marker attributes as comment
// lines. Struct tag attributes are skipped on fields.
func commentLines(attrs []model.Attribute, onField bool) []string {
	lines := make([]string, 0, len(attrs))
	for _, a := range attrs {
		switch classifyAttribute(a, onField) {
		case attrDoc:
			v, _ := a.Value()
			lines = append(lines, strings.Split(v, "\n")...)
		case attrDeprecated:
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			if v, ok := a.Value(); ok && v != "" {
				lines = append(lines, "Deprecated: "+v)
			} else {
				lines = append(lines, "Deprecated: do not use.")
			}
		case attrMarker:
			lines = append(lines, "+"+a.Raw)
		}
	}
	return lines
}

func fieldTags(attrs []model.Attribute) map[string]string {
	tags := make(map[string]string)
	for _, a := range attrs {
		if classifyAttribute(a, true) != attrTag {
			continue
		}
		v, _ := a.Value()
		tags[a.Name] = v
	}
	return tags
}
