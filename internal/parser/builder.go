package parser

import (
	"fmt"

	"github.com/cmmoran/nestgen/internal/model"
)

// Builder flattens StructSpec trees into ordered, independent StructDecls.
type Builder struct {
	opts *Options
}

// NewBuilder initializes a Builder. A nil opts uses the defaults.
func NewBuilder(opts *Options) *Builder {
	if opts == nil {
		opts = NewOptions()
	}
	return &Builder{opts: opts}
}

// BuildAll flattens every spec in order. It is all or nothing: on error no
// declarations are returned.
func (b *Builder) BuildAll(specs []*model.StructSpec) ([]*model.StructDecl, error) {
	out := make([]*model.StructDecl, 0, len(specs))
	for _, spec := range specs {
		decls, err := b.Build(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, decls...)
	}
	return out, nil
}

// Build emits the declaration for spec followed, for each composite field in
// order, by the full flattening of that field's body (pre-order).
func (b *Builder) Build(spec *model.StructSpec) ([]*model.StructDecl, error) {
	if spec == nil {
		return nil, &SpecSyntaxError{Msg: "nil struct specification"}
	}
	out := make([]*model.StructDecl, 0, 1+len(spec.Fields))
	if err := b.build(spec, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) build(spec *model.StructSpec, depth int, out *[]*model.StructDecl) error {
	if limit := b.maxDepth(); depth > limit {
		return &DepthExhaustedError{Name: spec.Name, Depth: depth, Limit: limit}
	}
	if spec.Name == "" {
		return &SpecSyntaxError{Pos: spec.Pos, Msg: "struct without a name"}
	}

	decl := &model.StructDecl{
		Attributes: cloneAttributes(spec.Attributes),
		Visibility: spec.Visibility,
		Name:       spec.Name,
		Fields:     make([]model.FieldDecl, 0, len(spec.Fields)),
	}
	for _, f := range spec.Fields {
		if err := validateField(spec.Name, f); err != nil {
			return err
		}
		decl.Fields = append(decl.Fields, model.FieldDecl{
			Visibility: f.Visibility,
			Attributes: cloneAttributes(f.Attributes),
			Name:       f.Name,
			TypeName:   f.TypeName,
		})
	}
	*out = append(*out, decl)

	for _, f := range spec.Fields {
		if !f.IsComposite() {
			continue
		}
		if err := b.build(f.Spec(), depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) maxDepth() int {
	if b.opts.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return b.opts.MaxDepth
}

// validateField rejects trees the parser would never produce.
func validateField(owner string, f *model.FieldSpec) error {
	switch {
	case f == nil:
		return &SpecSyntaxError{Msg: fmt.Sprintf("nil field in struct %q", owner)}
	case f.Name == "":
		return &SpecSyntaxError{Pos: f.Pos, Msg: fmt.Sprintf("field without a name in struct %q", owner)}
	case f.TypeName == "":
		return &SpecSyntaxError{Pos: f.Pos, Msg: fmt.Sprintf("field %q in struct %q has no type", f.Name, owner)}
	}
	return nil
}

func cloneAttributes(in []model.Attribute) []model.Attribute {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Attribute, len(in))
	copy(out, in)
	return out
}
