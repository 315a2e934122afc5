package parser

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/cmmoran/nestgen/internal/model"
)

// DefaultMaxDepth bounds body nesting when no limit is configured.
const DefaultMaxDepth = 128

// specParser is a recursive-descent parser over the token stream of a single
// .nest source.
type specParser struct {
	src      string
	toks     []lexer.Token
	pos      int
	maxDepth int
}

// ParseSpec parses src, which must hold exactly one struct specification.
func ParseSpec(src string) (*model.StructSpec, error) {
	specs, err := ParseSpecs("", src, DefaultMaxDepth)
	if err != nil {
		return nil, err
	}
	if len(specs) != 1 {
		return nil, &SpecSyntaxError{Msg: fmt.Sprintf("expected exactly one struct specification, found %d", len(specs))}
	}
	return specs[0], nil
}

// ParseSpecs parses every struct specification in src. On error no
// specification is returned.
func ParseSpecs(filename, src string, maxDepth int) ([]*model.StructSpec, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	toks, err := tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	p := &specParser{src: src, toks: toks, maxDepth: maxDepth}

	specs := make([]*model.StructSpec, 0)
	for !p.peek().EOF() {
		s, err := p.structSpec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// StructSpec := Attribute* Visibility "struct" Name "{" FieldList? "}"
func (p *specParser) structSpec() (*model.StructSpec, error) {
	start := p.peek()
	attrs, err := p.attributes()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type == tokDirective {
		return nil, p.errorf(t, "%s is only allowed on fields", t.Value)
	}
	vis, err := p.visibility()
	if err != nil {
		return nil, err
	}
	if kw := p.next(); kw.Type != tokIdent || kw.Value != "struct" {
		return nil, p.errorf(kw, "expected \"struct\", found %s", describe(kw))
	}
	name, err := p.ident("struct name")
	if err != nil {
		return nil, err
	}
	fields, err := p.body(name.Value, 0)
	if err != nil {
		return nil, err
	}
	return &model.StructSpec{
		Attributes: attrs,
		Visibility: vis,
		Name:       name.Value,
		Fields:     fields,
		Pos:        start.Pos,
	}, nil
}

// body parses "{" FieldList? "}" where FieldList := Field ("," Field)* ","?
func (p *specParser) body(owner string, depth int) ([]*model.FieldSpec, error) {
	if open := p.next(); !isPunct(open, "{") {
		return nil, p.errorf(open, "expected \"{\" after %q, found %s", owner, describe(open))
	}

	fields := make([]*model.FieldSpec, 0)
	for {
		if isPunct(p.peek(), "}") {
			p.next()
			return fields, nil
		}
		f, err := p.field(depth)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)

		switch t := p.peek(); {
		case isPunct(t, ","):
			p.next()
		case isPunct(t, "}"):
		default:
			return nil, p.errorf(t, "expected \",\" or \"}\" after field %q, found %s", f.Name, describe(t))
		}
	}
}

// Field := NestedAttr* Attribute* Visibility Name ":" TypeName Body?
func (p *specParser) field(depth int) (*model.FieldSpec, error) {
	start := p.peek()

	nested := make([]model.Attribute, 0)
	for p.peek().Type == tokDirective {
		a, err := p.nestedAttribute()
		if err != nil {
			return nil, err
		}
		nested = append(nested, a)
	}

	attrs, err := p.attributes()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type == tokDirective {
		return nil, p.errorf(t, "%s must precede field attributes", t.Value)
	}

	vis, err := p.visibility()
	if err != nil {
		return nil, err
	}
	name, err := p.ident("field name")
	if err != nil {
		return nil, err
	}
	if colon := p.next(); !isPunct(colon, ":") {
		return nil, p.errorf(colon, "expected \":\" after field %q, found %s", name.Value, describe(colon))
	}
	typ, err := p.ident("type of field " + name.Value)
	if err != nil {
		return nil, err
	}

	f := &model.FieldSpec{
		NestedAttributes: nested,
		Attributes:       attrs,
		Visibility:       vis,
		Name:             name.Value,
		TypeName:         typ.Value,
		Kind:             model.KindLeaf,
		Pos:              start.Pos,
	}

	if isPunct(p.peek(), "{") {
		if depth+1 > p.maxDepth {
			return nil, &DepthExhaustedError{Name: typ.Value, Depth: depth + 1, Limit: p.maxDepth}
		}
		body, err := p.body(typ.Value, depth+1)
		if err != nil {
			return nil, err
		}
		f.Kind = model.KindComposite
		f.Body = body
	}

	// a leaf has no body to carry @nested attributes
	if len(nested) > 0 && f.Kind != model.KindComposite {
		slog.Debug("dropping @nested attributes on leaf field", "field", f.Name, "pos", start.Pos.String())
		f.NestedAttributes = make([]model.Attribute, 0)
	}

	return f, nil
}

// NestedAttr := "@nested" "(" Attribute ")"
func (p *specParser) nestedAttribute() (model.Attribute, error) {
	d := p.next()
	if d.Value != "@nested" {
		return model.Attribute{}, p.errorf(d, "unknown directive %s", d.Value)
	}
	if open := p.next(); !isPunct(open, "(") {
		return model.Attribute{}, p.errorf(open, "expected \"(\" after @nested, found %s", describe(open))
	}
	a, err := p.attribute()
	if err != nil {
		return model.Attribute{}, err
	}
	if closing := p.next(); !isPunct(closing, ")") {
		return model.Attribute{}, p.errorf(closing, "expected \")\" to close @nested, found %s", describe(closing))
	}
	return a, nil
}

func (p *specParser) attributes() ([]model.Attribute, error) {
	out := make([]model.Attribute, 0)
	for isPunct(p.peek(), "#") {
		a, err := p.attribute()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Attribute := "#" "[" <balanced tokens> "]"
func (p *specParser) attribute() (model.Attribute, error) {
	hash := p.next()
	if !isPunct(hash, "#") {
		return model.Attribute{}, p.errorf(hash, "expected attribute, found %s", describe(hash))
	}
	open := p.next()
	if !isPunct(open, "[") {
		return model.Attribute{}, p.errorf(open, "expected \"[\" after \"#\", found %s", describe(open))
	}
	closing, err := p.balanced(open)
	if err != nil {
		return model.Attribute{}, err
	}
	raw := strings.TrimSpace(p.src[open.Pos.Offset+1 : closing.Pos.Offset])
	if raw == "" {
		return model.Attribute{}, p.errorf(open, "empty attribute")
	}
	name, args := splitAttribute(raw)
	return model.Attribute{Raw: raw, Name: name, Args: args, Pos: hash.Pos}, nil
}

// Visibility := ( "pub" ( "(" <balanced tokens> ")" )? )?
func (p *specParser) visibility() (string, error) {
	t := p.peek()
	if t.Type != tokIdent || t.Value != "pub" {
		return "", nil
	}
	p.next()
	if !isPunct(p.peek(), "(") {
		return "pub", nil
	}
	open := p.next()
	closing, err := p.balanced(open)
	if err != nil {
		return "", err
	}
	return "pub" + p.src[open.Pos.Offset:closing.Pos.Offset+1], nil
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// balanced consumes tokens up to the delimiter closing open. Inner (), []
// and {} pairs must match.
func (p *specParser) balanced(open lexer.Token) (lexer.Token, error) {
	stack := []lexer.Token{open}
	for {
		t := p.next()
		top := stack[len(stack)-1]
		switch {
		case t.EOF():
			return t, p.errorf(top, "unclosed %q", top.Value)
		case t.Type == tokString:
		case closers[t.Value] != "":
			stack = append(stack, t)
		case t.Value == ")" || t.Value == "]" || t.Value == "}":
			if want := closers[top.Value]; t.Value != want {
				return t, p.errorf(t, "expected %q to close %q, found %q", want, top.Value, t.Value)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return t, nil
			}
		}
	}
}

func (p *specParser) ident(what string) (lexer.Token, error) {
	t := p.next()
	if t.Type != tokIdent {
		return t, p.errorf(t, "expected %s, found %s", what, describe(t))
	}
	return t, nil
}

func (p *specParser) peek() lexer.Token {
	return p.toks[p.pos]
}

func (p *specParser) next() lexer.Token {
	t := p.toks[p.pos]
	if !t.EOF() {
		p.pos++
	}
	return t
}

func (p *specParser) errorf(t lexer.Token, format string, args ...any) error {
	return &SpecSyntaxError{Pos: t.Pos, Msg: fmt.Sprintf(format, args...)}
}

func isPunct(t lexer.Token, v string) bool {
	return !t.EOF() && t.Type != tokString && t.Value == v
}

func describe(t lexer.Token) string {
	if t.EOF() {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Value)
}

// splitAttribute splits `name(args)` or `name = args` into its parts.
func splitAttribute(raw string) (name, args string) {
	i := strings.IndexFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if i < 0 {
		return raw, ""
	}
	name = raw[:i]
	rest := strings.TrimSpace(raw[i:])
	switch {
	case strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")"):
		args = strings.TrimSpace(rest[1 : len(rest)-1])
	case strings.HasPrefix(rest, "="):
		args = strings.TrimSpace(rest[1:])
	default:
		args = rest
	}
	return name, args
}
