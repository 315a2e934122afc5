package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var nestLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Directive", Pattern: `@[a-zA-Z_]\w*`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Punct", Pattern: `[^\w\s]`},
})

var (
	symbols      = nestLexer.Symbols()
	tokComment   = symbols["Comment"]
	tokSpace     = symbols["Whitespace"]
	tokString    = symbols["String"]
	tokDirective = symbols["Directive"]
	tokIdent     = symbols["Ident"]
)

// tokenize lexes src and drops comments and whitespace. The returned slice
// always ends with an EOF token.
func tokenize(filename, src string) ([]lexer.Token, error) {
	lex, err := nestLexer.LexString(filename, src)
	if err != nil {
		return nil, err
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, &SpecSyntaxError{Pos: lexer.Position{Filename: filename}, Msg: err.Error()}
	}
	out := make([]lexer.Token, 0, len(all))
	for _, t := range all {
		if t.Type == tokComment || t.Type == tokSpace {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 || !out[len(out)-1].EOF() {
		out = append(out, lexer.Token{Type: lexer.EOF, Pos: lexer.Position{Filename: filename, Offset: len(src)}})
	}
	return out, nil
}
