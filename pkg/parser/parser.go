// Package parser is the public entry point to nestgen: it parses .nest
// specifications, flattens nested struct bodies into independent
// declarations and renders them as Go source.
package parser

import (
	"github.com/cmmoran/nestgen/internal/model"
	internal "github.com/cmmoran/nestgen/internal/parser"
)

type (
	Parser              = internal.Parser
	Options             = internal.Options
	Option              = internal.Option
	Builder             = internal.Builder
	Declarer            = internal.Declarer
	GoDeclarer          = internal.GoDeclarer
	SpecSyntaxError     = internal.SpecSyntaxError
	DepthExhaustedError = internal.DepthExhaustedError

	StructSpec = model.StructSpec
	FieldSpec  = model.FieldSpec
	StructDecl = model.StructDecl
	FieldDecl  = model.FieldDecl
	Attribute  = model.Attribute
)

const (
	DefaultMaxDepth  = internal.DefaultMaxDepth
	NamingVisibility = internal.NamingVisibility
	NamingVerbatim   = internal.NamingVerbatim
)

var (
	ErrSpecSyntax     = internal.ErrSpecSyntax
	ErrDepthExhausted = internal.ErrDepthExhausted
	ErrDuplicateType  = internal.ErrDuplicateType
	ErrNoInput        = internal.ErrNoInput
)

var (
	New         = internal.New
	NewWithOpts = internal.NewWithOpts
	NewOptions  = internal.NewOptions
	NewBuilder  = internal.NewBuilder
	ParseSpec   = internal.ParseSpec
	ParseSpecs  = internal.ParseSpecs

	WithInFiles       = internal.WithInFiles
	WithInDir         = internal.WithInDir
	WithOutDir        = internal.WithOutDir
	WithOutFile       = internal.WithOutFile
	WithPackage       = internal.WithPackage
	WithMaxDepth      = internal.WithMaxDepth
	WithNaming        = internal.WithNaming
	WithVerbatimNames = internal.WithVerbatimNames
	WithPluralAliases = internal.WithPluralAliases
	WithExcludeTypes  = internal.WithExcludeTypes
)

// Flatten parses src and returns its flattened declarations in emission order.
func Flatten(src string, opts ...Option) ([]*StructDecl, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err = p.ParseSource("", src); err != nil {
		return nil, err
	}
	return p.Decls, nil
}
