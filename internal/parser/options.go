package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	NamingVisibility = "visibility"
	NamingVerbatim   = "verbatim"
)

// Options control parsing, flattening and rendering.
//
// InFiles       – .nest files to parse, in order.
// InDir         – directory scanned (recursively) for *.nest files.
// OutDir        – output directory.
// OutFile       – output filename.
// Package       – package clause of the generated file; defaults to base(OutDir).
// MaxDepth      – nesting limit for bodies; 0 means DefaultMaxDepth.
// Naming        – "visibility" maps visibility to Go exportedness, "verbatim" keeps names.
// PluralAliases – emit `type Plural []Name` after every generated struct.
// PointerSlice  – plural aliases hold pointers: `type Plural []*Name`.
// ExcludeTypes  – generated types not to declare (case‑insensitive), because
// the host package already provides them.
type Options struct {
	InFiles       []string `json:"in_files,omitempty" yaml:"in_files,omitempty" mapstructure:"in_files,omitempty"`
	InDir         string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	OutDir        string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	OutFile       string   `json:"out_file,omitempty" yaml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	Package       string   `json:"package,omitempty" yaml:"package,omitempty" mapstructure:"package,omitempty"`
	MaxDepth      int      `json:"max_depth,omitempty" yaml:"max_depth,omitempty" mapstructure:"max_depth,omitempty"`
	Naming        string   `json:"naming,omitempty" yaml:"naming,omitempty" mapstructure:"naming,omitempty"`
	PluralAliases bool     `json:"plural_aliases,omitempty" yaml:"plural_aliases,omitempty" mapstructure:"plural_aliases,omitempty"`
	PointerSlice  bool     `json:"pointer_slice,omitempty" yaml:"pointer_slice,omitempty" mapstructure:"pointer_slice,omitempty"`
	ExcludeTypes  []string `json:"exclude_types,omitempty" yaml:"exclude_types,omitempty" mapstructure:"exclude_types,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		OutDir:   "model",
		OutFile:  "nest_gen.go",
		MaxDepth: DefaultMaxDepth,
		Naming:   NamingVisibility,
	}
}

// Normalize fills defaults and validates the combination of options.
func (o *Options) Normalize() error {
	if o.InDir != "" {
		if abs, err := filepath.Abs(o.InDir); err == nil {
			o.InDir = abs
		}
	}
	if len(o.OutDir) == 0 {
		o.OutDir = "model"
	}
	if len(o.OutFile) == 0 {
		o.OutFile = "nest_gen.go"
	}
	if o.Package == "" {
		o.Package = packageName(o.OutDir)
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}

	switch o.Naming = strings.ToLower(strings.TrimSpace(o.Naming)); o.Naming {
	case "":
		o.Naming = NamingVisibility
	case NamingVisibility, NamingVerbatim:
	default:
		return fmt.Errorf("invalid naming %q: want %q or %q", o.Naming, NamingVisibility, NamingVerbatim)
	}

	if o.PointerSlice && !o.PluralAliases {
		o.PluralAliases = true
	}

	types := make([]string, 0, len(o.ExcludeTypes))
	for _, t := range o.ExcludeTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	o.ExcludeTypes = types

	return nil
}

// packageName derives a package clause from a directory name.
func packageName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && b.Len() > 0) || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "model"
	}
	return b.String()
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInFiles(files ...string) Option {
	return func(o *Options) { o.InFiles = append(o.InFiles, files...) }
}
func WithInDir(d string) Option     { return func(o *Options) { o.InDir = d } }
func WithOutDir(d string) Option    { return func(o *Options) { o.OutDir = d } }
func WithOutFile(f string) Option   { return func(o *Options) { o.OutFile = f } }
func WithPackage(p string) Option   { return func(o *Options) { o.Package = p } }
func WithMaxDepth(n int) Option     { return func(o *Options) { o.MaxDepth = n } }
func WithNaming(n string) Option    { return func(o *Options) { o.Naming = n } }
func WithVerbatimNames() Option     { return WithNaming(NamingVerbatim) }
func WithPluralAliases(pointers ...bool) Option {
	return func(o *Options) {
		o.PluralAliases = true
		if len(pointers) > 0 {
			o.PointerSlice = pointers[0]
		}
	}
}
func WithExcludeTypes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.ExcludeTypes = append(o.ExcludeTypes, strings.TrimSpace(n))
		}
	}
}
