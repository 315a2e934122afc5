package parser

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/nestgen/internal/model"
)

// SpecExt is the file extension scanned for in Options.InDir.
const SpecExt = ".nest"

// Source is one named .nest input.
type Source struct {
	Name string
	Text string
}

// Parser holds state/results of a parse run.
type Parser struct {
	Opts Options

	Sources []Source
	Specs   []*model.StructSpec
	Decls   []*model.StructDecl
}

// New executes the parser with opts.
func New(opts ...Option) (*Parser, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Parser, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}

	p := &Parser{
		Opts:    *opts,
		Sources: make([]Source, 0),
		Specs:   make([]*model.StructSpec, 0),
		Decls:   make([]*model.StructDecl, 0),
	}

	return p, nil
}

// Parse reads every configured input, parses and flattens it. Results are
// published only when every input succeeded, and replace those of any
// earlier run.
func (p *Parser) Parse() error {
	return p.ParseContext(context.Background())
}

func (p *Parser) ParseContext(ctx context.Context) error {
	files, err := p.inputFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrNoInput
	}

	sources := make([]Source, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read spec: %w", err)
			}
			sources[i] = Source{Name: file, Text: string(data)}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	return p.parseSources(ctx, sources)
}

// ParseSource parses in-memory text as if it were a single input file.
func (p *Parser) ParseSource(name, text string) error {
	return p.parseSources(context.Background(), []Source{{Name: name, Text: text}})
}

func (p *Parser) parseSources(ctx context.Context, sources []Source) error {
	parsed := make([][]*model.StructSpec, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			specs, err := ParseSpecs(src.Name, src.Text, p.Opts.MaxDepth)
			if err != nil {
				return err
			}
			parsed[i] = specs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	specs := make([]*model.StructSpec, 0)
	for i, s := range parsed {
		slog.Debug("parsed spec file", "file", sources[i].Name, "structs", len(s))
		specs = append(specs, s...)
	}

	decls, err := NewBuilder(&p.Opts).BuildAll(specs)
	if err != nil {
		return err
	}

	p.Sources = sources
	p.Specs = specs
	p.Decls = decls
	return nil
}

// inputFiles lists InFiles followed by the sorted *.nest files under InDir,
// without duplicates.
func (p *Parser) inputFiles() ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0, len(p.Opts.InFiles))
	add := func(f string) {
		clean := filepath.Clean(f)
		if seen[clean] {
			return
		}
		seen[clean] = true
		out = append(out, clean)
	}

	for _, f := range p.Opts.InFiles {
		add(f)
	}

	if p.Opts.InDir == "" {
		return out, nil
	}
	found := make([]string, 0)
	err := filepath.WalkDir(p.Opts.InDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), SpecExt) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.Opts.InDir, err)
	}
	sort.Strings(found)
	for _, f := range found {
		add(f)
	}
	return out, nil
}

// GenerateFile materializes the flattened declarations as a Go file.
func (p *Parser) GenerateFile() (*jen.File, error) {
	f := jen.NewFile(p.Opts.Package)
	f.HeaderComment(generatedHeader)

	d := NewGoDeclarer(f, &p.Opts, p.Decls)
	if err := Declare(d, p.Decls); err != nil {
		return nil, err
	}
	return f, nil
}
