package generate

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cmmoran/nestgen/pkg/parser"
)

// Render parses and flattens the configured inputs and returns the rendered
// Go source without touching the output file.
func Render(opts *parser.Options) (*parser.Parser, []byte, error) {
	par, err := parser.NewWithOpts(opts)
	if err != nil {
		return nil, nil, err
	}
	if err = par.Parse(); err != nil {
		return nil, nil, err
	}
	f, err := par.GenerateFile()
	if err != nil {
		return nil, nil, err
	}
	buf := new(bytes.Buffer)
	if err = f.Render(buf); err != nil {
		return nil, nil, fmt.Errorf("render: %w", err)
	}
	return par, buf.Bytes(), nil
}

// OutputPath is where Generate writes for opts.
func OutputPath(opts *parser.Options) string {
	return filepath.Clean(filepath.Join(opts.OutDir, opts.OutFile))
}

// Generate renders the configured inputs and writes OutDir/OutFile. Nothing
// is written when parsing, flattening or rendering fails.
func Generate(opts *parser.Options) (string, error) {
	par, src, err := Render(opts)
	if err != nil {
		return "", err
	}
	*opts = par.Opts

	if err = os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	outFile := OutputPath(opts)
	if err = os.WriteFile(outFile, src, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}

	slog.With("file", outFile, "sources", len(par.Sources), "types", len(par.Decls)).Info("generated")
	return outFile, nil
}
