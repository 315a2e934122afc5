package check

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/nestgen/pkg/action/generate"
	"github.com/cmmoran/nestgen/pkg/parser"
)

var ErrStale = errors.New("generated file is stale")

// Check renders the configured inputs in memory and compares the result with
// the file on disk. It returns the diff and ErrStale when they differ.
func Check(opts *parser.Options) (string, error) {
	par, want, err := generate.Render(opts)
	if err != nil {
		return "", err
	}
	*opts = par.Opts
	outFile := generate.OutputPath(opts)

	got, err := os.ReadFile(outFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s does not exist", ErrStale, outFile)
	}
	if err != nil {
		return "", fmt.Errorf("read generated file: %w", err)
	}

	if diff := cmp.Diff(string(got), string(want)); diff != "" {
		slog.With("file", outFile).Warn("generated file is stale")
		return diff, fmt.Errorf("%w: %s", ErrStale, outFile)
	}
	return "", nil
}
