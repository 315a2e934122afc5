package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/nestgen/pkg/action/generate"
	"github.com/cmmoran/nestgen/pkg/parser"
)

func TestCheck(t *testing.T) {
	in := t.TempDir()
	spec := filepath.Join(in, "s.nest")
	require.NoError(t, os.WriteFile(spec, []byte(`pub struct S { pub x: int }`), 0o644))

	newOpts := func() *parser.Options {
		o := parser.NewOptions()
		o.InDir = in
		o.OutDir = filepath.Join(in, "model")
		return o
	}

	_, err := Check(newOpts())
	require.ErrorIs(t, err, ErrStale)

	_, err = generate.Generate(newOpts())
	require.NoError(t, err)

	diff, err := Check(newOpts())
	require.NoError(t, err)
	require.Empty(t, diff)

	require.NoError(t, os.WriteFile(spec, []byte(`pub struct S { pub x: int, pub y: bool }`), 0o644))
	diff, err = Check(newOpts())
	require.ErrorIs(t, err, ErrStale)
	require.Contains(t, diff, "bool")
}
