package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSpecs(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, text := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeSpecs(t, dir, map[string]string{
		"b.nest":       `struct B { x: u8 }`,
		"a.nest":       `struct A { f: F { y: u8 } }`,
		"sub/c.NEST":   `struct C {}`,
		"ignored.txt":  `not a spec`,
		"sub/d.nest":   `struct D {} struct E {}`,
		"sub/z/z.nest": `struct Z {}`,
	})

	p, err := New(WithInDir(dir))
	require.NoError(t, err)
	require.NoError(t, p.Parse())

	require.Len(t, p.Sources, 5)
	require.Equal(t, filepath.Join(dir, "a.nest"), p.Sources[0].Name)
	require.Equal(t, []string{"A", "F", "B", "C", "D", "E", "Z"}, declNames(p.Decls))
	require.Len(t, p.Specs, 6)
}

func TestParseInFilesFirst(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(t.TempDir(), "extra.nest")
	writeSpecs(t, dir, map[string]string{"a.nest": `struct A {}`})
	require.NoError(t, os.WriteFile(extra, []byte(`struct X {}`), 0o644))

	// a file listed explicitly and found by the scan is read once
	p, err := New(WithInFiles(extra, filepath.Join(dir, "a.nest")), WithInDir(dir))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	require.Equal(t, []string{"X", "A"}, declNames(p.Decls))
}

func TestParseFailureIsAtomic(t *testing.T) {
	dir := t.TempDir()
	writeSpecs(t, dir, map[string]string{
		"a.nest": `struct A { x: u8 }`,
		"b.nest": `struct B { x u8 }`,
	})

	p, err := New(WithInDir(dir))
	require.NoError(t, err)
	err = p.Parse()
	require.ErrorIs(t, err, ErrSpecSyntax)
	require.Contains(t, err.Error(), "b.nest")
	require.Empty(t, p.Sources)
	require.Empty(t, p.Specs)
	require.Empty(t, p.Decls)
}

func TestParseDepthLimit(t *testing.T) {
	p, err := New(WithMaxDepth(1))
	require.NoError(t, err)

	err = p.ParseSource("deep.nest", `struct S { a: A { b: B {} } }`)
	require.ErrorIs(t, err, ErrDepthExhausted)
	require.Empty(t, p.Decls)

	require.NoError(t, p.ParseSource("ok.nest", `struct S { a: A {} }`))
	require.Equal(t, []string{"S", "A"}, declNames(p.Decls))
}

func TestParseNoInput(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	require.ErrorIs(t, p.Parse(), ErrNoInput)

	p, err = New(WithInDir(t.TempDir()))
	require.NoError(t, err)
	require.ErrorIs(t, p.Parse(), ErrNoInput)
}

func TestParseMissingFile(t *testing.T) {
	p, err := New(WithInFiles(filepath.Join(t.TempDir(), "missing.nest")))
	require.NoError(t, err)
	require.ErrorIs(t, p.Parse(), os.ErrNotExist)
}

func TestParseContextCanceled(t *testing.T) {
	dir := t.TempDir()
	writeSpecs(t, dir, map[string]string{"a.nest": `struct A {}`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := New(WithInDir(dir))
	require.NoError(t, err)
	require.ErrorIs(t, p.ParseContext(ctx), context.Canceled)
	require.Empty(t, p.Decls)
}

func TestParseReplacesEarlierResults(t *testing.T) {
	dir := t.TempDir()
	writeSpecs(t, dir, map[string]string{"a.nest": `struct A { f: F {} }`})

	p, err := New(WithInDir(dir))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	require.NoError(t, p.Parse())
	require.Len(t, p.Sources, 1)
	require.Len(t, p.Specs, 1)
	require.Equal(t, []string{"A", "F"}, declNames(p.Decls))

	_, err = p.GenerateFile()
	require.NoError(t, err)

	require.NoError(t, p.ParseSource("b.nest", `struct B {}`))
	require.Equal(t, []string{"B"}, declNames(p.Decls))
	require.Equal(t, "b.nest", p.Sources[0].Name)
}
