package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionsNormalize(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    Options
		wantErr bool
	}{
		{
			name: "defaults",
			want: Options{
				OutDir:       "model",
				OutFile:      "nest_gen.go",
				Package:      "model",
				MaxDepth:     DefaultMaxDepth,
				Naming:       NamingVisibility,
				ExcludeTypes: []string{},
			},
		},
		{
			name: "package from out dir",
			opts: Options{OutDir: "gen/api-v2", Naming: " Verbatim "},
			want: Options{
				OutDir:       "gen/api-v2",
				OutFile:      "nest_gen.go",
				Package:      "apiv2",
				MaxDepth:     DefaultMaxDepth,
				Naming:       NamingVerbatim,
				ExcludeTypes: []string{},
			},
		},
		{
			name: "pointer slice implies plural aliases",
			opts: Options{PointerSlice: true, MaxDepth: 4, ExcludeTypes: []string{" A ", "", "B"}},
			want: Options{
				OutDir:        "model",
				OutFile:       "nest_gen.go",
				Package:       "model",
				MaxDepth:      4,
				Naming:        NamingVisibility,
				PluralAliases: true,
				PointerSlice:  true,
				ExcludeTypes:  []string{"A", "B"},
			},
		},
		{
			name:    "unknown naming",
			opts:    Options{Naming: "snake"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			err := o.Normalize()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, o)
		})
	}
}

func TestOptionsNormalizeInDir(t *testing.T) {
	o := Options{InDir: "specs"}
	require.NoError(t, o.Normalize())
	require.True(t, filepath.IsAbs(o.InDir))
	require.Equal(t, "specs", filepath.Base(o.InDir))
}

func TestPackageName(t *testing.T) {
	require.Equal(t, "model", packageName("."))
	require.Equal(t, "api", packageName("./out/API"))
	require.Equal(t, "v1", packageName("v1"))
	require.Equal(t, "model", packageName("123"))
}

func TestFunctionalOptions(t *testing.T) {
	p, err := New(
		WithInFiles("a.nest"),
		WithInFiles("b.nest"),
		WithOutDir("out"),
		WithOutFile("types.go"),
		WithPackage("types"),
		WithMaxDepth(7),
		WithPluralAliases(true),
		WithExcludeTypes(" Skip "),
	)
	require.NoError(t, err)
	require.Equal(t, []string{"a.nest", "b.nest"}, p.Opts.InFiles)
	require.Equal(t, "out", p.Opts.OutDir)
	require.Equal(t, "types.go", p.Opts.OutFile)
	require.Equal(t, "types", p.Opts.Package)
	require.Equal(t, 7, p.Opts.MaxDepth)
	require.True(t, p.Opts.PluralAliases)
	require.True(t, p.Opts.PointerSlice)
	require.Equal(t, []string{"Skip"}, p.Opts.ExcludeTypes)

	_, err = New(WithNaming("bogus"))
	require.Error(t, err)
}
