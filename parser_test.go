package main

import (
	"bytes"
	"encoding/json"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/cmmoran/nestgen/pkg/parser"
)

func TestParse(ttt *testing.T) {
	inDir := "testdata/fixtures/canonical"
	type args struct {
		opts []Option
	}
	tests := []struct {
		name      string
		args      args
		wantTypes []string
		typeCheck bool
		wantErr   bool
	}{
		{
			name: "parse with defaults",
			args: args{
				opts: []Option{WithInDir(inDir)},
			},
			wantTypes: []string{"Account", "Profile", "Avatar", "settings", "Order", "Line", "Note"},
			typeCheck: true,
		},
		{
			name: "parse with plural aliases",
			args: args{
				opts: []Option{WithInDir(inDir), WithPluralAliases()},
			},
			wantTypes: []string{
				"Account", "Accounts", "Profile", "Profiles", "Avatar", "Avatars", "settings",
				"Order", "Orders", "Line", "Lines", "Note", "Notes",
			},
			typeCheck: true,
		},
		{
			name: "parse with verbatim names",
			args: args{
				opts: []Option{WithInDir(inDir), WithVerbatimNames()},
			},
			wantTypes: []string{"Account", "Profile", "Avatar", "settings", "Order", "Line", "Note"},
		},
		{
			name: "parse with excludetype",
			args: args{
				opts: []Option{WithInDir(inDir), WithExcludeTypes("avatar")},
			},
			wantTypes: []string{"Account", "Profile", "settings", "Order", "Line", "Note"},
		},
		{
			name: "parse with maxdepth=1",
			args: args{
				opts: []Option{WithInDir(inDir), WithMaxDepth(1)},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := NewOptions()
			for _, fn := range tt.args.opts {
				fn(o)
			}
			jsbyt, _ := json.MarshalIndent(o, "", "  ")
			t.Logf("Options: %v", string(jsbyt))

			got, err := New(tt.args.opts...)
			require.NoError(t, err)
			err = got.Parse()
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				require.Empty(t, got.Decls)
				return
			}

			f, err := got.GenerateFile()
			require.NoError(t, err)
			outBuf := new(bytes.Buffer)
			require.NoError(t, f.Render(outBuf))

			fset := token.NewFileSet()
			file, err := goparser.ParseFile(fset, got.Opts.OutFile, outBuf.Bytes(), goparser.ParseComments)
			require.NoError(t, err, outBuf.String())
			require.Equal(t, got.Opts.Package, file.Name.Name)

			names := make([]string, 0)
			ast.Inspect(file, func(n ast.Node) bool {
				if ts, ok := n.(*ast.TypeSpec); ok {
					names = append(names, ts.Name.Name)
				}
				return true
			})
			require.Equal(t, tt.wantTypes, names, outBuf.String())

			if tt.typeCheck {
				_, err = (&types.Config{}).Check(file.Name.Name, fset, []*ast.File{file}, nil)
				require.NoError(t, err, outBuf.String())
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	decls, err := Flatten(`struct S { @nested(#[C]) f: N { x: u32 } }`)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	require.Equal(t, "S", decls[0].Name)
	require.Equal(t, []FieldDecl{{Name: "f", TypeName: "N"}}, decls[0].Fields)
	require.Equal(t, "N", decls[1].Name)
	require.Equal(t, "C", decls[1].Attributes[0].Raw)
	require.Equal(t, []FieldDecl{{Name: "x", TypeName: "u32"}}, decls[1].Fields)

	_, err = Flatten(`struct S { x u32 }`)
	require.ErrorIs(t, err, ErrSpecSyntax)
}
