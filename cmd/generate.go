package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/nestgen/pkg/action/generate"
	"github.com/cmmoran/nestgen/pkg/parser"
)

// generateFlags maps command flags to their viper keys.
var generateFlags = map[string]string{
	"input-directory":  "generate.in_dir",
	"output-directory": "generate.out_dir",
	"output-file":      "generate.out_file",
	"package":          "generate.package",
	"max-depth":        "generate.max_depth",
	"naming":           "generate.naming",
	"plural":           "generate.plural_aliases",
	"pointer-slice":    "generate.pointer_slice",
	"exclude-types":    "generate.exclude_types",
}

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the nestgen generate command
	var generateCmd = &cobra.Command{
		Use:     "generate [files...]",
		Aliases: []string{"gen"},
		Short:   "generate Go types",
		Long:    "Parse .nest specifications, flatten nested structs and write the Go declarations",
		PreRunE: func(c *cobra.Command, _ []string) error {
			return bindGenerateFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			out, err := generate.Generate(optionsFromConfig(args))
			if err != nil {
				return err
			}
			c.Println(out)
			return nil
		},
	}
	addGenerateFlags(generateCmd)

	return generateCmd
}

func addGenerateFlags(c *cobra.Command) {
	defaults := parser.NewOptions()
	c.Flags().StringP("input-directory", "d", "", "directory scanned for *.nest files")
	c.Flags().StringP("output-directory", "o", defaults.OutDir, "directory to write generated types")
	c.Flags().StringP("output-file", "f", defaults.OutFile, "output file where types will be written")
	c.Flags().StringP("package", "p", "", "package name of the generated file (default: output directory name)")
	c.Flags().Int("max-depth", defaults.MaxDepth, "maximum nesting depth of struct bodies")
	c.Flags().String("naming", defaults.Naming, "identifier naming: visibility (pub → exported) or verbatim")
	c.Flags().Bool("plural", false, "emit a plural slice type for every generated struct")
	c.Flags().Bool("pointer-slice", false, "plural slice types hold pointers (implies --plural)")
	c.Flags().StringSliceP("exclude-types", "t", []string{}, "generated types not to declare because the package already provides them")
}

// bindGenerateFlags binds the flags of the command being run. Binding happens
// at run time because several commands share the same keys.
func bindGenerateFlags(c *cobra.Command) error {
	for flag, key := range generateFlags {
		if err := viper.BindPFlag(key, c.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// optionsFromConfig builds Options with flag > env > config > default precedence.
func optionsFromConfig(args []string) *parser.Options {
	o := parser.NewOptions()
	o.InFiles = append(viper.GetStringSlice("generate.in_files"), args...)
	o.InDir = viper.GetString("generate.in_dir")
	o.OutDir = viper.GetString("generate.out_dir")
	o.OutFile = viper.GetString("generate.out_file")
	o.Package = viper.GetString("generate.package")
	o.MaxDepth = viper.GetInt("generate.max_depth")
	o.Naming = viper.GetString("generate.naming")
	o.PluralAliases = viper.GetBool("generate.plural_aliases")
	o.PointerSlice = viper.GetBool("generate.pointer_slice")
	o.ExcludeTypes = viper.GetStringSlice("generate.exclude_types")
	return o
}
