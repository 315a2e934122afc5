package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/nestgen/pkg/action/check"
)

func init() {
	rootCmd.AddCommand(NewCheckCommand())
}

func NewCheckCommand() *cobra.Command {
	// checkCmd represents the nestgen check command
	var checkCmd = &cobra.Command{
		Use:   "check [files...]",
		Short: "verify generated types are up to date",
		Long:  "Regenerate in memory and fail with a diff when the file on disk differs",
		PreRunE: func(c *cobra.Command, _ []string) error {
			return bindGenerateFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := check.Check(optionsFromConfig(args))
			if diff != "" {
				c.Println(diff)
			}
			return err
		},
	}
	addGenerateFlags(checkCmd)

	return checkCmd
}
