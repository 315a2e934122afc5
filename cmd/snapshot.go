package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/nestgen/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	// snapshotCmd represents the nestgen snapshot command
	var snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "manage generated snapshots",
		Long:  "Record, list and diff versioned snapshots of generated types",
	}
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "nestgen.manifest.yaml", "manifest file tracking snapshots")

	var name, ver string
	var recordCmd = &cobra.Command{
		Use:   "record [files...]",
		Short: "generate and record a snapshot",
		PreRunE: func(c *cobra.Command, _ []string) error {
			return bindGenerateFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			out, err := snapshot.Generate(optionsFromConfig(args), manifestPath, name, ver)
			if err != nil {
				return err
			}
			c.Println(out)
			return nil
		},
	}
	addGenerateFlags(recordCmd)
	recordCmd.Flags().StringVar(&name, "name", "", "snapshot name (default: package name)")
	recordCmd.Flags().StringVar(&ver, "version", "", "snapshot semantic version, ex: v1.2.0")
	_ = recordCmd.MarkFlagRequired("version")

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			for _, s := range m.Sorted() {
				marker := " "
				if s.Version == m.CurrentVersion {
					marker = "*"
				}
				c.Printf("%s %s %s %s\n", marker, s.Name, s.Version, s.File)
			}
			return nil
		},
	}

	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			c.Println(diff)
			return nil
		},
	}

	snapshotCmd.AddCommand(recordCmd, listCmd, diffCmd)
	return snapshotCmd
}
