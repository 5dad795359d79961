package main

import (
	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/pkg/registry"
)

func newDeleteCmd() *cobra.Command {
	var (
		pattern   string
		exclude   string
		recursive bool
		dryRun    bool
		doBackup  bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "delete matched files",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &registry.DeleteParams{Root: flagRoot}

			flags := cmd.Flags()
			if flags.Changed("pattern") {
				params.Pattern = &pattern
			}
			if flags.Changed("exclude") {
				params.Exclude = &exclude
			}
			if flags.Changed("recursive") {
				params.Recursive = &recursive
			}
			if flags.Changed("dry-run") {
				params.DryRun = &dryRun
			}
			if flags.Changed("backup") {
				params.Backup = &doBackup
			}

			return runOperation(cmd, params, jsonOut)
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "glob pattern selecting files (required)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "comma-separated exclude patterns")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "descend into subdirectories")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "preview the plan without touching any file")
	cmd.Flags().BoolVar(&doBackup, "backup", true, "copy originals into the backup directory first")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the structured result as JSON")

	return cmd
}
