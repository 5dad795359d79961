package main

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/pkg/engine"
	"github.com/walteh/renamerc/pkg/registry"
	"github.com/walteh/renamerc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func newRenameCmd() *cobra.Command {
	var (
		pattern   string
		prefix    string
		suffix    string
		replace   string
		format    string
		exclude   string
		outputDir string
		recursive bool
		dryRun    bool
		doBackup  bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "rename matched files by prefix/suffix, replace rule, or format template",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &registry.RenameParams{Root: flagRoot}

			// Only flags the user actually set reach the params; unset
			// fields draw their defaults from the resolved config.
			flags := cmd.Flags()
			if flags.Changed("pattern") {
				params.Pattern = &pattern
			}
			if flags.Changed("prefix") {
				params.Prefix = &prefix
			}
			if flags.Changed("suffix") {
				params.Suffix = &suffix
			}
			if flags.Changed("replace") {
				params.Replace = &replace
			}
			if flags.Changed("format") {
				params.Format = &format
			}
			if flags.Changed("exclude") {
				params.Exclude = &exclude
			}
			if flags.Changed("output-dir") {
				params.OutputDir = &outputDir
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

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "*", "glob pattern selecting files, e.g. \"*.{txt,jpg}\"")
	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix added to the file stem")
	cmd.Flags().StringVar(&suffix, "suffix", "", "suffix added to the file stem")
	cmd.Flags().StringVar(&replace, "replace", "", "literal stem replacement as old=new")
	cmd.Flags().StringVar(&format, "format", "", "name template, e.g. \"{stem}_{index:03d}{ext}\"")
	cmd.Flags().StringVar(&exclude, "exclude", "", "comma-separated exclude patterns")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "move renamed files into this directory")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "descend into subdirectories")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "preview the plan without touching any file")
	cmd.Flags().BoolVar(&doBackup, "backup", true, "copy originals into the backup directory first")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the structured result as JSON")

	return cmd
}

// runOperation resolves config, builds the request, runs the engine and
// renders the result. The process exit status reflects Result.Success.
func runOperation(cmd *cobra.Command, params registry.Params, jsonOut bool) error {
	ctx := cmd.Context()
	ulog := status.NewUserLogger(ctx)

	eff, err := resolveConfig(ctx, ulog)
	if err != nil {
		return err
	}

	req, err := params.Request(eff)
	if err != nil {
		ulog.Error(err, "invalid parameters")
		return err
	}

	reporter := status.NewConsoleReporter(os.Stdout, *zerolog.Ctx(ctx))
	eng := engine.New(engine.Options{Reporter: reporter})

	result, err := eng.Execute(ctx, req)
	if err != nil {
		ulog.Error(err, "batch aborted")
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return errors.Errorf("encoding result: %w", err)
		}
	}

	if !result.Success {
		return errors.Errorf("completed with %d error(s)", result.Errors)
	}
	return nil
}
