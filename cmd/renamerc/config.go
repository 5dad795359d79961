package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "show the effective configuration with per-key provenance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ulog := status.NewUserLogger(ctx)

			eff, err := resolveConfig(ctx, ulog)
			if err != nil {
				return err
			}

			for _, key := range eff.Keys() {
				val, _ := eff.Get(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%-45s %-12v %s\n",
					color.New(color.FgCyan).Sprint(key),
					val,
					color.New(color.Faint).Sprintf("(%s)", eff.Provenance(key)))
			}
			return nil
		},
	}

	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

// newConfigInitCmd writes default config documents to both locations,
// skipping any that already exist.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "write default global and local config files where missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ulog := status.NewUserLogger(ctx)

			globalPath, err := config.GlobalPath(flagConfigName)
			if err != nil {
				return err
			}

			for _, path := range []string{globalPath, config.LocalPath(flagRoot, flagConfigName)} {
				created, err := writeDefaultConfig(path)
				if err != nil {
					return err
				}
				if created {
					ulog.Success("wrote default config to %s", path)
				} else {
					ulog.Info("config already exists at %s", path)
				}
			}
			return nil
		},
	}
}

func writeDefaultConfig(path string) (bool, error) {
	if _, err := os.Lstat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(config.Builtin().Values)
	if err != nil {
		return false, errors.Errorf("encoding default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, errors.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
