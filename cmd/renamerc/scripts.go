package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/pkg/registry"
)

func newScriptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "list the registered operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, h := range registry.Handlers() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
					color.New(color.Bold, color.FgCyan).Sprint(h.Name),
					h.Summary)
				fmt.Fprintf(cmd.OutOrStdout(), "    config keys: %s\n",
					color.New(color.Faint).Sprint(strings.Join(h.ConfigKeys, ", ")))
			}
			return nil
		},
	}
}
