package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	flagRoot       string
	flagDebug      bool
	flagConfigName string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "renamerc",
		Short:         "pattern-driven batch file renaming and deletion",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "directory to operate on")
	cmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flagConfigName, "config-name", config.FileName, "config document name looked up globally and locally")

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(setupLogging(cmd.Context()))
	}

	cmd.AddCommand(newRenameCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newScriptsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// setupLogging configures zerolog based on flags and scopes the logger to
// the command context.
func setupLogging(ctx context.Context) context.Context {
	level := zerolog.InfoLevel
	if flagDebug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

// resolveConfig loads and merges the three configuration layers. A layer
// that fails to parse is reported as a warning and treated as empty; the
// run continues on the remaining layers.
func resolveConfig(ctx context.Context, ulog *status.UserLogger) (*config.Effective, error) {
	layers := []config.Layer{config.Builtin()}

	globalPath, err := config.GlobalPath(flagConfigName)
	if err != nil {
		return nil, errors.Errorf("locating global config: %w", err)
	}
	layers = append(layers, loadLayer(ctx, ulog, globalPath, config.SourceGlobal))
	layers = append(layers, loadLayer(ctx, ulog, config.LocalPath(flagRoot, flagConfigName), config.SourceLocal))

	return config.Resolve(layers...), nil
}

func loadLayer(ctx context.Context, ulog *status.UserLogger, path string, source config.Source) config.Layer {
	layer, err := config.LoadLayer(ctx, path, source)
	if err != nil {
		ulog.Warning("ignoring %s config: %v", source, err)
	}
	return layer
}
