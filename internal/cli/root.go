// Package cli wires the orderdesk storage commands: migrate, status, and
// seed. The startup contract is connect, migrate, seed, in that order;
// hosts embed the same sequence before serving requests.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/orderdesk/internal/config"
	"github.com/example/orderdesk/internal/database"
)

// RootOptions holds flags shared by every command.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
}

// NewRootCommand creates the orderdesk root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "orderdesk",
		Short:         "Storage layer tooling for the orderdesk service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		NewMigrateCommand(opts),
		NewStatusCommand(opts),
		NewSeedCommand(opts),
	)
	return cmd
}

// newLogger builds the process logger: JSON to stdout.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// connect loads configuration and opens the single backend connection. The
// returned cleanup closes it.
func connect(ctx context.Context, opts *RootOptions, logger *slog.Logger) (config.Config, *database.DB, func(), error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	db, err := database.Connect(ctx, cfg.DatabaseTarget, cfg.DatabaseOptions(logger))
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	cleanup := func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}
	return cfg, db, cleanup, nil
}
