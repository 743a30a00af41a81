package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/orderdesk/internal/database/migrate"
	"github.com/example/orderdesk/internal/seed"
)

// NewSeedCommand creates the seed command. Seeding runs migrations first so
// the startup contract (connect, migrate, seed) holds even when invoked
// directly.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate, then insert bootstrap data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(rootOpts.Verbose)
			ctx := cmd.Context()

			cfg, db, cleanup, err := connect(ctx, rootOpts, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := migrate.New(db, cfg.MigrationsDir, logger).Run(ctx); err != nil {
				return err
			}
			return seed.Run(ctx, db, logger, cfg.AdminEmail, cfg.AdminPassword)
		},
	}
}
