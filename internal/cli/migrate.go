package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/orderdesk/internal/database/migrate"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply every migration unit not yet recorded in the ledger, in name
order, one transaction per unit. A failed unit rolls back completely and
aborts the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(rootOpts.Verbose)
			ctx := cmd.Context()

			cfg, db, cleanup, err := connect(ctx, rootOpts, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			return migrate.New(db, cfg.MigrationsDir, logger).Run(ctx)
		},
	}
}
