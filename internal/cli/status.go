package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/orderdesk/internal/database/migrate"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(rootOpts.Verbose)
			ctx := cmd.Context()

			cfg, db, cleanup, err := connect(ctx, rootOpts, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			status, err := migrate.New(db, cfg.MigrationsDir, logger).Status(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "applied (%d):\n", len(status.Applied))
			for _, a := range status.Applied {
				fmt.Fprintf(out, "  %s\t%s\n", a.Name, a.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(out, "pending (%d):\n", len(status.Pending))
			for _, u := range status.Pending {
				fmt.Fprintf(out, "  %s\n", u.Name)
			}
			return nil
		},
	}
}
