package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"traffic-dashboard-backend/internal/config"
	"traffic-dashboard-backend/internal/store"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and seed demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.DB.Dialect == config.DialectMemory {
				fmt.Fprintln(cmd.OutOrStdout(), "db.dialect is memory, nothing to migrate")
				return nil
			}

			st, err := store.Open(cmd.Context(), cfg.DB.Dialect, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", cfg.DB.Dialect)
			return nil
		},
	}
}
