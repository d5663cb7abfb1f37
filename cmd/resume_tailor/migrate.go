package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/db"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			if e.cfg.Database.URL == "" {
				return fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
			}
			ctx := cmd.Context()
			database, err := db.Connect(ctx, e.cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			if err := database.Migrate(ctx); err != nil {
				return err
			}
			names, err := db.MigrationNames()
			if err != nil {
				return err
			}
			e.logger.Info("migrations applied", zap.Strings("migrations", names))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations\n", len(names))
			return nil
		},
	}
}
