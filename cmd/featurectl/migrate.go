package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/featuretrail/internal/adapter/postgres"
	"github.com/heartmarshall/featuretrail/internal/app"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)

			applied, err := postgres.Migrate(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			logger.Info("migrations applied", slog.Any("versions", applied))
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
			return nil
		},
	}
}
