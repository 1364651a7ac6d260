package main

import (
	"clientdesk/cmd/internal/config"
	"clientdesk/cmd/internal/domain/database"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setLogLevel(cfg.LogLevel)

			db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Infof("%s database migrated", cfg.DBDriver)
			return nil
		},
	}
}
