package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"menu-service/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.DB.AutoMigrate = true

		ctx, stop := signalContext()
		defer stop()
		db, err := connectDB(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		log.Info().Msg("Catalog tables are up to date")
		return nil
	},
}
