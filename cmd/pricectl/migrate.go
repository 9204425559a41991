package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/foxxcyber/bid-pricing/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.DB.Enabled() {
			return errors.New("BIDPRICING_DATABASE_URL is not set")
		}

		ctx := cmd.Context()
		db, err := database.Connect(ctx, cfg.DB, logg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
		logg.Info(ctx, "migrations applied")
		return nil
	},
}
