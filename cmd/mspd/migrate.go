package main

import (
	"github.com/spf13/cobra"

	"github.com/kfcybersecurity/msp-portal/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, store, err := setup(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		if err := store.Migrate(ctx); err != nil {
			return err
		}
		log := logger.Get()
		log.Info().Str("driver", store.Driver).Msg("migration complete")
		return nil
	},
}
