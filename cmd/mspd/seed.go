package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kfcybersecurity/msp-portal/internal/core/service"
	"github.com/kfcybersecurity/msp-portal/internal/infrastructure/db"
	"github.com/kfcybersecurity/msp-portal/internal/pkg/config"
	"github.com/kfcybersecurity/msp-portal/pkg/logger"
)

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the service catalog, the bootstrap admin and optional demo tenants",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, store, err := setup(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		if err := store.Migrate(ctx); err != nil {
			return err
		}
		if cmd.Flags().Changed("demo") {
			cfg.Seed.Demo = seedDemo
		}
		return runSeed(cmd, cfg, store, logger.Get())
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create the sample tenants (overrides SEED_DEMO)")
}

func runSeed(cmd *cobra.Command, cfg *config.Config, store *db.Store, log zerolog.Logger) error {
	seeder := service.NewSeeder(store.Users, store.Clients, store.Services, store.Deployments, log)
	_, err := seeder.Run(cmd.Context(), service.SeedOptions{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		Demo:          cfg.Seed.Demo,
	})
	return err
}
