package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kfcybersecurity/msp-portal/internal/infrastructure/db"
	"github.com/kfcybersecurity/msp-portal/internal/pkg/config"
	"github.com/kfcybersecurity/msp-portal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "mspd",
	Short:         "MSP portal API server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// setup loads the configuration, initialises the global logger and opens
// the store. The caller owns closing the store.
func setup(ctx context.Context) (*config.Config, *db.Store, error) {
	cfg := config.Load()

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "mspd",
	})

	store, err := db.Open(ctx, cfg, logger.Get())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	return cfg, store, nil
}
