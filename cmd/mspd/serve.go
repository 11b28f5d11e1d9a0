package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kfcybersecurity/msp-portal/internal/api"
	"github.com/kfcybersecurity/msp-portal/internal/api/handler"
	"github.com/kfcybersecurity/msp-portal/internal/core/service"
	"github.com/kfcybersecurity/msp-portal/internal/infrastructure/db/redis"
	"github.com/kfcybersecurity/msp-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var (
	migrateOnStart bool
	seedOnStart    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply schema and indexes before serving")
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "run the seeder before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, store, err := setup(ctx)
	if err != nil {
		return err
	}
	log := logger.Get()
	defer store.Close(context.Background())

	if migrateOnStart {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}
	if seedOnStart {
		if err := runSeed(cmd, cfg, store, log); err != nil {
			return err
		}
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	sessions := redis.NewSessionStore(rdb)
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)

	e := api.NewRouter(api.Dependencies{
		Auth:          service.NewAuthService(store.Users, store.Clients, sessions, tokens, log),
		Authenticator: service.NewGate(store.Users, sessions, tokens),
		Registry:      service.NewRegistryService(store.Clients, store.Services, log),
		Deployments:   service.NewDeploymentService(store.Deployments, store.Clients, store.Services, log),
		Checks: []handler.Check{
			{Name: store.Driver, Ping: store.Ping},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", store.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
