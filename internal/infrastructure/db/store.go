// Package db opens the configured persistence backend and exposes its
// repositories behind the core ports.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
	"github.com/kfcybersecurity/msp-portal/internal/infrastructure/db/mongo"
	"github.com/kfcybersecurity/msp-portal/internal/infrastructure/db/sqldb"
	"github.com/kfcybersecurity/msp-portal/internal/pkg/config"
)

// Store bundles the repositories of one backend.
type Store struct {
	Users       ports.UserRepository
	Clients     ports.ClientRepository
	Services    ports.ServiceRepository
	Deployments ports.DeploymentRepository

	// Driver names the backend in logs and readiness output.
	Driver string

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the backend named by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres, config.StoreSQLite:
		return openSQL(ctx, cfg, log)
	case config.StoreMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Migrate creates or updates the schema and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

func openSQL(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	gdb, err := sqldb.Open(ctx, sqldb.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN}, log)
	if err != nil {
		return nil, err
	}
	return &Store{
		Users:       sqldb.NewUserRepository(gdb),
		Clients:     sqldb.NewClientRepository(gdb),
		Services:    sqldb.NewServiceRepository(gdb),
		Deployments: sqldb.NewDeploymentRepository(gdb),
		Driver:      cfg.Store.Driver,
		ping:        func(ctx context.Context) error { return sqldb.Ping(ctx, gdb) },
		migrate:     func(ctx context.Context) error { return sqldb.Migrate(ctx, gdb) },
		close:       func(context.Context) error { return sqldb.Close(gdb) },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	return &Store{
		Users:       mongo.NewUserRepository(mdb),
		Clients:     mongo.NewClientRepository(mdb),
		Services:    mongo.NewServiceRepository(mdb),
		Deployments: mongo.NewDeploymentRepository(mdb),
		Driver:      config.StoreMongo,
		ping:        func(ctx context.Context) error { return client.Ping(ctx, nil) },
		migrate:     func(ctx context.Context) error { return mongo.EnsureIndexes(ctx, mdb) },
		close:       client.Disconnect,
	}, nil
}
