// Package sqldbtest provides throwaway SQLite databases for tests of code
// built on sqldb.
package sqldbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kfcybersecurity/msp-portal/internal/infrastructure/db/sqldb"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
// It is closed when the test ends.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sqldb.Open(ctx, sqldb.Config{Driver: sqldb.DriverSQLite, DSN: dsn, MaxOpenConns: 1}, zerolog.Nop())
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := sqldb.Migrate(ctx, db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() { _ = sqldb.Close(db) })
	return db
}
