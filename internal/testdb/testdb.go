// Package testdb provides utilities specifically for database testing.
// It maintains a clean dependency structure by only depending on the
// embedded migrations and standard database packages.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/grouplib/library-api/migrations"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

var (
	dbOnce   sync.Once
	sharedDB *sql.DB
	dbErr    error
)

// GetTestDatabaseURL returns the database URL for tests.
// It checks DATABASE_URL and LIBRARY_TEST_DB_URL environment variables
// in that order, returning the first non-empty value.
func GetTestDatabaseURL() string {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("LIBRARY_TEST_DB_URL")
	}
	return dbURL
}

// GetTestDBWithT returns a migrated database connection for testing.
// It automatically skips the test if no test database URL is set, so the
// integration suite degrades to a no-op outside a database environment.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL or LIBRARY_TEST_DB_URL not set - skipping integration test")
	}

	dbOnce.Do(func() {
		sharedDB, dbErr = sql.Open("pgx", dbURL)
		if dbErr != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		if dbErr = sharedDB.PingContext(ctx); dbErr != nil {
			return
		}

		goose.SetBaseFS(migrations.FS)
		if dbErr = goose.SetDialect("postgres"); dbErr != nil {
			return
		}
		dbErr = goose.Up(sharedDB, ".")
	})

	require.NoError(t, dbErr, "Failed to set up test database")
	return sharedDB
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
