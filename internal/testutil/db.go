// Package testutil provides test utilities for database setup.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"registration/internal/store"
)

// NewStore returns a migrated SQLite store in the test's temp dir. It is
// closed automatically when the test ends.
func NewStore(t *testing.T) *store.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "registration.db")
	require.NoError(t, store.Migrate(store.DriverSQLite, dsn))

	db, err := store.NewDB(context.Background(), store.DriverSQLite, dsn, store.PoolOptions{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CountRows returns the number of rows in the users table.
func CountRows(t *testing.T, db *store.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.Client.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	return n
}
