package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func TestRunMigrations(t *testing.T) {
	sqlDB := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, sqlDB, "migrations"))

	var name string
	err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'notes'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "notes", name)

	// applying a second time is a no-op
	require.NoError(t, RunMigrations(ctx, sqlDB, "migrations"))
}

func TestRunMigrationsMissingDir(t *testing.T) {
	sqlDB := openTestDB(t)

	err := RunMigrations(context.Background(), sqlDB, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory not found")
}
