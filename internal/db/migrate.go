package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/snaptic/go-snaptic/internal/logger"
)

// RunMigrations applies the versioned SQL migrations to a sqlite cache.
// The mongodb backend is schemaless and needs none.
func RunMigrations(ctx context.Context, db *sql.DB, migrationsDir string) error {
	absPath, err := resolveMigrationsDir(migrationsDir)
	if err != nil {
		return err
	}
	logger.Debug("Applying cache migrations from %s", absPath)

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	sourceURL := "file://" + absPath
	if !strings.HasPrefix(absPath, "/") {
		sourceURL = "file:///" + absPath
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read cache schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("cache schema is dirty at version %d, restore or recreate the cache file", version)
	}

	logger.Info("Cache schema at version %d", version)
	return nil
}

// resolveMigrationsDir falls back from the container path to the source tree
// when no directory is given.
func resolveMigrationsDir(dir string) (string, error) {
	if dir == "" {
		dir = "/migrations"
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			workDir, _ := os.Getwd()
			dir = filepath.Join(workDir, "internal", "db", "migrations")
		}
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("migrations directory not found: %s", absPath)
	}
	return absPath, nil
}
