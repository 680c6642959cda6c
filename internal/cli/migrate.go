package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/db"
	"github.com/snaptic/go-snaptic/internal/db/sqlite"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage cache schema migrations",
	Long:  `Run schema migrations against the SQLite cache. MongoDB caches are schemaless and need no migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

func init() {
	migrateUpCmd.Flags().StringVar(&migrateDir, "dir", "", "migrations directory (defaults to internal/db/migrations)")
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sqliteStore, ok := store.(*sqlite.SQLite)
	if !ok {
		return fmt.Errorf("migrations only apply to the sqlite cache provider")
	}

	fmt.Println("🔄 Running cache migrations...")
	if err := db.RunMigrations(ctx, sqliteStore.DB(), migrateDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("✅ Migrations completed successfully!")
	return nil
}
