package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"run"},
	Short:   "Pull notes, tags and the account profile into the cache",
	Long:  `Walk the remote cursor pages and mirror all notes, tags and the account profile into the local cache.`,
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("%s🔄 Syncing from %s...%s\n", InfoStyle, client.Host(), Reset)

	run, err := syncService.Sync(ctx, "")
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	duration := time.Duration(run.DurationMs) * time.Millisecond
	fmt.Printf("%s✅ Synced %s notes and %s tags in %s%s\n",
		SuccessStyle, FormatCount(run.Notes), FormatCount(run.Tags), duration, Reset)

	return nil
}
