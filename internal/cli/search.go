package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/models"
)

var (
	searchTag   string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search cached notes by keyword",
	Long:  `Search the local cache for notes whose text or summary contains the keyword.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchTag, "tag", "t", "", "restrict results to a tag")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 50, "maximum number of results to display")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	keyword := args[0]

	fmt.Printf("%s🔍 Searching for: \"%s\"%s\n", HeaderStyle, CountStyle+keyword+Reset, Reset)
	fmt.Println()

	result, err := statsService.Search(ctx, models.SearchRequest{
		Keyword: keyword,
		Tag:     searchTag,
		Limit:   searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if result.Total == 0 {
		fmt.Printf("%sNo matches found.%s\n", WarningStyle, Reset)
		return nil
	}

	notes := make([]*models.Note, 0, len(result.Notes))
	for i := range result.Notes {
		notes = append(notes, &result.Notes[i])
	}
	printNoteTable(notes)

	fmt.Printf("\n%sTotal: %s matches%s\n", InfoStyle, FormatCount(result.Total), Reset)
	return nil
}
