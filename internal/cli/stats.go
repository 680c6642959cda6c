package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View cache statistics",
	Long:  `View statistics about the cached notes: counts, top tags and sources.`,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	stats, err := statsService.CacheStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Printf("%s📊 Cache Statistics%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===================%s\n", DimStyle, Reset)
	fmt.Println()

	fmt.Printf("%sNotes: %s\n", LabelStyle, FormatCount(stats.TotalNotes))
	fmt.Printf("%sWith media: %s\n", LabelStyle, FormatCount(stats.WithMedia))
	if stats.LastSync != nil {
		fmt.Printf("%sLast sync: %s\n", LabelStyle, FormatMeta(formatTime(*stats.LastSync)))
	} else {
		fmt.Printf("%sLast sync: %s\n", LabelStyle, FormatWarning("never"))
	}
	fmt.Println()

	if len(stats.TopTags) > 0 {
		fmt.Printf("%sTop Tags%s\n", TitleStyle, Reset)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%sRANK\tTAG\tNOTES%s\n", LabelStyle, Reset)
		fmt.Fprintf(w, "%s────\t───\t─────%s\n", DimStyle, Reset)
		for i, tag := range stats.TopTags {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				FormatCount(i+1),
				FormatValue(tag.Tag),
				FormatCount(tag.Count),
			)
		}
		w.Flush()
		fmt.Println()
	}

	if len(stats.BySource) > 0 {
		fmt.Printf("%sBy Source%s\n", TitleStyle, Reset)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%sSOURCE\tNOTES%s\n", LabelStyle, Reset)
		fmt.Fprintf(w, "%s──────\t─────%s\n", DimStyle, Reset)
		for _, source := range stats.BySource {
			fmt.Fprintf(w, "%s\t%s\n",
				FormatValue(source.Source),
				FormatCount(source.Count),
			)
		}
		w.Flush()
	}

	return nil
}
