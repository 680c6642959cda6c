package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/models"
)

var tagListRemote bool

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
	Long:  `Display the tags known for the account, with usage counts.`,
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	RunE:  runTagList,
}

func init() {
	tagListCmd.Flags().BoolVar(&tagListRemote, "remote", false, "fetch from the API instead of the cache")
	tagCmd.AddCommand(tagListCmd)
}

func runTagList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var tags []models.Tag
	var err error
	if tagListRemote {
		tags, err = client.Tags(ctx)
	} else {
		tags, err = store.ListTags(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}

	if len(tags) == 0 {
		fmt.Printf("%sNo tags found.%s\n", WarningStyle, Reset)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sNAME\tCOUNT%s\n", LabelStyle, Reset)
	fmt.Fprintf(w, "%s────\t─────%s\n", DimStyle, Reset)
	for _, tag := range tags {
		fmt.Fprintf(w, "%s\t%s\n", FormatValue(tag.Name), FormatCount(tag.Count))
	}
	w.Flush()

	fmt.Printf("\n%sTotal: %s tags%s\n", InfoStyle, FormatCount(len(tags)), Reset)
	return nil
}
