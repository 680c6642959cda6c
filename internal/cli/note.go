package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/shared"
)

var (
	noteListTag     string
	noteListKeyword string
	noteListSource  string
	noteListLimit   int
	noteListRemote  bool
	noteListCursor  int
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
	Long:  `Create, list, edit and delete notes. Writes go to the API first, then the local cache is updated.`,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached notes",
	Long:  `Display notes from the local cache. Use --remote to fetch a page straight from the API instead.`,
	RunE:  runNoteList,
}

var noteShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

var noteAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Create a new note",
	Long:  `Create a new note on the remote service. Words prefixed with # become tags.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNoteAdd,
}

var noteEditCmd = &cobra.Command{
	Use:   "edit [id] [text]",
	Short: "Replace the text of a note",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runNoteEdit,
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteDelete,
}

func init() {
	noteListCmd.Flags().StringVar(&noteListTag, "tag", "", "filter by tag")
	noteListCmd.Flags().StringVar(&noteListKeyword, "keyword", "", "filter by keyword in text")
	noteListCmd.Flags().StringVar(&noteListSource, "source", "", "filter by source")
	noteListCmd.Flags().IntVar(&noteListLimit, "limit", 50, "maximum number of notes to display")
	noteListCmd.Flags().BoolVar(&noteListRemote, "remote", false, "fetch from the API instead of the cache")
	noteListCmd.Flags().IntVar(&noteListCursor, "cursor", -1, "cursor for --remote paging (-1 newest, 0 all)")

	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteEditCmd)
	noteCmd.AddCommand(noteDeleteCmd)
}

func runNoteList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var notes []*models.Note
	if noteListRemote {
		page, err := client.NotesAt(ctx, noteListCursor)
		if err != nil {
			return fmt.Errorf("failed to fetch notes: %w", err)
		}
		for i := range page.Notes {
			notes = append(notes, &page.Notes[i])
		}
	} else {
		var err error
		notes, err = store.ListNotes(ctx, shared.NoteFilter{
			Tag:     noteListTag,
			Keyword: noteListKeyword,
			Source:  noteListSource,
			Limit:   noteListLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}
	}

	if len(notes) == 0 {
		fmt.Printf("%sNo notes found. Use '%s' to pull from the API.%s\n", WarningStyle, FormatSecondary("snaptic sync"), Reset)
		return nil
	}

	printNoteTable(notes)
	fmt.Printf("\n%sTotal: %s notes%s\n", InfoStyle, FormatCount(len(notes)), Reset)

	return nil
}

func printNoteTable(notes []*models.Note) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tTEXT\tTAGS\tMEDIA\tMODIFIED%s\n", LabelStyle, Reset)
	fmt.Fprintf(w, "%s──\t────\t────\t─────\t────────%s\n", DimStyle, Reset)

	for _, note := range notes {
		media := "-"
		if note.HasMedia() {
			media = fmt.Sprintf("%d", len(note.Media))
		}

		tags := strings.Join(note.Tags, ",")
		if len(tags) > 20 {
			tags = tags[:17] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			FormatSecondary(strconv.FormatInt(note.ID, 10)),
			FormatValue(truncate(note.Text, 50)),
			FormatSecondary(tags),
			FormatDim(media),
			FormatMeta(formatTime(note.ModifiedAt)),
		)
	}

	w.Flush()
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note id: %s", args[0])
	}

	note, err := store.GetNote(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	fmt.Printf("%sNote Details%s\n", FormatHeader(""), Reset)
	fmt.Printf("%s============%s\n", DimStyle, Reset)
	fmt.Printf("%sID: %s\n", LabelStyle, FormatSecondary(strconv.FormatInt(note.ID, 10)))
	fmt.Printf("%sSource: %s\n", LabelStyle, FormatSecondary(note.Source))
	fmt.Printf("%sTags: %s\n", LabelStyle, FormatSecondary(strings.Join(note.Tags, ", ")))
	fmt.Printf("%sCreated: %s\n", LabelStyle, FormatMeta(note.CreatedAt.Format(time.RFC3339)))
	fmt.Printf("%sModified: %s\n", LabelStyle, FormatMeta(note.ModifiedAt.Format(time.RFC3339)))
	if note.HasMedia() {
		fmt.Printf("%sMedia:%s\n", LabelStyle, Reset)
		for _, m := range note.Media {
			fmt.Printf("  %s%s %d (%dx%d)%s\n", MetaStyle, m.Type, m.ID, m.Width, m.Height, Reset)
		}
	}
	fmt.Printf("\n%sText:%s\n", SuccessStyle, Reset)
	fmt.Printf("%s─────%s\n", DimStyle, Reset)
	fmt.Printf("%s\n", FormatValue(note.Text))

	return nil
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	text := strings.Join(args, " ")

	note, err := client.PostNote(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	if err := store.UpsertNote(ctx, note); err != nil {
		fmt.Printf("%s⚠️  Note created but cache update failed: %v%s\n", WarningStyle, err, Reset)
	}

	fmt.Printf("%s✅ Created note %s%s\n", SuccessStyle, strconv.FormatInt(note.ID, 10), Reset)
	return nil
}

func runNoteEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note id: %s", args[0])
	}
	text := strings.Join(args[1:], " ")

	note, err := client.EditNote(ctx, id, text)
	if err != nil {
		return fmt.Errorf("failed to edit note: %w", err)
	}

	if err := store.UpsertNote(ctx, note); err != nil {
		fmt.Printf("%s⚠️  Note updated but cache update failed: %v%s\n", WarningStyle, err, Reset)
	}

	fmt.Printf("%s✅ Updated note %s%s\n", SuccessStyle, strconv.FormatInt(note.ID, 10), Reset)
	return nil
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note id: %s", args[0])
	}

	if err := client.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if err := store.DeleteNote(ctx, id); err != nil {
		fmt.Printf("%s⚠️  Note deleted but cache update failed: %v%s\n", WarningStyle, err, Reset)
	}

	fmt.Printf("%s✅ Deleted note %s%s\n", SuccessStyle, args[0], Reset)
	return nil
}
