package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var imageOutput string

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage note images",
}

var imageAttachCmd = &cobra.Command{
	Use:   "attach [note-id] [file]",
	Short: "Attach an image file to a note",
	Args:  cobra.ExactArgs(2),
	RunE:  runImageAttach,
}

var imageFetchCmd = &cobra.Command{
	Use:   "fetch [image-id]",
	Short: "Download an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runImageFetch,
}

func init() {
	imageFetchCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "output file (defaults to <image-id>.jpg)")

	imageCmd.AddCommand(imageAttachCmd)
	imageCmd.AddCommand(imageFetchCmd)
}

func runImageAttach(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	noteID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note id: %s", args[0])
	}

	if err := client.AttachImageFile(ctx, noteID, args[1]); err != nil {
		return fmt.Errorf("failed to attach image: %w", err)
	}

	fmt.Printf("%s✅ Attached %s to note %s%s\n", SuccessStyle, args[1], args[0], Reset)
	return nil
}

func runImageFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid image id: %s", args[0])
	}

	data, err := client.Image(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}

	output := imageOutput
	if output == "" {
		output = args[0] + ".jpg"
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	fmt.Printf("%s✅ Saved %s bytes to %s%s\n", SuccessStyle, FormatCount(len(data)), output, Reset)
	return nil
}
