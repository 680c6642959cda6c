package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show the authenticated account",
	Long:  `Fetch the account profile from the API and refresh the cached copy.`,
	RunE:  runUser,
}

func runUser(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	user, err := client.User(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := store.SaveUser(ctx, user); err != nil {
		fmt.Printf("%s⚠️  Cache update failed: %v%s\n", WarningStyle, err, Reset)
	}

	fmt.Printf("%sAccount%s\n", FormatHeader(""), Reset)
	fmt.Printf("%s=======%s\n", DimStyle, Reset)
	fmt.Printf("%sID: %s\n", LabelStyle, FormatSecondary(strconv.FormatInt(user.ID, 10)))
	fmt.Printf("%sUsername: %s\n", LabelStyle, FormatValue(user.UserName))
	fmt.Printf("%sEmail: %s\n", LabelStyle, FormatValue(user.Email))
	if user.CreatedAt != nil {
		fmt.Printf("%sCreated: %s\n", LabelStyle, FormatMeta(user.CreatedAt.Format(time.RFC3339)))
	}

	return nil
}
