package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/checks"
)

var (
	checkSuiteFile string
	checkImageFile string
	checkNoRecord  bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run acceptance checks against the configured host",
	Long: `Run the acceptance check suite against the API host from your config file.

Exits with a non-zero status if any check fails, so it can gate deployments.
Results are recorded in the local cache unless --no-record is given.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkSuiteFile, "suite", "", "check suite file (YAML), defaults to the built-in suite")
	checkCmd.Flags().StringVar(&checkImageFile, "image", "", "image file for the image_roundtrip check")
	checkCmd.Flags().BoolVar(&checkNoRecord, "no-record", false, "do not record results in the cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	suite, err := loadCheckSuite()
	if err != nil {
		return err
	}
	if checkImageFile != "" {
		suite.ImageFile = checkImageFile
	}

	fmt.Printf("%s🔍 Running %s checks against %s%s\n",
		InfoStyle, FormatCount(len(suite.Checks)), client.Host(), Reset)
	fmt.Println()

	recordStore := store
	if checkNoRecord {
		recordStore = nil
	}

	runner := checks.NewRunner(client, suite, recordStore)
	summary, err := runner.Run(ctx)
	if err != nil {
		fmt.Printf("%s⚠️  Failed to record results: %v%s\n", WarningStyle, err, Reset)
	}

	printCheckSummary(summary)

	if !summary.OK() {
		return fmt.Errorf("%d of %d checks failed", summary.Failed, len(summary.Records))
	}
	return nil
}

func loadCheckSuite() (*checks.Suite, error) {
	path := checkSuiteFile
	if path == "" {
		path = cfg.Checks.Suite
	}
	if path == "" {
		return checks.DefaultSuite(), nil
	}
	suite, err := checks.LoadSuite(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite %s: %w", path, err)
	}
	return suite, nil
}

func printCheckSummary(summary *checks.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sCHECK\tSTATUS\tATTEMPTS\tLATENCY\tDETAIL%s\n", LabelStyle, Reset)
	fmt.Fprintf(w, "%s─────\t──────\t────────\t───────\t──────%s\n", DimStyle, Reset)

	for _, record := range summary.Records {
		var status string
		switch record.Status {
		case checks.StatusPass:
			status = FormatSuccess("PASS")
		case checks.StatusSkip:
			status = FormatWarning("SKIP")
		default:
			status = FormatError("FAIL")
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%dms\t%s\n",
			FormatValue(record.Check),
			status,
			record.Attempts,
			record.LatencyMs,
			FormatDim(truncate(record.Detail, 60)),
		)
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("%sPassed: %s  Failed: %s  Skipped: %s  (%s)%s\n",
		InfoStyle,
		FormatCount(summary.Passed),
		FormatCount(summary.Failed),
		FormatCount(summary.Skipped),
		summary.Duration.Round(10*time.Millisecond),
		Reset)
}
