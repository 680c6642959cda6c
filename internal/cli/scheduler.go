package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/models"
)

var (
	scheduleName  string
	scheduleKind  string
	scheduleCron  string
	scheduleSuite string
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage scheduled sync and check jobs",
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler",
	Long:  `Run all enabled schedules until interrupted.`,
	RunE:  runSchedulerStart,
}

var schedulerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a schedule",
	RunE:  runSchedulerAdd,
}

var schedulerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules",
	RunE:  runSchedulerList,
}

var schedulerRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerRemove,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [id]",
	Short: "Execute a schedule immediately",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerRun,
}

func init() {
	schedulerAddCmd.Flags().StringVar(&scheduleName, "name", "", "schedule name (required)")
	schedulerAddCmd.Flags().StringVar(&scheduleKind, "kind", models.JobSync, "job kind (sync or check)")
	schedulerAddCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron expression, e.g. '0 * * * *' (required)")
	schedulerAddCmd.Flags().StringVar(&scheduleSuite, "suite", "", "check suite file, for --kind check")
	schedulerAddCmd.MarkFlagRequired("name")
	schedulerAddCmd.MarkFlagRequired("cron")

	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerAddCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRemoveCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	enabled := true
	schedules, err := store.ListSchedules(ctx, &enabled)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}

	if len(schedules) == 0 {
		fmt.Printf("%s❌ No enabled schedules found%s\n", ErrorStyle, Reset)
		fmt.Printf("%s💡 Use 'snaptic scheduler add' to create one%s\n", InfoStyle, Reset)
		return nil
	}

	fmt.Printf("%sStarting Schedules:%s\n", LabelStyle, Reset)
	for i, schedule := range schedules {
		fmt.Printf("  %s%d. %s%s\n", CountStyle, i+1, Reset, FormatValue(schedule.Name))
		fmt.Printf("     %sID: %s | Cron: %s%s\n", DimStyle, schedule.ID, schedule.CronExpr, Reset)
	}
	fmt.Println()

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	fmt.Printf("%s🔄 Running %s schedule(s), press Ctrl+C to stop%s\n", InfoStyle, FormatCount(len(schedules)), Reset)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	fmt.Printf("\n%s⏹️  Stopping scheduler...%s\n", InfoStyle, Reset)
	sched.Stop()
	fmt.Printf("%s✅ Scheduler stopped%s\n", SuccessStyle, Reset)

	return nil
}

func runSchedulerAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if scheduleKind != models.JobSync && scheduleKind != models.JobCheck {
		return fmt.Errorf("invalid kind: %s (must be %s or %s)", scheduleKind, models.JobSync, models.JobCheck)
	}
	if _, err := validateCronExpression(scheduleCron); err != nil {
		return err
	}

	now := time.Now()
	schedule := &models.Schedule{
		ID:        uuid.New().String(),
		Name:      scheduleName,
		Kind:      scheduleKind,
		CronExpr:  scheduleCron,
		Suite:     scheduleSuite,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := store.CreateSchedule(ctx, schedule); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	fmt.Printf("%s✅ Created schedule %s%s\n", SuccessStyle, schedule.ID, Reset)
	return nil
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	schedules, err := store.ListSchedules(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}

	if len(schedules) == 0 {
		fmt.Printf("%sNo schedules configured.%s\n", WarningStyle, Reset)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sID\tNAME\tKIND\tCRON\tENABLED\tLAST RUN%s\n", LabelStyle, Reset)
	fmt.Fprintf(w, "%s──\t────\t────\t────\t───────\t────────%s\n", DimStyle, Reset)

	for _, schedule := range schedules {
		enabled := "Yes"
		if !schedule.Enabled {
			enabled = "No"
		}
		lastRun := "-"
		if schedule.LastRun != nil {
			lastRun = formatTime(*schedule.LastRun)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			FormatSecondary(schedule.ID),
			FormatValue(schedule.Name),
			FormatDim(schedule.Kind),
			FormatDim(schedule.CronExpr),
			FormatValue(enabled),
			FormatMeta(lastRun),
		)
	}
	w.Flush()

	return nil
}

func runSchedulerRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := store.DeleteSchedule(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	fmt.Printf("%s✅ Deleted schedule %s%s\n", SuccessStyle, args[0], Reset)
	return nil
}

func runSchedulerRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("%s▶️  Executing schedule %s...%s\n", InfoStyle, args[0], Reset)
	if err := sched.ExecuteNow(ctx, args[0]); err != nil {
		return fmt.Errorf("schedule execution failed: %w", err)
	}

	fmt.Printf("%s✅ Schedule executed successfully%s\n", SuccessStyle, Reset)
	return nil
}
