package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/snaptic/go-snaptic/internal/checks"
	"github.com/snaptic/go-snaptic/internal/db"
	"github.com/snaptic/go-snaptic/internal/logger"
	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/services"
	"github.com/snaptic/go-snaptic/internal/snaptic"
)

// Retry configuration constants
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 30 * time.Second
)

// Scheduler runs recurring cache syncs and check suites
type Scheduler struct {
	store   db.Store
	client  *snaptic.Client
	sync    *services.SyncService
	cron    *cron.Cron
	running bool
	mu      sync.RWMutex
}

// New creates a new scheduler
func New(store db.Store, client *snaptic.Client) *Scheduler {
	return &Scheduler{
		store:  store,
		client: client,
		sync:   services.NewSync(store, client),
		cron:   cron.New(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	schedules, err := s.store.ListSchedules(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		if err := s.registerSchedule(schedule); err != nil {
			logger.Error("Failed to register schedule %s: %v", schedule.ID, err)
		}
	}

	s.cron.Start()
	s.running = true

	logger.Info("Scheduler started with %d schedules", len(schedules))
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false

	logger.Info("Scheduler stopped")
}

// Reload reloads all schedules
func (s *Scheduler) Reload(ctx context.Context) error {
	s.Stop()
	s.mu.Lock()
	s.cron = cron.New()
	s.mu.Unlock()
	return s.Start(ctx)
}

// registerSchedule registers a schedule with cron
func (s *Scheduler) registerSchedule(schedule *models.Schedule) error {
	_, err := s.cron.AddFunc(schedule.CronExpr, func() {
		if err := s.executeSchedule(context.Background(), schedule); err != nil {
			logger.Error("Failed to execute schedule %s: %v", schedule.ID, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	logger.Info("Registered %s schedule %s with cron expression: %s", schedule.Kind, schedule.ID, schedule.CronExpr)
	return nil
}

// ExecuteNow executes a schedule immediately
func (s *Scheduler) ExecuteNow(ctx context.Context, scheduleID string) error {
	schedule, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}
	return s.executeSchedule(ctx, schedule)
}

// executeSchedule executes a schedule's job with retries
func (s *Scheduler) executeSchedule(ctx context.Context, schedule *models.Schedule) error {
	logger.Info("Executing %s schedule: %s", schedule.Kind, schedule.Name)

	var lastErr error
	for attempt := 1; attempt <= DefaultMaxRetries; attempt++ {
		err := s.executeJob(ctx, schedule)
		if err == nil {
			if attempt > 1 {
				logger.Info("Schedule %s succeeded on attempt %d", schedule.ID, attempt)
			}
			lastErr = nil
			break
		}

		lastErr = err
		logger.Warning("Attempt %d/%d failed for schedule %s: %v", attempt, DefaultMaxRetries, schedule.ID, err)

		if attempt < DefaultMaxRetries {
			select {
			case <-time.After(DefaultRetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	now := time.Now()
	schedule.LastRun = &now
	if err := s.store.UpdateSchedule(ctx, schedule); err != nil {
		logger.Error("Failed to update schedule last run: %v", err)
	}

	if lastErr != nil {
		return fmt.Errorf("failed after %d attempts, last error: %w", DefaultMaxRetries, lastErr)
	}
	logger.Info("Completed schedule: %s", schedule.Name)
	return nil
}

// executeJob dispatches on the schedule kind
func (s *Scheduler) executeJob(ctx context.Context, schedule *models.Schedule) error {
	switch schedule.Kind {
	case models.JobSync:
		_, err := s.sync.Sync(ctx, schedule.ID)
		return err

	case models.JobCheck:
		suite := checks.DefaultSuite()
		if schedule.Suite != "" {
			loaded, err := checks.LoadSuite(schedule.Suite)
			if err != nil {
				return err
			}
			suite = loaded
		}

		runner := checks.NewRunner(s.client, suite, s.store)
		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		if !summary.OK() {
			return fmt.Errorf("%d of %d checks failed", summary.Failed, len(summary.Records))
		}
		return nil

	default:
		return fmt.Errorf("unknown schedule kind: %s", schedule.Kind)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
