package checks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snaptic/go-snaptic/internal/db"
	"github.com/snaptic/go-snaptic/internal/logger"
	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/snaptic"
)

// Check statuses.
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

// Runner executes a suite of checks against one host.
type Runner struct {
	client *snaptic.Client
	suite  *Suite
	store  db.Store // optional; records run history when set
}

// Summary is the outcome of one suite run.
type Summary struct {
	RunID    string
	Host     string
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
	Records  []models.CheckRecord
}

// OK reports whether every non-skipped check passed.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// NewRunner creates a runner. The store may be nil when history is not
// wanted (one-shot CLI runs against a scratch host).
func NewRunner(client *snaptic.Client, suite *Suite, store db.Store) *Runner {
	return &Runner{
		client: client,
		suite:  suite,
		store:  store,
	}
}

// Run executes every check in the suite concurrently and returns the
// summary. The returned error covers recording problems only; check
// failures are reported through the summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID: uuid.New().String(),
		Host:  r.client.Host(),
	}
	start := time.Now()

	env := &Env{Client: r.client, Suite: r.suite}
	records := make([]models.CheckRecord, len(r.suite.Checks))

	var wg sync.WaitGroup
	for i, name := range r.suite.Checks {
		check, ok := Lookup(name)
		if !ok {
			records[i] = models.CheckRecord{
				ID:         uuid.New().String(),
				RunID:      summary.RunID,
				Check:      name,
				Status:     StatusFail,
				Detail:     "unknown check",
				Host:       summary.Host,
				StartedAt:  time.Now(),
				FinishedAt: time.Now(),
			}
			continue
		}

		wg.Add(1)
		go func(i int, check Check) {
			defer wg.Done()
			records[i] = r.runCheck(ctx, env, check, summary.RunID)
		}(i, check)
	}
	wg.Wait()

	summary.Duration = time.Since(start)
	for _, record := range records {
		switch record.Status {
		case StatusPass:
			summary.Passed++
		case StatusSkip:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	summary.Records = records

	if r.store != nil {
		if err := r.store.CreateCheckRecords(ctx, records); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// runCheck executes one check with the suite's retry policy.
func (r *Runner) runCheck(ctx context.Context, env *Env, check Check, runID string) models.CheckRecord {
	record := models.CheckRecord{
		ID:        uuid.New().String(),
		RunID:     runID,
		Check:     check.Name,
		Host:      env.Client.Host(),
		StartedAt: time.Now(),
	}

	attempts := r.suite.Attempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		record.Attempts = attempt

		attemptCtx, cancel := context.WithTimeout(ctx, r.suite.Timeout())
		start := time.Now()
		err := check.Run(attemptCtx, env)
		record.LatencyMs = time.Since(start).Milliseconds()
		cancel()

		if err == nil {
			if attempt > 1 {
				logger.Info("Check %s passed on attempt %d", check.Name, attempt)
			}
			record.Status = StatusPass
			record.FinishedAt = time.Now()
			return record
		}

		if errors.Is(err, ErrSkip) {
			record.Status = StatusSkip
			record.Detail = err.Error()
			record.FinishedAt = time.Now()
			return record
		}

		lastErr = err
		logger.Warning("Check %s attempt %d/%d failed: %v", check.Name, attempt, attempts, err)

		if attempt < attempts {
			select {
			case <-time.After(r.suite.RetryDelay()):
			case <-ctx.Done():
				record.Status = StatusFail
				record.Detail = ctx.Err().Error()
				record.FinishedAt = time.Now()
				return record
			}
		}
	}

	record.Status = StatusFail
	record.Detail = lastErr.Error()
	record.FinishedAt = time.Now()
	return record
}
