package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/snaptic/go-snaptic/internal/models"
)

// Schedule operations

// CreateSchedule creates a new schedule
func (s *SQLite) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	query := `
		INSERT INTO schedules (id, name, kind, cron_expr, suite, enabled, last_run, next_run, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.Name,
		schedule.Kind,
		schedule.CronExpr,
		schedule.Suite,
		schedule.Enabled,
		nullTime(schedule.LastRun),
		nullTime(schedule.NextRun),
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

const scheduleColumns = "id, name, kind, cron_expr, suite, enabled, last_run, next_run, created_at, updated_at"

func scanSchedule(scan func(dest ...interface{}) error) (*models.Schedule, error) {
	var schedule models.Schedule
	var suite sql.NullString
	var lastRun, nextRun sql.NullTime

	err := scan(
		&schedule.ID,
		&schedule.Name,
		&schedule.Kind,
		&schedule.CronExpr,
		&suite,
		&schedule.Enabled,
		&lastRun,
		&nextRun,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.Suite = suite.String
	if lastRun.Valid {
		schedule.LastRun = &lastRun.Time
	}
	if nextRun.Valid {
		schedule.NextRun = &nextRun.Time
	}
	return &schedule, nil
}

// GetSchedule retrieves a schedule by ID
func (s *SQLite) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)
	schedule, err := scanSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// ListSchedules lists all schedules, optionally filtered by enabled status
func (s *SQLite) ListSchedules(ctx context.Context, enabled *bool) ([]*models.Schedule, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules"
	args := []interface{}{}

	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	return schedules, rows.Err()
}

// UpdateSchedule updates an existing schedule
func (s *SQLite) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now()

	query := `
		UPDATE schedules
		SET name = ?, kind = ?, cron_expr = ?, suite = ?, enabled = ?, last_run = ?, next_run = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		schedule.Name,
		schedule.Kind,
		schedule.CronExpr,
		schedule.Suite,
		schedule.Enabled,
		nullTime(schedule.LastRun),
		nullTime(schedule.NextRun),
		schedule.UpdatedAt,
		schedule.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("schedule not found: %s", schedule.ID)
	}
	return nil
}

// DeleteSchedule deletes a schedule
func (s *SQLite) DeleteSchedule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("schedule not found: %s", id)
	}
	return nil
}

// Sync run history

// CreateSyncRun records a completed cache sync
func (s *SQLite) CreateSyncRun(ctx context.Context, run *models.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, schedule_id, notes, tags, duration_ms, error, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.ScheduleID,
		run.Notes,
		run.Tags,
		run.DurationMs,
		run.Error,
		run.StartedAt,
	)
	return err
}

// LastSyncRun returns the most recent sync run, or nil when none exist
func (s *SQLite) LastSyncRun(ctx context.Context) (*models.SyncRun, error) {
	query := `
		SELECT id, schedule_id, notes, tags, duration_ms, error, started_at
		FROM sync_runs ORDER BY started_at DESC LIMIT 1`

	var run models.SyncRun
	var scheduleID, errMsg sql.NullString

	err := s.db.QueryRowContext(ctx, query).Scan(
		&run.ID,
		&scheduleID,
		&run.Notes,
		&run.Tags,
		&run.DurationMs,
		&errMsg,
		&run.StartedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.ScheduleID = scheduleID.String
	run.Error = errMsg.String
	return &run, nil
}

// Check run history

// CreateCheckRecords stores the outcome of a suite run
func (s *SQLite) CreateCheckRecords(ctx context.Context, records []models.CheckRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO check_records (id, run_id, check_name, status, detail, attempts, latency_ms, host, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, record := range records {
		if _, err := tx.ExecContext(ctx, query,
			record.ID,
			record.RunID,
			record.Check,
			record.Status,
			record.Detail,
			record.Attempts,
			record.LatencyMs,
			record.Host,
			record.StartedAt,
			record.FinishedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListCheckRecords lists the check outcomes for a run id
func (s *SQLite) ListCheckRecords(ctx context.Context, runID string) ([]models.CheckRecord, error) {
	query := `
		SELECT id, run_id, check_name, status, detail, attempts, latency_ms, host, started_at, finished_at
		FROM check_records WHERE run_id = ? ORDER BY started_at ASC`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CheckRecord
	for rows.Next() {
		var record models.CheckRecord
		var detail, host sql.NullString

		if err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.Check,
			&record.Status,
			&detail,
			&record.Attempts,
			&record.LatencyMs,
			&host,
			&record.StartedAt,
			&record.FinishedAt,
		); err != nil {
			return nil, err
		}

		record.Detail = detail.String
		record.Host = host.String
		records = append(records, record)
	}

	return records, rows.Err()
}
