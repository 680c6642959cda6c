package db

import (
	"context"

	"github.com/snaptic/go-snaptic/internal/models"
)

// JournalStore defines the operations for scheduler state and run history.
type JournalStore interface {
	// Schedule operations
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	GetSchedule(ctx context.Context, id string) (*models.Schedule, error)
	ListSchedules(ctx context.Context, enabled *bool) ([]*models.Schedule, error)
	UpdateSchedule(ctx context.Context, schedule *models.Schedule) error
	DeleteSchedule(ctx context.Context, id string) error

	// Sync run history
	CreateSyncRun(ctx context.Context, run *models.SyncRun) error
	LastSyncRun(ctx context.Context) (*models.SyncRun, error)

	// Check run history
	CreateCheckRecords(ctx context.Context, records []models.CheckRecord) error
	ListCheckRecords(ctx context.Context, runID string) ([]models.CheckRecord, error)
}
