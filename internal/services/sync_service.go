package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/snaptic/go-snaptic/internal/db"
	"github.com/snaptic/go-snaptic/internal/logger"
	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/snaptic"
)

// Page size the service returns for cursor requests.
const cursorPageSize = 20

// SyncService pulls the remote account (profile, notes, tags) into the
// local cache.
type SyncService struct {
	store  db.Store
	client *snaptic.Client
}

// NewSync creates a new sync service
func NewSync(store db.Store, client *snaptic.Client) *SyncService {
	return &SyncService{
		store:  store,
		client: client,
	}
}

// Sync refreshes the whole cache and records the run. The returned run
// carries the error message when the refresh failed partway.
func (s *SyncService) Sync(ctx context.Context, scheduleID string) (*models.SyncRun, error) {
	run := &models.SyncRun{
		ID:         uuid.New().String(),
		ScheduleID: scheduleID,
		StartedAt:  time.Now(),
	}

	err := s.sync(ctx, run)
	run.DurationMs = time.Since(run.StartedAt).Milliseconds()
	if err != nil {
		run.Error = err.Error()
	}

	if storeErr := s.store.CreateSyncRun(ctx, run); storeErr != nil {
		logger.Error("Failed to record sync run: %v", storeErr)
	}

	return run, err
}

func (s *SyncService) sync(ctx context.Context, run *models.SyncRun) error {
	logger.Info("Syncing account from %s", s.client.Host())

	user, err := s.client.User(ctx)
	if err != nil {
		return err
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return err
	}
	logger.Debug("Synced profile for user %s", user.UserName)

	notes, err := s.pullNotes(ctx)
	if err != nil {
		return err
	}
	count, err := s.store.UpsertNotes(ctx, notes)
	if err != nil {
		return err
	}
	run.Notes = count

	tags, err := s.client.Tags(ctx)
	if err != nil {
		return err
	}
	if err := s.store.ReplaceTags(ctx, tags); err != nil {
		return err
	}
	run.Tags = len(tags)

	logger.Info("Synced %d notes and %d tags", run.Notes, run.Tags)
	return nil
}

// pullNotes walks the cursor chain from the newest page until the service
// runs out of older pages.
func (s *SyncService) pullNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	seen := make(map[int]bool)

	cursor := -1
	for {
		if seen[cursor] {
			// Cursor chains must not loop; stop rather than spin.
			logger.Warning("Cursor %d repeated, stopping pagination", cursor)
			break
		}
		seen[cursor] = true

		page, err := s.client.NotesAt(ctx, cursor)
		if err != nil {
			return nil, err
		}
		notes = append(notes, page.Notes...)
		logger.Debug("Pulled %d notes at cursor %d", len(page.Notes), cursor)

		if len(page.Notes) < cursorPageSize || page.NextCursor == 0 {
			break
		}
		cursor = page.NextCursor
	}

	return notes, nil
}
