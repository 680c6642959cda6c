package services

import (
	"context"

	"github.com/snaptic/go-snaptic/internal/db"
	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/shared"
)

const defaultTopTags = 10

// StatsService aggregates statistics over the local note cache
type StatsService struct {
	store db.Store
}

// NewStats creates a new stats service
func NewStats(store db.Store) *StatsService {
	return &StatsService{
		store: store,
	}
}

// CacheStats summarizes the cache contents and freshness
func (s *StatsService) CacheStats(ctx context.Context) (*models.CacheStats, error) {
	stats := &models.CacheStats{}

	total, err := s.store.CountNotes(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalNotes = total

	withMedia, err := s.store.CountNotesWithMedia(ctx)
	if err != nil {
		return nil, err
	}
	stats.WithMedia = withMedia

	topTags, err := s.store.TopTags(ctx, defaultTopTags)
	if err != nil {
		return nil, err
	}
	stats.TopTags = topTags
	for _, tc := range topTags {
		stats.NotesWithTags += tc.Count
	}

	bySource, err := s.store.NotesBySource(ctx)
	if err != nil {
		return nil, err
	}
	stats.BySource = bySource

	lastRun, err := s.store.LastSyncRun(ctx)
	if err != nil {
		return nil, err
	}
	if lastRun != nil {
		stats.LastSync = &lastRun.StartedAt
	}

	return stats, nil
}

// Search looks up cached notes by keyword and optional tag
func (s *StatsService) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	filter := shared.NoteFilter{
		Keyword: req.Keyword,
		Tag:     req.Tag,
		Limit:   limit,
	}

	notes, err := s.store.ListNotes(ctx, filter)
	if err != nil {
		return nil, err
	}

	response := &models.SearchResponse{
		Keyword: req.Keyword,
		Total:   len(notes),
		Notes:   make([]models.Note, 0, len(notes)),
	}
	for _, note := range notes {
		response.Notes = append(response.Notes, *note)
	}

	return response, nil
}
