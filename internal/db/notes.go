package db

import (
	"context"

	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/shared"
)

// NoteStore defines the cache operations for synced account data
// (notes, tags and the account profile).
type NoteStore interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// Note operations
	UpsertNote(ctx context.Context, note *models.Note) error
	UpsertNotes(ctx context.Context, notes []models.Note) (int, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	ListNotes(ctx context.Context, filter shared.NoteFilter) ([]*models.Note, error)
	DeleteNote(ctx context.Context, id int64) error
	DeleteAllNotes(ctx context.Context) (int, error)

	// Tag operations (account tag list as reported by the service)
	ReplaceTags(ctx context.Context, tags []models.Tag) error
	ListTags(ctx context.Context) ([]models.Tag, error)

	// Account profile
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context) (*models.User, error)

	// Statistics over cached notes
	CountNotes(ctx context.Context) (int, error)
	CountNotesWithMedia(ctx context.Context) (int, error)
	TopTags(ctx context.Context, limit int) ([]models.TagCount, error)
	NotesBySource(ctx context.Context) ([]models.SourceCount, error)
}
