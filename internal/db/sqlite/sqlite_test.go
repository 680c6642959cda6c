package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/shared"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	store, err := New(&models.CacheConfig{
		Provider: "sqlite",
		URI:      filepath.Join(t.TempDir(), "cache.db"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Connect(ctx))
	t.Cleanup(func() { store.Disconnect(ctx) })

	return store
}

func testNote(id int64, text string) models.Note {
	now := time.Date(2010, 4, 9, 23, 4, 6, 0, time.UTC).Add(time.Duration(id) * time.Minute)
	return models.Note{
		ID:         id,
		Text:       text,
		Summary:    text,
		Source:     "3banana",
		Mode:       "private",
		Tags:       []string{"weekend"},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func TestUpsertAndGetNote(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	note := testNote(1813083, "#weekend grill charcoal")
	note.User = &models.User{ID: 913202, UserName: "alice"}
	note.Media = []models.Media{{Type: "image", ID: 2114668, Width: 640, Height: 480}}

	require.NoError(t, store.UpsertNote(ctx, &note))

	got, err := store.GetNote(ctx, note.ID)
	require.NoError(t, err)

	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, note.Text, got.Text)
	assert.Equal(t, []string{"weekend"}, got.Tags)
	require.NotNil(t, got.User)
	assert.Equal(t, "alice", got.User.UserName)
	require.Len(t, got.Media, 1)
	assert.Equal(t, int64(2114668), got.Media[0].ID)
	assert.True(t, got.HasMedia())
}

func TestUpsertNoteReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	note := testNote(1, "original")
	require.NoError(t, store.UpsertNote(ctx, &note))

	note.Text = "edited"
	require.NoError(t, store.UpsertNote(ctx, &note))

	got, err := store.GetNote(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)

	count, err := store.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetNoteMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetNote(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpsertNotesBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	notes := []models.Note{
		testNote(1, "first"),
		testNote(2, "second"),
		testNote(3, "third"),
	}

	count, err := store.UpsertNotes(ctx, notes)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	total, err := store.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestListNotesFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	grocery := testNote(1, "buy milk #grocery")
	grocery.Tags = []string{"grocery"}
	work := testNote(2, "finish report #work")
	work.Tags = []string{"work"}
	work.Source = "email"
	withMedia := testNote(3, "photo of receipt")
	withMedia.Tags = nil
	withMedia.Media = []models.Media{{Type: "image", ID: 9}}

	_, err := store.UpsertNotes(ctx, []models.Note{grocery, work, withMedia})
	require.NoError(t, err)

	t.Run("keyword", func(t *testing.T) {
		notes, err := store.ListNotes(ctx, shared.NoteFilter{Keyword: "milk"})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, int64(1), notes[0].ID)
	})

	t.Run("tag", func(t *testing.T) {
		notes, err := store.ListNotes(ctx, shared.NoteFilter{Tag: "work"})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, int64(2), notes[0].ID)
	})

	t.Run("source", func(t *testing.T) {
		notes, err := store.ListNotes(ctx, shared.NoteFilter{Source: "email"})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, int64(2), notes[0].ID)
	})

	t.Run("has media", func(t *testing.T) {
		yes := true
		notes, err := store.ListNotes(ctx, shared.NoteFilter{HasMedia: &yes})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, int64(3), notes[0].ID)

		no := false
		notes, err = store.ListNotes(ctx, shared.NoteFilter{HasMedia: &no})
		require.NoError(t, err)
		assert.Len(t, notes, 2)
	})

	t.Run("newest first with limit", func(t *testing.T) {
		notes, err := store.ListNotes(ctx, shared.NoteFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, int64(3), notes[0].ID)
		assert.Equal(t, int64(2), notes[1].ID)
	})
}

func TestDeleteNote(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	note := testNote(1, "doomed")
	require.NoError(t, store.UpsertNote(ctx, &note))
	require.NoError(t, store.DeleteNote(ctx, 1))

	require.Error(t, store.DeleteNote(ctx, 1), "second delete should report missing")
}

func TestDeleteAllNotes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertNotes(ctx, []models.Note{testNote(1, "a"), testNote(2, "b")})
	require.NoError(t, err)

	deleted, err := store.DeleteAllNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err := store.CountNotes(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReplaceAndListTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceTags(ctx, []models.Tag{
		{Name: "weekend", Count: 7},
		{Name: "grill", Count: 2},
	}))

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "weekend", tags[0].Name)

	// A later sync fully replaces the list
	require.NoError(t, store.ReplaceTags(ctx, []models.Tag{{Name: "work", Count: 1}}))
	tags, err = store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "work", tags[0].Name)
}

func TestSaveAndGetUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetUser(ctx)
	require.Error(t, err, "empty cache has no user")

	created := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveUser(ctx, &models.User{
		ID: 913202, UserName: "alice", Email: "alice@example.com", CreatedAt: &created,
	}))

	user, err := store.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(913202), user.ID)
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, "alice@example.com", user.Email)

	// Saving again keeps a single row
	require.NoError(t, store.SaveUser(ctx, &models.User{ID: 2, UserName: "bob"}))
	user, err = store.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.UserName)
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	withMedia := testNote(1, "photo")
	withMedia.Media = []models.Media{{Type: "image", ID: 9}}
	plain := testNote(2, "plain")
	plain.Source = "email"

	_, err := store.UpsertNotes(ctx, []models.Note{withMedia, plain})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceTags(ctx, []models.Tag{
		{Name: "weekend", Count: 7},
		{Name: "grill", Count: 2},
		{Name: "work", Count: 1},
	}))

	count, err := store.CountNotesWithMedia(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	top, err := store.TopTags(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "weekend", top[0].Tag)
	assert.Equal(t, 7, top[0].Count)

	sources, err := store.NotesBySource(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}
