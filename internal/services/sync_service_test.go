package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaptic/go-snaptic/internal/db/sqlite"
	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/snaptic"
)

// pagedHost serves a fixed account over the cursor protocol: cursor -1 is
// the newest page, each following page is addressed by next_cursor.
type pagedHost struct {
	pages map[int][]models.Note
	next  map[int]int
}

func newPagedHost(total int) *pagedHost {
	h := &pagedHost{pages: make(map[int][]models.Note), next: make(map[int]int)}

	var notes []models.Note
	for i := 0; i < total; i++ {
		created := time.Date(2010, 4, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(total-i) * time.Hour)
		notes = append(notes, models.Note{
			ID:         int64(1000 + i),
			Text:       fmt.Sprintf("note %d", i),
			Tags:       []string{"synced"},
			CreatedAt:  created,
			ModifiedAt: created,
		})
	}

	cursor := -1
	page := 1
	for len(notes) > 0 {
		size := 20
		if size > len(notes) {
			size = len(notes)
		}
		h.pages[cursor] = notes[:size]
		notes = notes[size:]

		if len(notes) > 0 {
			h.next[cursor] = page + 1
			cursor = page + 1
			page++
		}
	}
	return h
}

func (h *pagedHost) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/user.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"user": {"id": 913202, "user_name": "alice", "email": "alice@example.com"}}`)
	})

	mux.HandleFunc("/v1/tags/tags.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tags": [{"name": "synced", "count": "47"}]}`)
	})

	mux.HandleFunc("/v1/notes.json", func(w http.ResponseWriter, r *http.Request) {
		cursor, _ := strconv.Atoi(r.URL.Query().Get("cursor"))
		notes := h.pages[cursor]
		json.NewEncoder(w).Encode(map[string]any{
			"notes":           notes,
			"count":           len(notes),
			"next_cursor":     h.next[cursor],
			"previous_cursor": 0,
		})
	})

	return mux
}

func newTestStore(t *testing.T) *sqlite.SQLite {
	t.Helper()

	store, err := sqlite.New(&models.CacheConfig{
		Provider: "sqlite",
		URI:      filepath.Join(t.TempDir(), "cache.db"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Connect(ctx))
	t.Cleanup(func() { store.Disconnect(ctx) })
	return store
}

func clientFor(t *testing.T, srv *httptest.Server) *snaptic.Client {
	t.Helper()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	useSSL := false
	return snaptic.New("alice", "secret", &snaptic.Options{
		Host:   u.Hostname(),
		Port:   port,
		UseSSL: &useSSL,
	})
}

func TestSyncWalksAllPages(t *testing.T) {
	srv := httptest.NewServer(newPagedHost(47).handler())
	defer srv.Close()

	store := newTestStore(t)
	sync := NewSync(store, clientFor(t, srv))

	ctx := context.Background()
	run, err := sync.Sync(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 47, run.Notes)
	assert.Equal(t, 1, run.Tags)
	assert.Empty(t, run.Error)

	count, err := store.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 47, count)

	user, err := store.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 47, tags[0].Count)

	// The run is journaled
	last, err := store.LastSyncRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, run.ID, last.ID)
}

func TestSyncSinglePage(t *testing.T) {
	srv := httptest.NewServer(newPagedHost(5).handler())
	defer srv.Close()

	store := newTestStore(t)
	sync := NewSync(store, clientFor(t, srv))

	run, err := sync.Sync(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 5, run.Notes)
}

func TestSyncRecordsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	store := newTestStore(t)
	sync := NewSync(store, clientFor(t, srv))

	ctx := context.Background()
	run, err := sync.Sync(ctx, "sched-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, snaptic.ErrServer)
	assert.NotEmpty(t, run.Error)

	// Failed runs are journaled too
	last, lastErr := store.LastSyncRun(ctx)
	require.NoError(t, lastErr)
	require.NotNil(t, last)
	assert.Equal(t, "sched-1", last.ScheduleID)
	assert.NotEmpty(t, last.Error)
}

func TestSyncStopsOnCursorLoop(t *testing.T) {
	host := newPagedHost(40)
	// Misbehaving host: the last page points back at the first.
	host.next[2] = -1

	var fetches []string
	mux := http.NewServeMux()
	mux.Handle("/", host.handler())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/notes.json" {
			fetches = append(fetches, r.URL.Query().Get("cursor"))
		}
		mux.ServeHTTP(w, r)
	}))
	defer srv.Close()

	store := newTestStore(t)
	sync := NewSync(store, clientFor(t, srv))

	ctx := context.Background()
	run, err := sync.Sync(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"-1", "2"}, fetches, "a repeated cursor must not be fetched again")
	assert.Equal(t, 40, run.Notes)

	count, err := store.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, count)
}

func TestSyncIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(newPagedHost(25).handler())
	defer srv.Close()

	store := newTestStore(t)
	sync := NewSync(store, clientFor(t, srv))

	ctx := context.Background()
	_, err := sync.Sync(ctx, "")
	require.NoError(t, err)
	_, err = sync.Sync(ctx, "")
	require.NoError(t, err)

	count, err := store.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count, "second sync must not duplicate notes")
}
