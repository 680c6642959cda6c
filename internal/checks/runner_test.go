package checks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/snaptic"
)

// fakeService is an in-memory stand-in for the notes host.
type fakeService struct {
	mu     sync.Mutex
	nextID int64
	notes  map[int64]*models.Note
}

func newFakeService() *fakeService {
	return &fakeService{nextID: 1000, notes: make(map[int64]*models.Note)}
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/user.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 913202, "user_name": "alice"},
		})
	})

	mux.HandleFunc("/v1/tags/tags.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tags": []}`)
	})

	mux.HandleFunc("/v1/notes.json", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if r.Method == http.MethodPost {
			r.ParseForm()
			f.nextID++
			note := &models.Note{ID: f.nextID, Text: r.PostFormValue("text")}
			f.notes[note.ID] = note
			writeNotes(w, []*models.Note{note}, 0)
			return
		}

		var notes []*models.Note
		for _, note := range f.notes {
			notes = append(notes, note)
		}
		writeNotes(w, notes, len(notes))
	})

	mux.HandleFunc("/v1/notes/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		idText := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/notes/"), ".json")
		id, err := strconv.ParseInt(idText, 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		note, ok := f.notes[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		switch r.Method {
		case http.MethodPost:
			r.ParseForm()
			note.Text = r.PostFormValue("text")
			writeNotes(w, []*models.Note{note}, 0)
		case http.MethodDelete:
			delete(f.notes, id)
			fmt.Fprint(w, `{}`)
		default:
			http.Error(w, "bad method", http.StatusMethodNotAllowed)
		}
	})

	return mux
}

func writeNotes(w http.ResponseWriter, notes []*models.Note, count int) {
	page := map[string]any{"notes": notes, "count": count, "next_cursor": 0, "previous_cursor": 0}
	json.NewEncoder(w).Encode(page)
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

// fastSuite avoids retry delays inside tests.
func fastSuite(names ...string) *Suite {
	return &Suite{
		Checks:             names,
		Retries:            1,
		RetryDelaySeconds:  1,
		TimeoutSeconds:     5,
		LatencyThresholdMs: 5000,
	}
}

func TestRunAllPass(t *testing.T) {
	srv := httptest.NewServer(newFakeService().handler())
	defer srv.Close()

	suite := fastSuite("auth", "user_profile", "note_roundtrip", "cursor_pagination", "tags", "latency")
	runner := NewRunner(clientFor(t, srv), suite, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.OK())
	assert.Equal(t, 6, summary.Passed)
	assert.Zero(t, summary.Failed)
	assert.Zero(t, summary.Skipped)
	assert.Len(t, summary.Records, 6)

	for _, record := range summary.Records {
		assert.Equal(t, StatusPass, record.Status, record.Check)
		assert.Equal(t, summary.RunID, record.RunID)
		assert.Equal(t, 1, record.Attempts)
	}
}

func TestRunAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	suite := fastSuite("auth", "tags")
	suite.Retries = 2
	runner := NewRunner(clientFor(t, srv), suite, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, summary.OK())
	assert.Equal(t, 2, summary.Failed)
	for _, record := range summary.Records {
		assert.Equal(t, StatusFail, record.Status)
		assert.Equal(t, 2, record.Attempts)
		assert.Contains(t, record.Detail, "401")
	}
}

func TestRunSkip(t *testing.T) {
	srv := httptest.NewServer(newFakeService().handler())
	defer srv.Close()

	// image_roundtrip skips without an image_file
	suite := fastSuite("auth", "image_roundtrip")
	runner := NewRunner(clientFor(t, srv), suite, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.OK())
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, StatusSkip, summary.Records[1].Status)
	assert.Contains(t, summary.Records[1].Detail, "no image_file")
}

func TestRunUnknownCheck(t *testing.T) {
	srv := httptest.NewServer(newFakeService().handler())
	defer srv.Close()

	suite := fastSuite("auth", "does_not_exist")
	runner := NewRunner(clientFor(t, srv), suite, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, summary.OK())
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "does_not_exist", summary.Records[1].Check)
	assert.Equal(t, "unknown check", summary.Records[1].Detail)
}

func TestNoteRoundtripCleansUp(t *testing.T) {
	service := newFakeService()
	srv := httptest.NewServer(service.handler())
	defer srv.Close()

	suite := fastSuite("note_roundtrip")
	runner := NewRunner(clientFor(t, srv), suite, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.True(t, summary.OK())

	service.mu.Lock()
	defer service.mu.Unlock()
	assert.Empty(t, service.notes, "check should delete the note it created")
}
