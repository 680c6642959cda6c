package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/shared"
)

// SQLite implements the Store interface for SQLite
type SQLite struct {
	db     *sql.DB
	config *models.CacheConfig
}

// New creates a new SQLite cache instance
func New(config *models.CacheConfig) (*SQLite, error) {
	return &SQLite{
		config: config,
	}, nil
}

// DB exposes the underlying handle for migrations.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Connect opens the SQLite database file
func (s *SQLite) Connect(ctx context.Context) error {
	dbPath, err := expandPath(s.config.URI)
	if err != nil {
		return err
	}

	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	s.db = db

	if err := s.createTables(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// expandPath resolves ~ and relative cache paths to absolute ones
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		return absPath, nil
	}
	return path, nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return s.db.PingContext(ctx)
}

// createTables creates necessary tables
func (s *SQLite) createTables(ctx context.Context) error {
	createNotesTable := `
	CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY,
		text TEXT NOT NULL,
		summary TEXT,
		source TEXT,
		source_url TEXT,
		mode TEXT,
		user_json TEXT,    -- JSON object
		children INTEGER NOT NULL DEFAULT 0,
		tags TEXT,         -- JSON array of tag names
		media TEXT,        -- JSON array of media objects
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL,
		reminder_at DATETIME
	);`

	createTagsTable := `
	CREATE TABLE IF NOT EXISTS tags (
		name TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);`

	createAccountTable := `
	CREATE TABLE IF NOT EXISTS account (
		id INTEGER PRIMARY KEY,
		user_name TEXT NOT NULL,
		email TEXT,
		created_at DATETIME
	);`

	createSchedulesTable := `
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		cron_expr TEXT NOT NULL,
		suite TEXT,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		last_run DATETIME,
		next_run DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	createSyncRunsTable := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		schedule_id TEXT,
		notes INTEGER NOT NULL DEFAULT 0,
		tags INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at DATETIME NOT NULL
	);`

	createCheckRecordsTable := `
	CREATE TABLE IF NOT EXISTS check_records (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		check_name TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		attempts INTEGER NOT NULL DEFAULT 1,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		host TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);`

	createIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at);",
		"CREATE INDEX IF NOT EXISTS idx_notes_source ON notes(source);",
		"CREATE INDEX IF NOT EXISTS idx_schedules_enabled ON schedules(enabled);",
		"CREATE INDEX IF NOT EXISTS idx_sync_runs_started_at ON sync_runs(started_at);",
		"CREATE INDEX IF NOT EXISTS idx_check_records_run_id ON check_records(run_id);",
	}

	queries := []string{
		createNotesTable, createTagsTable, createAccountTable,
		createSchedulesTable, createSyncRunsTable, createCheckRecordsTable,
	}
	queries = append(queries, createIndexes...)

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// JSON column helpers

func marshalJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil
	}
	return tags
}

func unmarshalMedia(s string) []models.Media {
	if s == "" {
		return nil
	}
	var media []models.Media
	if err := json.Unmarshal([]byte(s), &media); err != nil {
		return nil
	}
	return media
}

func unmarshalUser(s string) *models.User {
	if s == "" {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(s), &user); err != nil {
		return nil
	}
	return &user
}

// Note operations

// UpsertNote inserts or replaces a cached note
func (s *SQLite) UpsertNote(ctx context.Context, note *models.Note) error {
	query := `
		INSERT OR REPLACE INTO notes
			(id, text, summary, source, source_url, mode, user_json, children, tags, media, created_at, modified_at, reminder_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var userJSON string
	if note.User != nil {
		userJSON = marshalJSON(note.User)
	}

	var reminderAt sql.NullTime
	if note.ReminderAt != nil {
		reminderAt = sql.NullTime{Time: *note.ReminderAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		note.ID,
		note.Text,
		note.Summary,
		note.Source,
		note.SourceURL,
		note.Mode,
		userJSON,
		note.Children,
		marshalJSON(note.Tags),
		marshalJSON(note.Media),
		note.CreatedAt,
		note.ModifiedAt,
		reminderAt,
	)

	return err
}

// UpsertNotes upserts a batch of notes inside a single transaction
func (s *SQLite) UpsertNotes(ctx context.Context, notes []models.Note) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO notes
			(id, text, summary, source, source_url, mode, user_json, children, tags, media, created_at, modified_at, reminder_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for i := range notes {
		note := &notes[i]

		var userJSON string
		if note.User != nil {
			userJSON = marshalJSON(note.User)
		}
		var reminderAt sql.NullTime
		if note.ReminderAt != nil {
			reminderAt = sql.NullTime{Time: *note.ReminderAt, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			note.ID, note.Text, note.Summary, note.Source, note.SourceURL, note.Mode,
			userJSON, note.Children, marshalJSON(note.Tags), marshalJSON(note.Media),
			note.CreatedAt, note.ModifiedAt, reminderAt,
		); err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

const noteColumns = "id, text, summary, source, source_url, mode, user_json, children, tags, media, created_at, modified_at, reminder_at"

func scanNote(scan func(dest ...interface{}) error) (*models.Note, error) {
	var note models.Note
	var summary, source, sourceURL, mode, userJSON, tagsJSON, mediaJSON sql.NullString
	var reminderAt sql.NullTime

	err := scan(
		&note.ID,
		&note.Text,
		&summary,
		&source,
		&sourceURL,
		&mode,
		&userJSON,
		&note.Children,
		&tagsJSON,
		&mediaJSON,
		&note.CreatedAt,
		&note.ModifiedAt,
		&reminderAt,
	)
	if err != nil {
		return nil, err
	}

	note.Summary = summary.String
	note.Source = source.String
	note.SourceURL = sourceURL.String
	note.Mode = mode.String
	note.User = unmarshalUser(userJSON.String)
	note.Tags = unmarshalTags(tagsJSON.String)
	note.Media = unmarshalMedia(mediaJSON.String)
	if reminderAt.Valid {
		note.ReminderAt = &reminderAt.Time
	}

	return &note, nil
}

// GetNote retrieves a cached note by id
func (s *SQLite) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)
	note, err := scanNote(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("note not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListNotes lists cached notes matching a filter, newest first
func (s *SQLite) ListNotes(ctx context.Context, filter shared.NoteFilter) ([]*models.Note, error) {
	query := "SELECT " + noteColumns + " FROM notes"
	var conditions []string
	var args []interface{}

	if filter.Keyword != "" {
		conditions = append(conditions, "(text LIKE ? OR summary LIKE ?)")
		pattern := "%" + filter.Keyword + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array of strings; match the quoted form.
		conditions = append(conditions, "tags LIKE ?")
		args = append(args, "%"+fmt.Sprintf("%q", filter.Tag)+"%")
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.HasMedia != nil {
		if *filter.HasMedia {
			conditions = append(conditions, "media IS NOT NULL AND media != '' AND media != 'null' AND media != '[]'")
		} else {
			conditions = append(conditions, "(media IS NULL OR media = '' OR media = 'null' OR media = '[]')")
		}
	}
	if filter.StartTime != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *filter.StartTime)
	}
	if filter.EndTime != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *filter.EndTime)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// DeleteNote removes a note from the cache
func (s *SQLite) DeleteNote(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note not found: %d", id)
	}
	return nil
}

// DeleteAllNotes clears the note cache
func (s *SQLite) DeleteAllNotes(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM notes")
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

// Tag operations

// ReplaceTags replaces the cached account tag list
func (s *SQLite) ReplaceTags(ctx context.Context, tags []models.Tag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tags"); err != nil {
		return err
	}

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, "INSERT INTO tags (name, count) VALUES (?, ?)", tag.Name, tag.Count); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListTags lists the cached account tags by descending count
func (s *SQLite) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, count FROM tags ORDER BY count DESC, name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.Name, &tag.Count); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// Account profile

// SaveUser stores the account profile (a single row)
func (s *SQLite) SaveUser(ctx context.Context, user *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM account"); err != nil {
		return err
	}

	var createdAt sql.NullTime
	if user.CreatedAt != nil {
		createdAt = sql.NullTime{Time: *user.CreatedAt, Valid: true}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO account (id, user_name, email, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.UserName, user.Email, createdAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetUser retrieves the cached account profile
func (s *SQLite) GetUser(ctx context.Context) (*models.User, error) {
	var user models.User
	var email sql.NullString
	var createdAt sql.NullTime

	err := s.db.QueryRowContext(ctx, "SELECT id, user_name, email, created_at FROM account LIMIT 1").
		Scan(&user.ID, &user.UserName, &email, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no cached user, run a sync first")
	}
	if err != nil {
		return nil, err
	}

	user.Email = email.String
	if createdAt.Valid {
		user.CreatedAt = &createdAt.Time
	}
	return &user, nil
}

// Statistics

// CountNotes returns the number of cached notes
func (s *SQLite) CountNotes(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&count)
	return count, err
}

// CountNotesWithMedia returns the number of cached notes with attachments
func (s *SQLite) CountNotesWithMedia(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notes WHERE media IS NOT NULL AND media != '' AND media != 'null' AND media != '[]'").
		Scan(&count)
	return count, err
}

// TopTags returns the most used tags, by service-reported note count
func (s *SQLite) TopTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, count FROM tags ORDER BY count DESC, name ASC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}

	return counts, rows.Err()
}

// NotesBySource groups cached notes by the client that created them
func (s *SQLite) NotesBySource(ctx context.Context) ([]models.SourceCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT COALESCE(source, ''), COUNT(*) FROM notes GROUP BY source ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.SourceCount
	for rows.Next() {
		var sc models.SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}

	return counts, rows.Err()
}
