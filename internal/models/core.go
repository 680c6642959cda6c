package models

import (
	"time"
)

// Core domain models

// User represents a Snaptic account as returned by /v1/user.json
type User struct {
	ID        int64      `json:"id" bson:"_id"`
	UserName  string     `json:"user_name" bson:"user_name"`
	Email     string     `json:"email,omitempty" bson:"email,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Media represents an attachment on a note. The service currently only
// returns image media.
type Media struct {
	Type       string `json:"type" bson:"type"` // image
	ID         int64  `json:"id" bson:"id"`
	RevisionID int64  `json:"revision_id,omitempty" bson:"revision_id,omitempty"`
	MD5        string `json:"md5,omitempty" bson:"md5,omitempty"`
	Width      int    `json:"width,omitempty" bson:"width,omitempty"`
	Height     int    `json:"height,omitempty" bson:"height,omitempty"`
	Src        string `json:"src,omitempty" bson:"src,omitempty"`
}

// Note represents a Snaptic note
type Note struct {
	ID         int64      `json:"id" bson:"_id"`
	Text       string     `json:"text" bson:"text"`
	Summary    string     `json:"summary,omitempty" bson:"summary,omitempty"`
	Source     string     `json:"source,omitempty" bson:"source,omitempty"`
	SourceURL  string     `json:"source_url,omitempty" bson:"source_url,omitempty"`
	Mode       string     `json:"mode,omitempty" bson:"mode,omitempty"` // private, public
	User       *User      `json:"user,omitempty" bson:"user,omitempty"`
	Children   int        `json:"children" bson:"children,omitempty"`
	Tags       []string   `json:"tags,omitempty" bson:"tags,omitempty"`
	Media      []Media    `json:"media,omitempty" bson:"media,omitempty"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	ModifiedAt time.Time  `json:"modified_at" bson:"modified_at"`
	ReminderAt *time.Time `json:"reminder_at,omitempty" bson:"reminder_at,omitempty"`
}

// HasMedia reports whether the note carries any attachments.
func (n *Note) HasMedia() bool {
	return len(n.Media) > 0
}

// Tag represents a tag with its note count from /v1/tags/tags.json.
// The service returns count as a JSON string.
type Tag struct {
	Name  string `json:"name" bson:"name"`
	Count int    `json:"count,string" bson:"count"`
}

// CursorPage is one page of notes plus the cursor metadata the service
// returns alongside it. Cursor -1 addresses the newest page, 0 everything,
// positive values walk backwards in time.
type CursorPage struct {
	Notes          []Note `json:"notes"`
	PreviousCursor int    `json:"previous_cursor"`
	NextCursor     int    `json:"next_cursor"`
	Count          int    `json:"count"`
}

// Schedule kinds executed by the scheduler.
const (
	JobSync  = "sync"
	JobCheck = "check"
)

// Schedule represents a recurring job (cache sync or check run)
type Schedule struct {
	ID        string     `json:"id" bson:"_id"`
	Name      string     `json:"name" bson:"name"`
	Kind      string     `json:"kind" bson:"kind"` // sync, check
	CronExpr  string     `json:"cron_expr" bson:"cron_expr"`
	Suite     string     `json:"suite,omitempty" bson:"suite,omitempty"` // check suite path, for kind=check
	Enabled   bool       `json:"enabled" bson:"enabled"`
	LastRun   *time.Time `json:"last_run,omitempty" bson:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty" bson:"next_run,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// SyncRun records one cache refresh against the remote service
type SyncRun struct {
	ID         string    `json:"id" bson:"_id"`
	ScheduleID string    `json:"schedule_id,omitempty" bson:"schedule_id,omitempty"`
	Notes      int       `json:"notes" bson:"notes"`
	Tags       int       `json:"tags" bson:"tags"`
	DurationMs int64     `json:"duration_ms" bson:"duration_ms"`
	Error      string    `json:"error,omitempty" bson:"error,omitempty"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
}

// CheckRecord stores the outcome of one check inside a suite run
type CheckRecord struct {
	ID         string    `json:"id" bson:"_id"`
	RunID      string    `json:"run_id" bson:"run_id"`
	Check      string    `json:"check" bson:"check"`
	Status     string    `json:"status" bson:"status"` // pass, fail, skip
	Detail     string    `json:"detail,omitempty" bson:"detail,omitempty"`
	Attempts   int       `json:"attempts" bson:"attempts"`
	LatencyMs  int64     `json:"latency_ms" bson:"latency_ms"`
	Host       string    `json:"host" bson:"host"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
}
