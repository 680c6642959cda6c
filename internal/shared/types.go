package shared

import (
	"time"
)

// NoteFilter provides filtering options for listing cached notes
type NoteFilter struct {
	Keyword   string
	Tag       string
	Source    string
	HasMedia  *bool
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}
