package models

import "time"

// Statistics models

// TagCount is a tag name with the number of cached notes carrying it
type TagCount struct {
	Tag   string `json:"tag" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

// SourceCount is a note source (client name) with its note count
type SourceCount struct {
	Source string `json:"source" bson:"_id"`
	Count  int    `json:"count" bson:"count"`
}

// CacheStats summarizes the state of the local note cache
type CacheStats struct {
	TotalNotes    int           `json:"total_notes"`
	NotesWithTags int           `json:"notes_with_tags"`
	WithMedia     int           `json:"with_media"`
	TopTags       []TagCount    `json:"top_tags,omitempty"`
	BySource      []SourceCount `json:"by_source,omitempty"`
	LastSync      *time.Time    `json:"last_sync,omitempty"`
}

// SearchRequest is the body of POST /api/v1/search
type SearchRequest struct {
	Keyword string `json:"keyword" binding:"required"`
	Tag     string `json:"tag,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// SearchResponse is the result envelope for a keyword search
type SearchResponse struct {
	Keyword string `json:"keyword"`
	Total   int    `json:"total"`
	Notes   []Note `json:"notes"`
}
