package db

// Store defines the combined interface for the local cache.
// Both the sqlite and the mongodb backends implement the whole of it.
type Store interface {
	NoteStore
	JournalStore
}
