package snaptic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/snaptic/go-snaptic/internal/models"
)

// Notes fetches every note in the account.
func (c *Client) Notes(ctx context.Context) ([]models.Note, error) {
	page, err := c.notesPage(ctx, "list notes", versioned(endpointNotesJSON))
	if err != nil {
		return nil, err
	}
	return page.Notes, nil
}

// NotesAt fetches one page of notes from a cursor position. Cursor -1 is
// the newest page, positive cursors walk backwards in time, and 0 returns
// the whole account in a single page.
func (c *Client) NotesAt(ctx context.Context, cursor int) (*models.CursorPage, error) {
	path := fmt.Sprintf("%s?cursor=%d", versioned(endpointNotesJSON), cursor)
	return c.notesPage(ctx, fmt.Sprintf("list notes at cursor %d", cursor), path)
}

func (c *Client) notesPage(ctx context.Context, operation, path string) (*models.CursorPage, error) {
	data, err := c.do(ctx, operation, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var page models.CursorPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, decodeError(operation, err)
	}
	return &page, nil
}

// PostNote creates a note from text and returns the stored note.
func (c *Client) PostNote(ctx context.Context, text string) (*models.Note, error) {
	params := url.Values{"text": {text}}
	return c.postNoteForm(ctx, "post note", versioned(endpointNotesJSON), params)
}

// EditNote replaces the text of an existing note and returns the updated
// note. Only the text field is writable through this endpoint.
func (c *Client) EditNote(ctx context.Context, id int64, text string) (*models.Note, error) {
	params := url.Values{"text": {text}}
	path := fmt.Sprintf("%s%d.json", versioned(endpointNotes), id)
	return c.postNoteForm(ctx, fmt.Sprintf("edit note %d", id), path, params)
}

func (c *Client) postNoteForm(ctx context.Context, operation, path string, params url.Values) (*models.Note, error) {
	body := strings.NewReader(params.Encode())
	data, err := c.do(ctx, operation, http.MethodPost, path, "application/x-www-form-urlencoded", body)
	if err != nil {
		return nil, err
	}

	// The service echoes the note back inside a single-element notes array.
	var envelope struct {
		Notes []models.Note `json:"notes"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, decodeError(operation, err)
	}
	if len(envelope.Notes) == 0 {
		return nil, &APIError{Sentinel: ErrBadResponse, Operation: operation, Body: "no note returned"}
	}
	return &envelope.Notes[0], nil
}

// DeleteNote deletes a note by id.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s%d", versioned(endpointNotes), id)
	_, err := c.do(ctx, fmt.Sprintf("delete note %d", id), http.MethodDelete, path, "", nil)
	return err
}
