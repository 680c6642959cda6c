package snaptic

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

// AttachImageFile loads an image from disk and appends it to a note.
func (c *Client) AttachImageFile(ctx context.Context, noteID int64, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}
	return c.AttachImage(ctx, noteID, filepath.Base(path), data)
}

// AttachImage uploads image data as multipart/form-data and appends it to
// the note with the given id.
func (c *Client) AttachImage(ctx context.Context, noteID int64, filename string, data []byte) error {
	operation := fmt.Sprintf("attach image to note %d", noteID)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentTypeFor(filename))
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to encode multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to encode multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to encode multipart body: %w", err)
	}

	path := fmt.Sprintf("%s%d.json", versioned(endpointImages), noteID)
	_, err = c.do(ctx, operation, http.MethodPost, path, writer.FormDataContentType(), &body)
	return err
}

// Image downloads the raw image data for a media id.
func (c *Client) Image(ctx context.Context, id int64) ([]byte, error) {
	path := fmt.Sprintf("%s%d", endpointImagesView, id)
	return c.do(ctx, fmt.Sprintf("get image %d", id), http.MethodGet, path, "", nil)
}

// contentTypeFor guesses the mime type of a file, defaulting to
// application/octet-stream.
func contentTypeFor(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
