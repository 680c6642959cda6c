package snaptic

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachImage(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG magic

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/images/1813083.json", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "photo.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, payload, data)

		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	require.NoError(t, client.AttachImage(context.Background(), 1813083, "photo.jpg", payload))
}

func TestAttachImageFileMissing(t *testing.T) {
	client := New("alice", "secret", nil)
	err := client.AttachImageFile(context.Background(), 1, "/does/not/exist.jpg")
	require.Error(t, err)
}

func TestImage(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/viewImage.action", r.URL.Path)
		assert.Equal(t, "2114668", r.URL.Query().Get("viewNodeId"))
		w.Write(payload)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	data, err := client.Image(context.Background(), 2114668)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", contentTypeFor("a.jpg"))
	assert.Equal(t, "image/png", contentTypeFor("a.png"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("a.unknownext"))
}
