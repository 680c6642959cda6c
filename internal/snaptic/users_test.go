package snaptic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/user.json", r.URL.Path)
		w.Write([]byte(`{
			"user": {
				"id": 913202,
				"user_name": "harry12",
				"created_at": "2010-04-22T04:19:16.543Z",
				"email": "harry12@example.com"
			}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	user, err := client.User(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(913202), user.ID)
	assert.Equal(t, "harry12", user.UserName)
	assert.Equal(t, "harry12@example.com", user.Email)
	require.NotNil(t, user.CreatedAt)
	assert.Equal(t, 2010, user.CreatedAt.Year())
}

func TestUserMissingEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.User(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadResponse)
}
