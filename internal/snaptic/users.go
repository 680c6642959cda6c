package snaptic

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/snaptic/go-snaptic/internal/models"
)

// User fetches the authenticated account's profile.
func (c *Client) User(ctx context.Context) (*models.User, error) {
	const operation = "get user"

	data, err := c.do(ctx, operation, http.MethodGet, versioned(endpointUserJSON), "", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, decodeError(operation, err)
	}
	if envelope.User == nil {
		return nil, &APIError{Sentinel: ErrBadResponse, Operation: operation, Body: "no user key in response"}
	}
	return envelope.User, nil
}

// Ping verifies that the host is reachable and the credentials are accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.User(ctx)
	return err
}
