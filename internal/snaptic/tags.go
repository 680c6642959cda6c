package snaptic

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/snaptic/go-snaptic/internal/models"
)

// Tags fetches the account's tags with their note counts. An account
// without tags yields an empty slice.
func (c *Client) Tags(ctx context.Context) ([]models.Tag, error) {
	const operation = "get tags"

	data, err := c.do(ctx, operation, http.MethodGet, versioned(endpointTagsJSON), "", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Tags []models.Tag `json:"tags"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, decodeError(operation, err)
	}
	return envelope.Tags, nil
}
