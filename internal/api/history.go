package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dermalab/derma/internal/core/history"
)

// History lists the past diagnosis records for the current session.
func (c *Client) History(ctx context.Context) ([]history.Record, error) {
	body, err := c.Call(ctx, MethodGet, "/api/history/", nil, nil)
	if err != nil {
		return nil, err
	}

	var records []history.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return records, nil
}

// DeleteHistory removes one record by id.
func (c *Client) DeleteHistory(ctx context.Context, id int64) error {
	_, err := c.Call(ctx, MethodDelete, fmt.Sprintf("/api/history/%d/", id), nil, nil)
	return err
}
