package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/dermalab/derma/internal/core/history"
)

// encodeUpload builds the single-field multipart body the prediction
// endpoints accept.
func encodeUpload(filename string, r io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

func (c *Client) predict(ctx context.Context, path, filename string, r io.Reader) (history.Record, error) {
	body, contentType, err := encodeUpload(filename, r)
	if err != nil {
		return history.Record{}, err
	}

	resp, err := c.Call(ctx, MethodPost, path, body, &CallOptions{ContentType: contentType})
	if err != nil {
		return history.Record{}, err
	}

	var record history.Record
	if err := json.Unmarshal(resp, &record); err != nil {
		return history.Record{}, fmt.Errorf("decode prediction: %w", err)
	}
	return record, nil
}

// Predict submits an image for authenticated analysis. The returned record
// is the server-created diagnosis, which also lands in the user's history.
func (c *Client) Predict(ctx context.Context, filename string, r io.Reader) (history.Record, error) {
	return c.predict(ctx, "/api/predict/predict", filename, r)
}

// GuestPredict submits an image anonymously. The response carries only the
// disease and confidence; nothing is persisted server-side.
func (c *Client) GuestPredict(ctx context.Context, filename string, r io.Reader) (history.Record, error) {
	return c.predict(ctx, "/api/guest/guest-predict", filename, r)
}
