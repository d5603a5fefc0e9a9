// Package api is the single chokepoint for all traffic to the diagnosis
// service. Every call flows through Client.Call, which owns the cross
// cutting concerns: anti-forgery header injection on mutating verbs, the
// transient loading notification lifecycle, and normalization of the
// server's heterogeneous error payloads. Failures are surfaced on the
// notification bus and returned to the caller so call-site recovery (such
// as redirecting to login) still happens.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dermalab/derma/internal/core/notify"
)

// Method enumerates the verbs the gateway accepts.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodDelete  Method = http.MethodDelete
	MethodHead    Method = http.MethodHead
	MethodOptions Method = http.MethodOptions
)

// csrfHeader carries the anti-forgery token on mutating requests.
const csrfHeader = "X-CSRF-TOKEN"

// DefaultBaseURL is the development server address the web client uses.
const DefaultBaseURL = "http://localhost:8000"

const defaultTimeout = 30 * time.Second

const loadingMessage = "Loading..."

// Client is the request gateway.
type Client struct {
	baseURL string
	http    *http.Client
	jar     *Jar
	bus     *notify.Bus
	log     zerolog.Logger
}

// NewClient builds a gateway against baseURL using the given cookie jar
// and notification bus.
func NewClient(baseURL string, jar *Jar, bus *notify.Bus, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout, Jar: jar},
		jar:     jar,
		bus:     bus,
		log:     logger,
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// IsLoggedIn reports whether a live session cookie is present. It is a pure
// function of cookie state at call time; nothing is cached and the token is
// never decoded.
func (c *Client) IsLoggedIn() bool {
	return c.jar.Value(SessionCookie) != ""
}

// CallOptions tune a single request.
type CallOptions struct {
	// ContentType of the request body. Defaults to application/json when
	// a body is present.
	ContentType string
	// Query parameters appended to the path.
	Query url.Values
}

// safeMethod reports whether the verb is exempt from anti-forgery
// protection.
func safeMethod(m Method) bool {
	return m == MethodGet || m == MethodHead || m == MethodOptions
}

// Call performs one request and returns the raw response body. Exactly one
// loading notification lifecycle is paired with each non-GET call, settled
// before the caller observes the outcome. Errors are normalized, published
// on the bus, and returned.
func (c *Client) Call(ctx context.Context, method Method, path string, body []byte, opts *CallOptions) ([]byte, error) {
	switch method {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead, MethodOptions:
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	var pending *notify.Pending
	if method != MethodGet {
		pending = c.bus.Loading(loadingMessage)
	}

	data, err := c.dispatch(ctx, method, path, body, opts)
	if err != nil {
		msg := genericErrorMessage
		var apiErr *Error
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		if pending != nil {
			pending.Fail(msg)
		} else {
			c.bus.Errorf("%s", msg)
		}
		if apiErr != nil {
			return nil, apiErr
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if pending != nil {
		pending.Dismiss()
	}
	return data, nil
}

func (c *Client) dispatch(ctx context.Context, method Method, path string, body []byte, opts *CallOptions) ([]byte, error) {
	if opts == nil {
		opts = &CallOptions{}
	}

	target := c.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		contentType := opts.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}

	// Mutating verbs mirror the anti-forgery cookie into a header. A
	// missing cookie is not an error; the server decides enforcement.
	if !safeMethod(method) {
		if token := c.jar.Value(CSRFCookie); token != "" {
			req.Header.Set(csrfHeader, token)
		}
	}

	reqID := uuid.NewString()
	logger := c.log.With().
		Str("request_id", reqID).
		Str("method", string(method)).
		Str("path", path).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("request failed")
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn().Err(err).Msg("read response")
		return nil, fmt.Errorf("read response: %w", err)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	if resp.StatusCode >= 400 {
		return nil, newError(resp.StatusCode, data)
	}

	return data, nil
}
