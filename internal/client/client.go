// Package client is the HTTP layer of the admin dashboard: every storefront
// API call goes through Do, which attaches the bearer token, serialises the
// body as JSON and turns non-2xx responses into *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds each request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token. tokenstore.Store satisfies it.
type TokenSource interface {
	Get() (string, bool)
}

// Client talks to the storefront /api endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger enables debug request logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for baseURL, e.g. http://localhost:3001/api. tokens may
// be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request and returns the body of a 2xx response. body, when
// non-nil, is sent as JSON. headers override the defaults.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers http.Header) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range headers {
		req.Header[http.CanonicalHeaderKey(k)] = vs
	}

	status, data, err := c.send(req, path)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, parseError(status, data, msgRequestFailed, fmt.Sprintf("HTTP %d", status))
	}
	return data, nil
}

// Download fetches raw bytes, such as the orders CSV export.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	status, data, err := c.send(req, path)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, parseError(status, data, msgRequestFailed, fmt.Sprintf("HTTP %d", status))
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// send performs req and reads the whole body.
func (c *Client) send(req *http.Request, path string) (int, []byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", path),
			zap.String("request_id", req.Header.Get("X-Request-ID")),
			zap.Error(err),
		)
		return 0, nil, &TransportError{Method: req.Method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Method: req.Method, Path: path, Err: err}
	}

	c.logger.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
	)
	return resp.StatusCode, data, nil
}

// decode unmarshals a 2xx body into T. An empty body yields the zero value.
func decode[T any](path string, data []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &DecodeError{Path: path, Body: truncate(data, 256), Err: err}
	}
	return out, nil
}

// Get sends GET path and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return call[T](ctx, c, http.MethodGet, path, nil)
}

// Post sends body to path and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return call[T](ctx, c, http.MethodPost, path, body)
}

// Put sends body to path and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return call[T](ctx, c, http.MethodPut, path, body)
}

// Delete sends DELETE path and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, path string) (T, error) {
	return call[T](ctx, c, http.MethodDelete, path, nil)
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	data, err := c.Do(ctx, method, path, body, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](path, data)
}
