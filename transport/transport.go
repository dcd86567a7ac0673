// Package transport executes HTTP requests against the content service and
// normalizes the outcome into a types.UploadResult.
//
// Non-2xx responses are results, not errors: callers decide what a failed
// status means. Only connection-level failures are returned as errors, and
// those are classified as types.ErrNetwork.
package transport

//go:generate mockgen -source=transport.go -destination=mocks/sender.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pithecene-io/seedbank/iox"
	"github.com/pithecene-io/seedbank/types"
)

// DefaultBaseURL is the service URL used when none is configured.
const DefaultBaseURL = "http://localhost:8080/"

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 8 << 20

// Request describes one call. Body and Parts are mutually exclusive: when
// Parts is non-empty the request is sent as multipart/form-data.
type Request struct {
	// Method is http.MethodPost or http.MethodPut.
	Method string
	// Path is resolved against the client's base URL (e.g. "/api/activity/batch").
	Path string
	// Body is sent as application/json. May be empty.
	Body []byte
	// Parts are the multipart parts, in order.
	Parts []Part
	// Headers are added to the request (e.g. Authorization).
	Headers types.AuthHeaders
}

// Sender executes requests.
type Sender interface {
	Send(ctx context.Context, req Request) (*types.UploadResult, error)
}

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the service root (default DefaultBaseURL).
	BaseURL string
	// Timeout is the per-request timeout. Zero keeps the net/http default (none).
	Timeout time.Duration
	// HTTPClient overrides the underlying client.
	HTTPClient *http.Client
}

// Client sends requests over HTTP.
type Client struct {
	base   *url.URL
	client *http.Client
}

// New creates a client from the given config.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, types.ConfigError("invalid api url %q: %v", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, types.ConfigError("api url %q must use http or https", cfg.BaseURL)
	}
	if cfg.Timeout < 0 {
		return nil, types.ConfigError("timeout must be >= 0, got %s", cfg.Timeout)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{base: base, client: client}, nil
}

// Resolve resolves path against the base URL using URL reference rules,
// so "/api/x" replaces any path on the base URL.
func (c *Client) Resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.base.String() + path
	}
	return c.base.ResolveReference(ref).String()
}

// Send performs a single request. It never retries.
func (c *Client) Send(ctx context.Context, req Request) (*types.UploadResult, error) {
	op := req.Method + " " + req.Path

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, types.NewError(types.ErrMalformedInput, op, fmt.Errorf("encode body: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.Resolve(req.Path), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrNetwork, op, err)
	}
	defer iox.DiscardClose(resp.Body)

	data, err := iox.ReadAllLimit(resp.Body, MaxResponseBytes)
	if err != nil {
		return nil, types.NewError(types.ErrNetwork, op, fmt.Errorf("read response: %w", err))
	}

	return &types.UploadResult{StatusCode: resp.StatusCode, Body: data}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func encodeBody(req Request) ([]byte, string, error) {
	if len(req.Parts) == 0 {
		return req.Body, "application/json", nil
	}
	if len(req.Body) > 0 {
		return nil, "", errors.New("request cannot carry both a body and multipart parts")
	}
	return encodeMultipart(req.Parts)
}

// Verify Client implements Sender.
var _ Sender = (*Client)(nil)
