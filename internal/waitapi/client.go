package waitapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Remote is the contract the sync engine needs from the wait-time service.
// It is implemented by *Client and can be faked in tests.
type Remote interface {
	PushSelection(ctx context.Context, optionID int) error
	FetchCurrent(ctx context.Context) (int, error)
}

// Ensure Client implements Remote at compile time.
var _ Remote = (*Client)(nil)

// Client talks to the wait-time HTTP API.
type Client struct {
	endpoint  *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
	newID     func() string
}

const (
	apiKeyHeader     = "X-API-Key"
	requestIDHeader  = "X-Request-ID"
	defaultUserAgent = "waitwatch/0.1"
	defaultTimeout   = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for endpoint, authenticating with apiKey.
func NewClient(endpoint, apiKey string, opts ...Option) (*Client, error) {
	u, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:  u,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ParseEndpoint validates that raw is an absolute http(s) URL.
func ParseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: endpoint is empty", ErrInvalidEndpoint)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q not supported", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	u.Fragment = ""
	return u, nil
}

// PushSelection posts optionID as the new selection. Only HTTP 200 counts as
// success; the response body is ignored.
func (c *Client) PushSelection(ctx context.Context, optionID int) error {
	if c == nil || c.endpoint == nil {
		return ErrInvalidEndpoint
	}
	body, err := json.Marshal(SelectRequest{OptionID: optionID})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.newID != nil {
		req.Header.Set(requestIDHeader, c.newID())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// FetchCurrent reads the selection the server currently publishes.
func (c *Client) FetchCurrent(ctx context.Context) (int, error) {
	if c == nil || c.endpoint == nil {
		return 0, ErrInvalidEndpoint
	}
	reqURL := *c.endpoint
	values := reqURL.Query()
	values.Set("action", "current")
	reqURL.RawQuery = values.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, &StatusError{Code: resp.StatusCode}
	}
	var payload CurrentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ErrMalformedResponse, err)
	}
	if payload.OptionID == nil {
		return 0, fmt.Errorf("%w: current_option_id missing", ErrMalformedResponse)
	}
	return *payload.OptionID, nil
}

// Valid reports whether the client has a usable endpoint. A zero or nil
// Client fails every call with ErrInvalidEndpoint.
func (c *Client) Valid() bool {
	return c != nil && c.endpoint != nil
}

// Endpoint returns the configured endpoint, or "" for a zero Client.
func (c *Client) Endpoint() string {
	if c == nil || c.endpoint == nil {
		return ""
	}
	return c.endpoint.String()
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}
