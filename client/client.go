// Package client is a typed Go SDK for the movierec REST API.
//
//	c := client.New("http://localhost:8000", client.WithAPIKey(key))
//	recs, err := c.Recommendations.Content(ctx, movieID, 10)
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "movierec-go-client"
	maxResponseBytes = 8 << 20
	maxRetryWait     = 5 * time.Second
)

// Client talks to one movierec server. The service fields group endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	retries    int
	httpClient *http.Client

	Movies          *MovieService
	Recommendations *RecommendationService
	Admin           *AdminService
}

type Option func(*Client)

// WithAPIKey sends key as a bearer token on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRetries retries GET requests up to n extra times when the server
// answers 429 or 503, waiting for Retry-After when it is given.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = max(n, 0) }
}

// New returns a client for baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, o := range opts {
		o(c)
	}

	c.Movies = &MovieService{c: c}
	c.Recommendations = &RecommendationService{c: c}
	c.Admin = &AdminService{c: c}

	return c
}

// Health calls the liveness endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/health", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Ready calls the readiness endpoint. A not-ready server yields an *APIError
// with status 503.
func (c *Client) Ready(ctx context.Context) (*ReadyResponse, error) {
	var resp ReadyResponse
	if err := c.get(ctx, "/ready", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retries
	}

	var err error
	for attempt := 1; ; attempt++ {
		var wait time.Duration
		wait, err = c.roundTrip(ctx, method, path, payload, result)
		if err == nil || wait < 0 || attempt >= attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// roundTrip performs one request. A non-negative wait means the failure is
// retryable after that delay.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, result any) (time.Duration, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return -1, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return -1, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return -1, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		wait := time.Duration(-1)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			wait = retryAfter(resp.Header.Get("Retry-After"))
		}

		return wait, parseAPIError(resp.StatusCode, raw)
	}

	if result == nil || len(raw) == 0 {
		return -1, nil
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return -1, fmt.Errorf("decode response: %w", err)
	}

	return -1, nil
}

// retryAfter parses a Retry-After header in seconds, capped at maxRetryWait.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return 500 * time.Millisecond
	}

	return min(time.Duration(secs)*time.Second, maxRetryWait)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) del(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodDelete, path, nil, result)
}
