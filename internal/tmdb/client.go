// Package tmdb is a client for The Movie Database (TMDb) v3 API.
//
// Outbound calls are paced by a token-bucket limiter, retried with
// exponential backoff on 429/502/503/504 and transport errors, and guarded
// by a circuit breaker.
package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public TMDb v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL is the public TMDb image CDN root.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	// WebBaseURL is the root of public movie pages.
	WebBaseURL = "https://www.themoviedb.org/movie/"

	defaultTimeout   = 15 * time.Second
	defaultLanguage  = "en-US"
	defaultRateLimit = 20
	maxRetries       = 5
)

// Client talks to the TMDb API.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[*http.Response]
	baseDelay    time.Duration
	log          *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithImageBaseURL overrides the image CDN root.
func WithImageBaseURL(u string) Option {
	return func(c *Client) { c.imageBaseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the outbound request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
		}
	}
}

// WithBackoff sets the first retry delay. Later retries double it.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a TMDb client for the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		imageBaseURL: DefaultImageBaseURL,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		limiter:      rate.NewLimiter(defaultRateLimit, defaultRateLimit),
		baseDelay:    time.Second,
		log:          logrus.StandardLogger(),
	}

	for _, o := range opts {
		o(c)
	}

	c.breaker = newBreaker("tmdb-api", c.log)

	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Popular returns one page of the popular movies feed.
func (c *Client) Popular(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	var p Page
	if err := c.get(ctx, "popular", "/movie/popular", url.Values{"page": {strconv.Itoa(page)}}, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// SearchMovies searches movies by title and returns the first page of matches.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	var p Page
	if err := c.get(ctx, "search", "/search/movie", url.Values{"query": {query}, "page": {"1"}}, &p); err != nil {
		return nil, err
	}

	return p.Results, nil
}

// Similar returns the first page of movies similar to the given external id.
func (c *Client) Similar(ctx context.Context, id string) ([]Movie, error) {
	var p Page

	path := "/movie/" + url.PathEscape(id) + "/similar"
	if err := c.get(ctx, "similar", path, url.Values{"page": {"1"}}, &p); err != nil {
		return nil, err
	}

	return p.Results, nil
}

// ImageURL builds an image URL for a poster path at the given size (e.g. "w500").
// It returns "" when path is empty.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return fmt.Sprintf("%s/%s%s", c.imageBaseURL, size, path)
}

// MovieURL returns the public page for an external id, or "#" when id is empty.
func MovieURL(id string) string {
	if id == "" {
		return "#"
	}

	return WebBaseURL + id
}
