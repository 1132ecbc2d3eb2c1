package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/metrics"
)

// maxRetryAfter caps how long a Retry-After header can stall a request.
const maxRetryAfter = 60 * time.Second

// get performs a GET against the API and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	if params == nil {
		params = url.Values{}
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", defaultLanguage)

	fullURL := c.baseURL + path + "?" + params.Encode()

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.doWithRetry(ctx, endpoint, fullURL)
	})
	if err != nil {
		metrics.TMDbRequests.WithLabelValues(endpoint, outcome(err)).Inc()
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.TMDbRequests.WithLabelValues(endpoint, "decode_error").Inc()
		return fmt.Errorf("tmdb %s: decoding response: %w", endpoint, err)
	}

	metrics.TMDbRequests.WithLabelValues(endpoint, "success").Inc()

	return nil
}

// stripURL drops the request URL from transport errors. The URL carries the
// api_key query parameter and must not reach logs or callers.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s %s: %w", ue.Op, redactedURL(ue.URL), ue.Err)
	}

	return err
}

func redactedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}

	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// doWithRetry executes a GET with automatic retry on retryable statuses and
// transport errors. Backoff doubles from baseDelay; Retry-After is honoured.
// On success the caller owns the response body.
func (c *Client) doWithRetry(ctx context.Context, endpoint, fullURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")

		retryDelay := c.baseDelay * (1 << attempt)

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			lastErr = fmt.Errorf("executing request: %w", stripURL(err))
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case retryableStatus(resp.StatusCode):
			if d, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
				retryDelay = d
			}

			drain(resp)
			lastErr = &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		default:
			drain(resp)
			return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		}

		if attempt == maxRetries {
			break
		}

		c.log.WithFields(logrus.Fields{
			"endpoint":    endpoint,
			"attempt":     attempt + 1,
			"max_retries": maxRetries,
			"retry_delay": retryDelay,
		}).WithError(lastErr).Warn("tmdb request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("giving up after %d retries: %w", maxRetries, lastErr)
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}

	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0, false
	}

	return min(time.Duration(seconds)*time.Second, maxRetryAfter), true
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10)) //nolint:errcheck // best-effort drain for connection reuse.
	resp.Body.Close()
}

func outcome(err error) string {
	var se *StatusError

	switch {
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case isBreakerRejection(err):
		return "rejected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &se):
		return "status_" + strconv.Itoa(se.StatusCode)
	default:
		return "error"
	}
}
