package tmdb

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Movie is one movie entry in a feed listing.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
}

// IDString returns the movie id in the form stored as an external id.
func (m *Movie) IDString() string {
	return strconv.FormatInt(m.ID, 10)
}

// Page is a paginated feed listing.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// ErrNotConfigured is returned when no API key is configured.
var ErrNotConfigured = errors.New("tmdb: api key not configured")

// StatusError is returned for non-2xx responses that are not retried, or that
// are still failing once retries are exhausted.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d", e.Endpoint, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the feed.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// retryableStatus reports whether a response status should be retried.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// clientFault reports whether err is a 4xx that says nothing about feed health.
func clientFault(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 &&
		se.StatusCode != http.StatusTooManyRequests
}
