package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// APIError is a non-2xx response. Code and Message come from the server's
// {code, message, request_id} body when it sent one.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "movierec: %d %s: %s", e.StatusCode, e.Code, e.Message)

	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request_id=%s)", e.RequestID)
	}

	return b.String()
}

func asAPIError(err error) (*APIError, bool) {
	var e *APIError
	ok := errors.As(err, &e)

	return e, ok
}

func hasStatus(err error, statuses ...int) bool {
	e, ok := asAPIError(err)
	if !ok {
		return false
	}

	for _, s := range statuses {
		if e.StatusCode == s {
			return true
		}
	}

	return false
}

// IsNotFound covers a missing movie as well as empty recommendation results.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsConflict reports a duplicate title or tmdb_id.
func IsConflict(err error) bool { return hasStatus(err, http.StatusConflict) }

func IsInvalid(err error) bool { return hasStatus(err, http.StatusBadRequest) }

// IsUnauthorized reports a missing or rejected admin key, or disabled admin
// endpoints.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized, http.StatusForbidden)
}

func IsRateLimited(err error) bool { return hasStatus(err, http.StatusTooManyRequests) }

// IsUnavailable reports that the server or its external catalog is down.
func IsUnavailable(err error) bool { return hasStatus(err, http.StatusServiceUnavailable) }

// parseAPIError decodes the standard error body. Anything else is kept
// verbatim as the message with code "unknown".
func parseAPIError(statusCode int, body []byte) *APIError {
	e := &APIError{StatusCode: statusCode}

	if json.Unmarshal(body, e) == nil && e.Code != "" {
		return e
	}

	e.Code = "unknown"
	e.Message = string(body)

	return e
}
