package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingTitle error = &validationError{msg: "title is required"}
	ErrInvalidYear  error = &validationError{msg: "year must be a positive integer"}
)

// Sentinel errors for catalog lookups.
var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrNoMovies          = errors.New("no movies in database")
	ErrNoRecommendations = errors.New("no valid recommendations found")
	ErrNoSimilarMovies   = errors.New("no similar movies found")
	ErrNoExternalMatch   = errors.New("no catalog match found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrUpstreamUnavailable indicates the external catalog feed could not be reached
// or answered with an error (maps to HTTP 503).
var ErrUpstreamUnavailable = errors.New("upstream catalog unavailable")

// ErrInvalidInput is wrapped by every request validation failure.
var ErrInvalidInput = errors.New("invalid input")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return &validationError{msg: fmt.Sprintf("%s exceeds maximum length of %d", field, maxLen)}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrInvalidInput }
