// Package models defines data types for the movie catalog.
package models

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Defaults applied when a catalog record lacks text fields.
const (
	DefaultGenre       = "Unknown"
	DefaultDescription = "No description available."
	DefaultPosterURL   = "/no-image.png"
)

// Field limits, matching the movies table.
const (
	maxTitleLen      = 100
	maxGenreLen      = 50
	maxDescLen       = 20000
	maxPosterURLLen  = 500
	maxExternalIDLen = 20
)

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// Movie is a stored catalog record.
type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	Year        *int      `json:"year"`
	PosterURL   string    `json:"poster_url"`
	ExternalID  *string   `json:"tmdb_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CombinedText returns the document used for content similarity: genre and
// description joined by a space. Stored values are used as is; defaults are
// applied when a movie is written, not here.
func (m *Movie) CombinedText() string {
	return m.Genre + " " + m.Description
}

// ClampRating bounds a rating to [MinRating, MaxRating]. NaN becomes MinRating.
func ClampRating(r float64) float64 {
	if math.IsNaN(r) || r < MinRating {
		return MinRating
	}

	if r > MaxRating {
		return MaxRating
	}

	return r
}

// CreateMovieRequest is the payload for creating a movie.
type CreateMovieRequest struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Year        *int    `json:"year,omitempty"`
	PosterURL   string  `json:"poster_url"`
	ExternalID  *string `json:"tmdb_id,omitempty"`
}

// Validate checks required fields and limits, fills defaults and clamps the rating.
func (r *CreateMovieRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrMissingTitle
	}

	if utf8.RuneCountInString(r.Title) > maxTitleLen {
		return ErrFieldTooLong("title", maxTitleLen)
	}

	if strings.TrimSpace(r.Genre) == "" {
		r.Genre = DefaultGenre
	}

	if utf8.RuneCountInString(r.Genre) > maxGenreLen {
		return ErrFieldTooLong("genre", maxGenreLen)
	}

	if strings.TrimSpace(r.Description) == "" {
		r.Description = DefaultDescription
	}

	if len(r.Description) > maxDescLen {
		return ErrFieldTooLong("description", maxDescLen)
	}

	if r.PosterURL == "" {
		r.PosterURL = DefaultPosterURL
	}

	if len(r.PosterURL) > maxPosterURLLen {
		return ErrFieldTooLong("poster_url", maxPosterURLLen)
	}

	if r.Year != nil && *r.Year <= 0 {
		return ErrInvalidYear
	}

	if r.ExternalID != nil {
		if *r.ExternalID == "" {
			r.ExternalID = nil
		} else if len(*r.ExternalID) > maxExternalIDLen {
			return ErrFieldTooLong("tmdb_id", maxExternalIDLen)
		}
	}

	r.Rating = ClampRating(r.Rating)

	return nil
}

// UpdateMovieRequest is the payload for partially updating a movie.
// Nil fields are left unchanged.
type UpdateMovieRequest struct {
	Title       *string  `json:"title,omitempty"`
	Genre       *string  `json:"genre,omitempty"`
	Description *string  `json:"description,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Year        *int     `json:"year,omitempty"`
	PosterURL   *string  `json:"poster_url,omitempty"`
	ExternalID  *string  `json:"tmdb_id,omitempty"`
}

// Validate checks UpdateMovieRequest fields, clamps the rating and restores
// defaults for blanked genre or description.
func (r *UpdateMovieRequest) Validate() error {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return ErrMissingTitle
		}

		if utf8.RuneCountInString(t) > maxTitleLen {
			return ErrFieldTooLong("title", maxTitleLen)
		}

		r.Title = &t
	}

	// Blanking genre or description restores the default, as on create.
	if r.Genre != nil && strings.TrimSpace(*r.Genre) == "" {
		g := DefaultGenre
		r.Genre = &g
	}

	if r.Genre != nil && utf8.RuneCountInString(*r.Genre) > maxGenreLen {
		return ErrFieldTooLong("genre", maxGenreLen)
	}

	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		d := DefaultDescription
		r.Description = &d
	}

	if r.Description != nil && len(*r.Description) > maxDescLen {
		return ErrFieldTooLong("description", maxDescLen)
	}

	if r.PosterURL != nil && len(*r.PosterURL) > maxPosterURLLen {
		return ErrFieldTooLong("poster_url", maxPosterURLLen)
	}

	if r.Year != nil && *r.Year <= 0 {
		return ErrInvalidYear
	}

	if r.ExternalID != nil && len(*r.ExternalID) > maxExternalIDLen {
		return ErrFieldTooLong("tmdb_id", maxExternalIDLen)
	}

	if r.Rating != nil {
		clamped := ClampRating(*r.Rating)
		r.Rating = &clamped
	}

	return nil
}

// IsEmpty reports whether the request carries no changes.
func (r *UpdateMovieRequest) IsEmpty() bool {
	return r.Title == nil && r.Genre == nil && r.Description == nil && r.Rating == nil &&
		r.Year == nil && r.PosterURL == nil && r.ExternalID == nil
}

// UpsertMovie is one row of a bulk import keyed on ExternalID.
type UpsertMovie struct {
	ExternalID  string
	Title       string
	Genre       string
	Description string
	Rating      float64
	Year        *int
	PosterURL   string
}
