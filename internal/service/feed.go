package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/tmdb"
)

// posterSize is the TMDb image size used for stored and proxied posters.
const posterSize = "w500"

// maxTitleRunes matches the movies.title column width.
const maxTitleRunes = 100

// CatalogFeed is the external catalog the import and collaborative services read.
type CatalogFeed interface {
	Popular(ctx context.Context, page int) (*tmdb.Page, error)
	SearchMovies(ctx context.Context, query string) ([]tmdb.Movie, error)
	Similar(ctx context.Context, id string) ([]tmdb.Movie, error)
	ImageURL(path, size string) string
}

// feedFields holds the catalog fields derived from a feed entry.
type feedFields struct {
	title       string
	genre       string
	description string
	rating      float64
	year        *int
	posterURL   string
}

// mapFeedMovie applies the catalog defaults to a feed entry. Only the first
// genre code is kept.
func mapFeedMovie(feed CatalogFeed, m *tmdb.Movie) feedFields {
	f := feedFields{
		title:       truncateRunes(strings.TrimSpace(m.Title), maxTitleRunes),
		genre:       models.DefaultGenre,
		description: models.DefaultDescription,
		rating:      models.ClampRating(m.VoteAverage),
		year:        parseYear(m.ReleaseDate),
		posterURL:   models.DefaultPosterURL,
	}

	if len(m.GenreIDs) > 0 && m.GenreIDs[0] != 0 {
		f.genre = strconv.Itoa(m.GenreIDs[0])
	}

	if strings.TrimSpace(m.Overview) != "" {
		f.description = m.Overview
	}

	if u := feed.ImageURL(m.PosterPath, posterSize); u != "" {
		f.posterURL = u
	}

	return f
}

// parseYear reads the year prefix of a YYYY-MM-DD date.
func parseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}

	y, err := strconv.Atoi(date[:4])
	if err != nil || y <= 0 {
		return nil
	}

	return &y
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n])
}

// upstreamError wraps a feed failure so handlers can map it to 503.
func upstreamError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("%s: %w: %w", op, models.ErrUpstreamUnavailable, err)
}
