package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/movierec/internal/models"
)

// MovieStore handles movie CRUD operations.
type MovieStore struct {
	Base
}

// NewMovieStore creates a new MovieStore.
func NewMovieStore(base Base) *MovieStore {
	return &MovieStore{Base: base}
}

// CreateMovie inserts a new movie and returns the created record.
// The request is expected to have passed Validate.
func (s *MovieStore) CreateMovie(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating movie: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `INSERT INTO movies (title, genre, description, rating, year, poster_url, tmdb_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + movieColumns

	row := tx.QueryRow(ctx, query,
		req.Title, req.Genre, req.Description, req.Rating, req.Year, req.PosterURL, req.ExternalID)

	m, err := scanMovie(row.Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created movie: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create movie: %w", err)
	}

	s.notify("insert", 1)

	return m, nil
}

// buildMovieUpdateQuery constructs the SET clause and arguments for UpdateMovie.
// Returns the set clauses, query args, and the next argument index.
func buildMovieUpdateQuery(req models.UpdateMovieRequest) (setClauses []string, args []any, nextArg int) {
	setClauses = make([]string, 0, 7)
	args = make([]any, 0, 8)
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Title != nil {
		set("title", *req.Title)
	}

	if req.Genre != nil {
		set("genre", *req.Genre)
	}

	if req.Description != nil {
		set("description", *req.Description)
	}

	if req.Rating != nil {
		set("rating", *req.Rating)
	}

	if req.Year != nil {
		set("year", *req.Year)
	}

	if req.PosterURL != nil {
		set("poster_url", *req.PosterURL)
	}

	if req.ExternalID != nil {
		// An empty external id clears the link.
		var ext *string
		if *req.ExternalID != "" {
			ext = req.ExternalID
		}

		set("tmdb_id", ext)
	}

	return setClauses, args, argIdx
}

// UpdateMovie updates an existing movie with the provided fields and returns the result.
func (s *MovieStore) UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	setClauses, args, argIdx := buildMovieUpdateQuery(req)
	if len(setClauses) == 0 {
		return s.GetMovie(ctx, id)
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("updating movie: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := fmt.Sprintf(
		"UPDATE movies SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "),
		argIdx,
		movieColumns,
	)
	args = append(args, id)

	m, err := scanMovie(tx.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrMovieNotFound
		}

		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning updated movie: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update movie: %w", err)
	}

	s.notify("update", 1)

	return m, nil
}

// DeleteMovie removes a movie by ID.
func (s *MovieStore) DeleteMovie(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM movies WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("executing movie delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrMovieNotFound
	}

	s.notify("delete", 1)

	return nil
}
