package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/movierec/internal/models"
)

// GetMovie retrieves a single movie by ID.
func (s *MovieStore) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)

	m, err := scanMovie(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrMovieNotFound
		}

		return nil, fmt.Errorf("scanning movie: %w", err)
	}

	return m, nil
}

// ListAll returns every movie ordered by id. The order is stable across calls
// so row positions in derived matrices are reproducible.
func (s *MovieStore) ListAll(ctx context.Context) ([]models.Movie, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing all movies: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	rows, err := tx.Query(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	movies, err := collectMovies(rows, 64)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing list all movies: %w", err)
	}

	return movies, nil
}

// GetMany returns the movies with the given ids. Missing ids are skipped and
// the result order is unspecified; callers rebuild their own ordering.
func (s *MovieStore) GetMany(ctx context.Context, ids []int64) ([]models.Movie, error) {
	if len(ids) == 0 {
		return []models.Movie{}, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying movies by id: %w", err)
	}
	defer rows.Close()

	return collectMovies(rows, len(ids))
}

// ListMovies returns a page of movies, optionally filtered by a case-insensitive
// match on title or genre. The bool reports whether more rows exist.
func (s *MovieStore) ListMovies(
	ctx context.Context,
	search string,
	limit, offset int,
) ([]models.Movie, bool, error) {
	limit, offset = clampPage(limit, offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where := ""
	args := make([]any, 0, 3)
	argIdx := 1

	if search = strings.TrimSpace(search); search != "" {
		where = fmt.Sprintf(" WHERE title ILIKE $%d OR genre ILIKE $%d", argIdx, argIdx)
		args = append(args, "%"+escapeLike(search)+"%")
		argIdx++
	}

	query := "SELECT " + movieColumns + " FROM movies" + where +
		fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit+1, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	movies, err := collectMovies(rows, limit+1)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(movies) > limit
	if hasMore {
		movies = movies[:limit]
	}

	return movies, hasMore, nil
}

// Count returns the number of stored movies.
func (s *MovieStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int
	if err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting movies: %w", err)
	}

	return n, nil
}
