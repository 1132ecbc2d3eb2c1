package store

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/movierec/internal/models"
)

// movieColumns lists the columns selected for movie queries.
const movieColumns = `id, title, genre, description, rating, year,
	poster_url, tmdb_id, created_at, updated_at`

// scanMovie scans a single row into a models.Movie.
func scanMovie(scan func(dest ...any) error) (*models.Movie, error) {
	var m models.Movie

	err := scan(
		&m.ID,
		&m.Title,
		&m.Genre,
		&m.Description,
		&m.Rating,
		&m.Year,
		&m.PosterURL,
		&m.ExternalID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// collectMovies scans all rows into a movie slice.
func collectMovies(rows pgx.Rows, capacity int) ([]models.Movie, error) {
	movies := make([]models.Movie, 0, capacity)

	for rows.Next() {
		m, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}

		movies = append(movies, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movie rows: %w", err)
	}

	return movies, nil
}
