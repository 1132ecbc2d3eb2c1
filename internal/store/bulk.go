package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/movierec/internal/models"
)

// maxBulkBatchSize limits the number of rows per INSERT statement to avoid
// exceeding PostgreSQL's parameter limit (65535 params).
const maxBulkBatchSize = 500

const upsertColumns = 7

// UpsertByExternalID inserts or updates movies keyed on their external id in a
// single transaction using multi-row INSERT ... ON CONFLICT. Rows repeating an
// external id or title already seen in the batch are dropped, as are rows whose
// title belongs to a different stored movie. Returns the number of upserted rows.
func (s *MovieStore) UpsertByExternalID(ctx context.Context, movies []models.UpsertMovie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("bulk upsert movies: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	owners, err := titleOwners(ctx, tx, movies)
	if err != nil {
		return 0, err
	}

	batch := dedupeUpserts(movies, owners)
	if skipped := len(movies) - len(batch); skipped > 0 {
		s.Log.WithField("skipped", skipped).Warn("skipping import rows with conflicting titles or ids")
	}

	total := 0

	// Process in batches to stay within parameter limits.
	for i := 0; i < len(batch); i += maxBulkBatchSize {
		end := min(i+maxBulkBatchSize, len(batch))

		n, err := upsertBatch(ctx, tx, batch[i:end])
		if err != nil {
			return 0, err
		}

		total += n
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing bulk upsert movies: %w", err)
	}

	if total > 0 {
		s.notify("bulk", total)
	}

	return total, nil
}

func upsertBatch(ctx context.Context, tx pgx.Tx, batch []models.UpsertMovie) (int, error) {
	valueParts := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*upsertColumns)

	for j, m := range batch {
		base := j*upsertColumns + 1
		valueParts = append(valueParts, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args, m.ExternalID, m.Title, m.Genre, m.Description, m.Rating, m.Year, m.PosterURL)
	}

	sql := `INSERT INTO movies (tmdb_id, title, genre, description, rating, year, poster_url)
		VALUES ` + strings.Join(valueParts, ", ") + `
		ON CONFLICT (tmdb_id) DO UPDATE
		SET title = EXCLUDED.title,
			genre = EXCLUDED.genre,
			description = EXCLUDED.description,
			rating = EXCLUDED.rating,
			year = EXCLUDED.year,
			poster_url = EXCLUDED.poster_url,
			updated_at = NOW()`

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, models.ErrDuplicateKey
		}

		return 0, fmt.Errorf("bulk upserting movies batch: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// titleOwners maps each stored title in the batch to the external id it is
// linked to ("" when the stored movie has none).
func titleOwners(ctx context.Context, tx pgx.Tx, movies []models.UpsertMovie) (map[string]string, error) {
	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}

	rows, err := tx.Query(ctx, `SELECT title, COALESCE(tmdb_id, '') FROM movies WHERE title = ANY($1)`, titles)
	if err != nil {
		return nil, fmt.Errorf("querying existing titles: %w", err)
	}
	defer rows.Close()

	owners := make(map[string]string, len(movies))

	for rows.Next() {
		var title, ext string
		if err := rows.Scan(&title, &ext); err != nil {
			return nil, fmt.Errorf("scanning existing title: %w", err)
		}

		owners[title] = ext
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating existing titles: %w", err)
	}

	return owners, nil
}

// dedupeUpserts keeps the first occurrence of each external id and title and
// drops rows whose title is held by a movie with another external id.
func dedupeUpserts(movies []models.UpsertMovie, owners map[string]string) []models.UpsertMovie {
	seenExt := make(map[string]struct{}, len(movies))
	seenTitle := make(map[string]struct{}, len(movies))
	out := make([]models.UpsertMovie, 0, len(movies))

	for _, m := range movies {
		if m.ExternalID == "" {
			continue
		}

		if _, ok := seenExt[m.ExternalID]; ok {
			continue
		}

		if _, ok := seenTitle[m.Title]; ok {
			continue
		}

		if owner, ok := owners[m.Title]; ok && owner != m.ExternalID {
			continue
		}

		seenExt[m.ExternalID] = struct{}{}
		seenTitle[m.Title] = struct{}{}
		out = append(out, m)
	}

	return out
}
