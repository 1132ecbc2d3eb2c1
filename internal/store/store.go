// Package store provides PostgreSQL data access for the movie catalog.
//
// Stores embed shared helpers (Pool, logger) via the Base struct. Mutations
// publish a pg_notify on the catalog_changes channel after commit.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/db"
	"github.com/persistorai/movierec/internal/dbpool"
)

const (
	defaultQueryTimeout = 30 * time.Second
	moviesTable         = "movies"
)

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// notify publishes ev on db.ChangeChannel. Failures are logged, not returned.
func (b *Base) notify(op string, count int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"table": moviesTable,
		"op":    op,
		"count": count,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify($1, $2)", db.ChangeChannel, string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + op + " " + moviesTable + " notification")
	}
}
