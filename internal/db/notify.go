package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/dbpool"
	"github.com/persistorai/movierec/internal/metrics"
)

// ChangeChannel is the NOTIFY channel catalog mutations publish on.
const ChangeChannel = "catalog_changes"

const (
	initialBackoff    = 1 * time.Second
	maxBackoff        = 30 * time.Second
	backoffMultiplier = 2
	waitDeadline      = 2 * time.Minute
)

// Broadcaster sends events to connected clients.
type Broadcaster interface {
	BroadcastEvent(eventType string, data json.RawMessage)
}

// ChangeEvent is the payload stores publish on ChangeChannel.
type ChangeEvent struct {
	Table string `json:"table"`
	Op    string `json:"op"`
	Count int64  `json:"count"`
}

// EventType returns the change feed event name, e.g. "catalog.insert".
func (e ChangeEvent) EventType() string {
	if e.Op == "" {
		return "catalog.change"
	}

	return "catalog." + e.Op
}

// NotifyBridge forwards catalog change notifications to the change feed hub.
type NotifyBridge struct {
	log  *logrus.Logger
	pool *dbpool.Pool
	hub  Broadcaster
}

// NewNotifyBridge creates a NotifyBridge wired to the given pool and hub.
func NewNotifyBridge(log *logrus.Logger, pool *dbpool.Pool, hub Broadcaster) *NotifyBridge {
	return &NotifyBridge{log: log, pool: pool, hub: hub}
}

// Start checks the database is reachable, then listens in the background
// until ctx is cancelled, reconnecting with jittered backoff.
func (b *NotifyBridge) Start(ctx context.Context) error {
	if err := b.pool.Ping(ctx); err != nil {
		return fmt.Errorf("notify bridge: database not reachable: %w", err)
	}

	go b.run(ctx)

	return nil
}

func (b *NotifyBridge) run(ctx context.Context) {
	backoff := initialBackoff

	for ctx.Err() == nil {
		err := b.listen(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}

		b.log.WithError(err).WithField("retry_in", backoff).Warn("notify bridge disconnected")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff)
	}
}

// listen holds one pooled connection in LISTEN until it fails or ctx ends.
func (b *NotifyBridge) listen(ctx context.Context) error {
	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ChangeChannel}.Sanitize()); err != nil {
		return fmt.Errorf("executing LISTEN: %w", err)
	}

	b.log.WithField("channel", ChangeChannel).Info("notify bridge listening")

	for {
		// The read deadline wakes the wait so cancellation is noticed.
		if err := conn.Conn().PgConn().Conn().SetReadDeadline(time.Now().Add(waitDeadline)); err != nil {
			return fmt.Errorf("setting read deadline: %w", err)
		}

		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return fmt.Errorf("waiting for notification: %w", err)
		}

		b.forward(n.Payload)
	}
}

// forward decodes a payload and broadcasts it. Malformed payloads and
// mutations that touched no rows are dropped.
func (b *NotifyBridge) forward(payload string) {
	var ev ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil || ev.Table == "" {
		b.log.WithField("payload", payload).Warn("dropping malformed catalog notification")

		return
	}

	if ev.Count <= 0 {
		return
	}

	metrics.ChangeEvents.WithLabelValues(ev.EventType()).Inc()
	b.hub.BroadcastEvent(ev.EventType(), json.RawMessage(payload))
}

// nextBackoff doubles current with ±25% jitter, capped at maxBackoff.
func nextBackoff(current time.Duration) time.Duration {
	next := min(current*backoffMultiplier, maxBackoff)

	return time.Duration(float64(next) * (0.75 + rand.Float64()*0.5)) //nolint:gosec // jitter only.
}
