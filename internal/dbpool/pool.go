// Package dbpool owns the PostgreSQL connection pool shared by the stores,
// the notify bridge and the health checks.
package dbpool

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMaxConns is used when NewPool is given a non-positive maxConns.
const DefaultMaxConns = 10

// statementTimeout bounds every server-side statement, in milliseconds.
const statementTimeout = "30000"

// Pool is a thin wrapper over pgxpool. Stores only see the query methods.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to databaseURL and verifies the connection. The pool holds
// one connection above maxConns so the LISTEN bridge never starves queries.
func NewPool(ctx context.Context, databaseURL string, maxConns int32) (*Pool, error) {
	cfg, err := poolConfig(databaseURL, maxConns)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

func poolConfig(databaseURL string, maxConns int32) (*pgxpool.Config, error) {
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	cfg.ConnConfig.RuntimeParams["statement_timeout"] = statementTimeout
	cfg.ConnConfig.RuntimeParams["application_name"] = "movierec"

	cfg.MaxConns = maxConns + 1
	cfg.MinConns = min(2, maxConns)
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return cfg, nil
}

// Acquire checks out a dedicated connection. Callers must Release it.
func (p *Pool) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	return p.pool.Acquire(ctx)
}

func (p *Pool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

func (p *Pool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

func (p *Pool) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.pool.Begin(ctx)
}

func (p *Pool) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) { //nolint:gocritic // matching pgxpool.Pool signature.
	return p.pool.BeginTx(ctx, opts)
}

// Ping checks a pooled connection is alive.
func (p *Pool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthCheck runs a trivial query, which also proves the statement path works.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var one int
	if err := p.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health check query: %w", err)
	}

	return nil
}

// ConnString is the DSN the pool was built from. Migrations reuse it.
func (p *Pool) ConnString() string {
	return p.pool.Config().ConnString()
}

// Collector exposes pool occupancy as movierec_db_pool_* gauges.
func (p *Pool) Collector() prometheus.Collector {
	return &poolCollector{pool: p.pool}
}

var (
	acquiredDesc = prometheus.NewDesc("movierec_db_pool_acquired_conns", "Connections currently checked out", nil, nil)
	idleDesc     = prometheus.NewDesc("movierec_db_pool_idle_conns", "Idle connections in the pool", nil, nil)
	maxDesc      = prometheus.NewDesc("movierec_db_pool_max_conns", "Pool size limit", nil, nil)
)

type poolCollector struct {
	pool *pgxpool.Pool
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- acquiredDesc
	ch <- idleDesc
	ch <- maxDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(acquiredDesc, prometheus.GaugeValue, float64(st.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(idleDesc, prometheus.GaugeValue, float64(st.IdleConns()))
	ch <- prometheus.MustNewConstMetric(maxDesc, prometheus.GaugeValue, float64(st.MaxConns()))
}

func (p *Pool) Close() {
	p.pool.Close()
}
