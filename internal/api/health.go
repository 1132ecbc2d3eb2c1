// Package api provides HTTP handlers for movierec.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/db"
)

const (
	livenessTimeout  = 2 * time.Second
	readinessTimeout = 3 * time.Second
)

// Check states reported by /health and /ready.
const (
	stateOK            = "ok"
	stateError         = "error"
	stateUnknown       = "unknown"
	stateDegraded      = "degraded"
	stateNotConfigured = "not_configured"
)

// HealthHandler serves /health and /ready.
type HealthHandler struct {
	pool           HealthChecker
	catalog        CatalogCounter
	hub            ClientCounter
	log            *logrus.Logger
	version        string
	feedConfigured bool
	started        time.Time
}

// NewHealthHandler creates a HealthHandler. pool, catalog and hub are
// optional; a missing one is reported as not configured or skipped.
func NewHealthHandler(
	pool HealthChecker, catalog CatalogCounter, hub ClientCounter,
	log *logrus.Logger, version string, feedConfigured bool,
) *HealthHandler {
	return &HealthHandler{
		pool:           pool,
		catalog:        catalog,
		hub:            hub,
		log:            log,
		version:        version,
		feedConfigured: feedConfigured,
		started:        time.Now(),
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	CatalogFeed   string  `json:"catalog_feed"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type readinessResponse struct {
	Status        string            `json:"status"`
	SchemaVersion int64             `json:"schema_version"`
	Movies        int               `json:"movies"`
	Checks        map[string]string `json:"checks"`
}

func (h *HealthHandler) feedState() string {
	if h.feedConfigured {
		return "configured"
	}

	return stateNotConfigured
}

// Liveness handles GET /health. It answers 200 even when the database is
// down; the database field is informational.
func (h *HealthHandler) Liveness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), livenessTimeout)
	defer cancel()

	database := stateNotConfigured
	if h.pool != nil {
		database = "connected"
		if h.pool.HealthCheck(ctx) != nil {
			database = "disconnected"
		}
	}

	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      database,
		CatalogFeed:   h.feedState(),
		UptimeSeconds: time.Since(h.started).Seconds(),
	}

	if h.hub != nil {
		resp.WSClients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /ready. The database and the movies table must both
// answer; a missing catalog feed only degrades the tmdb check.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{
		Status:        "ready",
		SchemaVersion: db.SchemaVersion(),
		Checks:        map[string]string{"database": stateOK, "schema": stateOK, "tmdb": stateOK},
	}

	switch {
	case h.pool == nil:
		resp.Checks["database"] = stateNotConfigured
	case h.failed(h.pool.HealthCheck(ctx), "database"):
		resp.Checks["database"] = stateError
	}

	if resp.Checks["database"] != stateOK {
		resp.Checks["schema"] = stateUnknown
	} else if h.catalog != nil {
		n, err := h.catalog.Count(ctx)
		if h.failed(err, "schema") {
			resp.Checks["schema"] = stateError
		}

		resp.Movies = n
	}

	if !h.feedConfigured {
		resp.Checks["tmdb"] = stateDegraded
	}

	status := http.StatusOK
	if resp.Checks["database"] != stateOK || resp.Checks["schema"] != stateOK {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

func (h *HealthHandler) failed(err error, check string) bool {
	if err == nil {
		return false
	}

	h.log.WithError(err).WithField("check", check).Error("readiness check failed")

	return true
}
