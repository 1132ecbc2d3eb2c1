package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/middleware"
	"github.com/persistorai/movierec/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log             *logrus.Logger
	Pool            HealthChecker
	Catalog         CatalogCounter
	Hub             *ws.Hub
	Movies          MovieService
	Recommendations RecommendationService
	Collaborative   CollaborativeService
	Importer        ImportService
	Validator       ValidateService
	CORSOrigins     []string
	AdminAPIKey     string
	Version         string
	FeedConfigured  bool
	// ServeMetrics mounts /metrics on the API router in addition to the
	// dedicated metrics listener.
	ServeMetrics bool
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 50      // requests per second per IP
	rateBurst   = 100     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	if deps.ServeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// registerRoutes sets up all route handlers.
func registerRoutes(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	log := deps.Log

	var hub ClientCounter
	if deps.Hub != nil {
		hub = deps.Hub
	}

	health := NewHealthHandler(deps.Pool, deps.Catalog, hub, log, deps.Version, deps.FeedConfigured)
	movies := NewMovieHandler(deps.Movies, deps.Importer, log)
	recs := NewRecommendHandler(deps.Recommendations, deps.Collaborative, log)
	admin := NewAdminHandler(deps.Importer, deps.Validator, log)

	r.GET("/health", health.Liveness)
	r.GET("/ready", health.Readiness)

	// Movies.
	r.GET("/movies/", movies.List)
	r.POST("/movies/", movies.Create)
	r.GET("/movies/:id", movies.Get)
	r.PUT("/movies/:id", movies.Update)
	r.DELETE("/movies/:id", movies.Delete)

	// Recommendations.
	r.GET("/recommended/", recs.Content)
	r.GET("/collaborative_recommended/", recs.Collaborative)

	// Admin.
	adminGroup := r.Group("/admin", middleware.AdminAuth(deps.AdminAPIKey, log))
	adminGroup.POST("/import", admin.Import)
	adminGroup.POST("/validate-movies", admin.ValidateMovies)

	// Change feed.
	if deps.Hub != nil {
		r.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r, deps)

	return r
}
