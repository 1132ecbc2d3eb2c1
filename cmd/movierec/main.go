// Command movierec serves the movie catalog and recommendation API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/movierec/internal/api"
	"github.com/persistorai/movierec/internal/config"
	"github.com/persistorai/movierec/internal/db"
	"github.com/persistorai/movierec/internal/db/migrations"
	"github.com/persistorai/movierec/internal/dbpool"
	"github.com/persistorai/movierec/internal/service"
	"github.com/persistorai/movierec/internal/store"
	"github.com/persistorai/movierec/internal/tmdb"
	"github.com/persistorai/movierec/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("movierec exited")
	}
}

func setLogLevel(log *logrus.Logger, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown LOG_LEVEL, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setLogLevel(log, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	prometheus.MustRegister(pool.Collector())

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	hub := ws.NewHub(log)
	movies := store.NewMovieStore(store.Base{Pool: pool, Log: log})

	feed := tmdb.New(cfg.TMDbAPIKey.Value(),
		tmdb.WithBaseURL(cfg.TMDbBaseURL),
		tmdb.WithImageBaseURL(cfg.TMDbImageBaseURL),
		tmdb.WithRateLimit(cfg.TMDbRateLimit),
		tmdb.WithLogger(log),
	)
	if !feed.Configured() {
		log.Warn("TMDB_API_KEY not set, import and collaborative recommendations are disabled")
	}
	if !cfg.AdminEnabled() {
		log.Info("ADMIN_API_KEY not set, admin routes are disabled")
	}

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:             log,
		Pool:            pool,
		Catalog:         movies,
		Hub:             hub,
		Movies:          service.NewMovieService(movies, log),
		Recommendations: service.NewRecommendationService(movies, log),
		Collaborative:   service.NewCollaborativeService(movies, feed, log),
		Importer:        service.NewImportService(movies, feed, cfg.ImportPages, log),
		Validator:       service.NewValidateService(movies, log),
		CORSOrigins:     cfg.CORSOrigins,
		AdminAPIKey:     cfg.AdminAPIKey.Value(),
		Version:         config.Version,
		FeedConfigured:  feed.Configured(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	// The change feed is optional; the API keeps serving without it.
	if err := db.NewNotifyBridge(log, pool, hub).Start(gctx); err != nil {
		log.WithError(err).Warn("change feed disabled")
	}

	g.Go(func() error {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "version": config.Version}).Info("movierec listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.WithField("addr", metricsSrv.Addr).Info("metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Shutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("http shutdown")
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("metrics shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("movierec stopped")
	return nil
}
