package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/movierec/internal/domain"
	"github.com/persistorai/movierec/internal/metrics"
	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/tmdb"
)

// importConcurrency bounds how many feed pages are fetched at once.
const importConcurrency = 4

// ImportStore is the data-access subset ImportService needs.
type ImportStore interface {
	UpsertByExternalID(ctx context.Context, movies []models.UpsertMovie) (int, error)
	Count(ctx context.Context) (int, error)
}

var _ domain.ImportService = (*ImportService)(nil)

// ImportService imports the popular movies feed into the catalog.
type ImportService struct {
	store        ImportStore
	feed         CatalogFeed
	defaultPages int
	log          *logrus.Logger
}

// NewImportService creates an ImportService. defaultPages is used when an
// import asks for zero pages.
func NewImportService(store ImportStore, feed CatalogFeed, defaultPages int, log *logrus.Logger) *ImportService {
	if defaultPages <= 0 {
		defaultPages = 10
	}

	return &ImportService{store: store, feed: feed, defaultPages: defaultPages, log: log}
}

// ImportPopular fetches popular pages 1..pages and upserts them by external id.
// Any page failure aborts the import before anything is written.
func (s *ImportService) ImportPopular(ctx context.Context, pages int) (*models.ImportResult, error) {
	if pages <= 0 {
		pages = s.defaultPages
	}

	results := make([][]tmdb.Movie, pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	for i := range pages {
		page := i + 1

		g.Go(func() error {
			p, err := s.feed.Popular(gctx, page)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}

			results[i] = p.Results

			s.log.WithFields(logrus.Fields{"page": page, "movies": len(p.Results)}).Debug("fetched popular page")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, upstreamError("importing popular movies", err)
	}

	var rows []models.UpsertMovie

	for _, page := range results {
		for i := range page {
			m := &page[i]
			f := mapFeedMovie(s.feed, m)

			if f.title == "" {
				continue
			}

			rows = append(rows, models.UpsertMovie{
				ExternalID:  m.IDString(),
				Title:       f.title,
				Genre:       f.genre,
				Description: f.description,
				Rating:      f.rating,
				Year:        f.year,
				PosterURL:   f.posterURL,
			})
		}
	}

	upserted, err := s.store.UpsertByExternalID(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("saving imported movies: %w", err)
	}

	metrics.ImportedMovies.Add(float64(upserted))

	if n, err := s.store.Count(ctx); err == nil {
		metrics.CatalogSize.Set(float64(n))
	}

	s.log.WithFields(logrus.Fields{
		"pages":    pages,
		"fetched":  len(rows),
		"upserted": upserted,
	}).Info("catalog import finished")

	return &models.ImportResult{Pages: pages, Fetched: len(rows), Upserted: upserted}, nil
}
