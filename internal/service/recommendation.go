// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/domain"
	"github.com/persistorai/movierec/internal/metrics"
	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/recommend"
	"github.com/persistorai/movierec/internal/tmdb"
)

// RecommendationStore is the data-access subset RecommendationService needs.
type RecommendationStore interface {
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	ListAll(ctx context.Context) ([]models.Movie, error)
	GetMany(ctx context.Context, ids []int64) ([]models.Movie, error)
}

// Compile-time check: *RecommendationService must satisfy domain.RecommendationService.
var _ domain.RecommendationService = (*RecommendationService)(nil)

// RecommendationService builds content-based recommendations. The vector space
// is rebuilt from the current catalog on every call; nothing is shared across
// requests.
type RecommendationService struct {
	store RecommendationStore
	log   *logrus.Logger
}

// NewRecommendationService creates a RecommendationService.
func NewRecommendationService(store RecommendationStore, log *logrus.Logger) *RecommendationService {
	return &RecommendationService{store: store, log: log}
}

// GetContentRecommendations returns up to limit movies ranked by TF-IDF cosine
// similarity to movieID, most similar first. limit <= 0 means the default of 5.
func (s *RecommendationService) GetContentRecommendations(
	ctx context.Context, movieID int64, limit int,
) ([]models.Recommendation, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendationDuration.WithLabelValues(models.RecommendationContent).Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		limit = recommend.DefaultLimit
	}

	if _, err := s.store.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}

	candidates, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	if len(candidates) == 0 {
		return nil, models.ErrNoMovies
	}

	metrics.CatalogSize.Set(float64(len(candidates)))

	docs := make([]string, len(candidates))
	target := -1

	for i := range candidates {
		docs[i] = candidates[i].CombinedText()

		if candidates[i].ID == movieID {
			target = i
		}
	}

	matrix, err := recommend.Vectorize(docs)
	if err != nil {
		return nil, err
	}

	// The target can disappear between GetMovie and ListAll.
	if target < 0 {
		return nil, models.ErrMovieNotFound
	}

	ranked, err := recommend.Rank(matrix, target, limit)
	if err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"movie_id":   movieID,
		"candidates": len(candidates),
		"vocabulary": len(matrix.Vocabulary),
		"ranked":     len(ranked),
	}).Debug("content ranking built")

	ids := make([]int64, len(ranked))
	scores := make(map[int64]float64, len(ranked))

	for i, r := range ranked {
		id := candidates[r.Index].ID
		ids[i] = id
		scores[id] = r.Score
	}

	fetched, err := s.store.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching recommended movies: %w", err)
	}

	byID := make(map[int64]models.Movie, len(fetched))
	for _, m := range fetched {
		byID[m.ID] = m
	}

	// GetMany is unordered; the ranking order comes from ids.
	out := make([]models.Recommendation, 0, len(ids))

	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			continue
		}

		out = append(out, models.Recommendation{
			Movie:              m,
			RecommendationType: models.RecommendationContent,
			ConfidenceScore:    models.ContentConfidence(scores[id]),
			TMDbURL:            tmdb.MovieURL(deref(m.ExternalID)),
		})
	}

	if len(out) == 0 {
		return nil, models.ErrNoRecommendations
	}

	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
