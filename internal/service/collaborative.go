package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/persistorai/movierec/internal/domain"
	"github.com/persistorai/movierec/internal/metrics"
	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/tmdb"
)

// resolveTimeout bounds a shared title search, which outlives any single caller.
const resolveTimeout = 15 * time.Second

// CollaborativeStore is the data-access subset CollaborativeService needs.
type CollaborativeStore interface {
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
}

var _ domain.CollaborativeService = (*CollaborativeService)(nil)

// CollaborativeService proxies the external catalog's similar-movies feed.
// Results are not persisted, except for the external id resolved for the
// target movie.
type CollaborativeService struct {
	store CollaborativeStore
	feed  CatalogFeed
	group singleflight.Group
	log   *logrus.Logger
}

// NewCollaborativeService creates a CollaborativeService.
func NewCollaborativeService(store CollaborativeStore, feed CatalogFeed, log *logrus.Logger) *CollaborativeService {
	return &CollaborativeService{store: store, feed: feed, log: log}
}

// Similar returns up to limit externally sourced movies similar to movieID,
// with confidence 100/rank.
func (s *CollaborativeService) Similar(ctx context.Context, movieID int64, limit int) ([]models.SimilarMovie, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendationDuration.WithLabelValues(models.RecommendationCollaborative).Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		limit = 5
	}

	movie, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	extID, err := s.resolveExternalID(ctx, movie)
	if err != nil {
		return nil, err
	}

	similar, err := s.feed.Similar(ctx, extID)
	if err != nil {
		return nil, upstreamError("fetching similar movies", err)
	}

	if len(similar) > limit {
		similar = similar[:limit]
	}

	out := make([]models.SimilarMovie, 0, len(similar))

	for i := range similar {
		m := &similar[i]
		f := mapFeedMovie(s.feed, m)
		id := m.IDString()

		out = append(out, models.SimilarMovie{
			ID:                 id,
			Title:              f.title,
			ExternalID:         id,
			Genre:              f.genre,
			Description:        f.description,
			Rating:             f.rating,
			Year:               f.year,
			PosterURL:          f.posterURL,
			RecommendationType: models.RecommendationCollaborative,
			ConfidenceScore:    models.RankConfidence(i + 1),
			TMDbURL:            tmdb.MovieURL(id),
		})
	}

	if len(out) == 0 {
		return nil, models.ErrNoSimilarMovies
	}

	return out, nil
}

// resolveExternalID returns the movie's external id, searching the feed by
// title and persisting the first match when it has none. Concurrent
// resolutions for the same movie share one search.
func (s *CollaborativeService) resolveExternalID(ctx context.Context, movie *models.Movie) (string, error) {
	if movie.ExternalID != nil && *movie.ExternalID != "" {
		return *movie.ExternalID, nil
	}

	key := strconv.FormatInt(movie.ID, 10)

	ch := s.group.DoChan(key, func() (any, error) {
		// The search is shared, so one caller leaving must not cancel it for the rest.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
		defer cancel()

		results, err := s.feed.SearchMovies(ctx, movie.Title)
		if err != nil {
			return "", upstreamError("searching catalog", err)
		}

		if len(results) == 0 {
			return "", fmt.Errorf("%w for %q", models.ErrNoExternalMatch, movie.Title)
		}

		extID := results[0].IDString()

		if _, err := s.store.UpdateMovie(ctx, movie.ID, models.UpdateMovieRequest{ExternalID: &extID}); err != nil {
			// Another movie may already own this id; the lookup still succeeds.
			s.log.WithError(err).WithFields(logrus.Fields{
				"movie_id": movie.ID,
				"tmdb_id":  extID,
			}).Warn("failed to persist resolved external id")
		}

		return extID, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}

	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"movie_id": movie.ID,
		"tmdb_id":  v,
		"shared":   shared,
	}).Info("resolved external id by title")

	return v.(string), nil //nolint:forcetypeassert // the group only returns strings.
}
