package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/domain"
	"github.com/persistorai/movierec/internal/models"
)

// MovieStore is the data-access interface MovieService depends on.
type MovieStore interface {
	ListMovies(ctx context.Context, search string, limit, offset int) ([]models.Movie, bool, error)
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	CreateMovie(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
}

// Compile-time check: *MovieService must satisfy domain.MovieService.
var _ domain.MovieService = (*MovieService)(nil)

// MovieService wraps MovieStore for the CRUD endpoints.
type MovieService struct {
	store MovieStore
	log   *logrus.Logger
}

// NewMovieService creates a MovieService.
func NewMovieService(store MovieStore, log *logrus.Logger) *MovieService {
	return &MovieService{store: store, log: log}
}

// ListMovies returns a paginated list of movies (pass-through).
func (s *MovieService) ListMovies(ctx context.Context, search string, limit, offset int) ([]models.Movie, bool, error) {
	return s.store.ListMovies(ctx, search, limit, offset)
}

// GetMovie returns a single movie by ID (pass-through).
func (s *MovieService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	return s.store.GetMovie(ctx, id)
}

// CreateMovie validates and stores a new movie.
func (s *MovieService) CreateMovie(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.CreateMovie(ctx, req)
}

// UpdateMovie validates and applies a partial update.
func (s *MovieService) UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.UpdateMovie(ctx, id, req)
}

// DeleteMovie removes a movie (pass-through).
func (s *MovieService) DeleteMovie(ctx context.Context, id int64) error {
	return s.store.DeleteMovie(ctx, id)
}
