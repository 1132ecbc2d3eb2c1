// Package domain defines the canonical service interfaces shared by the HTTP
// layer and the service implementations. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/persistorai/movierec/internal/models"
)

// MovieStore defines catalog persistence operations.
type MovieStore interface {
	ListAll(ctx context.Context) ([]models.Movie, error)
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	GetMany(ctx context.Context, ids []int64) ([]models.Movie, error)
	ListMovies(ctx context.Context, search string, limit, offset int) ([]models.Movie, bool, error)
	CreateMovie(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
	UpsertByExternalID(ctx context.Context, movies []models.UpsertMovie) (int, error)
	Count(ctx context.Context) (int, error)
}

// MovieService defines movie CRUD operations exposed over HTTP.
type MovieService interface {
	ListMovies(ctx context.Context, search string, limit, offset int) ([]models.Movie, bool, error)
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	CreateMovie(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
}

// RecommendationService defines content-based recommendation.
type RecommendationService interface {
	GetContentRecommendations(ctx context.Context, movieID int64, limit int) ([]models.Recommendation, error)
}

// CollaborativeService defines the external similar-movies proxy.
type CollaborativeService interface {
	Similar(ctx context.Context, movieID int64, limit int) ([]models.SimilarMovie, error)
}

// ImportService defines catalog import from the external feed.
type ImportService interface {
	ImportPopular(ctx context.Context, pages int) (*models.ImportResult, error)
}

// ValidateService defines the catalog validation pass.
type ValidateService interface {
	Validate(ctx context.Context) (*models.ValidationReport, error)
}
