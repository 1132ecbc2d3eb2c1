package api_test

import (
	"context"

	"github.com/persistorai/movierec/internal/models"
)

// mockMovieService implements api.MovieService for testing.
type mockMovieService struct {
	listFn   func(ctx context.Context, search string, limit, offset int) ([]models.Movie, bool, error)
	getFn    func(ctx context.Context, id int64) (*models.Movie, error)
	createFn func(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error)
	updateFn func(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockMovieService) ListMovies(ctx context.Context, search string, limit, offset int) ([]models.Movie, bool, error) {
	return m.listFn(ctx, search, limit, offset)
}

func (m *mockMovieService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	return m.getFn(ctx, id)
}

func (m *mockMovieService) CreateMovie(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error) {
	return m.createFn(ctx, req)
}

func (m *mockMovieService) UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error) {
	return m.updateFn(ctx, id, req)
}

func (m *mockMovieService) DeleteMovie(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

// mockRecommender implements api.RecommendationService for testing.
type mockRecommender struct {
	fn func(ctx context.Context, movieID int64, limit int) ([]models.Recommendation, error)
}

func (m *mockRecommender) GetContentRecommendations(ctx context.Context, movieID int64, limit int) ([]models.Recommendation, error) {
	return m.fn(ctx, movieID, limit)
}

// mockCollaborative implements api.CollaborativeService for testing.
type mockCollaborative struct {
	fn func(ctx context.Context, movieID int64, limit int) ([]models.SimilarMovie, error)
}

func (m *mockCollaborative) Similar(ctx context.Context, movieID int64, limit int) ([]models.SimilarMovie, error) {
	return m.fn(ctx, movieID, limit)
}

// mockImporter implements api.ImportService for testing.
type mockImporter struct {
	calls int
	fn    func(ctx context.Context, pages int) (*models.ImportResult, error)
}

func (m *mockImporter) ImportPopular(ctx context.Context, pages int) (*models.ImportResult, error) {
	m.calls++
	return m.fn(ctx, pages)
}

// mockValidator implements api.ValidateService for testing.
type mockValidator struct {
	fn func(ctx context.Context) (*models.ValidationReport, error)
}

func (m *mockValidator) Validate(ctx context.Context) (*models.ValidationReport, error) {
	return m.fn(ctx)
}

// mockPinger implements api.HealthChecker and api.CatalogCounter.
type mockPinger struct {
	pingErr  error
	countErr error
}

func (m *mockPinger) HealthCheck(_ context.Context) error { return m.pingErr }

func (m *mockPinger) Count(_ context.Context) (int, error) { return 3, m.countErr }
