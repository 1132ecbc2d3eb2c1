package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/tmdb"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

// mockMovieStore records calls and returns configured responses. Unset
// functions panic when called.
type mockMovieStore struct {
	mu    sync.Mutex
	calls []string

	listAll     func(ctx context.Context) ([]models.Movie, error)
	getMovie    func(ctx context.Context, id int64) (*models.Movie, error)
	getMany     func(ctx context.Context, ids []int64) ([]models.Movie, error)
	listMovies  func(ctx context.Context, search string, limit, offset int) ([]models.Movie, bool, error)
	createMovie func(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error)
	updateMovie func(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
	deleteMovie func(ctx context.Context, id int64) error
	upsert      func(ctx context.Context, movies []models.UpsertMovie) (int, error)
	count       func(ctx context.Context) (int, error)
}

func (m *mockMovieStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockMovieStore) called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}

	return n
}

func (m *mockMovieStore) ListAll(ctx context.Context) ([]models.Movie, error) {
	m.record("ListAll")
	return m.listAll(ctx)
}

func (m *mockMovieStore) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	m.record("GetMovie")
	return m.getMovie(ctx, id)
}

func (m *mockMovieStore) GetMany(ctx context.Context, ids []int64) ([]models.Movie, error) {
	m.record("GetMany")
	return m.getMany(ctx, ids)
}

func (m *mockMovieStore) ListMovies(ctx context.Context, search string, limit, offset int) ([]models.Movie, bool, error) {
	m.record("ListMovies")
	return m.listMovies(ctx, search, limit, offset)
}

func (m *mockMovieStore) CreateMovie(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error) {
	m.record("CreateMovie")
	return m.createMovie(ctx, req)
}

func (m *mockMovieStore) UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error) {
	m.record("UpdateMovie")
	return m.updateMovie(ctx, id, req)
}

func (m *mockMovieStore) DeleteMovie(ctx context.Context, id int64) error {
	m.record("DeleteMovie")
	return m.deleteMovie(ctx, id)
}

func (m *mockMovieStore) UpsertByExternalID(ctx context.Context, movies []models.UpsertMovie) (int, error) {
	m.record("UpsertByExternalID")
	return m.upsert(ctx, movies)
}

func (m *mockMovieStore) Count(ctx context.Context) (int, error) {
	m.record("Count")
	return m.count(ctx)
}

// catalogStore backs a mockMovieStore with a fixed in-memory catalog.
func catalogStore(movies []models.Movie) *mockMovieStore {
	byID := make(map[int64]models.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	return &mockMovieStore{
		listAll: func(_ context.Context) ([]models.Movie, error) {
			return movies, nil
		},
		getMovie: func(_ context.Context, id int64) (*models.Movie, error) {
			m, ok := byID[id]
			if !ok {
				return nil, models.ErrMovieNotFound
			}

			return &m, nil
		},
		getMany: func(_ context.Context, ids []int64) ([]models.Movie, error) {
			// Reverse order so callers cannot rely on it.
			out := make([]models.Movie, 0, len(ids))
			for i := len(ids) - 1; i >= 0; i-- {
				if m, ok := byID[ids[i]]; ok {
					out = append(out, m)
				}
			}

			return out, nil
		},
	}
}

// mockFeed is a CatalogFeed with configurable responses.
type mockFeed struct {
	mu    sync.Mutex
	calls []string

	popular func(ctx context.Context, page int) (*tmdb.Page, error)
	search  func(ctx context.Context, query string) ([]tmdb.Movie, error)
	similar func(ctx context.Context, id string) ([]tmdb.Movie, error)
}

func (f *mockFeed) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *mockFeed) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}

	return n
}

func (f *mockFeed) Popular(ctx context.Context, page int) (*tmdb.Page, error) {
	f.record("Popular")
	return f.popular(ctx, page)
}

func (f *mockFeed) SearchMovies(ctx context.Context, query string) ([]tmdb.Movie, error) {
	f.record("SearchMovies")
	return f.search(ctx, query)
}

func (f *mockFeed) Similar(ctx context.Context, id string) ([]tmdb.Movie, error) {
	f.record("Similar")
	return f.similar(ctx, id)
}

func (f *mockFeed) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}

	return fmt.Sprintf("https://img.test/%s%s", size, path)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
