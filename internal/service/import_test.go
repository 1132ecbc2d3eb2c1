package service

import (
	"context"
	"errors"
	"testing"

	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/tmdb"
)

func TestImportPopular_FlattensPagesInOrder(t *testing.T) {
	feed := &mockFeed{
		popular: func(_ context.Context, page int) (*tmdb.Page, error) {
			return &tmdb.Page{
				Page: page,
				Results: []tmdb.Movie{
					{ID: int64(page*10 + 1), Title: "first", GenreIDs: []int{18}},
					{ID: int64(page*10 + 2), Title: "second", Overview: "plot", ReleaseDate: "1999-01-01"},
					{ID: int64(page*10 + 3), Title: "  "},
				},
			}, nil
		},
	}

	var got []models.UpsertMovie

	store := &mockMovieStore{
		upsert: func(_ context.Context, movies []models.UpsertMovie) (int, error) {
			got = movies
			return len(movies), nil
		},
		count: func(_ context.Context) (int, error) { return 6, nil },
	}

	svc := NewImportService(store, feed, 3, testLogger())

	res, err := svc.ImportPopular(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Pages != 3 || res.Fetched != 6 || res.Upserted != 6 {
		t.Errorf("result = %+v, want 3 pages, 6 fetched, 6 upserted", res)
	}

	wantIDs := []string{"11", "12", "21", "22", "31", "32"}
	if len(got) != len(wantIDs) {
		t.Fatalf("upserted %d rows, want %d", len(got), len(wantIDs))
	}

	for i, id := range wantIDs {
		if got[i].ExternalID != id {
			t.Errorf("row %d external id = %q, want %q", i, got[i].ExternalID, id)
		}
	}

	if got[0].Genre != "18" || got[0].Description != models.DefaultDescription || got[0].Year != nil {
		t.Errorf("row 0 = %+v", got[0])
	}

	if got[1].Genre != models.DefaultGenre || got[1].Description != "plot" || got[1].Year == nil || *got[1].Year != 1999 {
		t.Errorf("row 1 = %+v", got[1])
	}

	if got[1].PosterURL != models.DefaultPosterURL {
		t.Errorf("poster = %q, want default", got[1].PosterURL)
	}
}

func TestImportPopular_PageFailureWritesNothing(t *testing.T) {
	feed := &mockFeed{
		popular: func(_ context.Context, page int) (*tmdb.Page, error) {
			if page == 2 {
				return nil, &tmdb.StatusError{Endpoint: "popular", StatusCode: 503}
			}

			return &tmdb.Page{Results: []tmdb.Movie{{ID: 1, Title: "x"}}}, nil
		},
	}

	store := &mockMovieStore{}
	svc := NewImportService(store, feed, 10, testLogger())

	_, err := svc.ImportPopular(context.Background(), 3)
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}

	if store.called("UpsertByExternalID") != 0 {
		t.Error("nothing should be written when a page fails")
	}
}

func TestImportPopular_StoreError(t *testing.T) {
	feed := &mockFeed{
		popular: func(_ context.Context, _ int) (*tmdb.Page, error) {
			return &tmdb.Page{Results: []tmdb.Movie{{ID: 1, Title: "x"}}}, nil
		},
	}

	dbErr := errors.New("db down")
	store := &mockMovieStore{
		upsert: func(_ context.Context, _ []models.UpsertMovie) (int, error) { return 0, dbErr },
	}

	svc := NewImportService(store, feed, 1, testLogger())

	_, err := svc.ImportPopular(context.Background(), 1)
	if !errors.Is(err, dbErr) {
		t.Fatalf("err = %v, want %v", err, dbErr)
	}
}

func TestMapFeedMovie(t *testing.T) {
	feed := &mockFeed{}

	long := make([]rune, 150)
	for i := range long {
		long[i] = 'é'
	}

	f := mapFeedMovie(feed, &tmdb.Movie{Title: string(long), VoteAverage: 12, ReleaseDate: "abcd-01-01", GenreIDs: []int{0, 5}})

	if n := len([]rune(f.title)); n != maxTitleRunes {
		t.Errorf("title runes = %d, want %d", n, maxTitleRunes)
	}

	if f.rating != models.MaxRating {
		t.Errorf("rating = %v, want clamped to %v", f.rating, models.MaxRating)
	}

	if f.year != nil {
		t.Errorf("year = %v, want nil", *f.year)
	}

	if f.genre != models.DefaultGenre {
		t.Errorf("genre = %q, want default for zero code", f.genre)
	}
}
