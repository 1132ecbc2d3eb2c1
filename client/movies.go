package client

import (
	"context"
	"net/url"
	"strconv"
)

// MovieService handles movie CRUD operations.
type MovieService struct {
	c *Client
}

// movieListResponse wraps the paginated movie list response.
type movieListResponse struct {
	Movies  []Movie `json:"movies"`
	HasMore bool    `json:"has_more"`
}

// List returns movies with optional search and pagination. Refresh asks the
// server to import the popular feed before listing.
func (s *MovieService) List(ctx context.Context, opts *MovieListOptions) ([]Movie, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Search != "" {
			params.Set("search", opts.Search)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Refresh {
			params.Set("refresh", "true")
		}
	}
	var resp movieListResponse
	if err := s.c.get(ctx, "/movies/", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Movies, resp.HasMore, nil
}

// Get returns a single movie by ID.
func (s *MovieService) Get(ctx context.Context, id int64) (*Movie, error) {
	var movie Movie
	if err := s.c.get(ctx, moviePath(id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Create creates a new movie.
func (s *MovieService) Create(ctx context.Context, req *CreateMovieRequest) (*Movie, error) {
	var movie Movie
	if err := s.c.post(ctx, "/movies/", req, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Update updates an existing movie by ID.
func (s *MovieService) Update(ctx context.Context, id int64, req *UpdateMovieRequest) (*Movie, error) {
	var movie Movie
	if err := s.c.put(ctx, moviePath(id), req, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Delete removes a movie by ID.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	return s.c.del(ctx, moviePath(id), nil)
}

func moviePath(id int64) string {
	return "/movies/" + strconv.FormatInt(id, 10)
}
