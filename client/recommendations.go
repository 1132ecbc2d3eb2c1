package client

import (
	"context"
	"net/url"
	"strconv"
)

// RecommendationService fetches content and collaborative recommendations.
type RecommendationService struct {
	c *Client
}

func recommendParams(id int64, limit int) url.Values {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(id, 10))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

// Content returns catalog movies most similar to the given movie by genre and
// description. limit <= 0 uses the server default.
func (s *RecommendationService) Content(ctx context.Context, id int64, limit int) ([]Recommendation, error) {
	params := recommendParams(id, limit)
	params.Set("type", "content")

	var recs []Recommendation
	if err := s.c.get(ctx, "/recommended/", params, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Collaborative returns movies the external catalog considers similar to the
// given movie.
func (s *RecommendationService) Collaborative(ctx context.Context, id int64, limit int) ([]SimilarMovie, error) {
	var recs []SimilarMovie
	if err := s.c.get(ctx, "/collaborative_recommended/", recommendParams(id, limit), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
