package models

import "math"

// Recommendation types.
const (
	RecommendationContent       = "content"
	RecommendationCollaborative = "collaborative"
)

// Recommendation is a per-request view over a stored movie. It carries the
// transient scoring fields so the stored Movie is never mutated.
type Recommendation struct {
	Movie
	RecommendationType string  `json:"recommendation_type"`
	ConfidenceScore    float64 `json:"confidence_score"`
	TMDbURL            string  `json:"tmdb_url"`
}

// SimilarMovie is an externally sourced, non-persisted collaborative result.
// ID is the external catalog id.
type SimilarMovie struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	ExternalID         string  `json:"tmdb_id"`
	Genre              string  `json:"genre"`
	Description        string  `json:"description"`
	Rating             float64 `json:"rating"`
	Year               *int    `json:"year"`
	PosterURL          string  `json:"poster_url"`
	RecommendationType string  `json:"recommendation_type"`
	ConfidenceScore    float64 `json:"confidence_score"`
	TMDbURL            string  `json:"tmdb_url"`
}

// ImportResult summarises a catalog import run.
type ImportResult struct {
	Pages    int `json:"pages"`
	Fetched  int `json:"fetched"`
	Upserted int `json:"upserted"`
}

// MovieIssues lists the problems found on one movie by the catalog validator.
type MovieIssues struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Issues []string `json:"issues"`
}

// ValidationReport is the result of a catalog validation pass.
type ValidationReport struct {
	Total        int           `json:"total"`
	Fixed        int           `json:"fixed"`
	Issues       []MovieIssues `json:"issues"`
	Insufficient bool          `json:"insufficient"`
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ContentConfidence converts a cosine similarity into a 0-100 score.
func ContentConfidence(score float64) float64 {
	return Round2(score * 100)
}

// RankConfidence is the collaborative confidence for a 1-based rank.
func RankConfidence(rank int) float64 {
	if rank < 1 {
		return 0
	}

	return Round2(100 / float64(rank))
}
