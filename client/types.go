package client

import "time"

// Movie is a catalog record.
type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	Year        *int      `json:"year"`
	PosterURL   string    `json:"poster_url"`
	TMDbID      *string   `json:"tmdb_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateMovieRequest is the payload for creating a movie.
type CreateMovieRequest struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre,omitempty"`
	Description string  `json:"description,omitempty"`
	Rating      float64 `json:"rating"`
	Year        *int    `json:"year,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	TMDbID      *string `json:"tmdb_id,omitempty"`
}

// UpdateMovieRequest is the payload for updating a movie. Nil fields are left
// unchanged.
type UpdateMovieRequest struct {
	Title       *string  `json:"title,omitempty"`
	Genre       *string  `json:"genre,omitempty"`
	Description *string  `json:"description,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Year        *int     `json:"year,omitempty"`
	PosterURL   *string  `json:"poster_url,omitempty"`
	TMDbID      *string  `json:"tmdb_id,omitempty"`
}

// MovieListOptions filters and paginates a movie listing.
type MovieListOptions struct {
	Search  string
	Limit   int
	Offset  int
	Refresh bool
}

// Recommendation is a stored movie scored against a target.
type Recommendation struct {
	Movie
	RecommendationType string  `json:"recommendation_type"`
	ConfidenceScore    float64 `json:"confidence_score"`
	TMDbURL            string  `json:"tmdb_url"`
}

// SimilarMovie is a collaborative result from the external catalog. It is
// not stored, so ID is the external id.
type SimilarMovie struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	TMDbID             string  `json:"tmdb_id"`
	Genre              string  `json:"genre"`
	Description        string  `json:"description"`
	Rating             float64 `json:"rating"`
	Year               *int    `json:"year"`
	PosterURL          string  `json:"poster_url"`
	RecommendationType string  `json:"recommendation_type"`
	ConfidenceScore    float64 `json:"confidence_score"`
	TMDbURL            string  `json:"tmdb_url"`
}

// ImportResult summarises a feed import.
type ImportResult struct {
	Pages    int `json:"pages"`
	Fetched  int `json:"fetched"`
	Upserted int `json:"upserted"`
}

// MovieIssues lists the problems found on one movie.
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

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	CatalogFeed   string  `json:"catalog_feed"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is the readiness payload.
type ReadyResponse struct {
	Status        string            `json:"status"`
	SchemaVersion int64             `json:"schema_version"`
	Movies        int               `json:"movies"`
	Checks        map[string]string `json:"checks"`
}
