package client

import "context"

// AdminService handles administrative operations. It requires WithAPIKey.
type AdminService struct {
	c *Client
}

// Import pulls pages of the popular feed into the catalog. pages <= 0 uses
// the server default.
func (s *AdminService) Import(ctx context.Context, pages int) (*ImportResult, error) {
	body := struct {
		Pages int `json:"pages,omitempty"`
	}{Pages: max(pages, 0)}

	var res ImportResult
	if err := s.c.post(ctx, "/admin/import", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ValidateMovies checks the catalog and fills missing genre and description
// defaults.
func (s *AdminService) ValidateMovies(ctx context.Context) (*ValidationReport, error) {
	var report ValidationReport
	if err := s.c.post(ctx, "/admin/validate-movies", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
