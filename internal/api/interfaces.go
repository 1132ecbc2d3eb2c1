package api

import (
	"context"

	"github.com/persistorai/movierec/internal/domain"
)

// Handler dependencies. The service contracts live in domain so the service
// package can assert against them.
type (
	MovieService          = domain.MovieService
	RecommendationService = domain.RecommendationService
	CollaborativeService  = domain.CollaborativeService
	ImportService         = domain.ImportService
	ValidateService       = domain.ValidateService
)

// HealthChecker reports database reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CatalogCounter counts stored movies; readiness uses it as the schema check.
type CatalogCounter interface {
	Count(ctx context.Context) (int, error)
}

// ClientCounter reports the number of connected change feed clients.
type ClientCounter interface {
	ClientCount() int
}
