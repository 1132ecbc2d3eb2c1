package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/httputil"
	"github.com/persistorai/movierec/internal/metrics"
	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/recommend"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest      = "invalid_request"
	ErrCodeNotFound            = "not_found"
	ErrCodeConflict            = "conflict"
	ErrCodeInternalError       = "internal_error"
	ErrCodeUnauthorized        = "unauthorized"
	ErrCodeRateLimited         = "rate_limited"
	ErrCodeValidationError     = "validation_error"
	ErrCodeUpstreamUnavailable = "upstream_unavailable"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// classify maps a service error to a response status and code. ok is false
// for errors with no client-facing meaning.
func classify(err error) (status int, code string, ok bool) {
	switch {
	case models.IsValidation(err),
		errors.Is(err, recommend.ErrInsufficientData),
		errors.Is(err, recommend.ErrNoUsableData):
		return http.StatusBadRequest, ErrCodeValidationError, true
	case errors.Is(err, models.ErrMovieNotFound),
		errors.Is(err, models.ErrNoMovies),
		errors.Is(err, models.ErrNoRecommendations),
		errors.Is(err, models.ErrNoSimilarMovies),
		errors.Is(err, models.ErrNoExternalMatch):
		return http.StatusNotFound, ErrCodeNotFound, true
	case errors.Is(err, models.ErrDuplicateKey):
		return http.StatusConflict, ErrCodeConflict, true
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable, true
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, false
	}
}

// respondServiceError maps err to a response. Unclassified errors are logged
// and answered with a generic 500; detail adds the error text to it.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error, op string, detail bool) {
	status, code, ok := classify(err)

	switch {
	case ok && status == http.StatusConflict:
		respondError(c, status, code, "a movie with this title or tmdb_id already exists")
	case ok && status == http.StatusServiceUnavailable:
		log.WithError(err).Warn(op)
		respondError(c, status, code, "external catalog unavailable")
	case ok:
		respondError(c, status, code, err.Error())
	default:
		log.WithError(err).Error(op)

		msg := "internal server error"
		if detail {
			msg += ": " + err.Error()
		}

		respondError(c, status, code, msg)
	}
}
