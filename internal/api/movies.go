package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/tmdb"
)

// MovieHandler serves movie CRUD endpoints.
type MovieHandler struct {
	svc      MovieService
	importer ImportService
	log      *logrus.Logger
}

// NewMovieHandler creates a MovieHandler. importer may be nil, which disables
// refresh and empty-catalog imports.
func NewMovieHandler(svc MovieService, importer ImportService, log *logrus.Logger) *MovieHandler {
	return &MovieHandler{svc: svc, importer: importer, log: log}
}

// List handles GET /movies/. refresh=true imports the popular feed first; an
// empty catalog is also filled from the feed on the first unfiltered page.
func (h *MovieHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	search := strings.TrimSpace(c.Query("search"))
	limit := parseLimit(c.Query("limit"), defaultPageLimit, maxPaginationLimit)
	offset := parseOffset(c.Query("offset"))
	refresh := parseBool(c.Query("refresh"))

	if len(search) > maxSearchLen {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "search exceeds maximum length")

		return
	}

	if refresh {
		if h.importer == nil {
			respondError(c, http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable, "catalog import is not configured")

			return
		}

		if !h.runImport(c, "refresh") {
			return
		}
	}

	movies, hasMore, err := h.svc.ListMovies(ctx, search, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing movies")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	if !refresh && len(movies) == 0 && search == "" && offset == 0 && h.importer != nil {
		if !h.runImport(c, "empty_catalog") {
			return
		}

		movies, hasMore, err = h.svc.ListMovies(ctx, search, limit, offset)
		if err != nil {
			h.log.WithError(err).Error("listing movies after import")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

			return
		}
	}

	if movies == nil {
		movies = []models.Movie{}
	}

	h.log.WithFields(logrus.Fields{"action": "movie.list", "search": search, "count": len(movies)}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"movies": movies, "has_more": hasMore})
}

// runImport imports the default page count. It reports false when a response
// has already been written. An unconfigured feed is not an error for the
// empty-catalog path.
func (h *MovieHandler) runImport(c *gin.Context, reason string) bool {
	res, err := h.importer.ImportPopular(c.Request.Context(), 0)
	if err != nil {
		if reason == "empty_catalog" && errors.Is(err, tmdb.ErrNotConfigured) {
			h.log.Debug("catalog empty and feed not configured, skipping import")

			return true
		}

		respondServiceError(c, h.log, err, "importing popular movies", false)

		return false
	}

	h.log.WithFields(logrus.Fields{
		"action":   "movie.import",
		"reason":   reason,
		"upserted": res.Upserted,
	}).Info("audit")

	return true
}

// Get handles GET /movies/:id.
func (h *MovieHandler) Get(c *gin.Context) {
	id, err := parseMovieID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	movie, err := h.svc.GetMovie(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "getting movie", false)

		return
	}

	c.JSON(http.StatusOK, movie)
}

// Create handles POST /movies/.
func (h *MovieHandler) Create(c *gin.Context) {
	var req models.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	movie, err := h.svc.CreateMovie(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating movie", false)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "movie.create", "movie_id": movie.ID, "title": movie.Title}).Info("audit")

	c.JSON(http.StatusCreated, movie)
}

// Update handles PUT /movies/:id. Omitted fields are left unchanged.
func (h *MovieHandler) Update(c *gin.Context) {
	id, err := parseMovieID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	movie, err := h.svc.UpdateMovie(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "updating movie", false)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "movie.update", "movie_id": id}).Info("audit")

	c.JSON(http.StatusOK, movie)
}

// Delete handles DELETE /movies/:id.
func (h *MovieHandler) Delete(c *gin.Context) {
	id, err := parseMovieID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.svc.DeleteMovie(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, err, "deleting movie", false)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "movie.delete", "movie_id": id}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
