package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/models"
	"github.com/persistorai/movierec/internal/recommend"
)

// RecommendHandler serves the content and collaborative recommendation endpoints.
type RecommendHandler struct {
	content RecommendationService
	collab  CollaborativeService
	log     *logrus.Logger
}

// NewRecommendHandler creates a RecommendHandler.
func NewRecommendHandler(content RecommendationService, collab CollaborativeService, log *logrus.Logger) *RecommendHandler {
	return &RecommendHandler{content: content, collab: collab, log: log}
}

// Content handles GET /recommended/?id=&limit=&type=content.
func (h *RecommendHandler) Content(c *gin.Context) {
	id, err := parseMovieID(c.Query("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if typ := c.DefaultQuery("type", models.RecommendationContent); typ != models.RecommendationContent {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unsupported recommendation type: "+typ)

		return
	}

	limit := parseLimit(c.Query("limit"), recommend.DefaultLimit, maxRecommendLimit)

	recs, err := h.content.GetContentRecommendations(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, h.log, err, "content recommendations", true)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":   "recommend.content",
		"movie_id": id,
		"limit":    limit,
		"count":    len(recs),
	}).Info("audit")

	c.JSON(http.StatusOK, recs)
}

// Collaborative handles GET /collaborative_recommended/?id=&limit=.
func (h *RecommendHandler) Collaborative(c *gin.Context) {
	id, err := parseMovieID(c.Query("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	limit := parseLimit(c.Query("limit"), recommend.DefaultLimit, maxRecommendLimit)

	recs, err := h.collab.Similar(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, h.log, err, "collaborative recommendations", true)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":   "recommend.collaborative",
		"movie_id": id,
		"limit":    limit,
		"count":    len(recs),
	}).Info("audit")

	c.JSON(http.StatusOK, recs)
}
