package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/config"
)

// AdminHandler serves administrative endpoints.
type AdminHandler struct {
	importer  ImportService
	validator ValidateService
	log       *logrus.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(importer ImportService, validator ValidateService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{importer: importer, validator: validator, log: log}
}

type importRequest struct {
	Pages int `json:"pages"`
}

// Import handles POST /admin/import. An empty body imports the configured
// default page count.
func (h *AdminHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if req.Pages < 0 || req.Pages > config.MaxImportPages {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError,
			fmt.Sprintf("pages must be between 0 and %d", config.MaxImportPages))

		return
	}

	res, err := h.importer.ImportPopular(c.Request.Context(), req.Pages)
	if err != nil {
		respondServiceError(c, h.log, err, "admin import", false)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":   "admin.import",
		"pages":    res.Pages,
		"fetched":  res.Fetched,
		"upserted": res.Upserted,
	}).Info("audit")

	c.JSON(http.StatusOK, res)
}

// ValidateMovies handles POST /admin/validate-movies.
func (h *AdminHandler) ValidateMovies(c *gin.Context) {
	report, err := h.validator.Validate(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err, "validating movies", false)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "admin.validate_movies",
		"total":  report.Total,
		"fixed":  report.Fixed,
	}).Info("audit")

	c.JSON(http.StatusOK, report)
}
