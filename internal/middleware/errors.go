package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/movierec/internal/httputil"
	"github.com/persistorai/movierec/internal/metrics"
)

// respondError rejects the request before it reaches a handler. Rejections
// count toward movierec_errors_total like handler errors do.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}
