package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/movierec/internal/middleware"
)

func TestMaxBodySize(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		chunked  bool
		wantCode int
	}{
		{"within limit", `{"a":1}`, false, http.StatusOK},
		{"declared length over limit", strings.Repeat("x", 32), false, http.StatusRequestEntityTooLarge},
		{"chunked body over limit", strings.Repeat("x", 32), true, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.MaxBodySize(16))
			r.POST("/test", func(c *gin.Context) {
				if _, err := io.ReadAll(c.Request.Body); err != nil {
					c.Status(http.StatusBadRequest)

					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body))
			if tt.chunked {
				req.ContentLength = -1
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("got %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
