package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/middleware"
)

func adminRouter(key string) (*gin.Engine, *bool) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	flagged := new(bool)

	r := gin.New()
	r.Use(middleware.AdminAuth(key, log))
	r.POST("/admin/import", func(c *gin.Context) {
		*flagged = c.GetBool(middleware.AdminFlagKey)
		c.Status(http.StatusOK)
	})

	return r, flagged
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		header    string
		want      int
		wantAdmin bool
	}{
		{"valid token", "s3cret-key", "Bearer s3cret-key", http.StatusOK, true},
		{"missing header", "s3cret-key", "", http.StatusUnauthorized, false},
		{"wrong token", "s3cret-key", "Bearer s3cret-kez", http.StatusUnauthorized, false},
		{"prefix of key", "s3cret-key", "Bearer s3cret", http.StatusUnauthorized, false},
		{"raw key without scheme", "s3cret-key", "s3cret-key", http.StatusUnauthorized, false},
		{"admin disabled", "", "Bearer anything", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, flagged := adminRouter(tt.key)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/import", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			start := time.Now()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}

			if *flagged != tt.wantAdmin {
				t.Errorf("admin flag = %v, want %v", *flagged, tt.wantAdmin)
			}

			if tt.want == http.StatusUnauthorized && time.Since(start) < 50*time.Millisecond {
				t.Errorf("rejection returned in %v, faster than the timing floor", time.Since(start))
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc123": "abc123",
		"abc123":        "",
		"":              "",
		"Bearer ":       "",
		"bearer abc":    "",
		"Basic abc":     "",
	}

	for header, want := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		if header != "" {
			c.Request.Header.Set("Authorization", header)
		}

		if got := middleware.ExtractBearerToken(c); got != want {
			t.Errorf("ExtractBearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
