package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// rejectFloor is the minimum latency of a 401 so key checks cannot be timed.
const rejectFloor = 50 * time.Millisecond

// AdminFlagKey is set to true on the gin context once a request is authenticated.
const AdminFlagKey = "admin"

// AdminAuth guards administrative routes with a static bearer key. With no
// key configured the routes answer 403.
func AdminAuth(adminKey string, log *logrus.Logger) gin.HandlerFunc {
	want := sha256.Sum256([]byte(adminKey))

	return func(c *gin.Context) {
		start := time.Now()

		if adminKey == "" {
			respondError(c, http.StatusForbidden, "forbidden", "admin endpoints are disabled")

			return
		}

		token := ExtractBearerToken(c)
		if token == "" {
			reject(c, start, "missing or invalid authorization header")

			return
		}

		// Hashing first keeps the comparison constant-length.
		got := sha256.Sum256([]byte(token))
		if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
			log.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(RequestIDKey),
				"key_prefix": keyPrefix(token),
			}).Warn("admin authentication failed")
			reject(c, start, "invalid api key")

			return
		}

		c.Set(AdminFlagKey, true)
		c.Next()
	}
}

func reject(c *gin.Context, start time.Time, msg string) {
	respondError(c, http.StatusUnauthorized, "unauthorized", msg)

	if wait := rejectFloor - time.Since(start); wait > 0 {
		time.Sleep(wait)
	}
}

// ExtractBearerToken returns the token of a "Bearer <token>" Authorization
// header, or "" for any other form.
func ExtractBearerToken(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}

	return token
}

func keyPrefix(key string) string {
	if len(key) <= 4 {
		return key
	}

	return key[:4] + "..."
}
