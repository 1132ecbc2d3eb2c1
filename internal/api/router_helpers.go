package api

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/ws"
)

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string) gin.HandlerFunc {
	patterns := originPatterns(corsOrigins)

	return func(c *gin.Context) {
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       patterns,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}

		client := ws.NewClient(hub, conn, c.ClientIP())
		if !hub.Register(client) {
			conn.Close(websocket.StatusTryAgainLater, "too many connections") //nolint:errcheck // best-effort.

			return
		}

		// The hijacked request context ends with the connection; appCtx ends
		// with the server.
		ctx, cancel := context.WithCancel(appCtx)
		defer cancel()

		stop := context.AfterFunc(c.Request.Context(), cancel)
		defer stop()

		client.Serve(ctx)
	}
}

// originPatterns turns CORS origins into the host patterns websocket.Accept
// matches against.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))

	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}

		out = append(out, u.Host)
	}

	return out
}

// Pagination bounds.
const (
	defaultPageLimit    = 50
	maxPaginationLimit  = 1000
	maxPaginationOffset = 100000
	maxRecommendLimit   = 100
	maxSearchLen        = 200
)

var (
	errMissingID = errors.New("movie id is required")
	errInvalidID = errors.New("movie id must be a positive integer")
)

// parseMovieID parses a required positive movie id.
func parseMovieID(s string) (int64, error) {
	if s == "" {
		return 0, errMissingID
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}

	return id, nil
}

// parseLimit parses a positive limit, falling back when absent or invalid and
// capping at maxLimit.
func parseLimit(s string, fallback, maxLimit int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}

	if v > maxLimit {
		return maxLimit
	}

	return v
}

func parseOffset(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}

	if v > maxPaginationOffset {
		return maxPaginationOffset
	}

	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}
