package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

const (
	sendQueueLen   = 256
	readLimit      = 4096
	writeTimeout   = 10 * time.Second
	pingEvery      = 30 * time.Second
	pingTimeout    = 10 * time.Second
	maxMissedPings = 2
	maxLifetime    = 4 * time.Hour
	maxTypeFilters = 16
)

// Client is one change feed subscriber.
type Client struct {
	RemoteIP string

	hub  *Hub
	conn *websocket.Conn
	log  *logrus.Entry

	mu     sync.Mutex // guards send against close
	send   chan []byte
	closed bool

	types atomic.Pointer[[]string]
}

// NewClient wraps conn. conn may be nil in tests that only exercise the hub.
func NewClient(hub *Hub, conn *websocket.Conn, remoteIP string) *Client {
	return &Client{
		RemoteIP: remoteIP,
		hub:      hub,
		conn:     conn,
		log:      hub.log.WithField("client_ip", remoteIP),
		send:     make(chan []byte, sendQueueLen),
	}
}

// trySend queues frame without blocking. It reports false when the queue is
// full or already closed.
func (c *Client) trySend(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) pending() int {
	return len(c.send)
}

func (c *Client) wants(eventType string) bool {
	p := c.types.Load()

	return p == nil || matchesAny(eventType, *p)
}

// Serve runs the connection until the peer leaves, ctx ends, or the hub
// drops the client. Writes happen on a second goroutine.
func (c *Client) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		c.writeLoop(ctx)
		cancel()
	}()

	c.readLoop(ctx)
	c.hub.Unregister(c)
	c.conn.CloseNow() //nolint:errcheck // teardown.
}

func (c *Client) readLoop(ctx context.Context) {
	c.conn.SetReadLimit(readLimit)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				c.log.WithField("status", status).Debug("change feed client closed")
			}

			return
		}

		c.handleMessage(data)
	}
}

// handleMessage applies a subscribe request: it sets the type filter and
// replays missed events, or queues a reset when they are gone.
func (c *Client) handleMessage(data []byte) {
	var msg SubscribeMsg
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "subscribe" {
		return
	}

	types := msg.Types[:min(len(msg.Types), maxTypeFilters)]
	c.types.Store(&types)

	if c.hub.ReplayEvents(c, msg.LastEventID) {
		return
	}

	reset, err := json.Marshal(ResetMsg{Type: "reset", Reason: "requested events no longer available, perform full refresh"})
	if err == nil {
		c.trySend(reset)
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	lifetime := time.NewTimer(maxLifetime)
	defer lifetime.Stop()

	ping := time.NewTicker(pingEvery)
	defer ping.Stop()

	missed := 0

	for {
		select {
		case <-ctx.Done():
			return

		case frame, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusGoingAway, "") //nolint:errcheck // best-effort.

				return
			}

			if err := c.write(ctx, frame); err != nil {
				c.log.WithError(err).Debug("change feed write failed")

				return
			}

		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := c.conn.Ping(pctx)
			cancel()

			if err == nil {
				missed = 0

				continue
			}

			if missed++; missed >= maxMissedPings {
				c.log.Debug("closing change feed client after missed pings")

				return
			}

		case <-lifetime.C:
			c.log.Info("closing change feed client: max connection lifetime reached")
			c.conn.Close(websocket.StatusNormalClosure, "max connection lifetime exceeded") //nolint:errcheck // best-effort.

			return
		}
	}
}

func (c *Client) write(ctx context.Context, frame []byte) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return c.conn.Write(wctx, websocket.MessageText, frame)
}
