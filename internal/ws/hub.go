// Package ws implements the catalog change feed over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/metrics"
)

const (
	broadcastBuffer     = 256
	maxClients          = 1000
	maxClientsPerIP     = 20
	maxBroadcastPayload = 4096
	drainTimeout        = 3 * time.Second
	drainPoll           = 50 * time.Millisecond
)

var shutdownFrame = []byte(`{"type":"shutdown","message":"server shutting down"}`)

type outbound struct {
	eventType string
	frame     []byte
}

// Hub tracks connected clients and fans catalog events out to them.
// Membership is guarded by mu; fan-out happens on the Run goroutine.
type Hub struct {
	log    *logrus.Logger
	buffer *EventBuffer
	seq    atomic.Uint64

	mu      sync.Mutex
	clients map[*Client]struct{}
	perIP   map[string]int
	closed  bool

	queue    chan outbound
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		log:      log,
		buffer:   NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
		clients:  make(map[*Client]struct{}),
		perIP:    make(map[string]int),
		queue:    make(chan outbound, broadcastBuffer),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run delivers queued events until ctx ends or Shutdown is called, then
// drains connected clients.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drain()

			return
		case <-h.shutdown:
			h.drain()

			return
		case out := <-h.queue:
			h.fanOut(out)
		}
	}
}

func (h *Hub) fanOut(out outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.wants(out.eventType) {
			continue
		}

		if !c.trySend(out.frame) {
			h.log.WithField("client_ip", c.RemoteIP).Debug("dropping slow change feed client")
			h.removeLocked(c)
		}
	}
}

// Register admits c unless a connection cap is reached or the hub is
// stopping. Rejected clients have their send queue closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	var reason string

	switch {
	case h.closed:
		reason = "hub stopped"
	case len(h.clients) >= maxClients:
		reason = "global connection limit reached"
	case h.perIP[c.RemoteIP] >= maxClientsPerIP:
		reason = "per-IP connection limit reached"
	}

	if reason != "" {
		h.log.WithField("client_ip", c.RemoteIP).Warn("change feed client rejected: " + reason)
		c.closeSend()

		return false
	}

	h.clients[c] = struct{}{}
	h.perIP[c.RemoteIP]++
	h.publishCount()

	return true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		h.removeLocked(c)
	}
}

func (h *Hub) removeLocked(c *Client) {
	delete(h.clients, c)
	c.closeSend()

	if h.perIP[c.RemoteIP]--; h.perIP[c.RemoteIP] <= 0 {
		delete(h.perIP, c.RemoteIP)
	}

	h.publishCount()
}

func (h *Hub) publishCount() {
	metrics.WSConnections.Set(float64(len(h.clients)))
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// BroadcastEvent numbers the event, buffers it for replay and queues it for
// delivery. Events whose encoded frame exceeds maxBroadcastPayload are dropped.
func (h *Hub) BroadcastEvent(eventType string, data json.RawMessage) {
	ev := Event{Type: eventType, ID: h.seq.Add(1), Data: data, Time: time.Now()}

	frame, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).Error("encoding change event")

		return
	}

	if len(frame) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{"type": eventType, "size": len(frame)}).Warn("dropping oversized change event")

		return
	}

	h.buffer.Append(&ev)

	select {
	case h.queue <- outbound{eventType: eventType, frame: frame}:
	default:
		h.log.WithField("type", eventType).Warn("change feed queue full, event only available via replay")
	}
}

// ReplayEvents queues buffered events after lastEventID that pass c's filter.
// It reports false when lastEventID has already been evicted, in which case
// the client must refresh from the REST API.
func (h *Hub) ReplayEvents(c *Client, lastEventID uint64) bool {
	if oldest := h.buffer.OldestID(); lastEventID > 0 && oldest > 0 && lastEventID+1 < oldest {
		return false
	}

	for _, ev := range h.buffer.Since(lastEventID) {
		if !c.wants(ev.Type) {
			continue
		}

		frame, err := json.Marshal(ev)
		if err != nil {
			continue
		}

		if !c.trySend(frame) {
			break
		}
	}

	return true
}

// Shutdown stops Run and waits for the client drain to finish.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() { close(h.shutdown) })
	<-h.done
}

// drain sends every client a shutdown frame, waits up to drainTimeout for
// send queues to empty, then closes them all.
func (h *Hub) drain() {
	h.mu.Lock()
	h.closed = true
	n := len(h.clients)

	for c := range h.clients {
		c.trySend(shutdownFrame)
	}
	h.mu.Unlock()

	if n > 0 {
		h.log.WithField("clients", n).Info("draining change feed clients")
	}

	deadline := time.Now().Add(drainTimeout)
	for !h.flushed() && time.Now().Before(deadline) {
		time.Sleep(drainPoll)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) flushed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if c.pending() > 0 {
			return false
		}
	}

	return true
}
