package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	h := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	t.Cleanup(func() {
		cancel()
		<-h.done
	})

	return h, cancel
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case msg := <-c.send:
		var evt Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("invalid event JSON: %v", err)
		}
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	return Event{}
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	h, _ := testHub(t)

	a := NewClient(h, nil, "10.0.0.1")
	b := NewClient(h, nil, "10.0.0.2")
	h.Register(a)
	h.Register(b)
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.BroadcastEvent("catalog.create", json.RawMessage(`{"count":1}`))

	for _, c := range []*Client{a, b} {
		evt := receive(t, c)
		if evt.Type != "catalog.create" || evt.ID != 1 {
			t.Errorf("event = %+v", evt)
		}
	}
}

func TestHub_TypeFilter(t *testing.T) {
	h, _ := testHub(t)

	c := NewClient(h, nil, "10.0.0.1")
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	c.handleMessage([]byte(`{"type":"subscribe","types":["catalog.bulk"]}`))

	h.BroadcastEvent("catalog.update", json.RawMessage(`{}`))
	h.BroadcastEvent("catalog.bulk", json.RawMessage(`{"count":40}`))

	evt := receive(t, c)
	if evt.Type != "catalog.bulk" {
		t.Fatalf("got %q, want catalog.bulk", evt.Type)
	}
}

func TestHub_PerIPLimit(t *testing.T) {
	h, _ := testHub(t)

	for range maxClientsPerIP + 1 {
		h.Register(NewClient(h, nil, "10.0.0.9"))
	}

	waitFor(t, func() bool { return h.ClientCount() == maxClientsPerIP })

	time.Sleep(20 * time.Millisecond)
	if got := h.ClientCount(); got != maxClientsPerIP {
		t.Errorf("clients = %d, want %d", got, maxClientsPerIP)
	}
}

func TestHub_Unregister(t *testing.T) {
	h, _ := testHub(t)

	c := NewClient(h, nil, "10.0.0.1")
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}
}

func TestHub_ReplayAndReset(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	h := NewHub(log)
	h.buffer = NewEventBuffer(2, time.Hour)

	for range 4 {
		h.BroadcastEvent("catalog.create", json.RawMessage(`{}`))
	}

	c := NewClient(h, nil, "10.0.0.1")

	if h.ReplayEvents(c, 1) {
		t.Fatal("replay from an evicted id should report a reset")
	}

	if !h.ReplayEvents(c, 2) {
		t.Fatal("replay from the id just before the oldest should succeed")
	}

	if got := receive(t, c); got.ID != 3 {
		t.Errorf("first replayed id = %d, want 3", got.ID)
	}

	if got := receive(t, c); got.ID != 4 {
		t.Errorf("second replayed id = %d, want 4", got.ID)
	}
}

func TestHub_DropsOversizedPayload(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	h := NewHub(log)

	big := make([]byte, maxBroadcastPayload)
	for i := range big {
		big[i] = 'a'
	}

	data, err := json.Marshal(string(big))
	if err != nil {
		t.Fatal(err)
	}

	h.BroadcastEvent("catalog.bulk", data)

	if h.buffer.Len() != 0 {
		t.Error("oversized event should not be buffered")
	}
}

func TestHub_ShutdownDrainsClients(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	h := NewHub(log)
	go h.Run(context.Background())

	c := NewClient(h, nil, "10.0.0.1")
	if !h.Register(c) {
		t.Fatal("register rejected")
	}

	// Nothing consumes c.send, so the drain waits out its timeout.
	h.Shutdown()

	frame, ok := <-c.send
	if !ok || string(frame) != string(shutdownFrame) {
		t.Fatalf("expected shutdown frame, got %q (ok=%v)", frame, ok)
	}

	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after drain")
	}

	if h.ClientCount() != 0 {
		t.Errorf("clients = %d after shutdown", h.ClientCount())
	}

	if h.Register(NewClient(h, nil, "10.0.0.2")) {
		t.Error("register should fail once the hub has stopped")
	}
}

func TestClient_TrySendAfterClose(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	c := NewClient(NewHub(log), nil, "10.0.0.1")
	c.closeSend()
	c.closeSend()

	if c.trySend([]byte("x")) {
		t.Error("trySend on a closed client should fail")
	}
}
