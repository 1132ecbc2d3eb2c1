package ws

import (
	"sort"
	"sync"
	"time"
)

const (
	defaultBufferMaxLen = 1000
	defaultBufferMaxAge = time.Hour
)

// EventBuffer retains recent events, ordered by ID, so reconnecting clients
// can resume from their last seen ID. Both limits are applied on Append.
type EventBuffer struct {
	mu     sync.RWMutex
	events []Event
	maxLen int
	maxAge time.Duration
}

func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	return &EventBuffer{maxLen: maxLen, maxAge: maxAge, events: make([]Event, 0, maxLen)}
}

func (eb *EventBuffer) Append(ev *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	cutoff := time.Now().Add(-eb.maxAge)
	expired := sort.Search(len(eb.events), func(i int) bool { return !eb.events[i].Time.Before(cutoff) })

	if over := len(eb.events) - expired + 1 - eb.maxLen; over > 0 {
		expired += over
	}

	if expired > 0 {
		// Shift in place so the backing array does not grow without bound.
		n := copy(eb.events, eb.events[expired:])
		eb.events = eb.events[:n]
	}

	eb.events = append(eb.events, *ev)
}

// Since returns a copy of the buffered events with ID greater than after.
func (eb *EventBuffer) Since(after uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	i := sort.Search(len(eb.events), func(i int) bool { return eb.events[i].ID > after })
	if i == len(eb.events) {
		return nil
	}

	return append([]Event(nil), eb.events[i:]...)
}

// OldestID is the first retained ID, or 0 when nothing is buffered.
func (eb *EventBuffer) OldestID() uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if len(eb.events) == 0 {
		return 0
	}

	return eb.events[0].ID
}

func (eb *EventBuffer) Len() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	return len(eb.events)
}
