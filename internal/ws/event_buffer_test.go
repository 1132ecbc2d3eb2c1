package ws

import (
	"testing"
	"time"
)

func TestEventBuffer_SinceAndMaxLen(t *testing.T) {
	eb := NewEventBuffer(3, time.Hour)

	for id := uint64(1); id <= 5; id++ {
		eb.Append(&Event{Type: "catalog.create", ID: id, Time: time.Now()})
	}

	if eb.Len() != 3 {
		t.Fatalf("len = %d, want 3", eb.Len())
	}

	if got := eb.OldestID(); got != 3 {
		t.Errorf("oldest = %d, want 3", got)
	}

	tests := []struct {
		last uint64
		want []uint64
	}{
		{0, []uint64{3, 4, 5}},
		{3, []uint64{4, 5}},
		{5, nil},
		{9, nil},
	}

	for _, tt := range tests {
		got := eb.Since(tt.last)
		if len(got) != len(tt.want) {
			t.Errorf("Since(%d) len = %d, want %d", tt.last, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("Since(%d)[%d] = %d, want %d", tt.last, i, got[i].ID, tt.want[i])
			}
		}
	}
}

func TestEventBuffer_EvictsExpired(t *testing.T) {
	eb := NewEventBuffer(10, time.Minute)

	eb.Append(&Event{ID: 1, Time: time.Now().Add(-2 * time.Minute)})
	eb.Append(&Event{ID: 2, Time: time.Now()})

	if got := eb.OldestID(); got != 2 {
		t.Errorf("oldest = %d, want 2", got)
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		typ      string
		prefixes []string
		want     bool
	}{
		{"catalog.create", nil, true},
		{"catalog.create", []string{"catalog."}, true},
		{"catalog.create", []string{"catalog.bulk"}, false},
		{"catalog.bulk", []string{"x", "catalog.b"}, true},
	}

	for _, tt := range tests {
		if got := matchesAny(tt.typ, tt.prefixes); got != tt.want {
			t.Errorf("matchesAny(%q, %v) = %v, want %v", tt.typ, tt.prefixes, got, tt.want)
		}
	}
}
