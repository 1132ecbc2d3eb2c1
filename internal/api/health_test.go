package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/persistorai/movierec/internal/api"
)

func TestLiveness_ReturnsOK(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(nil, nil, nil, testLogger(), "test-v1", false)

	r := newTestRouter()
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", body["status"])
	}

	if body["version"] != "test-v1" {
		t.Errorf("expected version 'test-v1', got %v", body["version"])
	}

	if body["database"] != "not_configured" {
		t.Errorf("expected database 'not_configured', got %v", body["database"])
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pinger     *mockPinger
		feed       bool
		wantCode   int
		wantChecks map[string]string
	}{
		{
			name:       "ready",
			pinger:     &mockPinger{},
			feed:       true,
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"database": "ok", "schema": "ok", "tmdb": "ok"},
		},
		{
			name:       "feed missing is degraded only",
			pinger:     &mockPinger{},
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"database": "ok", "schema": "ok", "tmdb": "degraded"},
		},
		{
			name:       "database down",
			pinger:     &mockPinger{pingErr: errors.New("refused")},
			feed:       true,
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"database": "error", "schema": "unknown"},
		},
		{
			name:       "schema missing",
			pinger:     &mockPinger{countErr: errors.New("relation does not exist")},
			feed:       true,
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"database": "ok", "schema": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := api.NewHealthHandler(tt.pinger, tt.pinger, nil, testLogger(), "v", tt.feed)

			r := newTestRouter()
			r.GET("/ready", h.Readiness)

			w := doRequest(r, http.MethodGet, "/ready", "")
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}

			var body struct {
				Status        string            `json:"status"`
				SchemaVersion int64             `json:"schema_version"`
				Checks        map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			for k, want := range tt.wantChecks {
				if body.Checks[k] != want {
					t.Errorf("checks[%s] = %q, want %q", k, body.Checks[k], want)
				}
			}

			if body.SchemaVersion < 1 {
				t.Errorf("schema_version = %d, want >= 1", body.SchemaVersion)
			}
		})
	}
}

func TestReadiness_ReportsCatalogSize(t *testing.T) {
	p := &mockPinger{}
	h := api.NewHealthHandler(p, p, nil, testLogger(), "v", true)

	r := newTestRouter()
	r.GET("/ready", h.Readiness)

	w := doRequest(r, http.MethodGet, "/ready", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Movies int `json:"movies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}

	if body.Movies != 3 {
		t.Errorf("movies = %d, want 3", body.Movies)
	}
}
