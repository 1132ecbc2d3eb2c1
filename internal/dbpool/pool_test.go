package dbpool

import (
	"testing"
	"time"
)

func TestPoolConfig(t *testing.T) {
	tests := []struct {
		name     string
		maxConns int32
		wantMax  int32
		wantMin  int32
	}{
		{"default", 0, DefaultMaxConns + 1, 2},
		{"explicit", 4, 5, 2},
		{"single", 1, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := poolConfig("postgres://u:p@localhost:5432/movies", tt.maxConns)
			if err != nil {
				t.Fatalf("poolConfig: %v", err)
			}

			if cfg.MaxConns != tt.wantMax || cfg.MinConns != tt.wantMin {
				t.Errorf("max/min = %d/%d, want %d/%d", cfg.MaxConns, cfg.MinConns, tt.wantMax, tt.wantMin)
			}

			if got := cfg.ConnConfig.RuntimeParams["statement_timeout"]; got != statementTimeout {
				t.Errorf("statement_timeout = %q", got)
			}

			if cfg.MaxConnLifetime != 30*time.Minute {
				t.Errorf("MaxConnLifetime = %v", cfg.MaxConnLifetime)
			}
		})
	}
}

func TestPoolConfig_BadURL(t *testing.T) {
	if _, err := poolConfig("postgres://%zz", 4); err == nil {
		t.Fatal("expected parse error")
	}
}
