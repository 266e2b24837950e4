package cliconfig

import (
	"testing"
	"time"

	"github.com/logship-labs/logship/internal/pipeline"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Overflow != "block" {
		t.Errorf("Overflow = %v, want block", cfg.Overflow)
	}
	if cfg.BackoffInitial != 100*time.Millisecond {
		t.Errorf("BackoffInitial = %v, want 100ms", cfg.BackoffInitial)
	}
	if cfg.BackoffMax != 3*time.Second {
		t.Errorf("BackoffMax = %v, want 3s", cfg.BackoffMax)
	}
	if cfg.QueueSize != 0 {
		t.Errorf("QueueSize = %v, want 0 (unbounded)", cfg.QueueSize)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.Addr = "collector:9010"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid minimal config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.Addr = "" },
			wantErr: true,
		},
		{
			name:    "negative queue size",
			mutate:  func(c *Config) { c.QueueSize = -1 },
			wantErr: true,
		},
		{
			name:    "unknown overflow policy",
			mutate:  func(c *Config) { c.Overflow = "reject" },
			wantErr: true,
		},
		{
			name:    "non-positive initial backoff",
			mutate:  func(c *Config) { c.BackoffInitial = 0 },
			wantErr: true,
		},
		{
			name: "backoff cap below initial",
			mutate: func(c *Config) {
				c.BackoffInitial = time.Second
				c.BackoffMax = 100 * time.Millisecond
			},
			wantErr: true,
		},
		{
			name: "bounded queue with drop policy",
			mutate: func(c *Config) {
				c.QueueSize = 1000
				c.Overflow = "drop-oldest"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOverflow(t *testing.T) {
	tests := []struct {
		in      string
		want    pipeline.OverflowPolicy
		wantErr bool
	}{
		{"", pipeline.OverflowBlock, false},
		{"block", pipeline.OverflowBlock, false},
		{"drop-newest", pipeline.OverflowDropNewest, false},
		{"drop-oldest", pipeline.OverflowDropOldest, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseOverflow(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOverflow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseOverflow(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
