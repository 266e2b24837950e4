package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logship-labs/logship/pkg/log"
)

func TestWatcher_ReloadAppliesFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("addr = \"old:9010\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	base := DefaultConfig()
	base.Addr = "old:9010"

	reloaded := make(chan Config, 4)
	w := NewWatcher(path, base, map[string]bool{}, log.NewNoopLogger(),
		func(cfg Config) { reloaded <- cfg })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher a moment to register before mutating the file.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("addr = \"new:9010\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Addr != "new:9010" {
			t.Errorf("reloaded Addr = %v, want new:9010", cfg.Addr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcher_InvalidReloadIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("addr = \"old:9010\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	base := DefaultConfig()
	base.Addr = "old:9010"

	reloaded := make(chan Config, 4)
	w := NewWatcher(path, base, map[string]bool{}, log.NewNoopLogger(),
		func(cfg Config) { reloaded <- cfg })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	// A reload that fails validation must not reach the callback.
	if err := os.WriteFile(path, []byte("backoff_initial = \"-5s\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("invalid reload surfaced config %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_ExplicitFlagsSurviveReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("addr = \"old:9010\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	base := DefaultConfig()
	base.Addr = "flag:9010"
	base.Level = "info"

	reloaded := make(chan Config, 4)
	w := NewWatcher(path, base, map[string]bool{"addr": true}, log.NewNoopLogger(),
		func(cfg Config) { reloaded <- cfg })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("addr = \"file:9010\"\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Addr != "flag:9010" {
			t.Errorf("reload overrode explicit flag: Addr = %v", cfg.Addr)
		}
		if cfg.Level != "debug" {
			t.Errorf("reload missed file value: Level = %v", cfg.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}
