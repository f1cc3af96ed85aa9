package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Cache.Enabled || cfg.Cache.MaxEntries != 1000 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Threshold.WindowSize != 50 {
		t.Fatalf("expected default window size 50, got %d", cfg.Threshold.WindowSize)
	}
	if cfg.Checkpoint.Backend != "memory" {
		t.Fatalf("expected default checkpoint backend memory, got %q", cfg.Checkpoint.Backend)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DAGCORE_CACHE_MAX_ENTRIES", "42")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.MaxEntries != 42 {
		t.Fatalf("expected env override to set max entries 42, got %d", cfg.Cache.MaxEntries)
	}
}

func TestLoad_EventsDisabledByDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Events.NatsURL != "" {
		t.Fatalf("expected nats fan-out disabled by default, got %q", cfg.Events.NatsURL)
	}
}

func TestLoad_EventsEnvOverride(t *testing.T) {
	t.Setenv("DAGCORE_EVENTS_NATS_URL", "nats://localhost:4222")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Events.NatsURL != "nats://localhost:4222" {
		t.Fatalf("expected env override to set nats url, got %q", cfg.Events.NatsURL)
	}
}
