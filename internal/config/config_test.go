package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.ContradictionThreshold != 0.05 {
		t.Fatalf("threshold: %v", cfg.ContradictionThreshold)
	}
	if cfg.TurnCaps.Simple != 10 || cfg.TurnCaps.Critical != 30 {
		t.Fatalf("turn caps: %+v", cfg.TurnCaps)
	}
	if cfg.ReservedTail != 15*time.Second {
		t.Fatalf("reserved tail: %v", cfg.ReservedTail)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concord.yaml")
	body := []byte("contradiction_threshold: 0.1\nturn_caps:\n  simple: 4\nreserved_tail: 5s\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContradictionThreshold != 0.1 {
		t.Fatalf("threshold: %v", cfg.ContradictionThreshold)
	}
	if cfg.TurnCaps.Simple != 4 {
		t.Fatalf("turn caps: %+v", cfg.TurnCaps)
	}
	if cfg.ReservedTail != 5*time.Second {
		t.Fatalf("reserved tail: %v", cfg.ReservedTail)
	}
	// Untouched keys keep their defaults.
	if cfg.Model != Default().Model {
		t.Fatalf("model: %q", cfg.Model)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONCORD_MODEL", "test-model")
	t.Setenv("CONCORD_CONTRADICTION_THRESHOLD", "0.2")
	t.Setenv("CONCORD_RESERVED_TAIL", "30s")
	t.Setenv("CONCORD_MAX_PARALLEL", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "test-model" || cfg.ContradictionThreshold != 0.2 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.ReservedTail != 30*time.Second || cfg.MaxParallel != 2 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("CONCORD_CONTRADICTION_THRESHOLD", "not-a-number")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContradictionThreshold != Default().ContradictionThreshold {
		t.Fatalf("garbage env value applied: %v", cfg.ContradictionThreshold)
	}
}
