package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParamsFallsBackOnZeroFields(t *testing.T) {
	var cfg ParkConfig
	p := cfg.Params()
	if p.TickRate != 60 || p.WalkSpeed != 3.0 {
		t.Errorf("zero config did not fall back to stock tuning: %+v", p)
	}

	cfg.Simulation.WalkSpeed = 5.0
	p = cfg.Params()
	if p.WalkSpeed != 5.0 {
		t.Errorf("explicit walk speed ignored: %v", p.WalkSpeed)
	}
	if p.FallSpeed != 8.0 {
		t.Errorf("unset fall speed not defaulted: %v", p.FallSpeed)
	}
}

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := DefaultConfig()
	if cfg.Simulation != want.Simulation {
		t.Errorf("embedded simulation defaults diverged:\n got %+v\nwant %+v", cfg.Simulation, want.Simulation)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "park.yaml")
	body := "simulation:\n  tick_rate: 30\n  walk_speed: 2.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Simulation.TickRate != 30 || cfg.Simulation.WalkSpeed != 2.5 {
		t.Errorf("custom values not applied: %+v", cfg.Simulation)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom path did not error")
	}
}

func TestApplyPacePreset(t *testing.T) {
	cfg := DefaultConfig()
	ApplyPacePreset(&cfg, PaceBrisk)
	if cfg.Simulation.WalkSpeed <= 3.0 {
		t.Errorf("brisk pace did not raise walk speed: %v", cfg.Simulation.WalkSpeed)
	}
	if cfg.Simulation.TickRate != 60 {
		t.Errorf("pace preset changed the tick rate: %d", cfg.Simulation.TickRate)
	}

	cfg = DefaultConfig()
	ApplyPacePreset(&cfg, PaceNormal)
	if cfg.Simulation.WalkSpeed != 3.0 {
		t.Errorf("normal pace changed speeds: %v", cfg.Simulation.WalkSpeed)
	}
}
