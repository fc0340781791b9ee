// Package config provides YAML-based configuration loading for the
// parkwalk platform.
package config

import "github.com/vovakirdan/parkwalk/internal/sim"

// ParkConfig contains all configuration for the simulation and its hosts.
type ParkConfig struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Paths      PathsConfig      `yaml:"paths"`
	SSH        SSHConfig        `yaml:"ssh"`
}

// SimulationConfig defines the simulation tunables. Speeds are cells per
// second of simulation time.
type SimulationConfig struct {
	TickRate         int     `yaml:"tick_rate"`
	WalkSpeed        float64 `yaml:"walk_speed"`
	FallSpeed        float64 `yaml:"fall_speed"`
	TransporterSpeed float64 `yaml:"transporter_speed"`
	CrumbleDelay     float64 `yaml:"crumble_delay"`
	TeleportCooldown float64 `yaml:"teleport_cooldown"`
	CenterRadius     float64 `yaml:"center_radius"`
}

// PathsConfig defines where levels and the progress database live.
type PathsConfig struct {
	LevelsDir string `yaml:"levels_dir"`
	Database  string `yaml:"database"`
}

// SSHConfig defines the remote-play server settings.
type SSHConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	HostKey string `yaml:"host_key"`
}

// Params converts the simulation section into engine parameters. Fields
// left at zero fall back to the stock tuning.
func (c ParkConfig) Params() sim.Params {
	p := sim.DefaultParams()
	s := c.Simulation
	if s.TickRate > 0 {
		p.TickRate = s.TickRate
	}
	if s.WalkSpeed > 0 {
		p.WalkSpeed = s.WalkSpeed
	}
	if s.FallSpeed > 0 {
		p.FallSpeed = s.FallSpeed
	}
	if s.TransporterSpeed > 0 {
		p.TransporterSpeed = s.TransporterSpeed
	}
	if s.CrumbleDelay > 0 {
		p.CrumbleDelay = s.CrumbleDelay
	}
	if s.TeleportCooldown > 0 {
		p.TeleportCooldown = s.TeleportCooldown
	}
	if s.CenterRadius > 0 {
		p.CenterRadius = s.CenterRadius
	}
	return p
}

// PacePreset represents a named simulation pace.
type PacePreset string

const (
	PaceRelaxed PacePreset = "relaxed"
	PaceNormal  PacePreset = "normal"
	PaceBrisk   PacePreset = "brisk"
)

// speedFactorForPreset returns the speed multiplier for a pace preset.
func speedFactorForPreset(preset PacePreset) float64 {
	switch preset {
	case PaceRelaxed:
		return 0.6
	case PaceBrisk:
		return 1.6
	default:
		return 1.0
	}
}

// ApplyPacePreset scales all movement speeds by a named preset. The tick
// rate is untouched so recorded runs stay comparable.
func ApplyPacePreset(cfg *ParkConfig, preset PacePreset) {
	f := speedFactorForPreset(preset)
	if f == 1.0 {
		return
	}
	p := cfg.Params()
	cfg.Simulation.WalkSpeed = p.WalkSpeed * f
	cfg.Simulation.FallSpeed = p.FallSpeed * f
	cfg.Simulation.TransporterSpeed = p.TransporterSpeed * f
}
