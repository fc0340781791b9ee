package config

import (
	_ "embed"
)

//go:embed defaults/park.yaml
var defaultParkYAML []byte

// DefaultConfig returns the default configuration.
func DefaultConfig() ParkConfig {
	return ParkConfig{
		Simulation: SimulationConfig{
			TickRate:         60,
			WalkSpeed:        3.0,
			FallSpeed:        8.0,
			TransporterSpeed: 4.0,
			CrumbleDelay:     0.6,
			TeleportCooldown: 1.0,
			CenterRadius:     0.15,
		},
		Paths: PathsConfig{
			LevelsDir: "levels",
			Database:  "parkwalk.db",
		},
		SSH: SSHConfig{
			Host:    "0.0.0.0",
			Port:    2323,
			HostKey: ".ssh/parkwalk_ed25519",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultParkYAML
}
