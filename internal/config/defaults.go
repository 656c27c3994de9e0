package config

import (
	_ "embed"
)

//go:embed defaults/connect4.yaml
var defaultConnect4YAML []byte

// DefaultConnect4Config returns the built-in configuration used when the
// embedded YAML cannot be parsed.
func DefaultConnect4Config() Connect4Config {
	return Connect4Config{
		Board: BoardConfig{
			Columns: 7,
			Rows:    6,
		},
		Players: PlayersConfig{
			Red:    "red",
			Yellow: "yellow",
		},
		CPU: CPUConfig{
			Difficulty: "medium",
		},
		Animation: AnimationConfig{
			FallTicks: 1,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultConnect4YAML
}
