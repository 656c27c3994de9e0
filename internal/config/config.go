// Package config loads the Connect Four game configuration from YAML with
// embedded defaults, plus environment overrides from an optional .env file.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-connect4/internal/bot"
	"github.com/vovakirdan/tui-connect4/internal/engine"
)

// Connect4Config is the full game configuration.
type Connect4Config struct {
	Board     BoardConfig     `yaml:"board"`
	Players   PlayersConfig   `yaml:"players"`
	CPU       CPUConfig       `yaml:"cpu"`
	Animation AnimationConfig `yaml:"animation"`
}

// BoardConfig sets the grid size.
type BoardConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// PlayersConfig sets the display names used in status messages.
type PlayersConfig struct {
	Red    string `yaml:"red"`
	Yellow string `yaml:"yellow"`
}

// CPUConfig tunes the computer opponent.
type CPUConfig struct {
	Difficulty  string `yaml:"difficulty"`   // easy, medium or hard
	Depth       int    `yaml:"depth"`        // minimax depth for hard, 0 = preset
	ThinkMillis int    `yaml:"think_millis"` // delay before the CPU drops, 0 = preset
	Seed        int64  `yaml:"seed"`
}

// AnimationConfig controls chip drop animation.
type AnimationConfig struct {
	FallTicks int `yaml:"fall_ticks"` // ticks per row, 0 disables the animation
}

// Validate checks the configuration. Board errors wrap
// engine.ErrInvalidConfiguration.
func (c Connect4Config) Validate() error {
	if c.Board.Columns <= 0 || c.Board.Rows <= 0 {
		return fmt.Errorf("config: board %dx%d: %w", c.Board.Columns, c.Board.Rows, engine.ErrInvalidConfiguration)
	}
	if c.Players.Red == "" || c.Players.Yellow == "" {
		return fmt.Errorf("config: player names must not be empty")
	}
	if c.Players.Red == c.Players.Yellow {
		return fmt.Errorf("config: player names must differ, both are %q", c.Players.Red)
	}
	if _, err := bot.ParseDifficulty(c.CPU.Difficulty); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.CPU.Depth < 0 || c.CPU.ThinkMillis < 0 || c.Animation.FallTicks < 0 {
		return fmt.Errorf("config: cpu depth, think_millis and fall_ticks must not be negative")
	}
	return nil
}

// PlayerName maps an engine player to its configured display name.
func (c Connect4Config) PlayerName(p engine.Player) string {
	switch p {
	case engine.PlayerA:
		return c.Players.Red
	case engine.PlayerB:
		return c.Players.Yellow
	default:
		return p.String()
	}
}

// BotConfig turns the CPU section into bot settings, filling unset values
// from the difficulty preset.
func (c CPUConfig) BotConfig() (bot.Config, error) {
	d, err := bot.ParseDifficulty(c.Difficulty)
	if err != nil {
		return bot.Config{}, err
	}
	preset := PresetFor(d)
	depth := c.Depth
	if depth == 0 {
		depth = preset.Depth
	}
	return bot.Config{Difficulty: d, Depth: depth, Seed: c.Seed}, nil
}
