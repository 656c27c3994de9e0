package config

import (
	"time"

	"github.com/vovakirdan/tui-connect4/internal/bot"
)

// CPUPreset holds the tuning that comes with a difficulty level.
type CPUPreset struct {
	Depth int
	Think time.Duration
}

var presets = map[bot.Difficulty]CPUPreset{
	bot.Easy:   {Depth: 1, Think: 300 * time.Millisecond},
	bot.Medium: {Depth: 3, Think: 450 * time.Millisecond},
	bot.Hard:   {Depth: bot.DefaultDepth + 1, Think: 600 * time.Millisecond},
}

// PresetFor returns the preset for d, falling back to Medium.
func PresetFor(d bot.Difficulty) CPUPreset {
	if p, ok := presets[d]; ok {
		return p
	}
	return presets[bot.Medium]
}

// ApplyDifficulty switches the CPU to level d and resets depth and think
// time to that level's preset.
func ApplyDifficulty(cfg *Connect4Config, d bot.Difficulty) {
	p := PresetFor(d)
	cfg.CPU.Difficulty = string(d)
	cfg.CPU.Depth = p.Depth
	cfg.CPU.ThinkMillis = int(p.Think / time.Millisecond)
}

// ThinkDelay returns how long the CPU waits before dropping.
func (c CPUConfig) ThinkDelay() time.Duration {
	if c.ThinkMillis > 0 {
		return time.Duration(c.ThinkMillis) * time.Millisecond
	}
	d, err := bot.ParseDifficulty(c.Difficulty)
	if err != nil {
		d = bot.Medium
	}
	return PresetFor(d).Think
}
