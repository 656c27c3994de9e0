package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vovakirdan/tui-connect4/internal/bot"
	"github.com/vovakirdan/tui-connect4/internal/engine"
)

// isolate points HOME and the working directory at empty temp dirs so only
// the embedded default is found.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(DefaultConnect4Config(), cfg); diff != "" {
		t.Errorf("embedded default differs from built-in (-want +got):\n%s", diff)
	}
}

func TestLoadCustomPathMergesDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "big.yaml")
	writeFile(t, path, "board:\n  columns: 9\n  rows: 7\ncpu:\n  difficulty: hard\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.Columns != 9 || cfg.Board.Rows != 7 {
		t.Errorf("board = %dx%d, want 9x7", cfg.Board.Columns, cfg.Board.Rows)
	}
	if cfg.CPU.Difficulty != "hard" {
		t.Errorf("difficulty = %q", cfg.CPU.Difficulty)
	}
	if cfg.Players.Red != "red" || cfg.Animation.FallTicks != 1 {
		t.Errorf("unset keys should keep defaults, got %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, bad, "board: [not, a, map]\n")
	if _, err := Load(bad); err == nil {
		t.Error("unparsable custom config should fail")
	}

	zero := filepath.Join(t.TempDir(), "zero.yaml")
	writeFile(t, zero, "board:\n  columns: 0\n")
	if _, err := Load(zero); !errors.Is(err, engine.ErrInvalidConfiguration) {
		t.Errorf("zero columns error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(work, "configs", "connect4.yaml"), "board:\n  columns: 8\n")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Board.Columns != 8 {
		t.Errorf("local config not used, columns = %d", cfg.Board.Columns)
	}

	writeFile(t, filepath.Join(home, ".connect4", "configs", "connect4.yaml"), "board:\n  columns: 10\n")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Board.Columns != 10 {
		t.Errorf("user config should win over local, columns = %d", cfg.Board.Columns)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Connect4Config)
		wantErr bool
		isBoard bool
	}{
		{"default", func(*Connect4Config) {}, false, false},
		{"zero rows", func(c *Connect4Config) { c.Board.Rows = 0 }, true, true},
		{"negative columns", func(c *Connect4Config) { c.Board.Columns = -2 }, true, true},
		{"empty name", func(c *Connect4Config) { c.Players.Yellow = "" }, true, false},
		{"same names", func(c *Connect4Config) { c.Players.Yellow = c.Players.Red }, true, false},
		{"bad difficulty", func(c *Connect4Config) { c.CPU.Difficulty = "godlike" }, true, false},
		{"negative depth", func(c *Connect4Config) { c.CPU.Depth = -1 }, true, false},
		{"tiny board is fine", func(c *Connect4Config) { c.Board = BoardConfig{Columns: 1, Rows: 1} }, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConnect4Config()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
			if got := errors.Is(err, engine.ErrInvalidConfiguration); got != tc.isBoard {
				t.Errorf("errors.Is(ErrInvalidConfiguration) = %v, want %v", got, tc.isBoard)
			}
		})
	}
}

func TestPlayerName(t *testing.T) {
	cfg := DefaultConnect4Config()
	cfg.Players = PlayersConfig{Red: "alice", Yellow: "bob"}

	if got := cfg.PlayerName(engine.PlayerA); got != "alice" {
		t.Errorf("PlayerName(A) = %q", got)
	}
	if got := cfg.PlayerName(engine.PlayerB); got != "bob" {
		t.Errorf("PlayerName(B) = %q", got)
	}
}

func TestApplyDifficulty(t *testing.T) {
	cfg := DefaultConnect4Config()
	ApplyDifficulty(&cfg, bot.Hard)

	if cfg.CPU.Difficulty != "hard" {
		t.Errorf("difficulty = %q", cfg.CPU.Difficulty)
	}
	bc, err := cfg.CPU.BotConfig()
	if err != nil {
		t.Fatal(err)
	}
	if bc.Difficulty != bot.Hard || bc.Depth != PresetFor(bot.Hard).Depth {
		t.Errorf("BotConfig() = %+v", bc)
	}
	if cfg.CPU.ThinkDelay() != 600*time.Millisecond {
		t.Errorf("ThinkDelay() = %v", cfg.CPU.ThinkDelay())
	}
}

func TestThinkDelayFallsBackToPreset(t *testing.T) {
	c := CPUConfig{Difficulty: "easy"}
	if got := c.ThinkDelay(); got != PresetFor(bot.Easy).Think {
		t.Errorf("ThinkDelay() = %v", got)
	}
	c.ThinkMillis = 10
	if got := c.ThinkDelay(); got != 10*time.Millisecond {
		t.Errorf("ThinkDelay() = %v", got)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "CONNECT4_DB=/tmp/c4.db\nCONNECT4_LOG_LEVEL=debug\n")

	t.Setenv(EnvDB, "")
	os.Unsetenv(EnvDB)
	t.Setenv(EnvLogLevel, "warn") // already set wins over the file
	t.Setenv(EnvConfig, "")

	env, err := LoadEnv(envFile, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if env.DBPath != "/tmp/c4.db" {
		t.Errorf("DBPath = %q", env.DBPath)
	}
	if env.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, existing variable should not be overridden", env.LogLevel)
	}
	if Or(env.ConfigPath, "fallback") != "fallback" {
		t.Errorf("ConfigPath = %q, want empty", env.ConfigPath)
	}
}
