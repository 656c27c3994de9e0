package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-connect4/internal/bot"
	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/games/connectfour"
	"github.com/vovakirdan/tui-connect4/internal/platform/tui"
	"github.com/vovakirdan/tui-connect4/internal/registry"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a game mode",
	Long: `Start playing the specified mode.

Controls:
  Left/Right, A/D, H/L - Move the column cursor
  Space/Enter/Down     - Drop a chip
  P                    - Pause
  R                    - New game (after the game ends)
  Esc/B                - Leave (when paused or finished)
  Q/Ctrl+C             - Quit

Difficulty options (connect4_cpu):
  easy   - Random moves, but takes wins and blocks losses
  medium - Greedy position scoring
  hard   - Minimax search

Examples:
  connect4 play connect4
  connect4 play connect4_cpu --difficulty hard
  connect4 play connect4 --columns 9 --rows 7`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "CPU level: easy, medium, hard")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q, run 'connect4 list' to see available modes", gameID)
	}

	if flagDifficulty != "" {
		d, err := bot.ParseDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		cfg := connectfour.Settings()
		config.ApplyDifficulty(&cfg, d)
		if err := connectfour.Configure(cfg); err != nil {
			return err
		}
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	// The alternate screen owns the terminal, so the game logs nowhere.
	if err := tui.Run(game, store, nil, runtimeConfig()); err != nil {
		return fmt.Errorf("cannot run game: %w", err)
	}
	return nil
}
