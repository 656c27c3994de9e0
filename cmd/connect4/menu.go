package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-connect4/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the interactive menu",
	Long: `Start Connect Four in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
Left/Right changes the CPU level. Tab opens the history.
After a game ends, press Esc to return to the menu.

Examples:
  connect4 menu
  connect4 menu --fps 60
  connect4 menu --db ./results.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	return tui.RunSession(store, nil, runtimeConfig())
}
