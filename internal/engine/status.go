package engine

import "fmt"

// StatusMessage describes the state for display using the colour names of
// the players.
func StatusMessage(s GameState) string {
	return FormatStatus(s, Player.String)
}

// FormatStatus is StatusMessage with caller-supplied player names.
// A nil name func falls back to the colour names.
func FormatStatus(s GameState, name func(Player) string) string {
	if name == nil {
		name = Player.String
	}
	switch s.phase {
	case Won:
		return fmt.Sprintf("Player %s won!", name(s.winner))
	case Drawn:
		return "It's a draw!"
	default:
		return fmt.Sprintf("It's %s's turn", name(s.current))
	}
}
