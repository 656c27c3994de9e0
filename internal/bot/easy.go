package bot

import "github.com/vovakirdan/tui-connect4/internal/engine"

// chooseEasy looks one move ahead: win if possible, otherwise block an
// immediate loss, otherwise play a random column.
func (b *Bot) chooseEasy(s engine.GameState, valid []int) int {
	me := s.CurrentPlayer()
	if col := winningColumn(s, valid, me); col >= 0 {
		return col
	}
	if col := winningColumn(s, valid, me.Other()); col >= 0 {
		return col
	}
	return valid[b.rng.Intn(len(valid))]
}
