package bot

import (
	"math"

	"github.com/vovakirdan/tui-connect4/internal/engine"
)

// chooseHard searches b.depth plies with alpha-beta pruning. Columns near
// the centre are tried first, which both prunes more and breaks ties toward
// the centre.
func (b *Bot) chooseHard(s engine.GameState, valid []int) int {
	me := s.CurrentPlayer()
	if col := winningColumn(s, valid, me); col >= 0 {
		return col
	}

	ordered := centerOrder(valid, s.Board().Columns())
	bestCol := ordered[0]
	bestScore := math.MinInt
	alpha, beta := math.MinInt, math.MaxInt

	for _, col := range ordered {
		next, err := engine.DropChip(s, col)
		if err != nil {
			continue
		}
		score := minimax(next, b.depth-1, 1, alpha, beta, me)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}
	return bestCol
}

// minimax returns the value of s for me. ply counts moves from the root so
// quicker wins and slower losses score better.
func minimax(s engine.GameState, depth, ply, alpha, beta int, me engine.Player) int {
	switch s.Phase() {
	case engine.Won:
		if s.Winner() == me {
			return scoreWin - ply
		}
		return -scoreWin + ply
	case engine.Drawn:
		return 0
	}
	if depth <= 0 {
		return evaluate(s.Board(), me)
	}

	ordered := centerOrder(s.ValidColumns(), s.Board().Columns())
	if s.CurrentPlayer() == me {
		best := math.MinInt
		for _, col := range ordered {
			next, _ := engine.DropChip(s, col)
			best = max(best, minimax(next, depth-1, ply+1, alpha, beta, me))
			alpha = max(alpha, best)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	for _, col := range ordered {
		next, _ := engine.DropChip(s, col)
		best = min(best, minimax(next, depth-1, ply+1, alpha, beta, me))
		beta = min(beta, best)
		if beta <= alpha {
			break
		}
	}
	return best
}
