package bot

import "github.com/vovakirdan/tui-connect4/internal/engine"

const (
	scoreWin       = 1_000_000
	scoreThree     = 500
	scoreTwo       = 50
	scoreCenter    = 12
	scoreGiveaway  = 800
	scoreOpenThree = 120
)

// chooseMedium takes a winning move, blocks an immediate loss, and otherwise
// picks the highest scoring column by local threats and centre distance.
// Equal scores are broken at random.
func (b *Bot) chooseMedium(s engine.GameState, valid []int) int {
	me := s.CurrentPlayer()
	opp := me.Other()
	if col := winningColumn(s, valid, me); col >= 0 {
		return col
	}
	if col := winningColumn(s, valid, opp); col >= 0 {
		return col
	}

	board := s.Board()
	best := []int{}
	bestScore := -scoreWin
	for _, col := range valid {
		score := moveScore(board, col, me)
		switch {
		case score > bestScore:
			bestScore = score
			best = append(best[:0], col)
		case score == bestScore:
			best = append(best, col)
		}
	}
	return best[b.rng.Intn(len(best))]
}

// moveScore rates dropping p into col.
func moveScore(board engine.Board, col int, p engine.Player) int {
	next, row, ok := board.Drop(col, p)
	if !ok {
		return -scoreWin
	}
	score := lineScore(next, row, col, p) + centerBonus(board.Columns(), col)

	// Denying the same cell to the opponent is worth something too.
	if opp, orow, ok := board.Drop(col, p.Other()); ok {
		score += lineScore(opp, orow, col, p.Other()) / 2
	}

	// Filling this cell lets the opponent play directly above it.
	if completesFour(next, col, p.Other()) {
		score -= scoreGiveaway
	}
	return score
}

// lineScore counts how many of p's chips line up through (row, col) in each
// direction, ignoring runs that have no room to reach four.
func lineScore(b engine.Board, row, col int, p engine.Player) int {
	score := 0
	for _, d := range lineDirections {
		fwd := engine.CountDirection(b, row, col, d[0], d[1], p)
		back := engine.CountDirection(b, row, col, -d[0], -d[1], p)
		if !hasRoom(b, row, col, d, fwd, back, p) {
			continue
		}
		switch total := fwd + back + 1; {
		case total >= 3:
			score += scoreThree
		case total == 2:
			score += scoreTwo
		}
	}
	return score
}

// hasRoom reports whether the run through (row, col) along d can be
// extended to four using empty cells or p's chips.
func hasRoom(b engine.Board, row, col int, d [2]int, fwd, back int, p engine.Player) bool {
	length := fwd + back + 1
	for r, c, k := row+d[0]*(fwd+1), col+d[1]*(fwd+1), 0; k < engine.WinLength && b.Contains(r, c); k++ {
		if occ := b.At(r, c); occ != engine.Empty && occ != p {
			break
		}
		length++
		r, c = r+d[0], c+d[1]
	}
	for r, c, k := row-d[0]*(back+1), col-d[1]*(back+1), 0; k < engine.WinLength && b.Contains(r, c); k++ {
		if occ := b.At(r, c); occ != engine.Empty && occ != p {
			break
		}
		length++
		r, c = r-d[0], c-d[1]
	}
	return length >= engine.WinLength
}

func centerBonus(columns, col int) int {
	center := columns / 2
	d := col - center
	if d < 0 {
		d = -d
	}
	bonus := scoreCenter - 4*d
	if bonus < 0 {
		return 0
	}
	return bonus
}

// evaluate scores a position from me's point of view by counting every
// window of four cells that only one side occupies.
func evaluate(b engine.Board, me engine.Player) int {
	score := 0
	rows, cols := b.Rows(), b.Columns()
	for _, d := range lineDirections {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				endR, endC := r+d[0]*(engine.WinLength-1), c+d[1]*(engine.WinLength-1)
				if !b.Contains(endR, endC) {
					continue
				}
				score += windowScore(b, r, c, d, me)
			}
		}
	}
	center := cols / 2
	for r := 0; r < rows; r++ {
		switch b.At(r, center) {
		case me:
			score += scoreCenter / 2
		case me.Other():
			score -= scoreCenter / 2
		}
	}
	return score
}

func windowScore(b engine.Board, r, c int, d [2]int, me engine.Player) int {
	mine, theirs := 0, 0
	for k := 0; k < engine.WinLength; k++ {
		switch b.At(r+d[0]*k, c+d[1]*k) {
		case me:
			mine++
		case me.Other():
			theirs++
		}
	}
	switch {
	case mine > 0 && theirs > 0:
		return 0
	case mine == 3:
		return scoreOpenThree
	case mine == 2:
		return scoreTwo / 5
	case theirs == 3:
		return -scoreOpenThree
	case theirs == 2:
		return -scoreTwo / 5
	}
	return 0
}
