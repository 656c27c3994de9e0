// Package bot implements the CPU opponent. Every strategy only reads the
// GameState it is given and simulates moves through engine.DropChip, so a
// bot works on any board size the engine accepts.
package bot

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/tui-connect4/internal/engine"
)

// ErrNoMoves is returned when asked to move in a finished game.
var ErrNoMoves = errors.New("bot: no legal moves")

// DefaultDepth is the minimax search depth used by Hard when none is set.
const DefaultDepth = 5

// Config holds bot settings.
type Config struct {
	Difficulty Difficulty
	Depth      int   // search depth for Hard, DefaultDepth when <= 0
	Seed       int64 // random source seed, 0 picks a fixed default
}

// Bot chooses columns for the player whose turn it is.
// A Bot is not safe for concurrent use.
type Bot struct {
	difficulty Difficulty
	depth      int
	rng        *rand.Rand
}

// New creates a bot. Unknown difficulties fall back to Medium.
func New(cfg Config) *Bot {
	d := cfg.Difficulty
	if d != Easy && d != Hard {
		d = Medium
	}
	depth := cfg.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	return &Bot{
		difficulty: d,
		depth:      depth,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Difficulty returns the level the bot plays at.
func (b *Bot) Difficulty() Difficulty {
	return b.difficulty
}

// Choose returns a column that accepts a chip for s.CurrentPlayer().
func (b *Bot) Choose(s engine.GameState) (int, error) {
	valid := s.ValidColumns()
	if len(valid) == 0 {
		return -1, ErrNoMoves
	}
	if len(valid) == 1 {
		return valid[0], nil
	}

	switch b.difficulty {
	case Easy:
		return b.chooseEasy(s, valid), nil
	case Hard:
		return b.chooseHard(s, valid), nil
	default:
		return b.chooseMedium(s, valid), nil
	}
}

// winningColumn returns a column where p completes four, or -1.
func winningColumn(s engine.GameState, valid []int, p engine.Player) int {
	for _, col := range valid {
		if completesFour(s.Board(), col, p) {
			return col
		}
	}
	return -1
}

// completesFour reports whether p dropping into col makes four in a row.
func completesFour(b engine.Board, col int, p engine.Player) bool {
	next, row, ok := b.Drop(col, p)
	if !ok {
		return false
	}
	for _, d := range lineDirections {
		n := 1 + engine.CountDirection(next, row, col, d[0], d[1], p) +
			engine.CountDirection(next, row, col, -d[0], -d[1], p)
		if n >= engine.WinLength {
			return true
		}
	}
	return false
}

var lineDirections = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// centerOrder returns valid sorted so columns nearest the centre come first.
func centerOrder(valid []int, columns int) []int {
	ordered := make([]int, len(valid))
	copy(ordered, valid)
	center := float64(columns-1) / 2
	dist := func(c int) float64 {
		d := float64(c) - center
		if d < 0 {
			return -d
		}
		return d
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && dist(ordered[j]) < dist(ordered[j-1]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}
