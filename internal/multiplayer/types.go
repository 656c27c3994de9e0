// Package multiplayer pairs two remote sessions into a match and runs it.
// Sessions talk to a Coordinator through messages; each match owns one game
// in a single goroutine so moves from both players are applied one at a time.
package multiplayer

import (
	"errors"

	"github.com/vovakirdan/tui-connect4/internal/engine"
)

// SessionID identifies one connected client (SSH or websocket).
type SessionID string

// MatchID identifies a running or finished match.
type MatchID string

// Side is the colour a session plays. The lobby host is always red and
// moves first.
type Side = engine.Player

const (
	SideNone   = engine.Empty
	SideRed    = engine.PlayerA
	SideYellow = engine.PlayerB
)

// Move rejection reasons returned by OnlineGame.Apply.
var (
	ErrNotYourTurn = errors.New("not your turn")
	ErrColumnFull  = errors.New("column is full")
	ErrMatchOver   = errors.New("match is over")
	ErrQueueFull   = errors.New("too many pending moves")
)

// GameSnapshot is game-specific state sent to both players after each move.
// Snapshots must be JSON-encodable for the websocket transport.
type GameSnapshot interface {
	IsGameSnapshot()
}

// OnlineGame is the game a match drives. It is only ever called from the
// match goroutine.
type OnlineGame interface {
	// Apply drops a chip for side into column. Rejections return one of the
	// Err* values above or an engine error and leave the game unchanged.
	Apply(side Side, column int) error

	// Turn returns the side expected to move next.
	Turn() Side

	Snapshot() GameSnapshot

	IsGameOver() bool

	// Winner returns the winning side, or SideNone for a draw or an
	// unfinished game.
	Winner() Side

	// Moves returns how many chips have been placed.
	Moves() int
}
