package connectfour

import (
	"fmt"

	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/engine"
	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
)

// Online is a Connect Four game played by two remote sessions. Red is the
// lobby host and moves first.
type Online struct {
	state engine.GameState
}

var _ multiplayer.OnlineGame = (*Online)(nil)

// NewOnline creates an online game on a columns x rows board.
func NewOnline(columns, rows int) (*Online, error) {
	s, err := engine.New(columns, rows)
	if err != nil {
		return nil, err
	}
	return &Online{state: s}, nil
}

// OnlineFactory returns a multiplayer.GameFactory that builds games from the
// current settings.
func OnlineFactory() multiplayer.GameFactory {
	return func(gameID string, _ core.RuntimeConfig) (multiplayer.OnlineGame, error) {
		if gameID != string(ModeLocal) {
			return nil, fmt.Errorf("connectfour: game %q cannot be played online", gameID)
		}
		cfg := Settings()
		return NewOnline(cfg.Board.Columns, cfg.Board.Rows)
	}
}

// Apply drops side's chip into column.
func (o *Online) Apply(side multiplayer.Side, column int) error {
	if o.state.IsOver() {
		return multiplayer.ErrMatchOver
	}
	if side != o.state.CurrentPlayer() {
		return multiplayer.ErrNotYourTurn
	}
	next, err := engine.DropChip(o.state, column)
	if err != nil {
		return err
	}
	if next.Moves() == o.state.Moves() {
		return multiplayer.ErrColumnFull
	}
	o.state = next
	return nil
}

// Turn returns the side to move.
func (o *Online) Turn() multiplayer.Side {
	return o.state.CurrentPlayer()
}

// Snapshot captures the board for both players.
func (o *Online) Snapshot() multiplayer.GameSnapshot {
	return SnapshotOf(o.state)
}

// IsGameOver reports whether the match game was won or drawn.
func (o *Online) IsGameOver() bool {
	return o.state.IsOver()
}

// Winner returns the winning side, or SideNone.
func (o *Online) Winner() multiplayer.Side {
	return o.state.Winner()
}

// Moves returns how many chips have been placed.
func (o *Online) Moves() int {
	return o.state.Moves()
}

// State returns the underlying engine state.
func (o *Online) State() engine.GameState {
	return o.state
}
