package engine

import "fmt"

// Phase is the lifecycle stage of a game.
type Phase uint8

const (
	InProgress Phase = iota
	Won
	Drawn
)

func (p Phase) String() string {
	switch p {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Drawn:
		return "drawn"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// GameState is a complete, immutable snapshot of a game.
// The zero value is not a valid game; use New or FromBoard.
type GameState struct {
	board       Board
	current     Player
	phase       Phase
	winner      Player
	moves       int
	lastMove    Coord
	hasLast     bool
	winningLine Line
}

// New starts a game on an empty columns x rows board with PlayerA to move.
func New(columns, rows int) (GameState, error) {
	b, err := NewBoard(columns, rows)
	if err != nil {
		return GameState{}, err
	}
	return GameState{board: b, current: PlayerA, phase: InProgress}, nil
}

// FromBoard resumes a game from an existing position with next to move.
// Positions that already contain a four or have no empty cell are rejected:
// a finished game can only be reached through DropChip.
func FromBoard(b Board, next Player) (GameState, error) {
	if b.columns <= 0 || b.rows <= 0 {
		return GameState{}, &InvalidConfigurationError{Columns: b.columns, Rows: b.rows}
	}
	if !next.Valid() {
		return GameState{}, fmt.Errorf("engine: next player must be red or yellow: %w", ErrInvalidConfiguration)
	}
	if err := b.checkGravity(); err != nil {
		return GameState{}, err
	}
	if HasFour(b, PlayerA) || HasFour(b, PlayerB) {
		return GameState{}, fmt.Errorf("engine: position already decided: %w", ErrInvalidConfiguration)
	}
	if b.IsFull() {
		return GameState{}, fmt.Errorf("engine: board is full: %w", ErrInvalidConfiguration)
	}
	return GameState{
		board:   b,
		current: next,
		phase:   InProgress,
		moves:   b.Count(PlayerA) + b.Count(PlayerB),
	}, nil
}

// DropChip applies a move by the current player in column and returns the
// resulting state. The input state is left untouched.
//
// A finished game and a full column both leave the state unchanged without
// error. A column outside the board returns *InvalidMoveError.
func DropChip(s GameState, column int) (GameState, error) {
	if s.phase != InProgress {
		return s, nil
	}
	if column < 0 || column >= s.board.columns {
		return s, &InvalidMoveError{Column: column, Columns: s.board.columns}
	}

	mover := s.current
	board, row, ok := s.board.Drop(column, mover)
	if !ok {
		return s, nil
	}

	next := GameState{
		board:    board,
		current:  mover,
		phase:    InProgress,
		moves:    s.moves + 1,
		lastMove: Coord{Row: row, Column: column},
		hasLast:  true,
	}

	if line, won := fourThrough(board, row, column, mover); won {
		next.phase = Won
		next.winner = mover
		next.winningLine = line
		return next, nil
	}
	if board.IsFull() {
		next.phase = Drawn
		return next, nil
	}
	next.current = mover.Other()
	return next, nil
}

// Board returns the grid. Boards are immutable so the value can be shared.
func (s GameState) Board() Board {
	return s.board
}

// CurrentPlayer returns whose turn it is. After a win it is the winner.
func (s GameState) CurrentPlayer() Player {
	return s.current
}

// Phase returns the lifecycle stage of the game.
func (s GameState) Phase() Phase {
	return s.phase
}

// Winner returns the winning player, or Empty unless the phase is Won.
func (s GameState) Winner() Player {
	return s.winner
}

// Moves returns the number of chips on the board.
func (s GameState) Moves() int {
	return s.moves
}

// LastMove returns the cell of the most recent chip. ok is false before the
// first move.
func (s GameState) LastMove() (Coord, bool) {
	return s.lastMove, s.hasLast
}

// WinningLine returns the four cells that decided the game.
func (s GameState) WinningLine() (Line, bool) {
	return s.winningLine, s.phase == Won
}

// IsOver reports whether the game was won or drawn.
func (s GameState) IsOver() bool {
	return s.phase != InProgress
}

// CanDrop reports whether DropChip(s, column) would place a chip.
func (s GameState) CanDrop(column int) bool {
	if s.phase != InProgress {
		return false
	}
	_, ok := s.board.LandingRow(column)
	return ok
}

// ValidColumns lists the columns that still accept a chip, left to right.
// It is empty once the game is over.
func (s GameState) ValidColumns() []int {
	if s.phase != InProgress {
		return nil
	}
	cols := make([]int, 0, s.board.columns)
	for c := 0; c < s.board.columns; c++ {
		if s.board.cells[c] == Empty {
			cols = append(cols, c)
		}
	}
	return cols
}

// Equal compares two states by value.
func (s GameState) Equal(other GameState) bool {
	return s.board.Equal(other.board) &&
		s.current == other.current &&
		s.phase == other.phase &&
		s.winner == other.winner &&
		s.moves == other.moves &&
		s.hasLast == other.hasLast &&
		s.lastMove == other.lastMove &&
		s.winningLine == other.winningLine
}
