// Package engine implements the connect-four rules: an immutable board with
// gravity, move application, four-in-a-row detection and draw detection.
// It has no dependencies on rendering, storage or transport so every
// front-end (terminal, SSH, websocket) drives the same logic.
package engine

import (
	"fmt"
	"strings"
)

// Player identifies the occupant of a cell and whose turn it is.
type Player uint8

const (
	Empty   Player = iota
	PlayerA        // moves first, shown as red
	PlayerB        // shown as yellow
)

// String returns the colour name used in status messages.
func (p Player) String() string {
	switch p {
	case PlayerA:
		return "red"
	case PlayerB:
		return "yellow"
	default:
		return "empty"
	}
}

// Other returns the opponent. Empty has no opponent and is returned as is.
func (p Player) Other() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

// Valid reports whether p is one of the two players.
func (p Player) Valid() bool {
	return p == PlayerA || p == PlayerB
}

// Coord addresses a cell. Row 0 is the top of the board.
type Coord struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Board is a fixed-size grid of cells stored row-major.
// A Board is never modified after construction; Drop returns a new one.
type Board struct {
	columns int
	rows    int
	cells   []Player
}

// NewBoard returns an empty board. Dimensions must be positive.
func NewBoard(columns, rows int) (Board, error) {
	if columns <= 0 || rows <= 0 {
		return Board{}, &InvalidConfigurationError{Columns: columns, Rows: rows}
	}
	return Board{
		columns: columns,
		rows:    rows,
		cells:   make([]Player, columns*rows),
	}, nil
}

// Columns returns the board width.
func (b Board) Columns() int {
	return b.columns
}

// Rows returns the board height.
func (b Board) Rows() int {
	return b.rows
}

// Contains reports whether (row, column) lies on the board.
func (b Board) Contains(row, column int) bool {
	return row >= 0 && row < b.rows && column >= 0 && column < b.columns
}

// At returns the occupant of a cell. Cells off the board read as Empty.
func (b Board) At(row, column int) Player {
	if !b.Contains(row, column) {
		return Empty
	}
	return b.cells[row*b.columns+column]
}

// ColumnHeight returns how many chips are stacked in column.
func (b Board) ColumnHeight(column int) int {
	if column < 0 || column >= b.columns {
		return 0
	}
	height := 0
	for row := b.rows - 1; row >= 0; row-- {
		if b.cells[row*b.columns+column] == Empty {
			break
		}
		height++
	}
	return height
}

// LandingRow returns the row a chip dropped into column would occupy,
// scanning from the bottom row upward. ok is false for a full column or a
// column off the board.
func (b Board) LandingRow(column int) (row int, ok bool) {
	if column < 0 || column >= b.columns {
		return -1, false
	}
	for row = b.rows - 1; row >= 0; row-- {
		if b.cells[row*b.columns+column] == Empty {
			return row, true
		}
	}
	return -1, false
}

// ColumnFull reports whether column has no empty cell left.
func (b Board) ColumnFull(column int) bool {
	_, ok := b.LandingRow(column)
	return !ok
}

// IsFull reports whether the top cell of every column is occupied.
func (b Board) IsFull() bool {
	for c := 0; c < b.columns; c++ {
		if b.cells[c] == Empty {
			return false
		}
	}
	return true
}

// Count returns how many cells p occupies.
func (b Board) Count(p Player) int {
	n := 0
	for _, cell := range b.cells {
		if cell == p {
			n++
		}
	}
	return n
}

// place returns a copy of the board with p at (row, column).
func (b Board) place(row, column int, p Player) Board {
	cells := make([]Player, len(b.cells))
	copy(cells, b.cells)
	cells[row*b.columns+column] = p
	return Board{columns: b.columns, rows: b.rows, cells: cells}
}

// Drop returns the board after p drops a chip into column and the row where
// it landed. ok is false when the column is full or off the board, in which
// case the original board is returned.
func (b Board) Drop(column int, p Player) (next Board, row int, ok bool) {
	row, ok = b.LandingRow(column)
	if !ok {
		return b, -1, false
	}
	return b.place(row, column, p), row, true
}

// Cells returns a deep copy of the grid indexed [row][column].
func (b Board) Cells() [][]Player {
	grid := make([][]Player, b.rows)
	for r := range grid {
		grid[r] = make([]Player, b.columns)
		copy(grid[r], b.cells[r*b.columns:(r+1)*b.columns])
	}
	return grid
}

// Equal reports whether both boards have the same size and occupants.
func (b Board) Equal(other Board) bool {
	if b.columns != other.columns || b.rows != other.rows {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String renders the board one row per line using '.', 'R' and 'Y'.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow((b.columns + 1) * b.rows)
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.columns; c++ {
			sb.WriteByte(cellRune(b.cells[r*b.columns+c]))
		}
	}
	return sb.String()
}

func cellRune(p Player) byte {
	switch p {
	case PlayerA:
		return 'R'
	case PlayerB:
		return 'Y'
	default:
		return '.'
	}
}

// ParseBoard builds a board from text rows, top row first. '.' is empty,
// 'R' or 'A' is PlayerA and 'Y' or 'B' is PlayerB. All rows must share the
// same width and no chip may float above an empty cell.
func ParseBoard(rows ...string) (Board, error) {
	if len(rows) == 0 {
		return Board{}, &InvalidConfigurationError{Columns: 0, Rows: 0}
	}
	b, err := NewBoard(len(rows[0]), len(rows))
	if err != nil {
		return Board{}, err
	}

	for r, line := range rows {
		if len(line) != b.columns {
			return Board{}, fmt.Errorf("engine: row %d has %d cells, want %d: %w",
				r, len(line), b.columns, ErrInvalidConfiguration)
		}
		for c := 0; c < len(line); c++ {
			var p Player
			switch line[c] {
			case '.':
				p = Empty
			case 'R', 'A', 'r', 'a':
				p = PlayerA
			case 'Y', 'B', 'y', 'b':
				p = PlayerB
			default:
				return Board{}, fmt.Errorf("engine: unknown cell %q at %d:%d: %w",
					line[c], r, c, ErrInvalidConfiguration)
			}
			b.cells[r*b.columns+c] = p
		}
	}

	if err := b.checkGravity(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// checkGravity verifies that every chip rests on the bottom row or on
// another chip.
func (b Board) checkGravity() error {
	for c := 0; c < b.columns; c++ {
		for r := 0; r < b.rows-1; r++ {
			if b.At(r, c) != Empty && b.At(r+1, c) == Empty {
				return fmt.Errorf("engine: chip at %d:%d floats above an empty cell: %w",
					r, c, ErrInvalidConfiguration)
			}
		}
	}
	return nil
}
