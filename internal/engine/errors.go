package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below wrap them so callers can use errors.Is.
var (
	ErrInvalidMove          = errors.New("engine: invalid move")
	ErrInvalidConfiguration = errors.New("engine: invalid configuration")
)

// InvalidMoveError is returned when a column lies outside the board.
type InvalidMoveError struct {
	Column  int
	Columns int
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("engine: invalid move: column %d outside [0, %d)", e.Column, e.Columns)
}

func (e *InvalidMoveError) Unwrap() error {
	return ErrInvalidMove
}

// InvalidConfigurationError is returned for non-positive board dimensions.
type InvalidConfigurationError struct {
	Columns int
	Rows    int
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("engine: invalid configuration: %dx%d board, both dimensions must be positive",
		e.Columns, e.Rows)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}
