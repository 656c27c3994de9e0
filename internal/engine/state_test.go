package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// play applies columns in order and fails the test on any error.
func play(t *testing.T, s GameState, columns ...int) GameState {
	t.Helper()
	for i, col := range columns {
		var err error
		s, err = DropChip(s, col)
		if err != nil {
			t.Fatalf("move %d (column %d): %v", i, col, err)
		}
	}
	return s
}

func mustNew(t *testing.T, columns, rows int) GameState {
	t.Helper()
	s, err := New(columns, rows)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", columns, rows, err)
	}
	return s
}

func TestNew(t *testing.T) {
	sizes := []struct{ columns, rows int }{
		{1, 1}, {7, 6}, {4, 9}, {12, 3},
	}
	for _, sz := range sizes {
		s := mustNew(t, sz.columns, sz.rows)
		b := s.Board()
		if b.Columns() != sz.columns || b.Rows() != sz.rows {
			t.Errorf("New(%d, %d) board is %dx%d", sz.columns, sz.rows, b.Columns(), b.Rows())
		}
		for r := 0; r < sz.rows; r++ {
			for c := 0; c < sz.columns; c++ {
				if b.At(r, c) != Empty {
					t.Errorf("New(%d, %d): cell %d:%d = %v, want empty", sz.columns, sz.rows, r, c, b.At(r, c))
				}
			}
		}
		if s.CurrentPlayer() != PlayerA {
			t.Errorf("New(%d, %d): current player = %v, want red", sz.columns, sz.rows, s.CurrentPlayer())
		}
		if s.Phase() != InProgress {
			t.Errorf("New(%d, %d): phase = %v, want in_progress", sz.columns, sz.rows, s.Phase())
		}
		if _, ok := s.LastMove(); ok {
			t.Errorf("New(%d, %d): unexpected last move", sz.columns, sz.rows)
		}
	}
}

func TestNewInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		columns, rows int
	}{
		{"zero columns", 0, 6},
		{"zero rows", 7, 0},
		{"negative columns", -1, 6},
		{"negative rows", 7, -3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.columns, tc.rows)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("New(%d, %d) error = %v, want ErrInvalidConfiguration", tc.columns, tc.rows, err)
			}
			var cfgErr *InvalidConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %T is not *InvalidConfigurationError", err)
			}
			if cfgErr.Columns != tc.columns || cfgErr.Rows != tc.rows {
				t.Errorf("error reports %dx%d, want %dx%d", cfgErr.Columns, cfgErr.Rows, tc.columns, tc.rows)
			}
		})
	}
}

func TestDropChipGravity(t *testing.T) {
	s := mustNew(t, 7, 6)
	s = play(t, s, 3)
	if got := s.Board().At(5, 3); got != PlayerA {
		t.Fatalf("first chip at 5:3 = %v, want red", got)
	}
	s = play(t, s, 3)
	if got := s.Board().At(4, 3); got != PlayerB {
		t.Fatalf("second chip at 4:3 = %v, want yellow", got)
	}
	if got := s.Board().ColumnHeight(3); got != 2 {
		t.Errorf("column height = %d, want 2", got)
	}
	last, ok := s.LastMove()
	if !ok || last != (Coord{Row: 4, Column: 3}) {
		t.Errorf("LastMove() = %v, %v, want 4:3", last, ok)
	}
}

func TestDropChipAlternatesPlayers(t *testing.T) {
	s := mustNew(t, 7, 6)
	want := PlayerA
	for i, col := range []int{0, 1, 2, 3, 4, 5, 6, 0} {
		if s.CurrentPlayer() != want {
			t.Fatalf("before move %d: current = %v, want %v", i, s.CurrentPlayer(), want)
		}
		s = play(t, s, col)
		want = want.Other()
	}
	if s.Moves() != 8 {
		t.Errorf("Moves() = %d, want 8", s.Moves())
	}
}

func TestDropChipFullColumnIsNoOp(t *testing.T) {
	s := mustNew(t, 7, 2)
	s = play(t, s, 0, 0)

	next, err := DropChip(s, 0)
	if err != nil {
		t.Fatalf("DropChip on full column: %v", err)
	}
	if diff := cmp.Diff(s, next); diff != "" {
		t.Errorf("state changed on full column (-want +got):\n%s", diff)
	}
	if s.CanDrop(0) {
		t.Error("CanDrop(0) = true for a full column")
	}
	if got := s.ValidColumns(); !cmp.Equal(got, []int{1, 2, 3, 4, 5, 6}) {
		t.Errorf("ValidColumns() = %v", got)
	}
}

func TestDropChipOutOfRange(t *testing.T) {
	s := mustNew(t, 7, 6)
	s = play(t, s, 2)

	for _, col := range []int{-1, 7, 100} {
		next, err := DropChip(s, col)
		if !errors.Is(err, ErrInvalidMove) {
			t.Errorf("DropChip(%d) error = %v, want ErrInvalidMove", col, err)
		}
		var moveErr *InvalidMoveError
		if !errors.As(err, &moveErr) || moveErr.Column != col {
			t.Errorf("DropChip(%d) error = %#v, want *InvalidMoveError for that column", col, err)
		}
		if !cmp.Equal(s, next) {
			t.Errorf("DropChip(%d) changed the state", col)
		}
	}
}

func TestDropChipDoesNotMutateInput(t *testing.T) {
	s := mustNew(t, 7, 6)
	s = play(t, s, 3, 4)
	before := s.Board().String()
	cells := s.Board().Cells()

	_ = play(t, s, 3, 3, 3)

	if got := s.Board().String(); got != before {
		t.Errorf("input board changed:\n%s\nwant:\n%s", got, before)
	}
	cells[5][3] = PlayerB
	if s.Board().At(5, 3) != PlayerA {
		t.Error("Cells() exposed internal storage")
	}
}

func TestHorizontalWin(t *testing.T) {
	s := mustNew(t, 7, 6)
	s = play(t, s, 0, 6, 1, 6, 2, 6)
	if s.IsOver() {
		t.Fatalf("game over after three red chips: %v", s.Phase())
	}
	s = play(t, s, 3)

	if s.Phase() != Won || s.Winner() != PlayerA {
		t.Fatalf("phase = %v winner = %v, want won by red", s.Phase(), s.Winner())
	}
	want := Line{{5, 0}, {5, 1}, {5, 2}, {5, 3}}
	got, ok := s.WinningLine()
	if !ok {
		t.Fatal("WinningLine() not set")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("winning line (-want +got):\n%s", diff)
	}
}

func TestVerticalWin(t *testing.T) {
	s := mustNew(t, 7, 6)
	s = play(t, s, 0, 1, 0, 1, 0, 1, 0)

	if s.Phase() != Won || s.Winner() != PlayerA {
		t.Fatalf("phase = %v winner = %v, want won by red", s.Phase(), s.Winner())
	}
	want := Line{{2, 0}, {3, 0}, {4, 0}, {5, 0}}
	if got, _ := s.WinningLine(); got != want {
		t.Errorf("WinningLine() = %v, want %v", got, want)
	}
}

func TestYellowCanWin(t *testing.T) {
	s := mustNew(t, 7, 6)
	s = play(t, s, 0, 1, 2, 1, 3, 1, 6, 1)

	if s.Phase() != Won || s.Winner() != PlayerB {
		t.Fatalf("phase = %v winner = %v, want won by yellow", s.Phase(), s.Winner())
	}
	if got := StatusMessage(s); got != "Player yellow won!" {
		t.Errorf("StatusMessage() = %q", got)
	}
}

func TestDiagonalWins(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		column int
		want   Line
	}{
		{
			name: "positive slope",
			rows: []string{
				".......",
				".......",
				".......",
				"..RY...",
				".RYY...",
				"RYYR..R",
			},
			column: 3,
			want:   Line{{2, 3}, {3, 2}, {4, 1}, {5, 0}},
		},
		{
			name: "negative slope",
			rows: []string{
				".......",
				".......",
				".......",
				"...YR..",
				"...YYR.",
				"R..RYYR",
			},
			column: 3,
			want:   Line{{2, 3}, {3, 4}, {4, 5}, {5, 6}},
		},
		{
			name: "negative slope completed in the middle",
			rows: []string{
				".......",
				".......",
				"R......",
				"YR.....",
				"YY.....",
				"RYYR..R",
			},
			column: 2,
			want:   Line{{2, 0}, {3, 1}, {4, 2}, {5, 3}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseBoard(tc.rows...)
			if err != nil {
				t.Fatalf("ParseBoard: %v", err)
			}
			s, err := FromBoard(b, PlayerA)
			if err != nil {
				t.Fatalf("FromBoard: %v", err)
			}
			s = play(t, s, tc.column)
			if s.Phase() != Won || s.Winner() != PlayerA {
				t.Fatalf("phase = %v winner = %v, want won by red\n%s", s.Phase(), s.Winner(), s.Board())
			}
			got, _ := s.WinningLine()
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("winning line (-want +got):\n%s", diff)
			}
		})
	}
}

// drawSequence fills a 7x6 board without either side ever making four.
var drawSequence = []int{
	4, 1, 6, 2, 1, 0, 1, 4, 4, 2, 4, 1, 3, 6, 3, 3, 1, 0, 4, 6, 6,
	1, 2, 3, 2, 3, 2, 2, 6, 5, 5, 0, 5, 4, 6, 5, 5, 5, 0, 0, 3, 0,
}

func TestDraw(t *testing.T) {
	s := mustNew(t, 7, 6)
	for i, col := range drawSequence {
		if s.IsOver() {
			t.Fatalf("game ended early after %d moves: %s", i, StatusMessage(s))
		}
		s = play(t, s, col)
	}

	if s.Phase() != Drawn {
		t.Fatalf("phase = %v, want drawn\n%s", s.Phase(), s.Board())
	}
	if s.Winner() != Empty {
		t.Errorf("Winner() = %v on a draw", s.Winner())
	}
	if !s.Board().IsFull() {
		t.Error("board not full on a draw")
	}
	want := []string{
		"YYYRYYR",
		"YRRYRRR",
		"RYRYRYR",
		"YRRYRRY",
		"YRYRYRY",
		"YYYRRYR",
	}
	wantBoard, err := ParseBoard(want...)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if !cmp.Equal(wantBoard, s.Board()) {
		t.Errorf("final board:\n%s\nwant:\n%s", s.Board(), wantBoard)
	}
	if got := StatusMessage(s); got != "It's a draw!" {
		t.Errorf("StatusMessage() = %q", got)
	}
}

func TestSingleCellBoardDraws(t *testing.T) {
	s := mustNew(t, 1, 1)
	s = play(t, s, 0)
	if s.Phase() != Drawn {
		t.Errorf("phase = %v, want drawn", s.Phase())
	}
}

func TestWinOnLastCellIsNotDraw(t *testing.T) {
	b, err := ParseBoard("RRR.")
	if err != nil {
		t.Fatal(err)
	}
	s, err := FromBoard(b, PlayerA)
	if err != nil {
		t.Fatal(err)
	}
	s = play(t, s, 3)
	if s.Phase() != Won || s.Winner() != PlayerA {
		t.Errorf("phase = %v winner = %v, want won by red", s.Phase(), s.Winner())
	}
	if !s.Board().IsFull() {
		t.Error("board should be full")
	}
}

func TestTerminalStateIsAbsorbing(t *testing.T) {
	won := play(t, mustNew(t, 7, 6), 0, 1, 0, 1, 0, 1, 0)
	drawn := play(t, mustNew(t, 7, 6), drawSequence...)

	for name, s := range map[string]GameState{"won": won, "drawn": drawn} {
		t.Run(name, func(t *testing.T) {
			for _, col := range []int{0, 3, 6, -1, 42} {
				next, err := DropChip(s, col)
				if err != nil {
					t.Errorf("DropChip(%d) on finished game: %v", col, err)
				}
				if diff := cmp.Diff(s, next); diff != "" {
					t.Errorf("DropChip(%d) changed a finished game (-want +got):\n%s", col, diff)
				}
			}
			if cols := s.ValidColumns(); len(cols) != 0 {
				t.Errorf("ValidColumns() = %v on a finished game", cols)
			}
		})
	}
}

func TestFromBoard(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		next    Player
		wantErr bool
	}{
		{"empty board", []string{"...", "..."}, PlayerA, false},
		{"in progress", []string{"....", "RY.."}, PlayerA, false},
		{"already won", []string{"....", "RRRR"}, PlayerB, true},
		{"full board", []string{"RY", "YR"}, PlayerA, true},
		{"empty next player", []string{"...", "..."}, Empty, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseBoard(tc.rows...)
			if err != nil {
				t.Fatalf("ParseBoard: %v", err)
			}
			s, err := FromBoard(b, tc.next)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Errorf("FromBoard error = %v, want ErrInvalidConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromBoard: %v", err)
			}
			if s.CurrentPlayer() != tc.next {
				t.Errorf("current = %v, want %v", s.CurrentPlayer(), tc.next)
			}
			if s.Moves() != b.Count(PlayerA)+b.Count(PlayerB) {
				t.Errorf("Moves() = %d", s.Moves())
			}
		})
	}
}

func TestStatusMessage(t *testing.T) {
	s := mustNew(t, 7, 6)
	if got := StatusMessage(s); got != "It's red's turn" {
		t.Errorf("initial status = %q", got)
	}
	if StatusMessage(s) != StatusMessage(s) {
		t.Error("StatusMessage is not stable")
	}

	s = play(t, s, 3)
	if got := StatusMessage(s); got != "It's yellow's turn" {
		t.Errorf("status after one move = %q", got)
	}

	s = play(t, s, 4, 3, 4, 3, 4, 3)
	if got := StatusMessage(s); got != "Player red won!" {
		t.Errorf("status after win = %q", got)
	}

	names := func(p Player) string {
		if p == PlayerA {
			return "alice"
		}
		return "bob"
	}
	if got := FormatStatus(s, names); got != "Player alice won!" {
		t.Errorf("FormatStatus() = %q", got)
	}
	if got := FormatStatus(s, nil); got != "Player red won!" {
		t.Errorf("FormatStatus(nil) = %q", got)
	}
}
