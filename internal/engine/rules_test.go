package engine

import (
	"errors"
	"math/rand"
	"testing"
)

func mustParse(t *testing.T, rows ...string) Board {
	t.Helper()
	b, err := ParseBoard(rows...)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	return b
}

func TestHasFour(t *testing.T) {
	tests := []struct {
		name        string
		rows        []string
		red, yellow bool
	}{
		{
			name: "empty",
			rows: []string{"....", "....", "....", "...."},
		},
		{
			name: "three in a row is not enough",
			rows: []string{".......", "RRR.YYY"},
		},
		{
			name: "run of five counts",
			rows: []string{".......", "RRRRRYY"},
			red:  true,
		},
		{
			name:   "vertical yellow",
			rows:   []string{"Y..", "Y..", "YR.", "YRR"},
			yellow: true,
		},
		{
			name: "broken by opponent",
			rows: []string{".......", "RRYRR.Y"},
		},
		{
			name: "positive slope in the corner",
			rows: []string{
				"...R",
				"..RY",
				".RYY",
				"RYYR",
			},
			red: true,
		},
		{
			name: "negative slope in the corner",
			rows: []string{
				"Y...",
				"RY..",
				"RRY.",
				"RRRY",
			},
			yellow: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.rows...)
			if got := HasFour(b, PlayerA); got != tc.red {
				t.Errorf("HasFour(red) = %v, want %v", got, tc.red)
			}
			if got := HasFour(b, PlayerB); got != tc.yellow {
				t.Errorf("HasFour(yellow) = %v, want %v", got, tc.yellow)
			}
			if HasFour(b, Empty) {
				t.Error("HasFour(empty) = true")
			}
		})
	}
}

func TestBoardTooSmallForFour(t *testing.T) {
	b := mustParse(t, "RRR", "RRR", "RRR")
	if HasFour(b, PlayerA) {
		t.Error("3x3 board cannot hold four in a row")
	}
}

// TestLocalScanMatchesFullScan plays random games and checks after every
// move that the scan through the placed cell and the whole-board scan agree.
func TestLocalScanMatchesFullScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 500; game++ {
		columns := 1 + rng.Intn(9)
		rows := 1 + rng.Intn(8)
		s := mustNew(t, columns, rows)

		for !s.IsOver() {
			valid := s.ValidColumns()
			col := valid[rng.Intn(len(valid))]
			mover := s.CurrentPlayer()

			next, err := DropChip(s, col)
			if err != nil {
				t.Fatalf("game %d: DropChip(%d): %v", game, col, err)
			}
			last, _ := next.LastMove()
			_, local := fourThrough(next.Board(), last.Row, last.Column, mover)
			full := HasFour(next.Board(), mover)
			if local != full {
				t.Fatalf("game %d: local scan %v, full scan %v\n%s", game, local, full, next.Board())
			}
			if (next.Phase() == Won) != full {
				t.Fatalf("game %d: phase %v but full scan %v\n%s", game, next.Phase(), full, next.Board())
			}
			if HasFour(next.Board(), mover.Other()) {
				t.Fatalf("game %d: opponent has four after a move by %v", game, mover)
			}
			if next.Phase() == Drawn && !next.Board().IsFull() {
				t.Fatalf("game %d: drawn with empty cells", game)
			}
			checkGravity(t, next.Board())
			s = next
		}
	}
}

func checkGravity(t *testing.T, b Board) {
	t.Helper()
	if err := b.checkGravity(); err != nil {
		t.Fatalf("gravity violated: %v\n%s", err, b)
	}
}

func TestParseBoard(t *testing.T) {
	b := mustParse(t,
		"....",
		"A...",
		"rYb.",
	)
	if b.Columns() != 4 || b.Rows() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", b.Columns(), b.Rows())
	}
	if b.At(1, 0) != PlayerA || b.At(2, 0) != PlayerA {
		t.Error("column 0 should hold two red chips")
	}
	if b.At(2, 1) != PlayerB || b.At(2, 2) != PlayerB {
		t.Error("row 2 should hold yellow at columns 1 and 2")
	}
	if got := b.String(); got != "....\nR...\nRYY." {
		t.Errorf("String() = %q", got)
	}
	if b.ColumnHeight(0) != 2 || b.ColumnHeight(3) != 0 {
		t.Errorf("heights = %d, %d", b.ColumnHeight(0), b.ColumnHeight(3))
	}
}

func TestParseBoardErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"no rows", nil},
		{"empty row", []string{""}},
		{"ragged", []string{"...", ".."}},
		{"unknown cell", []string{"..X"}},
		{"floating chip", []string{".R.", "..."}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBoard(tc.rows...)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("ParseBoard error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestBoardOutOfRangeReadsEmpty(t *testing.T) {
	b := mustParse(t, "R")
	for _, c := range []Coord{{-1, 0}, {0, -1}, {1, 0}, {0, 1}} {
		if got := b.At(c.Row, c.Column); got != Empty {
			t.Errorf("At(%d, %d) = %v, want empty", c.Row, c.Column, got)
		}
	}
	if _, ok := b.LandingRow(5); ok {
		t.Error("LandingRow off the board should fail")
	}
}
