package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if cell := s.GetCell(x, y); cell != (Cell{Rune: ' '}) {
				t.Fatalf("new screen cell (%d, %d) = %+v, expected blank", x, y, cell)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	s.SetColored(2, 3, 'O', ColorRed)
	if cell := s.GetCell(2, 3); cell.Rune != 'O' || cell.Color != ColorRed {
		t.Errorf("GetCell(2, 3) = %+v, expected red 'O'", cell)
	}

	// Out of bounds writes are dropped
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.SetColored(0, -1, 'A', ColorYellow)
	s.SetColored(0, 100, 'A', ColorYellow)

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
	if s.GetCell(0, 100).Color != ColorDefault {
		t.Error("out of bounds GetCell should be uncoloured")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(0, 0, 10, 10), 'X')
	s.SetColored(4, 4, 'Y', ColorYellow)

	s.Clear()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if cell := s.GetCell(x, y); cell.Rune != ' ' || cell.Color != ColorDefault {
				t.Fatalf("after Clear, cell (%d, %d) = %+v", x, y, cell)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColored(2, 1, "Hello", ColorCyan)

	for i, ch := range "Hello" {
		cell := s.GetCell(2+i, 1)
		if cell.Rune != ch || cell.Color != ColorCyan {
			t.Errorf("expected cyan %q at (%d, 1), got %+v", ch, 2+i, cell)
		}
	}

	// Clipped at the right edge
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at right boundary")
	}
}

func TestScreenDrawTextMultibyte(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawText(0, 0, "●○●")

	if s.Row(0) != "●○●       " {
		t.Errorf("Row(0) = %q", s.Row(0))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi", ColorDefault)

	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered: text not at expected position, row = %q", s.Row(2))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorBlue)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.GetCell(pos[0], pos[1]); got.Rune != want || got.Color != ColorBlue {
			t.Errorf("corner (%d, %d) = %+v, expected blue %q", pos[0], pos[1], got, want)
		}
	}

	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge missing at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge missing at y=%d", y)
		}
	}
	if s.Get(3, 2) != ' ' {
		t.Error("DrawBox should not fill the interior")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawTextColored(0, 1, "BBBBB", ColorRed)
	s.DrawText(0, 2, "CCCCC")

	expected := "AAAAA\nBBBBB\nCCCCC"
	if result := s.String(); result != expected {
		t.Errorf("String() = %q, expected %q", result, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColored(0, 0, "Hello", ColorYellow)
	s.DrawText(0, 5, "World")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("after resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if row0 := s.Row(0); !strings.HasPrefix(row0, "Hello") {
		t.Errorf("content should be preserved, row 0 = %q", row0)
	}
	if s.GetCell(0, 0).Color != ColorYellow {
		t.Error("colour should be preserved on resize")
	}

	s.Resize(15, 8)
	if row0 := s.Row(0); !strings.HasPrefix(row0, "Hello") {
		t.Errorf("content should be preserved after enlarging, row 0 = %q", row0)
	}
	if row5 := s.Row(5); strings.TrimSpace(row5) != "" {
		t.Errorf("row 5 was cropped away and should be blank, got %q", row5)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawText(0, 2, "Test")

	row := s.Row(2)
	if !strings.HasPrefix(row, "Test") {
		t.Errorf("Row(2) should start with 'Test', got %q", row)
	}
	if len(row) != 10 {
		t.Errorf("Row length should be 10, got %d", len(row))
	}
	if outOfBounds := s.Row(-1); outOfBounds != "          " {
		t.Errorf("out of bounds row should be spaces, got %q", outOfBounds)
	}
}
