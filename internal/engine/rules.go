package engine

// WinLength is the number of aligned chips that wins the game.
const WinLength = 4

// Line lists the cells of a four-in-a-row in scan order.
type Line [WinLength]Coord

// direction is a (row, column) step.
type direction struct {
	dRow, dCol int
}

// directions are the four lines a win can lie on.
var directions = [...]direction{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, -1}, // positive slope: down-left / up-right
	{1, 1},  // negative slope: down-right / up-left
}

// HasFour reports whether p has four chips in a row anywhere on the board.
func HasFour(b Board, p Player) bool {
	_, ok := FindFour(b, p)
	return ok
}

// FindFour scans the whole board for a run of four chips belonging to p.
// Every cell that could start a run is checked in each direction; starts
// whose run would leave the grid are skipped.
func FindFour(b Board, p Player) (Line, bool) {
	if !p.Valid() {
		return Line{}, false
	}
	for _, d := range directions {
		for row := 0; row < b.rows; row++ {
			for col := 0; col < b.columns; col++ {
				endRow := row + d.dRow*(WinLength-1)
				endCol := col + d.dCol*(WinLength-1)
				if !b.Contains(endRow, endCol) {
					continue
				}
				if line, ok := runFrom(b, row, col, d, p); ok {
					return line, true
				}
			}
		}
	}
	return Line{}, false
}

// runFrom checks the WinLength cells starting at (row, col) along d.
func runFrom(b Board, row, col int, d direction, p Player) (Line, bool) {
	var line Line
	for k := 0; k < WinLength; k++ {
		r, c := row+d.dRow*k, col+d.dCol*k
		if b.At(r, c) != p {
			return Line{}, false
		}
		line[k] = Coord{Row: r, Column: c}
	}
	return line, true
}

// fourThrough only inspects the lines passing through (row, col). It finds a
// win exactly when FindFour would, provided the position had no four for p
// before the chip at (row, col) was placed.
func fourThrough(b Board, row, col int, p Player) (Line, bool) {
	if b.At(row, col) != p {
		return Line{}, false
	}
	for _, d := range directions {
		back := countDirection(b, row, col, -d.dRow, -d.dCol, p)
		fwd := countDirection(b, row, col, d.dRow, d.dCol, p)
		if back+fwd+1 < WinLength {
			continue
		}
		startRow, startCol := row-d.dRow*back, col-d.dCol*back
		line, _ := runFrom(b, startRow, startCol, d, p)
		return line, true
	}
	return Line{}, false
}

// countDirection counts consecutive chips of p next to (row, col) along
// (dRow, dCol), not including the cell itself.
func countDirection(b Board, row, col, dRow, dCol int, p Player) int {
	count := 0
	r, c := row+dRow, col+dCol
	for b.Contains(r, c) && b.At(r, c) == p {
		count++
		r += dRow
		c += dCol
	}
	return count
}

// CountDirection is the exported form of countDirection used by the bot to
// score partial lines.
func CountDirection(b Board, row, col, dRow, dCol int, p Player) int {
	return countDirection(b, row, col, dRow, dCol, p)
}
