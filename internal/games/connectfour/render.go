package connectfour

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/engine"
)

const (
	cellWidth    = 4 // Width of each cell including its left border
	cellHeight   = 2 // Height of each cell including its top border
	hudHeight    = 3 // Title, status and cursor rows above the grid
	footerHeight = 3 // Column numbers, hint and controls below the grid
)

const (
	chipRune    = '●'
	winRune     = '◉'
	cursorRune  = '▼'
	gridColor   = core.ColorBlue
	footerColor = core.ColorGray
)

func boardSize(columns, rows int) (w, h int) {
	return columns*cellWidth + 1, rows*cellHeight + 1
}

// boardView is everything needed to draw a board, shared by local games and
// online snapshots.
type boardView struct {
	board   engine.Board
	cursor  int // -1 hides the cursor
	turn    engine.Player
	winning map[engine.Coord]bool
	falling *fall
	title   string
	status  string
	hint    string
	footer  string
}

func chipColor(p engine.Player, winning bool) core.Color {
	switch {
	case p == engine.PlayerA && winning:
		return core.ColorBrightRed
	case p == engine.PlayerA:
		return core.ColorRed
	case p == engine.PlayerB && winning:
		return core.ColorBrightYellow
	case p == engine.PlayerB:
		return core.ColorYellow
	default:
		return core.ColorDefault
	}
}

func winningCells(line engine.Line, ok bool) map[engine.Coord]bool {
	if !ok {
		return nil
	}
	cells := make(map[engine.Coord]bool, len(line))
	for _, c := range line {
		cells[c] = true
	}
	return cells
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		dst.DrawTextCentered(dst.Height()/2, g.err.Error(), core.ColorRed)
		return
	}
	if g.tooSmall {
		y := dst.Height() / 2
		dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
		dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
		return
	}

	cursor := g.cursor
	if g.state.IsOver() || g.cpuTurn() || g.falling != nil {
		cursor = -1
	}
	status := g.Status()
	if g.falling != nil {
		status = fmt.Sprintf("%s drops...", g.PlayerName(g.falling.player))
	} else if g.cpuTurn() && !g.state.IsOver() {
		status = "CPU is thinking..."
	}

	v := boardView{
		board:   g.state.Board(),
		cursor:  cursor,
		turn:    g.state.CurrentPlayer(),
		falling: g.falling,
		title:   g.Title(),
		status:  status,
		hint:    g.hint,
		footer:  g.Controls(),
	}
	if g.falling == nil {
		v.winning = winningCells(g.state.WinningLine())
	}
	if g.state.IsOver() && g.falling == nil {
		v.footer = "R: Restart | Esc: Menu | Q: Quit"
	}

	grid := v.draw(dst)

	if g.paused {
		drawOverlay(dst, grid, "PAUSED", "Press P to resume")
	}
}

// draw renders the view centred on dst and returns the grid rectangle.
func (v boardView) draw(dst *core.Screen) core.Rect {
	columns, rows := v.board.Columns(), v.board.Rows()
	w, h := boardSize(columns, rows)
	total := hudHeight + h + footerHeight
	area := core.NewRect(0, 0, dst.Width(), dst.Height()).Centered(w, total)
	grid := core.NewRect(area.X, area.Y+hudHeight, w, h)

	dst.DrawTextCentered(area.Y, v.title, core.ColorBrightWhite)
	dst.DrawTextCentered(area.Y+1, v.status, chipColor(v.turn, false))

	if v.cursor >= 0 {
		x := grid.X + v.cursor*cellWidth + cellWidth/2
		dst.SetColored(x, area.Y+2, cursorRune, chipColor(v.turn, false))
	}

	drawGrid(dst, grid, columns, rows)

	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			p := v.board.At(r, c)
			if p == engine.Empty {
				continue
			}
			if f := v.falling; f != nil && f.column == c && f.target == r {
				continue
			}
			coord := engine.Coord{Row: r, Column: c}
			rn := chipRune
			if v.winning[coord] {
				rn = winRune
			}
			dst.SetColored(cellX(grid, c), cellY(grid, r), rn, chipColor(p, v.winning[coord]))
		}
	}
	if f := v.falling; f != nil {
		dst.SetColored(cellX(grid, f.column), cellY(grid, f.row), chipRune, chipColor(f.player, false))
	}

	for c := 0; c < columns; c++ {
		label := strconv.Itoa((c + 1) % 10)
		dst.DrawTextColored(cellX(grid, c), grid.Bottom(), label, footerColor)
	}
	if v.hint != "" {
		dst.DrawTextCentered(grid.Bottom()+1, v.hint, core.ColorMagenta)
	}
	dst.DrawTextCentered(grid.Bottom()+2, v.footer, footerColor)
	return grid
}

func cellX(grid core.Rect, column int) int {
	return grid.X + column*cellWidth + cellWidth/2
}

func cellY(grid core.Rect, row int) int {
	return grid.Y + row*cellHeight + cellHeight/2
}

func drawGrid(dst *core.Screen, grid core.Rect, columns, rows int) {
	for y := 0; y <= rows; y++ {
		for x := 0; x <= columns; x++ {
			px := grid.X + x*cellWidth
			py := grid.Y + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == columns:
				corner = '┐'
			case y == rows && x == 0:
				corner = '└'
			case y == rows && x == columns:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == rows:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == columns:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColored(px, py, corner, gridColor)

			if x < columns {
				dst.DrawHLine(px+1, py, cellWidth-1, '─', gridColor)
			}
			if y < rows {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', gridColor)
				}
			}
		}
	}
}

// drawOverlay draws a boxed message centred on the grid.
func drawOverlay(dst *core.Screen, grid core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	box := grid.Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	for i, line := range lines {
		x := box.X + (box.W-len([]rune(line)))/2
		dst.DrawText(x, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "←/→: Move | Space: Drop | P: Pause | Q: Quit"
}
