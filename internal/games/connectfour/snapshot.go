package connectfour

import (
	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/engine"
	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
)

// Snapshot is a transport-neutral view of a game. Cells are encoded as
// 0 (empty), 1 (red) and 2 (yellow), row 0 at the top.
type Snapshot struct {
	Columns     int            `json:"columns"`
	Rows        int            `json:"rows"`
	Cells       [][]int        `json:"cells"`
	Turn        engine.Player  `json:"turn"`
	Phase       string         `json:"phase"`
	Winner      engine.Player  `json:"winner"`
	Moves       int            `json:"moves"`
	LastMove    *engine.Coord  `json:"last_move,omitempty"`
	WinningLine []engine.Coord `json:"winning_line,omitempty"`
	Status      string         `json:"status"`
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (Snapshot) IsGameSnapshot() {}

var _ multiplayer.GameSnapshot = Snapshot{}

// SnapshotOf captures s.
func SnapshotOf(s engine.GameState) Snapshot {
	b := s.Board()
	snap := Snapshot{
		Columns: b.Columns(),
		Rows:    b.Rows(),
		Cells:   make([][]int, b.Rows()),
		Turn:    s.CurrentPlayer(),
		Phase:   s.Phase().String(),
		Winner:  s.Winner(),
		Moves:   s.Moves(),
		Status:  engine.StatusMessage(s),
	}
	for r, row := range b.Cells() {
		snap.Cells[r] = make([]int, len(row))
		for c, p := range row {
			snap.Cells[r][c] = int(p)
		}
	}
	if last, ok := s.LastMove(); ok {
		snap.LastMove = &last
	}
	if line, ok := s.WinningLine(); ok {
		snap.WinningLine = line[:]
	}
	return snap
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	return SnapshotOf(g.state)
}

// Over reports whether the snapshot is of a finished game.
func (s Snapshot) Over() bool {
	return s.Phase != engine.InProgress.String()
}

// Board rebuilds the engine board from the cells.
func (s Snapshot) Board() (engine.Board, error) {
	rows := make([]string, len(s.Cells))
	for r, row := range s.Cells {
		line := make([]byte, len(row))
		for c, v := range row {
			switch engine.Player(v) {
			case engine.PlayerA:
				line[c] = 'R'
			case engine.PlayerB:
				line[c] = 'Y'
			default:
				line[c] = '.'
			}
		}
		rows[r] = string(line)
	}
	return engine.ParseBoard(rows...)
}

// RenderSnapshot draws an online game from viewer's side. cursor is the
// column the viewer is aiming at; it is hidden when it is not their turn.
func RenderSnapshot(dst *core.Screen, snap Snapshot, viewer engine.Player, cursor int, status, hint string) {
	dst.Clear()
	board, err := snap.Board()
	if err != nil {
		dst.DrawTextCentered(dst.Height()/2, err.Error(), core.ColorRed)
		return
	}
	if snap.Over() || snap.Turn != viewer {
		cursor = -1
	}
	v := boardView{
		board:  board,
		cursor: cursor,
		turn:   snap.Turn,
		title:  "Connect Four Online (you are " + viewer.String() + ")",
		status: status,
		hint:   hint,
		footer: "←/→: Move | Space: Drop | Esc: Leave",
	}
	if len(snap.WinningLine) == engine.WinLength {
		var line engine.Line
		copy(line[:], snap.WinningLine)
		v.winning = winningCells(line, true)
	}
	v.draw(dst)
}
