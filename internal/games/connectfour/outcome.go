package connectfour

import (
	"time"

	"github.com/vovakirdan/tui-connect4/internal/engine"
)

// Outcome describes a finished local game for the history table.
type Outcome struct {
	Variant    string
	Red        string
	Yellow     string
	Winner     engine.Player // engine.Empty on a draw
	WinnerName string
	Draw       bool
	Moves      int
	Columns    int
	Rows       int
	Duration   time.Duration // Time from the first drop to the last
}

// Outcome returns the result once the game is over.
func (g *Game) Outcome() (Outcome, bool) {
	if !g.state.IsOver() {
		return Outcome{}, false
	}
	b := g.state.Board()
	o := Outcome{
		Variant: g.ID(),
		Red:     g.PlayerName(engine.PlayerA),
		Yellow:  g.PlayerName(engine.PlayerB),
		Winner:  g.state.Winner(),
		Draw:    g.state.Phase() == engine.Drawn,
		Moves:   g.state.Moves(),
		Columns: b.Columns(),
		Rows:    b.Rows(),
	}
	if o.Winner != engine.Empty {
		o.WinnerName = g.PlayerName(o.Winner)
	}
	if g.tickRate > 0 && g.endTick >= g.startTick {
		o.Duration = time.Duration(g.endTick-g.startTick) * time.Second / time.Duration(g.tickRate)
	}
	return o, true
}
