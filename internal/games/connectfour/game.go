// Package connectfour adapts the engine to the platform's tick-driven Game
// interface: a column cursor, a falling chip animation and an optional CPU
// opponent.
package connectfour

import (
	"errors"
	"sync"
	"time"

	"github.com/vovakirdan/tui-connect4/internal/bot"
	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/engine"
	"github.com/vovakirdan/tui-connect4/internal/registry"
)

// Mode selects who plays yellow.
type Mode string

const (
	ModeLocal Mode = "connect4"     // Two players sharing one keyboard
	ModeCPU   Mode = "connect4_cpu" // Yellow is the computer
)

// hintSeconds is how long a rejected-drop hint stays on screen.
const hintSeconds = 1

var (
	settingsMu sync.RWMutex
	settings   = config.DefaultConnect4Config()
)

// Configure sets the configuration used by games created afterwards.
func Configure(cfg config.Connect4Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	settingsMu.Lock()
	settings = cfg
	settingsMu.Unlock()
	return nil
}

// Settings returns the configuration new games start with.
func Settings() config.Connect4Config {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

func init() {
	registry.Register(string(ModeLocal), func() registry.Game {
		return New(ModeLocal, Settings())
	})
	registry.Register(string(ModeCPU), func() registry.Game {
		return New(ModeCPU, Settings())
	})
}

// fall is a chip on its way down. The engine state already contains it;
// the renderer hides the landing cell until the chip arrives.
type fall struct {
	column  int
	target  int
	row     int
	player  engine.Player
	elapsed int
}

// Game is one Connect Four game driven by input frames.
type Game struct {
	mode  Mode
	cfg   config.Connect4Config
	state engine.GameState
	err   error // Non-nil when the configured board cannot be built

	cursor int
	cpu    *bot.Bot

	falling    *fall
	thinkTicks int
	hint       string
	hintTicks  int
	paused     bool

	tick      uint64
	tickRate  int
	startTick uint64
	endTick   uint64

	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a game in the given mode. Call Reset before stepping it.
func New(mode Mode, cfg config.Connect4Config) *Game {
	return &Game{mode: mode, cfg: cfg}
}

// ID returns the registry identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeCPU {
		return "Connect Four vs CPU"
	}
	return "Connect Four"
}

// Mode returns who plays yellow.
func (g *Game) Mode() Mode {
	return g.mode
}

// Reset starts a new game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.state, g.err = engine.New(g.cfg.Board.Columns, g.cfg.Board.Rows)
	g.cursor = g.cfg.Board.Columns / 2
	g.falling = nil
	g.thinkTicks = 0
	g.hint = ""
	g.hintTicks = 0
	g.paused = false
	g.tick = 0
	g.startTick = 0
	g.endTick = 0
	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.checkScreenSize()

	g.cpu = nil
	if g.mode == ModeCPU {
		botCfg, err := g.cfg.CPU.BotConfig()
		if err != nil {
			botCfg = bot.Config{Difficulty: bot.Medium}
		}
		if botCfg.Seed == 0 {
			botCfg.Seed = rc.Seed
		}
		g.cpu = bot.New(botCfg)
	}
}

// Resize adapts to a new screen size without restarting the game.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// Err reports a board configuration the engine refused.
func (g *Game) Err() error {
	return g.err
}

func (g *Game) checkScreenSize() {
	w, h := boardSize(g.cfg.Board.Columns, g.cfg.Board.Rows)
	g.tooSmall = g.screenW < w || g.screenH < h+hudHeight+footerHeight
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	if g.err != nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.state.IsOver() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if g.hintTicks > 0 {
		g.hintTicks--
		if g.hintTicks == 0 {
			g.hint = ""
		}
	}

	if g.falling != nil {
		g.advanceFall()
		return core.StepResult{State: g.State()}
	}

	if g.state.IsOver() {
		return core.StepResult{State: g.State()}
	}

	if g.cpuTurn() {
		return g.stepCPU()
	}

	columns := g.state.Board().Columns()
	switch {
	case in.Has(core.ActionLeft):
		g.cursor = core.Wrap(g.cursor-1, columns)
	case in.Has(core.ActionRight):
		g.cursor = core.Wrap(g.cursor+1, columns)
	}

	var msg string
	if in.Has(core.ActionDrop) {
		msg = g.drop(g.cursor)
	}
	return core.StepResult{State: g.State(), Message: msg}
}

func (g *Game) cpuTurn() bool {
	return g.cpu != nil && g.state.CurrentPlayer() == engine.PlayerB
}

func (g *Game) stepCPU() core.StepResult {
	if g.thinkTicks > 0 {
		g.thinkTicks--
		return core.StepResult{State: g.State()}
	}
	col, err := g.cpu.Choose(g.state)
	if err != nil {
		return core.StepResult{State: g.State()}
	}
	g.cursor = col
	return core.StepResult{State: g.State(), Message: g.drop(col)}
}

// drop plays the current player's chip and returns a hint when the drop was
// refused.
func (g *Game) drop(column int) string {
	next, err := engine.DropChip(g.state, column)
	if err != nil {
		var invalid *engine.InvalidMoveError
		if errors.As(err, &invalid) {
			return g.showHint("No such column")
		}
		return g.showHint(err.Error())
	}
	if next.Moves() == g.state.Moves() {
		return g.showHint("Column is full")
	}

	if g.state.Moves() == 0 {
		g.startTick = g.tick
	}
	player := g.state.CurrentPlayer()
	g.state = next
	if next.IsOver() {
		g.endTick = g.tick
	}

	last, _ := next.LastMove()
	if g.cfg.Animation.FallTicks > 0 && last.Row > 0 {
		g.falling = &fall{column: last.Column, target: last.Row, player: player}
	}
	if g.cpuTurn() {
		g.thinkTicks = g.ticksFor(g.cfg.CPU.ThinkDelay())
	}
	return ""
}

func (g *Game) showHint(msg string) string {
	g.hint = msg
	g.hintTicks = hintSeconds * g.tickRate
	return msg
}

func (g *Game) advanceFall() {
	f := g.falling
	f.elapsed++
	if f.elapsed < g.cfg.Animation.FallTicks {
		return
	}
	f.elapsed = 0
	f.row++
	if f.row >= f.target {
		g.falling = nil
	}
}

func (g *Game) ticksFor(d time.Duration) int {
	return int(d * time.Duration(g.tickRate) / time.Second)
}

// State reports the game to the platform. The game is only over once the
// last chip has finished falling.
func (g *Game) State() core.Status {
	return core.Status{
		Moves:    g.state.Moves(),
		GameOver: g.state.IsOver() && g.falling == nil,
		Paused:   g.paused || g.tooSmall,
	}
}

// GameState returns the engine state.
func (g *Game) GameState() engine.GameState {
	return g.state
}

// Cursor returns the column the cursor points at.
func (g *Game) Cursor() int {
	return g.cursor
}

// PlayerName returns the display name for p.
func (g *Game) PlayerName(p engine.Player) string {
	if g.mode == ModeCPU && p == engine.PlayerB {
		return "CPU"
	}
	return g.cfg.PlayerName(p)
}

// Status returns the status line for the current state.
func (g *Game) Status() string {
	return engine.FormatStatus(g.state, g.PlayerName)
}
