package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/games/connectfour"
	"github.com/vovakirdan/tui-connect4/internal/registry"
	"github.com/vovakirdan/tui-connect4/internal/storage"
)

// outcomeReporter is implemented by games whose results go to the history.
type outcomeReporter interface {
	Outcome() (connectfour.Outcome, bool)
}

// resizer is implemented by games that can follow the terminal size without
// a restart.
type resizer interface {
	Resize(width, height int)
}

// Model is the Bubble Tea model for one local game.
type Model struct {
	game        registry.Game
	screen      *core.Screen
	store       *storage.Store
	logger      *log.Logger
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	inputFrame  core.InputFrame
	gameState   core.Status
	quitting    bool
	backToMenu  bool
	resultSaved bool
	standalone  bool // Back quits the program instead of returning to a menu
	gen         uint64
}

// NewModel creates a model for game. store and logger may be nil.
func NewModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		gen:        nextTickGen(),
	}
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.gen)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if r, ok := m.game.(resizer); ok {
			r.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused):
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	case action == core.ActionRestart && !m.gameState.GameOver:
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.resultSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.gen)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.resultSaved {
		m.saveResult()
		m.resultSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate, m.gen)
}

func (m Model) saveResult() {
	if m.store == nil {
		return
	}
	r, ok := m.game.(outcomeReporter)
	if !ok {
		return
	}
	o, ok := r.Outcome()
	if !ok {
		return
	}
	if _, err := m.store.SaveResult(resultFromOutcome(o)); err != nil {
		m.logger.Warn("cannot save result", "game", m.game.ID(), "err", err)
	}
}

func resultFromOutcome(o connectfour.Outcome) storage.GameResult {
	r := storage.GameResult{
		Variant:    o.Variant,
		Red:        o.Red,
		Yellow:     o.Yellow,
		WinnerName: o.WinnerName,
		Draw:       o.Draw,
		Moves:      o.Moves,
		Columns:    o.Columns,
		Rows:       o.Rows,
		Duration:   int(o.Duration / time.Second),
	}
	if !o.Draw {
		r.WinnerSide = o.Winner.String()
	}
	return r
}

// saveScreenshot writes the current screen to the data directory.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.DataDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game until the user quits or goes back.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, logger, cfg)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
