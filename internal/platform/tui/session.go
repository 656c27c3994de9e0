package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-connect4/internal/bot"
	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/games/connectfour"
	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
	"github.com/vovakirdan/tui-connect4/internal/registry"
	"github.com/vovakirdan/tui-connect4/internal/storage"
)

// view is the screen a SessionModel is showing.
type view int

const (
	viewMenu view = iota
	viewGame
	viewHistory
	viewOnline
)

// SessionModel manages the full flow of one terminal: menu, local games,
// history and online play. It is the top-level model for SSH sessions and
// for the local menu command.
type SessionModel struct {
	store       *storage.Store
	logger      *log.Logger
	config      core.RuntimeConfig
	username    string
	coordinator *multiplayer.Coordinator
	session     *multiplayer.ChannelSession

	view       view
	difficulty bot.Difficulty
	menu       MenuModel
	game       *Model
	history    *HistoryModel
	online     *OnlineModel
	quitting   bool
}

// NewSessionModel creates a session. coordinator and session are nil for
// offline play; with both set the menu offers online matches.
func NewSessionModel(
	store *storage.Store,
	logger *log.Logger,
	cfg core.RuntimeConfig,
	username string,
	coordinator *multiplayer.Coordinator,
	session *multiplayer.ChannelSession,
) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	online := coordinator != nil && session != nil
	difficulty, err := bot.ParseDifficulty(connectfour.Settings().CPU.Difficulty)
	if err != nil {
		difficulty = bot.Medium
	}

	return SessionModel{
		store:       store,
		logger:      logger,
		config:      cfg,
		username:    username,
		coordinator: coordinator,
		session:     session,
		difficulty:  difficulty,
		menu:        NewMenuModel(cfg, difficulty, online),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.session != nil {
		return tea.Batch(m.menu.Init(), waitForEvent(m.session))
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case sessionEventMsg:
		if m.view == viewOnline && m.online != nil {
			online := m.online.HandleEvent(msg.event)
			m.online = &online
		}
		return m, waitForEvent(m.session)

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewHistory:
		return m.updateHistory(msg)
	case viewOnline:
		return m.updateOnline(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.config = m.menu.Config()
	m.difficulty = m.menu.Difficulty()

	switch selected.Kind {
	case ItemHistory:
		history := NewHistoryModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.history = &history
		m.view = viewHistory
		return m, history.Init()

	case ItemOnline:
		online := NewOnlineModel(selected.GameID, m.session.ID(), m.coordinator, m.config.ScreenW, m.config.ScreenH)
		m.online = &online
		m.view = viewOnline
		return m, online.Init()

	default:
		game, err := m.createGame(selected.GameID)
		if err != nil {
			m.logger.Error("cannot create game", "game", selected.GameID, "err", err)
			m.menu = m.newMenu()
			return m, nil
		}
		m.logger.Debug("game started", "user", m.username, "game", selected.GameID, "difficulty", m.difficulty)
		model := NewModel(game, m.store, m.logger, m.config)
		m.game = &model
		m.view = viewGame
		return m, model.Init()
	}
}

// createGame builds the selected game. CPU games use the level chosen in
// the menu without touching the shared settings.
func (m SessionModel) createGame(id string) (registry.Game, error) {
	if id == string(connectfour.ModeCPU) {
		cfg := connectfour.Settings()
		config.ApplyDifficulty(&cfg, m.difficulty)
		return connectfour.New(connectfour.ModeCPU, cfg), nil
	}
	return registry.Create(id)
}

func (m SessionModel) newMenu() MenuModel {
	return NewMenuModel(m.config, m.difficulty, m.coordinator != nil && m.session != nil)
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.game = nil
	m.history = nil
	m.online = nil
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if historyModel, ok := newModel.(HistoryModel); ok {
		m.history = &historyModel
	}

	if m.history.IsGoingBack() {
		return m.backToMenu()
	}
	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.online.Update(msg)
	if onlineModel, ok := newModel.(OnlineModel); ok {
		m.online = &onlineModel
	}

	if m.online.BackToMenu() {
		return m.backToMenu()
	}
	if m.online.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.view == viewGame && m.game != nil:
		return m.game.View()
	case m.view == viewHistory && m.history != nil:
		return m.history.View()
	case m.view == viewOnline && m.online != nil:
		return m.online.View()
	}
	return m.menu.View()
}

// IsQuitting returns true once the session is over.
func (m SessionModel) IsQuitting() bool {
	return m.quitting
}

// RunSession runs the offline menu in the local terminal.
func RunSession(store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) error {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	model := NewSessionModel(store, logger, cfg, "", nil, nil)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
