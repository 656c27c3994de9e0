package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-connect4/internal/bot"
	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/games/connectfour"
	"github.com/vovakirdan/tui-connect4/internal/registry"
)

// MenuItemKind says what selecting a menu item opens.
type MenuItemKind int

const (
	ItemGame    MenuItemKind = iota // A local game from the registry
	ItemOnline                      // The online lobby
	ItemHistory                     // The results table
)

// MenuItem is one selectable line of the menu.
type MenuItem struct {
	Kind   MenuItemKind
	GameID string
	Title  string
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items      []MenuItem
	cursor     int
	width      int
	height     int
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	difficulty bot.Difficulty
	quitting   bool
	selected   *MenuItem
}

// NewMenuModel creates a menu listing the registered games, the online
// lobby when online is true, and the history.
func NewMenuModel(cfg core.RuntimeConfig, difficulty bot.Difficulty, online bool) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+2)
	for _, g := range games {
		items = append(items, MenuItem{Kind: ItemGame, GameID: g.ID, Title: g.Title})
	}
	if online {
		items = append(items, MenuItem{Kind: ItemOnline, GameID: string(connectfour.ModeLocal), Title: "Play Online"})
	}
	items = append(items, MenuItem{Kind: ItemHistory, Title: "History"})

	if difficulty == "" {
		difficulty = bot.Medium
	}

	return MenuModel{
		items:      items,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		difficulty: difficulty,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = core.Wrap(m.cursor-1, len(m.items))

	case MenuActionDown:
		m.cursor = core.Wrap(m.cursor+1, len(m.items))

	case MenuActionLeft:
		m.difficulty = m.cycleDifficulty(-1)

	case MenuActionRight:
		m.difficulty = m.cycleDifficulty(1)

	case MenuActionSelect:
		selected := m.items[m.cursor]
		m.selected = &selected

	case MenuActionHistory:
		m.selected = &MenuItem{Kind: ItemHistory, Title: "History"}
	}
	return m, nil
}

func (m MenuModel) cycleDifficulty(step int) bot.Difficulty {
	levels := bot.Difficulties()
	for i, d := range levels {
		if d == m.difficulty {
			return levels[core.Wrap(i+step, len(levels))]
		}
	}
	return bot.Medium
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("C O N N E C T   F O U R"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if item.GameID == string(connectfour.ModeCPU) {
			line += fmt.Sprintf("  < %s >", m.difficulty)
		}
		if i == m.cursor {
			line = menuCursor.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hint := "Up/Down: Navigate | Left/Right: CPU level | Enter: Select | Tab: History | Q: Quit"
	b.WriteString(centerText(menuHintStyle.Render(hint), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Difficulty returns the CPU level chosen in the menu.
func (m MenuModel) Difficulty() bot.Difficulty {
	return m.difficulty
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
