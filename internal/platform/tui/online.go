package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/games/connectfour"
	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
)

// joinCodeLength is the number of characters in a lobby code.
const joinCodeLength = 6

// OnlineState represents the current state of the online flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting for the coordinator to answer
	OnlineStateInMatch                          // Playing
	OnlineStateMatchEnded                       // Showing the result
)

// sessionEventMsg wraps an event from the coordinator for the Bubble Tea loop.
type sessionEventMsg struct {
	event multiplayer.SessionEvent
}

// sessionClosedMsg is sent once the session's Done channel closes.
type sessionClosedMsg struct{}

// waitForEvent returns a command that delivers the next coordinator event.
// Exactly one of these is pending per session at any time.
func waitForEvent(s *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-s.Events():
			return sessionEventMsg{event: evt}
		case <-s.Done():
			return sessionClosedMsg{}
		}
	}
}

// OnlineModel handles hosting or joining a lobby and playing the match.
// Coordinator events are delivered through HandleEvent by the owning model.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	screen      *core.Screen
	keyMapper   *KeyMapper
	gameID      string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	lobbyError    string

	// Match state
	matchID  multiplayer.MatchID
	side     multiplayer.Side
	seq      uint64
	snapshot *connectfour.Snapshot
	cursor   int
	hint     string
	result   string

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the online flow for one session.
func NewOnlineModel(
	gameID string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	width, height int,
) OnlineModel {
	return OnlineModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		screen:      core.NewScreen(width, height),
		keyMapper:   NewKeyMapper(),
		gameID:      gameID,
		sessionID:   sessionID,
		coordinator: coordinator,
	}
}

// Init initializes the online model.
func (m OnlineModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case sessionEventMsg:
		return m.HandleEvent(msg.event), nil
	}
	return m, nil
}

// HandleEvent applies a coordinator event to the flow.
func (m OnlineModel) HandleEvent(evt multiplayer.SessionEvent) OnlineModel {
	switch evt := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = evt.Code
		m.lobbyError = ""
		m.state = OnlineStateHostWaiting

	case multiplayer.LobbyErrorEvent:
		m.lobbyError = evt.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
		}

	case multiplayer.LobbyJoinedEvent:
		m.side = evt.Side

	case multiplayer.MatchStartedEvent:
		m.matchID = evt.MatchID
		m.side = evt.Side
		m.seq = 0
		m.snapshot = nil
		m.hint = ""
		m.result = ""
		m.state = OnlineStateInMatch

	case multiplayer.SnapshotEvent:
		if evt.MatchID != m.matchID {
			break
		}
		snap, ok := evt.Snapshot.(connectfour.Snapshot)
		if !ok || (m.snapshot != nil && evt.Seq < m.seq) {
			break
		}
		if m.snapshot == nil {
			m.cursor = snap.Columns / 2
		}
		m.snapshot = &snap
		m.seq = evt.Seq
		m.hint = ""

	case multiplayer.MoveRejectedEvent:
		if evt.MatchID == m.matchID {
			m.hint = evt.Reason
		}

	case multiplayer.MatchEndedEvent:
		if evt.MatchID != m.matchID {
			break
		}
		m.result = evt.Describe(m.side)
		m.state = OnlineStateMatchEnded
	}
	return m
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting, OnlineStateJoinWaiting:
		return m.handleWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	case OnlineStateMatchEnded:
		return m.handleEndedKey(msg)
	}
	return m, nil
}

func (m OnlineModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.lobbyError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.lobbyError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineModel) handleWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
			return m, nil
		}
		m.backToMenu = true
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		m.lobbyError = ""
	case "enter":
		if len(m.joinCodeInput) == joinCodeLength {
			m.state = OnlineStateJoinWaiting
			m.lobbyError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLength {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}
	return m, nil
}

func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	columns := 0
	if m.snapshot != nil {
		columns = m.snapshot.Columns
	}

	switch action {
	case core.ActionLeft:
		if columns > 0 {
			m.cursor = core.Wrap(m.cursor-1, columns)
		}
	case core.ActionRight:
		if columns > 0 {
			m.cursor = core.Wrap(m.cursor+1, columns)
		}
	case core.ActionDrop:
		if m.snapshot == nil || m.snapshot.Turn != m.side {
			m.hint = multiplayer.ErrNotYourTurn.Error()
			return m, nil
		}
		m.coordinator.Send(multiplayer.MoveMsg{
			SessionID: m.sessionID,
			MatchID:   m.matchID,
			Column:    m.cursor,
		})
	case core.ActionBack:
		m.leave()
	}
	return m, nil
}

func (m OnlineModel) handleEndedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack, action == core.ActionDrop:
		m.backToMenu = true
	case action == core.ActionRestart:
		m = NewOnlineModel(m.gameID, m.sessionID, m.coordinator, m.width, m.height)
	}
	return m, nil
}

// leave tells the coordinator this session is abandoning the lobby or match.
func (m *OnlineModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
	case OnlineStateInMatch:
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
	}
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewJoinWaiting()
	case OnlineStateInMatch, OnlineStateMatchEnded:
		return m.viewMatch()
	default:
		return m.viewChooseMode()
	}
}

func (m OnlineModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ONLINE CONNECT FOUR", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose an option:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a game", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a game", m.width))
	b.WriteString("\n")
	if m.lobbyError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.lobbyError, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("You play red and move first.", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("Waiting for player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the game code:", m.width))
	b.WriteString("\n\n")

	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < joinCodeLength {
		codeDisplay += "_" + strings.Repeat(" ", joinCodeLength-1-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.lobbyError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.lobbyError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m OnlineModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining game: %s", m.joinCodeInput), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel", m.width))

	return b.String()
}

func (m OnlineModel) viewMatch() string {
	if m.snapshot == nil && m.state == OnlineStateMatchEnded {
		return "\n" + centerText(m.result, m.width) + "\n\n" +
			centerText("Enter: Menu  |  R: Play again", m.width)
	}
	if m.snapshot == nil {
		return "\n" + centerText("MATCH STARTING", m.width) + "\n\n" +
			centerText(fmt.Sprintf("You are %s", m.side), m.width)
	}

	connectfour.RenderSnapshot(m.screen, *m.snapshot, m.side, m.cursor, m.status(), m.hint)
	return RenderScreen(m.screen)
}

func (m OnlineModel) status() string {
	switch {
	case m.state == OnlineStateMatchEnded:
		return m.result + "  (Enter: Menu | R: Play again)"
	case m.snapshot.Turn == m.side:
		return "Your turn"
	default:
		return "Waiting for opponent..."
	}
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID once a match has started.
func (m OnlineModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns the colour this session plays.
func (m OnlineModel) Side() multiplayer.Side {
	return m.side
}

// LobbyCode returns the code of the hosted lobby.
func (m OnlineModel) LobbyCode() string {
	return m.lobbyCode
}

// Result returns the end-of-match sentence, empty while playing.
func (m OnlineModel) Result() string {
	return m.result
}
