package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-connect4/internal/core"
)

// Lobby is a waiting room holding a host until a second player joins.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig tunes lobby and match lifetimes.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long a lobby waits for a second player
	TurnTimeout   time.Duration // Move clock per turn, 0 disables it
	CleanupPeriod time.Duration // How often expired lobbies are swept
}

// DefaultCoordinatorConfig returns a two minute lobby timeout and no move
// clock.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates the game for a new match.
type GameFactory func(gameID string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver persists finished matches. storage.Store implements it.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is the persisted form of a finished match.
type MatchResultData struct {
	MatchID       string
	GameID        string
	RedSession    string
	YellowSession string
	WinnerSession string // Empty on a draw
	Winner        string // "red", "yellow" or empty
	EndReason     string
	Moves         int
	DurationSecs  int
}

// Coordinator owns every lobby and running match.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	matches map[MatchID]*OnlineMatch

	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCoordinator creates a coordinator. Call Start before sending messages.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	if cfg.LobbyTimeout <= 0 {
		cfg.LobbyTimeout = DefaultCoordinatorConfig().LobbyTimeout
	}
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		logger:       log.New(io.Discard),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets where finished matches are recorded.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger replaces the default discarding logger.
func (c *Coordinator) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Sessions returns the registry transports register their clients in.
func (c *Coordinator) Sessions() *SessionRegistry {
	return c.sessions
}

// Start launches the message loop and the lobby sweeper.
func (c *Coordinator) Start() {
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.processMessages()
	}()
	go func() {
		defer c.wg.Done()
		c.cleanupLoop()
	}()
}

// Stop ends every match without recording results and waits for all
// coordinator goroutines to exit. Safe to call more than once.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)

		c.mu.RLock()
		running := make([]*OnlineMatch, 0, len(c.matches))
		for _, m := range c.matches {
			running = append(running, m)
		}
		c.mu.RUnlock()

		for _, m := range running {
			m.Stop()
		}
	})
	c.wg.Wait()
}

// Send queues a message. Messages sent after Stop are dropped.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case MoveMsg:
		c.handleMove(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, busy := c.sessionLobby[msg.SessionID]; busy {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	if _, busy := c.sessionMatch[msg.SessionID]; busy {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a match"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Debug("lobby created", "code", code, "host", msg.SessionID)
	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.sessionLobby[msg.SessionID]; busy {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	if _, busy := c.sessionMatch[msg.SessionID]; busy {
		session.Send(LobbyErrorEvent{Message: "Already in a match"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	switch {
	case !exists:
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	case lobby.Joiner != nil:
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	case lobby.Host.ID() == msg.SessionID:
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	lobby.Joiner = session
	c.sessionLobby[msg.SessionID] = code

	lobby.Host.Send(LobbyJoinedEvent{Code: code, Side: SideRed, OpponentID: msg.SessionID})
	session.Send(LobbyJoinedEvent{Code: code, Side: SideYellow, OpponentID: lobby.Host.ID()})

	c.startMatch(lobby)
}

// startMatch must be called with c.mu held.
func (c *Coordinator) startMatch(lobby *Lobby) {
	matchID := MatchID(uuid.NewString())

	cfg := core.DefaultConfig()
	cfg.Seed = time.Now().UnixNano()

	game, err := c.gameFactory(lobby.GameID, cfg)
	if err != nil {
		c.logger.Error("cannot create game", "game", lobby.GameID, "err", err)
		lobby.Host.Send(LobbyErrorEvent{Message: "Failed to create game"})
		lobby.Joiner.Send(LobbyErrorEvent{Message: "Failed to create game"})
		delete(c.sessionLobby, lobby.Host.ID())
		delete(c.sessionLobby, lobby.Joiner.ID())
		delete(c.lobbies, lobby.Code)
		return
	}

	match := NewOnlineMatch(matchID, lobby.Code, lobby.GameID, game, lobby.Host, lobby.Joiner, c.config.TurnTimeout)
	c.matches[matchID] = match

	hostID, joinerID := lobby.Host.ID(), lobby.Joiner.ID()
	delete(c.sessionLobby, hostID)
	delete(c.sessionLobby, joinerID)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID
	delete(c.lobbies, lobby.Code)

	lobby.Host.Send(MatchStartedEvent{MatchID: matchID, Side: SideRed, Code: lobby.Code})
	lobby.Joiner.Send(MatchStartedEvent{MatchID: matchID, Side: SideYellow, Code: lobby.Code})
	c.logger.Info("match started", "match", matchID, "red", hostID, "yellow", joinerID)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		match.Run(func(result MatchResult) {
			c.handleMatchEnded(match, result)
		})
	}()
}

func (c *Coordinator) handleMatchEnded(match *OnlineMatch, result MatchResult) {
	c.mu.Lock()
	if _, exists := c.matches[match.ID()]; !exists {
		c.mu.Unlock()
		return
	}
	delete(c.matches, match.ID())
	delete(c.sessionMatch, match.red.ID())
	delete(c.sessionMatch, match.yellow.ID())
	c.mu.Unlock()

	c.logger.Info("match ended",
		"match", match.ID(),
		"reason", result.Reason,
		"winner", result.Winner,
		"moves", result.Moves,
	)

	if c.resultSaver != nil {
		data := MatchResultData{
			MatchID:       string(match.ID()),
			GameID:        match.GameID(),
			RedSession:    string(match.red.ID()),
			YellowSession: string(match.yellow.ID()),
			EndReason:     result.Reason.String(),
			Moves:         result.Moves,
			DurationSecs:  int(result.Duration / time.Second),
		}
		if winner := match.Session(result.Winner); winner != nil {
			data.WinnerSession = string(winner.ID())
			data.Winner = result.Winner.String()
		}
		if err := c.resultSaver.SaveMatchResult(data); err != nil {
			c.logger.Error("cannot save match result", "match", match.ID(), "err", err)
		}
	}

	end := MatchEndedEvent{
		MatchID: match.ID(),
		Reason:  result.Reason,
		Winner:  result.Winner,
		Moves:   result.Moves,
	}
	match.red.Send(end)
	match.yellow.Send(end)
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	c.closeLobby(lobby)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists {
		return
	}
	c.leaveLobby(lobby, msg.SessionID)
}

// leaveLobby must be called with c.mu held.
func (c *Coordinator) leaveLobby(lobby *Lobby, id SessionID) {
	if lobby.Joiner != nil && lobby.Joiner.ID() == id {
		lobby.Joiner = nil
		delete(c.sessionLobby, id)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: lobby.Code})
		return
	}
	if lobby.Host.ID() == id {
		c.closeLobby(lobby)
	}
}

// closeLobby must be called with c.mu held.
func (c *Coordinator) closeLobby(lobby *Lobby) {
	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}
	delete(c.sessionLobby, lobby.Host.ID())
	delete(c.lobbies, lobby.Code)
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.Resign(msg.SessionID)
	}
}

func (c *Coordinator) handleMove(msg MoveMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		if s, ok := c.sessions.Get(msg.SessionID); ok {
			s.Send(MoveRejectedEvent{MatchID: msg.MatchID, Column: msg.Column, Reason: ErrMatchOver.Error()})
		}
		return
	}
	match.SubmitMove(msg.SessionID, msg.Column)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			c.leaveLobby(lobby, msg.SessionID)
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode returns a 6-character code from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a running match.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// MatchOf returns the match a session is playing in.
func (c *Coordinator) MatchOf(id SessionID) (MatchID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.sessionMatch[id]
	return m, ok
}

func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
