// Package wsserver exposes the match coordinator to websocket clients.
// Each connection becomes one session; requests and events are JSON
// messages, see ClientMessage and ServerMessage.
package wsserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
)

// Config holds websocket server settings.
type Config struct {
	Address       string
	GameID        string        // Game hosted when a create request names none
	WriteTimeout  time.Duration // Deadline for a single write
	PongTimeout   time.Duration // Connection is dropped after this long without a pong
	PingPeriod    time.Duration // Must be shorter than PongTimeout
	SessionBuffer int           // Events queued per connection
	MaxMessage    int64         // Largest accepted client message in bytes
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:       ":8080",
		GameID:        "connect4",
		WriteTimeout:  10 * time.Second,
		PongTimeout:   60 * time.Second,
		PingPeriod:    54 * time.Second,
		SessionBuffer: 64,
		MaxMessage:    4096,
	}
}

// Server is the HTTP server handling /ws connections.
type Server struct {
	config      Config
	coordinator *multiplayer.Coordinator
	logger      *log.Logger
	upgrader    websocket.Upgrader
	httpServer  *http.Server
	conns       sync.WaitGroup

	openMu sync.Mutex
	open   map[*websocket.Conn]struct{}
}

// New creates a websocket server. Zero config fields take their defaults.
func New(cfg Config, coordinator *multiplayer.Coordinator, logger *log.Logger) *Server {
	def := DefaultConfig()
	if cfg.Address == "" {
		cfg.Address = def.Address
	}
	if cfg.GameID == "" {
		cfg.GameID = def.GameID
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = def.PongTimeout
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongTimeout {
		cfg.PingPeriod = cfg.PongTimeout * 9 / 10
	}
	if cfg.SessionBuffer <= 0 {
		cfg.SessionBuffer = def.SessionBuffer
	}
	if cfg.MaxMessage <= 0 {
		cfg.MaxMessage = def.MaxMessage
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		config:      cfg,
		coordinator: coordinator,
		logger:      logger.WithPrefix("ws"),
		open:        make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes: /ws for games and /healthz for probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{
			"sessions": s.coordinator.Sessions().Count(),
			"lobbies":  s.coordinator.LobbyCount(),
			"matches":  s.coordinator.MatchCount(),
		})
	})
	return mux
}

// Serve accepts connections until ctx is cancelled, then shuts down and
// waits for open connections to finish.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting websocket server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(shutdownCtx)
	// Hijacked websocket connections are not tracked by Shutdown.
	s.closeConns()
	s.conns.Wait()
	return err
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}

func (s *Server) track(conn *websocket.Conn, add bool) {
	s.openMu.Lock()
	defer s.openMu.Unlock()
	if add {
		s.open[conn] = struct{}{}
	} else {
		delete(s.open, conn)
	}
}

func (s *Server) closeConns() {
	s.openMu.Lock()
	defer s.openMu.Unlock()
	for conn := range s.open {
		_ = conn.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	s.conns.Add(1)
	defer s.conns.Done()
	s.track(conn, true)
	defer s.track(conn, false)

	session := multiplayer.NewChannelSession(multiplayer.NewSessionID("ws"), s.config.SessionBuffer)
	s.coordinator.Sessions().Register(session)
	s.logger.Info("session started", "session", session.ID(), "remote", r.RemoteAddr)

	c := &client{
		server:  s,
		conn:    conn,
		session: session,
		replies: make(chan ServerMessage, 8),
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writePump()
	}()

	c.readPump()

	s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: session.ID()})
	s.coordinator.Sessions().Unregister(session.ID())
	session.Close()
	<-writerDone
	_ = conn.Close()
	s.logger.Info("session ended", "session", session.ID(), "remote", r.RemoteAddr)
}

// client is one websocket connection. readPump and writePump each run in
// their own goroutine; only writePump writes to conn.
type client struct {
	server  *Server
	conn    *websocket.Conn
	session *multiplayer.ChannelSession
	replies chan ServerMessage

	mu        sync.Mutex
	lobbyCode string
}

func (c *client) readPump() {
	cfg := c.server.config
	c.conn.SetReadLimit(cfg.MaxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Debug("read failed", "session", c.session.ID(), "err", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(errorMessage("Invalid JSON"))
			continue
		}
		c.handle(msg)
	}
}

func (c *client) handle(msg ClientMessage) {
	id := c.session.ID()
	coord := c.server.coordinator

	switch msg.Type {
	case TypeCreate:
		gameID := msg.GameID
		if gameID == "" {
			gameID = c.server.config.GameID
		}
		coord.Send(multiplayer.CreateLobbyMsg{SessionID: id, GameID: gameID})

	case TypeJoin:
		if msg.Code == "" {
			c.reply(errorMessage("Missing lobby code"))
			return
		}
		coord.Send(multiplayer.JoinLobbyMsg{SessionID: id, Code: msg.Code})

	case TypeMove:
		if msg.Column == nil {
			c.reply(errorMessage("Missing column"))
			return
		}
		matchID := multiplayer.MatchID(msg.MatchID)
		if matchID == "" {
			matchID, _ = coord.MatchOf(id)
		}
		coord.Send(multiplayer.MoveMsg{SessionID: id, MatchID: matchID, Column: *msg.Column})

	case TypeLeave:
		if matchID, ok := coord.MatchOf(id); ok {
			coord.Send(multiplayer.LeaveMatchMsg{SessionID: id, MatchID: matchID})
			return
		}
		code := msg.Code
		if code == "" {
			code = c.currentLobby()
		}
		coord.Send(multiplayer.LeaveLobbyMsg{SessionID: id, Code: code})

	default:
		c.reply(errorMessage("Unknown message type: " + msg.Type))
	}
}

// reply queues a message generated by the connection itself. It drops the
// message when the client is not reading.
func (c *client) reply(msg ServerMessage) {
	select {
	case c.replies <- msg:
	default:
	}
}

func (c *client) currentLobby() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobbyCode
}

// observe keeps the lobby code so a bare leave request can name it.
func (c *client) observe(evt multiplayer.SessionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		c.lobbyCode = e.Code
	case multiplayer.LobbyJoinedEvent:
		c.lobbyCode = e.Code
	case multiplayer.MatchStartedEvent, multiplayer.MatchEndedEvent:
		c.lobbyCode = ""
	}
}

func (c *client) writePump() {
	cfg := c.server.config
	ticker := time.NewTicker(cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt := <-c.session.Events():
			c.observe(evt)
			msg, ok := encodeEvent(evt)
			if !ok {
				continue
			}
			if err := c.write(msg); err != nil {
				return
			}

		case msg := <-c.replies:
			if err := c.write(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.session.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *client) write(msg ServerMessage) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.server.config.WriteTimeout))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.server.logger.Debug("write failed", "session", c.session.ID(), "err", err)
		// Unblock readPump so the session is torn down.
		_ = c.conn.Close()
		return err
	}
	return nil
}
