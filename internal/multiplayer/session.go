package multiplayer

import (
	"sync"

	"github.com/google/uuid"
)

// SessionHandle is how the coordinator and matches reach a client without
// knowing its transport.
type SessionHandle interface {
	ID() SessionID

	// Send delivers an event without blocking.
	Send(evt SessionEvent)

	// Done is closed when the client goes away.
	Done() <-chan struct{}
}

// NewSessionID returns a random session ID tagged with the transport name,
// for example "ssh-1b4e28ba-2fa1-11d2-883f-0016d3cca427".
func NewSessionID(transport string) SessionID {
	return SessionID(transport + "-" + uuid.NewString())
}

// ChannelSession is a SessionHandle backed by a buffered channel. The TUI
// reads Events from its Bubble Tea loop and the websocket server drains it
// into the connection.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session buffering up to bufferSize events.
func NewChannelSession(id SessionID, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues an event. When the buffer is full the oldest event is dropped.
// Events sent after Close are discarded.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
		return
	default:
	}

	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- evt:
	default:
	}
}

// Events is the receive side of the buffer.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session finished. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions by ID.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns how many sessions are connected.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
