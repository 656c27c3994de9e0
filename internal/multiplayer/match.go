package multiplayer

import (
	"errors"
	"sync"
	"time"
)

// moveQueueSize bounds how many moves may wait for the match goroutine.
const moveQueueSize = 16

// MatchResult is the outcome reported when a match finishes.
type MatchResult struct {
	MatchID  MatchID
	Reason   MatchEndReason
	Winner   Side
	Moves    int
	Duration time.Duration
}

type moveRequest struct {
	session SessionID
	column  int
}

// OnlineMatch runs one game between two sessions. All moves pass through a
// queue and are applied by the Run goroutine, so the game itself needs no
// locking.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	game   OnlineGame

	red    SessionHandle
	yellow SessionHandle

	moves       chan moveRequest
	leaves      chan leaveRequest
	turnTimeout time.Duration

	seq      uint64
	started  time.Time
	done     chan struct{}
	doneOnce sync.Once
}

type leaveRequest struct {
	session SessionID
	reason  MatchEndReason
}

// NewOnlineMatch creates a match. red moves first. A zero turnTimeout
// disables the move clock.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	game OnlineGame,
	red, yellow SessionHandle,
	turnTimeout time.Duration,
) *OnlineMatch {
	return &OnlineMatch{
		id:          id,
		code:        code,
		gameID:      gameID,
		game:        game,
		red:         red,
		yellow:      yellow,
		moves:       make(chan moveRequest, moveQueueSize),
		leaves:      make(chan leaveRequest, 2),
		turnTimeout: turnTimeout,
		done:        make(chan struct{}),
	}
}

func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the lobby code the match was created from.
func (m *OnlineMatch) Code() string {
	return m.code
}

func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// Session returns the handle playing side.
func (m *OnlineMatch) Session(side Side) SessionHandle {
	switch side {
	case SideRed:
		return m.red
	case SideYellow:
		return m.yellow
	default:
		return nil
	}
}

// SideOf returns the side a session plays, or SideNone for a stranger.
func (m *OnlineMatch) SideOf(id SessionID) Side {
	switch id {
	case m.red.ID():
		return SideRed
	case m.yellow.ID():
		return SideYellow
	default:
		return SideNone
	}
}

// SubmitMove queues a move. It never blocks; a full queue rejects the move.
func (m *OnlineMatch) SubmitMove(session SessionID, column int) {
	select {
	case m.moves <- moveRequest{session: session, column: column}:
	default:
		if s := m.Session(m.SideOf(session)); s != nil {
			s.Send(MoveRejectedEvent{MatchID: m.id, Column: column, Reason: ErrQueueFull.Error()})
		}
	}
}

// PlayerDisconnected ends the match in the opponent's favour.
func (m *OnlineMatch) PlayerDisconnected(session SessionID) {
	m.leave(session, MatchEndReasonDisconnect)
}

// Resign ends the match in the opponent's favour.
func (m *OnlineMatch) Resign(session SessionID) {
	m.leave(session, MatchEndReasonResigned)
}

func (m *OnlineMatch) leave(session SessionID, reason MatchEndReason) {
	select {
	case m.leaves <- leaveRequest{session: session, reason: reason}:
	default:
	}
}

// Run applies moves until the game ends, a player leaves, the move clock
// runs out or Stop is called. onComplete is not called after Stop.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	var monitor sync.WaitGroup
	defer func() {
		m.Stop()
		monitor.Wait()
	}()

	m.started = time.Now()
	monitor.Add(1)
	go func() {
		defer monitor.Done()
		m.monitorSessions()
	}()

	m.broadcastSnapshot()

	clock := newTurnClock(m.turnTimeout)
	defer clock.stop()

	finish := func(r MatchResult) {
		r.MatchID = m.id
		r.Moves = m.game.Moves()
		r.Duration = time.Since(m.started)
		if onComplete != nil {
			onComplete(r)
		}
	}

	for {
		select {
		case req := <-m.moves:
			if !m.applyMove(req) {
				continue
			}
			if m.game.IsGameOver() {
				reason := MatchEndReasonDraw
				if m.game.Winner() != SideNone {
					reason = MatchEndReasonWon
				}
				finish(MatchResult{Reason: reason, Winner: m.game.Winner()})
				return
			}
			clock.reset()

		case req := <-m.leaves:
			side := m.SideOf(req.session)
			if side == SideNone {
				continue
			}
			finish(MatchResult{Reason: req.reason, Winner: side.Other()})
			return

		case <-clock.C():
			finish(MatchResult{Reason: MatchEndReasonTurnTimeout, Winner: m.game.Turn().Other()})
			return

		case <-m.done:
			return
		}
	}
}

// applyMove reports whether the move was accepted.
func (m *OnlineMatch) applyMove(req moveRequest) bool {
	side := m.SideOf(req.session)
	if side == SideNone {
		return false
	}
	if err := m.game.Apply(side, req.column); err != nil {
		m.Session(side).Send(MoveRejectedEvent{
			MatchID: m.id,
			Column:  req.column,
			Reason:  rejectReason(err),
		})
		return false
	}
	m.seq++
	m.broadcastSnapshot()
	return true
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNotYourTurn), errors.Is(err, ErrColumnFull), errors.Is(err, ErrMatchOver):
		return err.Error()
	default:
		return "invalid column"
	}
}

func (m *OnlineMatch) broadcastSnapshot() {
	evt := SnapshotEvent{MatchID: m.id, Seq: m.seq, Snapshot: m.game.Snapshot()}
	m.red.Send(evt)
	m.yellow.Send(evt)
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.red.Done():
		m.PlayerDisconnected(m.red.ID())
	case <-m.yellow.Done():
		m.PlayerDisconnected(m.yellow.ID())
	case <-m.done:
	}
}

// Stop ends the match loop without reporting a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

// Done is closed once the match loop has been told to stop.
func (m *OnlineMatch) Done() <-chan struct{} {
	return m.done
}

// turnClock wraps an optional timer. With a zero timeout its channel is nil
// and never fires.
type turnClock struct {
	timeout time.Duration
	timer   *time.Timer
}

func newTurnClock(timeout time.Duration) *turnClock {
	c := &turnClock{timeout: timeout}
	if timeout > 0 {
		c.timer = time.NewTimer(timeout)
	}
	return c
}

func (c *turnClock) C() <-chan time.Time {
	if c.timer == nil {
		return nil
	}
	return c.timer.C
}

func (c *turnClock) reset() {
	if c.timer != nil {
		c.timer.Reset(c.timeout)
	}
}

func (c *turnClock) stop() {
	if c.timer != nil {
		c.timer.Stop()
	}
}
