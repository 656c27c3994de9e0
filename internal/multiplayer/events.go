package multiplayer

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent confirms a new lobby to its host.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a failed lobby operation.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent is sent to both players when the lobby fills.
type LobbyJoinedEvent struct {
	Code       string
	Side       Side
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent tells the host the joiner left before the match.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// MatchStartedEvent is sent to both players when play begins.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    Side
	Code    string
}

func (MatchStartedEvent) sessionEvent() {}

// SnapshotEvent carries the game state after the Seq-th accepted move.
// Seq 0 is the empty board sent at match start.
type SnapshotEvent struct {
	MatchID  MatchID
	Seq      uint64
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// MoveRejectedEvent is sent only to the player whose move was refused.
type MoveRejectedEvent struct {
	MatchID MatchID
	Column  int
	Reason  string
}

func (MoveRejectedEvent) sessionEvent() {}

// MatchEndedEvent is sent to both players when a match finishes.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  Side // SideNone on a draw or when nobody won
	Moves   int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonWon         MatchEndReason = iota // Four in a row
	MatchEndReasonDraw                              // Board filled
	MatchEndReasonDisconnect                        // Opponent disconnected
	MatchEndReasonResigned                          // Opponent left the match
	MatchEndReasonTurnTimeout                       // Player to move ran out of time
	MatchEndReasonCancelled                         // Server shut down
	MatchEndReasonHostLeft                          // Host left the lobby
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonWon:
		return "won"
	case MatchEndReasonDraw:
		return "draw"
	case MatchEndReasonDisconnect:
		return "disconnect"
	case MatchEndReasonResigned:
		return "resigned"
	case MatchEndReasonTurnTimeout:
		return "turn_timeout"
	case MatchEndReasonCancelled:
		return "cancelled"
	case MatchEndReasonHostLeft:
		return "host_left"
	default:
		return "unknown"
	}
}

// Describe returns a sentence for display to the player on side viewer.
func (e MatchEndedEvent) Describe(viewer Side) string {
	switch e.Reason {
	case MatchEndReasonDraw:
		return "It's a draw!"
	case MatchEndReasonHostLeft:
		return "Host left the lobby"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	}

	outcome := "You lost"
	if e.Winner == viewer {
		outcome = "You won"
	}
	switch e.Reason {
	case MatchEndReasonDisconnect:
		if e.Winner == viewer {
			return "Opponent disconnected. You won"
		}
		return "Disconnected"
	case MatchEndReasonResigned:
		if e.Winner == viewer {
			return "Opponent resigned. You won"
		}
		return "You resigned"
	case MatchEndReasonTurnTimeout:
		return outcome + " on time"
	default:
		return outcome + "!"
	}
}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg asks for a new lobby hosted by SessionID.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg asks to join the lobby with Code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg closes a lobby. Only the host may cancel.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg leaves a lobby. A leaving host closes it.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg resigns from a running match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// MoveMsg drops a chip for the sender's side.
type MoveMsg struct {
	SessionID SessionID
	MatchID   MatchID
	Column    int
}

func (MoveMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent by a transport when a client goes away.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
