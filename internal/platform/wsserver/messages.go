package wsserver

import (
	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
)

// Client message types.
const (
	TypeCreate = "create"
	TypeJoin   = "join"
	TypeMove   = "move"
	TypeLeave  = "leave"
)

// Server message types.
const (
	TypeLobbyCreated = "lobby_created"
	TypeLobbyJoined  = "lobby_joined"
	TypePlayerLeft   = "player_left"
	TypeMatchStarted = "match_started"
	TypeSnapshot     = "snapshot"
	TypeMoveRejected = "move_rejected"
	TypeMatchEnded   = "match_ended"
	TypeError        = "error"
)

// ClientMessage is a JSON request from a browser or bot client.
type ClientMessage struct {
	Type    string `json:"type"`
	GameID  string `json:"game_id,omitempty"`
	Code    string `json:"code,omitempty"`
	MatchID string `json:"match_id,omitempty"`
	Column  *int   `json:"column,omitempty"`
}

// ServerMessage is a JSON event pushed to the client. Only the fields that
// belong to Type are set.
type ServerMessage struct {
	Type     string                   `json:"type"`
	Code     string                   `json:"code,omitempty"`
	GameID   string                   `json:"game_id,omitempty"`
	MatchID  string                   `json:"match_id,omitempty"`
	Side     string                   `json:"side,omitempty"`
	Opponent string                   `json:"opponent,omitempty"`
	Seq      *uint64                  `json:"seq,omitempty"`
	Snapshot multiplayer.GameSnapshot `json:"snapshot,omitempty"`
	Column   *int                     `json:"column,omitempty"`
	Reason   string                   `json:"reason,omitempty"`
	Winner   string                   `json:"winner,omitempty"`
	Moves    int                      `json:"moves,omitempty"`
	Message  string                   `json:"message,omitempty"`
}

func errorMessage(msg string) ServerMessage {
	return ServerMessage{Type: TypeError, Message: msg}
}

// encodeEvent converts a coordinator event to its wire form.
func encodeEvent(evt multiplayer.SessionEvent) (ServerMessage, bool) {
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		return ServerMessage{Type: TypeLobbyCreated, Code: e.Code, GameID: e.GameID}, true
	case multiplayer.LobbyErrorEvent:
		return errorMessage(e.Message), true
	case multiplayer.LobbyJoinedEvent:
		return ServerMessage{
			Type:     TypeLobbyJoined,
			Code:     e.Code,
			Side:     e.Side.String(),
			Opponent: string(e.OpponentID),
		}, true
	case multiplayer.LobbyPlayerLeftEvent:
		return ServerMessage{Type: TypePlayerLeft, Code: e.Code}, true
	case multiplayer.MatchStartedEvent:
		return ServerMessage{
			Type:    TypeMatchStarted,
			MatchID: string(e.MatchID),
			Side:    e.Side.String(),
			Code:    e.Code,
		}, true
	case multiplayer.SnapshotEvent:
		seq := e.Seq
		return ServerMessage{
			Type:     TypeSnapshot,
			MatchID:  string(e.MatchID),
			Seq:      &seq,
			Snapshot: e.Snapshot,
		}, true
	case multiplayer.MoveRejectedEvent:
		column := e.Column
		return ServerMessage{
			Type:    TypeMoveRejected,
			MatchID: string(e.MatchID),
			Column:  &column,
			Reason:  e.Reason,
		}, true
	case multiplayer.MatchEndedEvent:
		msg := ServerMessage{
			Type:    TypeMatchEnded,
			MatchID: string(e.MatchID),
			Reason:  e.Reason.String(),
			Moves:   e.Moves,
		}
		if e.Winner != multiplayer.SideNone {
			msg.Winner = e.Winner.String()
		}
		return msg, true
	}
	return ServerMessage{}, false
}
