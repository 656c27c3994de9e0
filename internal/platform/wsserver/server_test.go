package wsserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-connect4/internal/engine"
	"github.com/vovakirdan/tui-connect4/internal/games/connectfour"
	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
)

// received mirrors ServerMessage with the snapshot left undecoded.
type received struct {
	Type     string          `json:"type"`
	Code     string          `json:"code"`
	GameID   string          `json:"game_id"`
	MatchID  string          `json:"match_id"`
	Side     string          `json:"side"`
	Seq      *uint64         `json:"seq"`
	Snapshot json.RawMessage `json:"snapshot"`
	Column   *int            `json:"column"`
	Reason   string          `json:"reason"`
	Winner   string          `json:"winner"`
	Moves    int             `json:"moves"`
	Message  string          `json:"message"`
}

func newTestServer(t *testing.T) (*httptest.Server, *multiplayer.Coordinator) {
	t.Helper()
	coord := multiplayer.NewCoordinator(
		multiplayer.DefaultCoordinatorConfig(),
		connectfour.OnlineFactory(),
		multiplayer.NewSessionRegistry(),
	)
	coord.Start()

	srv := New(DefaultConfig(), coord, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		coord.Stop()
	})
	return ts, coord
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

// readType reads until a message of type typ arrives.
func readType(t *testing.T, conn *websocket.Conn, typ string) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg received
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", typ)
		if msg.Type == typ {
			return msg
		}
	}
}

// readSnapshot reads until the snapshot after the seq-th move arrives.
func readSnapshot(t *testing.T, conn *websocket.Conn, seq uint64) connectfour.Snapshot {
	t.Helper()
	for {
		msg := readType(t, conn, TypeSnapshot)
		require.NotNil(t, msg.Seq)
		if *msg.Seq != seq {
			continue
		}
		var snap connectfour.Snapshot
		require.NoError(t, json.Unmarshal(msg.Snapshot, &snap))
		return snap
	}
}

func column(c int) *int {
	return &c
}

// startMatch connects two clients and pairs them. red hosts.
func startMatch(t *testing.T, ts *httptest.Server) (red, yellow *websocket.Conn) {
	t.Helper()
	red = dial(t, ts)
	yellow = dial(t, ts)

	send(t, red, ClientMessage{Type: TypeCreate})
	created := readType(t, red, TypeLobbyCreated)
	require.Len(t, created.Code, 6)
	assert.Equal(t, "connect4", created.GameID)

	send(t, yellow, ClientMessage{Type: TypeJoin, Code: strings.ToLower(created.Code)})

	redStart := readType(t, red, TypeMatchStarted)
	yellowStart := readType(t, yellow, TypeMatchStarted)
	assert.Equal(t, "red", redStart.Side)
	assert.Equal(t, "yellow", yellowStart.Side)
	assert.Equal(t, redStart.MatchID, yellowStart.MatchID)

	readSnapshot(t, red, 0)
	readSnapshot(t, yellow, 0)
	return red, yellow
}

func TestMatchOverWebSocket(t *testing.T) {
	ts, coord := newTestServer(t)
	red, yellow := startMatch(t, ts)

	// Red stacks column 0, yellow column 1: red wins on the seventh move.
	moves := []int{0, 1, 0, 1, 0, 1, 0}
	for i, col := range moves {
		conn := red
		if i%2 == 1 {
			conn = yellow
		}
		send(t, conn, ClientMessage{Type: TypeMove, Column: column(col)})

		seq := uint64(i + 1)
		snap := readSnapshot(t, red, seq)
		readSnapshot(t, yellow, seq)
		assert.Equal(t, i+1, snap.Moves)
	}

	for _, conn := range []*websocket.Conn{red, yellow} {
		end := readType(t, conn, TypeMatchEnded)
		assert.Equal(t, "won", end.Reason)
		assert.Equal(t, "red", end.Winner)
		assert.Equal(t, 7, end.Moves)
	}

	require.Eventually(t, func() bool { return coord.MatchCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestMoveOutOfTurnIsRejected(t *testing.T) {
	ts, _ := newTestServer(t)
	_, yellow := startMatch(t, ts)

	send(t, yellow, ClientMessage{Type: TypeMove, Column: column(3)})
	rejected := readType(t, yellow, TypeMoveRejected)
	assert.Equal(t, multiplayer.ErrNotYourTurn.Error(), rejected.Reason)
	require.NotNil(t, rejected.Column)
	assert.Equal(t, 3, *rejected.Column)
}

func TestFirstMoveLandsOnBottomRow(t *testing.T) {
	ts, _ := newTestServer(t)
	red, _ := startMatch(t, ts)

	send(t, red, ClientMessage{Type: TypeMove, Column: column(3)})
	snap := readSnapshot(t, red, 1)

	assert.Equal(t, int(engine.PlayerA), snap.Cells[snap.Rows-1][3])
	assert.Equal(t, engine.PlayerB, snap.Turn)
	require.NotNil(t, snap.LastMove)
	assert.Equal(t, engine.Coord{Row: snap.Rows - 1, Column: 3}, *snap.LastMove)
}

func TestDisconnectEndsMatch(t *testing.T) {
	ts, _ := newTestServer(t)
	red, yellow := startMatch(t, ts)

	require.NoError(t, yellow.Close())

	end := readType(t, red, TypeMatchEnded)
	assert.Equal(t, "disconnect", end.Reason)
	assert.Equal(t, "red", end.Winner)
}

func TestLeaveResigns(t *testing.T) {
	ts, _ := newTestServer(t)
	red, yellow := startMatch(t, ts)

	send(t, red, ClientMessage{Type: TypeLeave})

	end := readType(t, yellow, TypeMatchEnded)
	assert.Equal(t, "resigned", end.Reason)
	assert.Equal(t, "yellow", end.Winner)
}

func TestRequestErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, "Invalid JSON", readType(t, conn, TypeError).Message)

	send(t, conn, ClientMessage{Type: "dance"})
	assert.Equal(t, "Unknown message type: dance", readType(t, conn, TypeError).Message)

	send(t, conn, ClientMessage{Type: TypeJoin})
	assert.Equal(t, "Missing lobby code", readType(t, conn, TypeError).Message)

	send(t, conn, ClientMessage{Type: TypeJoin, Code: "ZZZZZZ"})
	assert.Equal(t, "Lobby not found", readType(t, conn, TypeError).Message)

	send(t, conn, ClientMessage{Type: TypeMove})
	assert.Equal(t, "Missing column", readType(t, conn, TypeError).Message)

	send(t, conn, ClientMessage{Type: TypeMove, Column: column(0)})
	assert.Equal(t, multiplayer.ErrMatchOver.Error(), readType(t, conn, TypeMoveRejected).Reason)
}

func TestHostLeavingClosesLobby(t *testing.T) {
	ts, coord := newTestServer(t)
	host := dial(t, ts)

	send(t, host, ClientMessage{Type: TypeCreate})
	readType(t, host, TypeLobbyCreated)
	require.Eventually(t, func() bool { return coord.LobbyCount() == 1 }, time.Second, 10*time.Millisecond)

	send(t, host, ClientMessage{Type: TypeLeave})
	require.Eventually(t, func() bool { return coord.LobbyCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHealthz(t *testing.T) {
	ts, coord := newTestServer(t)
	dial(t, ts)
	require.Eventually(t, func() bool { return coord.Sessions().Count() == 1 }, time.Second, 10*time.Millisecond)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]int{"sessions": 1, "lobbies": 0, "matches": 0}, body)
}

func TestEncodeEvent(t *testing.T) {
	tests := []struct {
		name  string
		event multiplayer.SessionEvent
		want  ServerMessage
	}{
		{
			name:  "lobby error",
			event: multiplayer.LobbyErrorEvent{Message: "Lobby is full"},
			want:  ServerMessage{Type: TypeError, Message: "Lobby is full"},
		},
		{
			name:  "draw has no winner",
			event: multiplayer.MatchEndedEvent{MatchID: "m", Reason: multiplayer.MatchEndReasonDraw, Moves: 42},
			want:  ServerMessage{Type: TypeMatchEnded, MatchID: "m", Reason: "draw", Moves: 42},
		},
		{
			name:  "timeout names the winner",
			event: multiplayer.MatchEndedEvent{MatchID: "m", Reason: multiplayer.MatchEndReasonTurnTimeout, Winner: multiplayer.SideYellow},
			want:  ServerMessage{Type: TypeMatchEnded, MatchID: "m", Reason: "turn_timeout", Winner: "yellow"},
		},
		{
			name:  "joined",
			event: multiplayer.LobbyJoinedEvent{Code: "ABCDEF", Side: multiplayer.SideYellow, OpponentID: "ssh-1"},
			want:  ServerMessage{Type: TypeLobbyJoined, Code: "ABCDEF", Side: "yellow", Opponent: "ssh-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := encodeEvent(tt.event)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
