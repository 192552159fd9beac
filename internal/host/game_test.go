package host

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homegamehq/homegame/internal/protocol"
	"github.com/homegamehq/homegame/internal/table"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	tbl := table.New(table.Config{
		MaxSeats:       10,
		BuyIn:          100,
		SmallBlind:     5,
		BigBlind:       10,
		AutoMoveDealer: true,
	})
	game := NewGame(tbl, 100, testLogger(), rand.New(rand.NewSource(42)))
	NewServer("127.0.0.1:0", testLogger(), game)
	return game
}

// testConn builds a connection without a socket; replies land in the send
// channel and are read back directly.
func testConn(game *Game) *Connection {
	return NewConnection(nil, testLogger(), game)
}

func send(t *testing.T, game *Game, c *Connection, mt protocol.MessageType, payload interface{}) {
	t.Helper()
	msg, err := protocol.NewMessage(mt, payload)
	require.NoError(t, err)
	game.HandleMessage(c, msg)
}

func lastReply(t *testing.T, c *Connection) *protocol.Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	default:
		t.Fatal("expected a reply")
		return nil
	}
}

// drain empties the send buffer, returning the messages in order.
func drain(c *Connection) []*protocol.Message {
	var msgs []*protocol.Message
	for {
		select {
		case msg := <-c.send:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestSeatHost(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)

	id, err := game.SeatHost("dealer-dan")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	game.View(func(tbl *table.Table) {
		seat, s := tbl.SeatByID(id)
		require.NotNil(t, s)
		assert.Equal(t, 0, seat)
		assert.Equal(t, "dealer-dan", s.Name)
		assert.Equal(t, 100, s.StackSize)
	})
}

func TestJoinFlowIssuesOtpThenSeats(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	_, err := game.SeatHost("host")
	require.NoError(t, err)

	c := testConn(game)
	send(t, game, c, protocol.TypeJoinRequest, protocol.JoinRequestData{Name: "alice"})
	assert.Equal(t, protocol.TypeOtpRequest, lastReply(t, c).Type)

	otp := game.pending[c].otp
	require.Len(t, otp, otpLength)

	send(t, game, c, protocol.TypeOtpResponse, protocol.OtpResponseData{Otp: otp})
	msgs := drain(c)
	require.NotEmpty(t, msgs)
	require.Equal(t, protocol.TypePlayerJoined, msgs[0].Type)

	payload, err := msgs[0].Decode()
	require.NoError(t, err)
	joined := payload.(*protocol.PlayerJoinedData)
	assert.Equal(t, 1, joined.Seat)
	assert.Equal(t, joined.PlayerID, c.Player())

	game.View(func(tbl *table.Table) {
		_, s := tbl.SeatByID(joined.PlayerID)
		require.NotNil(t, s)
		assert.Equal(t, "alice", s.Name)
	})
}

func TestJoinWrongOtpKeepsPending(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)

	c := testConn(game)
	send(t, game, c, protocol.TypeJoinRequest, protocol.JoinRequestData{Name: "alice"})
	drain(c)

	send(t, game, c, protocol.TypeOtpResponse, protocol.OtpResponseData{Otp: "nope"})
	assert.Equal(t, protocol.TypeInvalidOtp, lastReply(t, c).Type)

	// The pairing survives a wrong code; the right one still works.
	otp := game.pending[c].otp
	send(t, game, c, protocol.TypeOtpResponse, protocol.OtpResponseData{Otp: otp})
	msgs := drain(c)
	require.NotEmpty(t, msgs)
	assert.Equal(t, protocol.TypePlayerJoined, msgs[0].Type)
}

func TestJoinNameTaken(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	_, err := game.SeatHost("alice")
	require.NoError(t, err)

	c := testConn(game)
	send(t, game, c, protocol.TypeJoinRequest, protocol.JoinRequestData{Name: "alice"})
	assert.Equal(t, protocol.TypeNameTaken, lastReply(t, c).Type)
	assert.NotContains(t, game.pending, c)
}

func TestJoinPendingNameReserved(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)

	c1 := testConn(game)
	send(t, game, c1, protocol.TypeJoinRequest, protocol.JoinRequestData{Name: "alice"})
	drain(c1)

	c2 := testConn(game)
	send(t, game, c2, protocol.TypeJoinRequest, protocol.JoinRequestData{Name: "alice"})
	assert.Equal(t, protocol.TypeNameTaken, lastReply(t, c2).Type)
}

func TestJoinEmptyNameRefused(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)

	c := testConn(game)
	send(t, game, c, protocol.TypeJoinRequest, protocol.JoinRequestData{Name: ""})
	msg := lastReply(t, c)
	assert.Equal(t, protocol.TypeJoinFailed, msg.Type)
}

func TestOtpResponseWithoutPendingDropped(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)

	c := testConn(game)
	send(t, game, c, protocol.TypeOtpResponse, protocol.OtpResponseData{Otp: "1234"})
	assert.Empty(t, drain(c))
}

func TestOtpFormat(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	for i := 0; i < 50; i++ {
		otp := game.newOtp()
		require.Len(t, otp, otpLength)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func joinPlayer(t *testing.T, game *Game, name string) (*Connection, string) {
	t.Helper()
	c := testConn(game)
	send(t, game, c, protocol.TypeJoinRequest, protocol.JoinRequestData{Name: name})
	drain(c)
	otp := game.pending[c].otp
	send(t, game, c, protocol.TypeOtpResponse, protocol.OtpResponseData{Otp: otp})
	msgs := drain(c)
	require.NotEmpty(t, msgs)
	require.Equal(t, protocol.TypePlayerJoined, msgs[0].Type)
	return c, c.Player()
}

func TestStartHandAndHostAction(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	hostID, err := game.SeatHost("host")
	require.NoError(t, err)
	joinPlayer(t, game, "alice")

	require.NoError(t, game.StartHand())
	assert.ErrorIs(t, game.StartHand(), table.ErrHandInProgress)

	game.View(func(tbl *table.Table) {
		require.Equal(t, table.PreFlop, tbl.CurrentRound)
		// Heads-up: the host seat is the dealer and acts first.
		require.Equal(t, hostID, tbl.CurrentActor().ID)
	})

	require.NoError(t, game.HostAction(table.Call, 0))
	game.View(func(tbl *table.Table) {
		assert.Equal(t, 90, tbl.Seats[0].StackSize)
	})
}

func TestRejectedActionNotAppliedOrRelayed(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	hostID, err := game.SeatHost("host")
	require.NoError(t, err)
	c, id := joinPlayer(t, game, "alice")
	require.NoError(t, game.StartHand())
	drain(c)

	// It is the host's turn; alice acting out of turn is dropped. She may
	// have applied the fold to her own replica before sending, so the
	// rejection comes back as a snapshot that resyncs her.
	send(t, game, c, protocol.TypePlayerAction, protocol.PlayerActionData{
		PlayerID: id, Action: "fold",
	})
	msgs := drain(c)
	require.Len(t, msgs, 1)
	require.Equal(t, protocol.TypeTableState, msgs[0].Type)

	payload, err := msgs[0].Decode()
	require.NoError(t, err)
	replica, err := table.Restore(payload.(*protocol.TableStateData).Table)
	require.NoError(t, err)
	_, s := replica.SeatByID(id)
	assert.False(t, s.Folded)
	assert.Equal(t, hostID, replica.CurrentActor().ID)

	game.View(func(tbl *table.Table) {
		_, s := tbl.SeatByID(id)
		assert.False(t, s.Folded)
	})
}

func TestActionFromUnjoinedConnectionDropped(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	_, err := game.SeatHost("host")
	require.NoError(t, err)

	c := testConn(game)
	send(t, game, c, protocol.TypePlayerAction, protocol.PlayerActionData{
		PlayerID: "forged", Action: "fold",
	})
	assert.Empty(t, drain(c))
}

func TestDisconnectStandsPlayerUp(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	_, err := game.SeatHost("host")
	require.NoError(t, err)
	c, id := joinPlayer(t, game, "alice")

	game.ConnectionClosed(c)

	game.View(func(tbl *table.Table) {
		_, s := tbl.SeatByID(id)
		assert.Nil(t, s)
	})
	assert.Empty(t, c.Player())
}

func TestDisconnectMidHandFoldsPlayer(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	_, err := game.SeatHost("host")
	require.NoError(t, err)
	joinPlayer(t, game, "alice")
	c2, _ := joinPlayer(t, game, "bob")
	require.NoError(t, game.StartHand())

	game.ConnectionClosed(c2)

	game.View(func(tbl *table.Table) {
		// The hand goes on for the remaining players.
		require.Equal(t, table.PreFlop, tbl.CurrentRound)
		assert.Len(t, tbl.ActivePlayers(), 2)
	})
}

func TestDistributeAnnouncesAmount(t *testing.T) {
	t.Parallel()
	game := newTestGame(t)
	hostID, err := game.SeatHost("host")
	require.NoError(t, err)
	c, id := joinPlayer(t, game, "alice")
	require.NoError(t, game.StartHand())

	// Check the hand down to showdown.
	require.NoError(t, game.HostAction(table.Call, 0))
	send(t, game, c, protocol.TypePlayerAction, protocol.PlayerActionData{PlayerID: id, Action: "check"})
	for i := 0; i < 3; i++ {
		send(t, game, c, protocol.TypePlayerAction, protocol.PlayerActionData{PlayerID: id, Action: "check"})
		require.NoError(t, game.HostAction(table.Check, 0))
	}
	game.View(func(tbl *table.Table) {
		require.True(t, tbl.IsShowdown)
	})

	require.NoError(t, game.Distribute(0, []string{hostID}))
	assert.ErrorIs(t, game.Distribute(5, []string{hostID}), table.ErrNoSuchPot)

	game.View(func(tbl *table.Table) {
		assert.False(t, tbl.IsShowdown)
		assert.Equal(t, 110, tbl.Seats[0].StackSize)
	})
}
