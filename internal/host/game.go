package host

import (
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/homegamehq/homegame/internal/protocol"
	"github.com/homegamehq/homegame/internal/table"
)

// otpLength is the number of digits in a pairing passcode.
const otpLength = 4

type pendingJoin struct {
	name string
	otp  string
}

// Game is the authoritative table session. The host process is the single
// writer: every mutation, whether local or forwarded by a client, runs to
// completion under one mutex before the next is applied, so no inbound
// message ever observes a half-applied action.
type Game struct {
	mu      sync.Mutex
	table   *table.Table
	buyIn   int
	logger  *log.Logger
	rng     *rand.Rand
	server  *Server
	pending map[*Connection]*pendingJoin
	hostID  string
}

// NewGame creates a game session around a table. buyIn is the stack every
// joining player is seated with. The RNG mints the pairing passcodes.
func NewGame(t *table.Table, buyIn int, logger *log.Logger, rng *rand.Rand) *Game {
	return &Game{
		table:   t,
		buyIn:   buyIn,
		logger:  logger.WithPrefix("game"),
		rng:     rng,
		pending: make(map[*Connection]*pendingJoin),
	}
}

func (g *Game) attach(s *Server) {
	g.server = s
}

// SeatHost seats the host's own player and returns their identity. The host
// plays like everyone else; only the transport differs.
func (g *Game) SeatHost(name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := uuid.NewString()
	if _, err := g.table.SitDown(id, name, g.buyIn, table.NoSeat); err != nil {
		return "", err
	}
	g.hostID = id
	return id, nil
}

// HandleMessage processes one inbound message from a client. Called from the
// connection's read pump; the mutex serializes application in receipt order.
func (g *Game) HandleMessage(c *Connection, msg *protocol.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()

	payload, err := msg.Decode()
	if err != nil {
		g.logger.Debug("dropping message", "type", msg.Type, "error", err)
		return
	}

	switch data := payload.(type) {
	case *protocol.JoinRequestData:
		g.handleJoinRequest(c, data)
	case *protocol.OtpResponseData:
		g.handleOtpResponse(c, data)
	case *protocol.PlayerActionData:
		g.handlePlayerAction(c, data)
	default:
		if msg.Type == protocol.TypeDisconnect {
			g.removePlayer(c)
			return
		}
		g.logger.Debug("ignoring message", "type", msg.Type)
	}
}

// ConnectionClosed treats a dropped peer as an immediate stand-up: mid-hand
// that folds the player and advances the turn, never stalling the table.
func (g *Game) ConnectionClosed(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removePlayer(c)
}

func (g *Game) removePlayer(c *Connection) {
	delete(g.pending, c)

	id := c.Player()
	if id == "" {
		return
	}
	c.SetPlayer("")

	if err := g.table.StandUp(id); err != nil {
		g.logger.Debug("stand up on disconnect", "player", id, "error", err)
		return
	}
	g.logger.Info("player left", "player", id)
	g.broadcastState(nil)
}

func (g *Game) handleJoinRequest(c *Connection, data *protocol.JoinRequestData) {
	if data.Name == "" {
		g.reply(c, protocol.TypeJoinFailed, protocol.JoinFailedData{Reason: "player name required"})
		return
	}
	if g.nameTaken(data.Name) {
		g.logger.Info("join refused, name taken", "name", data.Name)
		g.reply(c, protocol.TypeNameTaken, nil)
		return
	}

	otp := g.newOtp()
	g.pending[c] = &pendingJoin{name: data.Name, otp: otp}
	g.logger.Info("pairing code issued", "name", data.Name, "otp", otp)
	g.reply(c, protocol.TypeOtpRequest, nil)
}

func (g *Game) handleOtpResponse(c *Connection, data *protocol.OtpResponseData) {
	pending, ok := g.pending[c]
	if !ok {
		g.logger.Debug("otp response without pending join")
		return
	}
	if data.Otp != pending.otp {
		g.logger.Info("invalid pairing code", "name", pending.name)
		g.reply(c, protocol.TypeInvalidOtp, nil)
		return
	}

	delete(g.pending, c)

	id := uuid.NewString()
	seat, err := g.table.SitDown(id, pending.name, g.buyIn, table.NoSeat)
	if err != nil {
		g.reply(c, protocol.TypeJoinFailed, protocol.JoinFailedData{Reason: err.Error()})
		return
	}

	c.SetPlayer(id)
	g.logger.Info("player joined", "name", pending.name, "player", id, "seat", seat)

	g.reply(c, protocol.TypePlayerJoined, protocol.PlayerJoinedData{PlayerID: id, Seat: seat})
	g.broadcastState(nil)
}

func (g *Game) handlePlayerAction(c *Connection, data *protocol.PlayerActionData) {
	id := c.Player()
	if id == "" {
		g.logger.Debug("action from unjoined connection")
		return
	}

	action, err := table.ParseAction(data.Action)
	if err != nil {
		g.logger.Debug("dropping action", "error", err)
		return
	}

	// The engine validates before mutating; a rejected action leaves the
	// table untouched and is not relayed. The sender applied it to its own
	// replica before sending (a turn race can make an action locally legal
	// but stale by arrival), so push it a fresh snapshot to resync.
	if err := g.table.Apply(id, action, data.Amount); err != nil {
		g.logger.Info("action rejected", "player", id, "action", action, "error", err)
		g.sendState(c)
		return
	}

	g.relayAction(c, id, action, data.Amount)
}

// StartHand deals a new hand and announces it to every client.
func (g *Game) StartHand() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.table.DealCards(); err != nil {
		return err
	}
	g.logger.Info("hand dealt", "hand", g.table.HandNumber)

	if msg, err := protocol.NewMessage(protocol.TypeStartRound, nil); err == nil {
		g.server.Broadcast(msg)
	}
	g.broadcastState(nil)
	return nil
}

// HostAction applies an action for the host's own seat and relays it.
func (g *Game) HostAction(action table.Action, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.table.Apply(g.hostID, action, amount); err != nil {
		return err
	}
	g.relayAction(nil, g.hostID, action, amount)
	return nil
}

// Distribute awards a pot to the confirmed winners and announces it. Only
// the host is authoritative to initiate this.
func (g *Game) Distribute(potIndex int, winnerIDs []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var amount int
	if potIndex >= 0 && potIndex < len(g.table.Pots) {
		amount = g.table.Pots[potIndex].Amount
	}
	if err := g.table.DistributePot(potIndex, winnerIDs); err != nil {
		return err
	}
	g.logger.Info("pot distributed", "pot", potIndex, "amount", amount, "winners", len(winnerIDs))

	if msg, err := protocol.NewMessage(protocol.TypeDistributePot, protocol.DistributePotData{
		PotIndex:  potIndex,
		Amount:    amount,
		WinnerIDs: winnerIDs,
	}); err == nil {
		g.server.Broadcast(msg)
	}
	g.broadcastState(nil)
	return nil
}

// View runs fn with the table under the game lock for read-only access.
func (g *Game) View(fn func(*table.Table)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.table)
}

// relayAction forwards one applied action to every peer except its source.
func (g *Game) relayAction(source *Connection, playerID string, action table.Action, amount int) {
	msg, err := protocol.NewMessage(protocol.TypePlayerAction, protocol.PlayerActionData{
		PlayerID: playerID,
		Action:   action.String(),
		Amount:   amount,
	})
	if err != nil {
		g.logger.Error("failed to build action message", "error", err)
		return
	}
	g.server.BroadcastExcept(source, msg)
}

// broadcastState pushes a full table snapshot; clients replace their replica
// wholesale. Used at join time and after pot distribution rather than per
// action.
func (g *Game) broadcastState(skip *Connection) {
	msg, ok := g.stateMessage()
	if !ok {
		return
	}
	g.server.BroadcastExcept(skip, msg)
}

// sendState pushes a full snapshot to one connection whose replica may have
// drifted from the authoritative table.
func (g *Game) sendState(c *Connection) {
	msg, ok := g.stateMessage()
	if !ok {
		return
	}
	_ = c.Send(msg)
}

func (g *Game) stateMessage() (*protocol.Message, bool) {
	snapshot, err := g.table.Snapshot()
	if err != nil {
		g.logger.Error("failed to snapshot table", "error", err)
		return nil, false
	}
	msg, err := protocol.NewMessage(protocol.TypeTableState, protocol.TableStateData{Table: snapshot})
	if err != nil {
		g.logger.Error("failed to build state message", "error", err)
		return nil, false
	}
	return msg, true
}

func (g *Game) nameTaken(name string) bool {
	for _, s := range g.table.Seats {
		if s != nil && s.Name == name {
			return true
		}
	}
	for _, p := range g.pending {
		if p.name == name {
			return true
		}
	}
	return false
}

func (g *Game) newOtp() string {
	digits := make([]byte, otpLength)
	for i := range digits {
		digits[i] = byte('0' + g.rng.Intn(10))
	}
	return string(digits)
}

func (g *Game) reply(c *Connection, mt protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(mt, payload)
	if err != nil {
		g.logger.Error("failed to build message", "type", mt, "error", err)
		return
	}
	_ = c.Send(msg)
}
