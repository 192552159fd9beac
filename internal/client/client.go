// Package client implements the mirroring side of a replicated table. The
// replica advances only through the shared action records: the client's own
// actions are applied locally and forwarded to the host, everyone else's
// arrive as host relays, and snapshots replace the replica wholesale. Every
// read-only query (current actor, dealer, legal actions) is re-derived
// locally from the replica.
package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/homegamehq/homegame/internal/protocol"
	"github.com/homegamehq/homegame/internal/table"
)

// Event is pushed to the application for every state-affecting message.
type Event int

const (
	EventOtpRequired Event = iota
	EventInvalidOtp
	EventNameTaken
	EventJoinFailed
	EventJoined
	EventStateChanged
	EventHandStarted
	EventPotDistributed
	EventDisconnected
)

// EventHandler receives events as messages from the host are applied. detail
// carries the refusal reason for EventJoinFailed and is empty otherwise.
type EventHandler func(event Event, detail string)

// Client is one peer's connection to the host.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *protocol.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.RWMutex
	table    *table.Table
	playerID string
	handler  EventHandler
}

// New creates a client for the host at serverURL.
func New(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *protocol.Message, 256),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// OnEvent registers the application callback. Must be set before Connect.
func (c *Client) OnEvent(handler EventHandler) {
	c.handler = handler
}

// Connect dials the host and starts the read and write pumps.
func (c *Client) Connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	c.logger.Info("connecting to host", "url", u.String())
	conn, _, err := websocket.DefaultDialer.DialContext(c.ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial host: %w", err)
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()
	return nil
}

// Close tears the connection down.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// Join asks the host for a seat under the given display name. The host
// answers with a pairing prompt, a name-taken refusal, or a join failure.
func (c *Client) Join(name string) error {
	return c.sendMessage(protocol.TypeJoinRequest, protocol.JoinRequestData{Name: name})
}

// SubmitOtp answers the host's pairing prompt.
func (c *Client) SubmitOtp(otp string) error {
	return c.sendMessage(protocol.TypeOtpResponse, protocol.OtpResponseData{Otp: otp})
}

// Act submits one of this player's actions. The local replica validates and
// applies it first, exactly as the host will; the host then relays the same
// record to every other peer, so each replica applies each action once. An
// action the local engine rejects is never sent.
func (c *Client) Act(action table.Action, amount int) error {
	c.mu.Lock()
	id := c.playerID
	if id == "" {
		c.mu.Unlock()
		return fmt.Errorf("not joined yet")
	}
	if c.table == nil {
		c.mu.Unlock()
		return fmt.Errorf("no table state yet")
	}
	if err := c.table.Apply(id, action, amount); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	err := c.sendMessage(protocol.TypePlayerAction, protocol.PlayerActionData{
		PlayerID: id,
		Action:   action.String(),
		Amount:   amount,
	})
	c.emit(EventStateChanged, "")
	return err
}

// Leave announces departure and closes the connection.
func (c *Client) Leave() error {
	_ = c.sendMessage(protocol.TypeDisconnect, nil)
	return c.Close()
}

// PlayerID returns this client's identity, empty until joined.
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// View runs fn with the replica table for read-only access. fn is not called
// if no snapshot has arrived yet.
func (c *Client) View(fn func(*table.Table)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.table != nil {
		fn(c.table)
	}
}

func (c *Client) sendMessage(mt protocol.MessageType, payload interface{}) error {
	msg, err := protocol.NewMessage(mt, payload)
	if err != nil {
		return err
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

func (c *Client) readPump() {
	defer func() { _ = c.Close() }()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			c.emit(EventDisconnected, "")
			return
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) writePump() {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage applies one message from the host. Malformed or unknown
// messages are logged and dropped; the connection stays up.
func (c *Client) handleMessage(msg *protocol.Message) {
	payload, err := msg.Decode()
	if err != nil {
		c.logger.Debug("dropping message", "type", msg.Type, "error", err)
		return
	}

	switch data := payload.(type) {
	case *protocol.PlayerJoinedData:
		c.mu.Lock()
		c.playerID = data.PlayerID
		c.mu.Unlock()
		c.logger.Info("joined table", "player", data.PlayerID, "seat", data.Seat)
		c.emit(EventJoined, "")

	case *protocol.TableStateData:
		replica, err := table.Restore(data.Table)
		if err != nil {
			c.logger.Error("failed to restore snapshot", "error", err)
			return
		}
		c.mu.Lock()
		c.table = replica
		c.mu.Unlock()
		c.emit(EventStateChanged, "")

	case *protocol.PlayerActionData:
		c.applyAction(data)

	case *protocol.DistributePotData:
		c.applyDistribution(data)

	case *protocol.JoinFailedData:
		c.logger.Warn("join failed", "reason", data.Reason)
		c.emit(EventJoinFailed, data.Reason)

	default:
		switch msg.Type {
		case protocol.TypeOtpRequest:
			c.emit(EventOtpRequired, "")
		case protocol.TypeInvalidOtp:
			c.emit(EventInvalidOtp, "")
		case protocol.TypeNameTaken:
			c.emit(EventNameTaken, "")
		case protocol.TypeStartRound:
			c.applyStartRound()
		case protocol.TypeDisconnect:
			c.emit(EventDisconnected, "")
			_ = c.Close()
		default:
			c.logger.Debug("ignoring message", "type", msg.Type)
		}
	}
}

// applyAction replays a relayed action record on the replica. Host and
// clients run the same deterministic engine, so replaying the same records
// in the same order reproduces the host's state exactly.
func (c *Client) applyAction(data *protocol.PlayerActionData) {
	action, err := table.ParseAction(data.Action)
	if err != nil {
		c.logger.Debug("dropping relayed action", "error", err)
		return
	}

	c.mu.Lock()
	if c.table != nil {
		if err := c.table.Apply(data.PlayerID, action, data.Amount); err != nil {
			c.logger.Error("replica diverged applying action", "player", data.PlayerID,
				"action", data.Action, "error", err)
		}
	}
	c.mu.Unlock()
	c.emit(EventStateChanged, "")
}

func (c *Client) applyStartRound() {
	c.mu.Lock()
	if c.table != nil {
		if err := c.table.DealCards(); err != nil {
			c.logger.Error("replica diverged starting hand", "error", err)
		}
	}
	c.mu.Unlock()
	c.emit(EventHandStarted, "")
}

func (c *Client) applyDistribution(data *protocol.DistributePotData) {
	c.mu.Lock()
	if c.table != nil {
		if err := c.table.DistributePot(data.PotIndex, data.WinnerIDs); err != nil {
			c.logger.Error("replica diverged distributing pot", "pot", data.PotIndex, "error", err)
		}
	}
	c.mu.Unlock()
	c.emit(EventPotDistributed, "")
}

func (c *Client) emit(event Event, detail string) {
	if c.handler != nil {
		c.handler(event, detail)
	}
}
