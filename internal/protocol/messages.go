// Package protocol defines the wire messages exchanged between the host and
// its clients. Every message is a flat JSON envelope carrying a discriminant
// type field; receivers ignore unknown types.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of message.
type MessageType string

const (
	// Client -> Host
	TypeJoinRequest MessageType = "join_request"
	TypeOtpResponse MessageType = "otp_response"

	// Host -> Client
	TypeOtpRequest    MessageType = "otp_request"
	TypeInvalidOtp    MessageType = "invalid_otp"
	TypeNameTaken     MessageType = "name_taken"
	TypeJoinFailed    MessageType = "join_failed"
	TypePlayerJoined  MessageType = "player_joined"
	TypeTableState    MessageType = "table_state"
	TypeStartRound    MessageType = "start_round"
	TypeDistributePot MessageType = "distribute_pot"
	TypeDisconnect    MessageType = "disconnect"

	// Either direction; the host relays client actions to all other peers.
	TypePlayerAction MessageType = "player_action"
)

// Message is the envelope every payload travels in.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope with the current timestamp.
// A nil payload produces an empty-bodied message.
func NewMessage(messageType MessageType, payload interface{}) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: time.Now()}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal %s payload: %w", messageType, err)
	}
	msg.Data = data
	return msg, nil
}

// Client -> Host payloads

// JoinRequestData asks to join the table under a display name.
type JoinRequestData struct {
	Name string `json:"name"`
}

// OtpResponseData answers an OtpRequest with the pairing passcode.
type OtpResponseData struct {
	Otp string `json:"otp"`
}

// Host -> Client payloads

// JoinFailedData explains a refused seat request.
type JoinFailedData struct {
	Reason string `json:"reason"`
}

// PlayerJoinedData confirms the join and carries the assigned identity.
type PlayerJoinedData struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
}

// TableStateData carries a full table snapshot. Clients replace their
// replica wholesale and recompute every derived query locally.
type TableStateData struct {
	Table json.RawMessage `json:"table"`
}

// DistributePotData announces a pot award decided on the host.
type DistributePotData struct {
	PotIndex  int      `json:"potIndex"`
	Amount    int      `json:"amount"`
	WinnerIDs []string `json:"winnerIds"`
}

// PlayerActionData carries one player action in either direction.
type PlayerActionData struct {
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
	Amount   int    `json:"amount,omitempty"`
}
