package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownMessageType marks a message whose type this build does not
// understand. Receivers log it and drop the message; the connection stays up.
var ErrUnknownMessageType = errors.New("protocol: unknown message type")

// Decode returns the typed payload for the envelope. Message types with no
// payload decode to nil. The switch is closed over every known type so the
// dispatch site can match exhaustively.
func (m *Message) Decode() (interface{}, error) {
	switch m.Type {
	case TypeJoinRequest:
		return decodeAs[JoinRequestData](m)
	case TypeOtpResponse:
		return decodeAs[OtpResponseData](m)
	case TypeJoinFailed:
		return decodeAs[JoinFailedData](m)
	case TypePlayerJoined:
		return decodeAs[PlayerJoinedData](m)
	case TypeTableState:
		return decodeAs[TableStateData](m)
	case TypeDistributePot:
		return decodeAs[DistributePotData](m)
	case TypePlayerAction:
		return decodeAs[PlayerActionData](m)
	case TypeOtpRequest, TypeInvalidOtp, TypeNameTaken, TypeStartRound, TypeDisconnect:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, m.Type)
}

func decodeAs[T any](m *Message) (*T, error) {
	var payload T
	if err := json.Unmarshal(m.Data, &payload); err != nil {
		return nil, fmt.Errorf("protocol: decode %s payload: %w", m.Type, err)
	}
	return &payload, nil
}
