package table

import "errors"

// Validation errors are returned before any state is mutated; a rejected
// action leaves the table exactly as it was.
var (
	ErrNoSeatedPlayers = errors.New("table: no seated players")
	ErrTableFull       = errors.New("table: the table is currently full")
	ErrBuyInTooLow     = errors.New("table: buy-in is below the table minimum")
	ErrDuplicatePlayer = errors.New("table: player already joined this table")
	ErrSeatOccupied    = errors.New("table: there is already a player in the requested seat")
	ErrInvalidSeat     = errors.New("table: seat number out of range")
	ErrPlayerNotFound  = errors.New("table: no player found")

	ErrHandInProgress   = errors.New("table: there is already an active hand")
	ErrNotEnoughPlayers = errors.New("table: not enough players to start")

	ErrOutOfTurn         = errors.New("table: action invoked on player out of turn")
	ErrIllegalAction     = errors.New("table: illegal action")
	ErrInvalidAmount     = errors.New("table: amount must be a positive number")
	ErrBetTooLow         = errors.New("table: a bet must be at least the big blind")
	ErrInsufficientStack = errors.New("table: cannot bet more than you brought to the table")
	ErrRaiseTooSmall     = errors.New("table: raise is below the minimum raise")

	ErrNoSuchPot      = errors.New("table: pot not found")
	ErrInvalidWinners = errors.New("table: winners must be eligible for the pot")
)
