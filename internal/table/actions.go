package table

import "fmt"

// Action is one of the moves a player can make on their turn.
type Action int

const (
	Check Action = iota
	Call
	Bet
	Raise
	Fold
)

func (a Action) String() string {
	return [...]string{"check", "call", "bet", "raise", "fold"}[a]
}

// ParseAction maps a wire-format action name back to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	case "fold":
		return Fold, nil
	}
	return 0, fmt.Errorf("table: unknown action %q", s)
}

// LegalActions computes the action set valid for the seat right now. Fold is
// always legal; Check and Call are mutually exclusive. Raise requires chips
// beyond the current bet, a player still owing action this round (the seat
// itself counts: a full raiser momentarily owes nothing, yet the player
// facing the raise may re-raise), and that the seat has not already raised
// at or above the last legal raise size (a short all-in raise does not
// reopen the action for those who matched the prior bet). Recomputed from
// state on every call.
func (t *Table) LegalActions(s *Seat) []Action {
	var actions []Action
	if t.CurrentBet == 0 {
		actions = append(actions, Check, Bet)
	} else {
		if s.Bet == t.CurrentBet {
			actions = append(actions, Check)
			if s.StackSize > t.CurrentBet && len(t.ActingPlayers()) > 0 {
				actions = append(actions, Raise)
			}
		}
		if s.Bet < t.CurrentBet {
			actions = append(actions, Call)
			if s.StackSize > t.CurrentBet && len(t.ActingPlayers()) > 0 &&
				(t.LastRaiseSize == 0 || s.RaiseSize < t.LastRaiseSize) {
				actions = append(actions, Raise)
			}
		}
	}
	return append(actions, Fold)
}

func (t *Table) actionLegal(s *Seat, a Action) bool {
	for _, legal := range t.LegalActions(s) {
		if legal == a {
			return true
		}
	}
	return false
}

// inTurn verifies the seat holds the current turn.
func (t *Table) inTurn(s *Seat) error {
	if actor := t.CurrentActor(); actor == nil || actor != s {
		return ErrOutOfTurn
	}
	return nil
}

// TakeCheck passes the action without committing chips.
func (t *Table) TakeCheck(s *Seat) error {
	if err := t.inTurn(s); err != nil {
		return err
	}
	if !t.actionLegal(s, Check) {
		return ErrIllegalAction
	}
	t.NextAction()
	return nil
}

// TakeFold folds the seat for the remainder of the hand.
func (t *Table) TakeFold(s *Seat) error {
	if err := t.inTurn(s); err != nil {
		return err
	}
	if !t.actionLegal(s, Fold) {
		return ErrIllegalAction
	}
	s.Folded = true
	t.NextAction()
	return nil
}

// TakeCall matches the current bet. A stack too short to cover the call goes
// all-in instead; that is a valid short call, not an error.
func (t *Table) TakeCall(s *Seat) error {
	if err := t.inTurn(s); err != nil {
		return err
	}
	if !t.actionLegal(s, Call) {
		return ErrIllegalAction
	}
	callAmount := t.CurrentBet - s.Bet
	if callAmount > s.StackSize {
		s.Bet += s.StackSize
		s.StackSize = 0
	} else {
		s.RaiseSize = 0
		s.StackSize -= callAmount
		s.Bet += callAmount
	}
	t.NextAction()
	return nil
}

// TakeBet opens the betting on a street with no outstanding bet. The amount
// must be at least the big blind and within the player's stack.
func (t *Table) TakeBet(s *Seat, amount int) error {
	if err := t.inTurn(s); err != nil {
		return err
	}
	if !t.actionLegal(s, Bet) {
		return ErrIllegalAction
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount < t.BigBlind {
		return ErrBetTooLow
	}
	if amount > s.StackSize {
		return ErrInsufficientStack
	}
	return t.raiseTo(s, amount)
}

// TakeRaise raises over the current bet. A raise below the minimum is
// rejected unless the player is going all-in, in which case the bet level
// moves without reopening the action for players who already matched it.
func (t *Table) TakeRaise(s *Seat, amount int) error {
	if err := t.inTurn(s); err != nil {
		return err
	}
	if !t.actionLegal(s, Raise) && !t.actionLegal(s, Bet) {
		return ErrIllegalAction
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > s.StackSize {
		return ErrInsufficientStack
	}
	return t.raiseTo(s, amount)
}

func (t *Table) raiseTo(s *Seat, amount int) error {
	minRaise := t.LastRaiseSize
	if minRaise == 0 {
		minRaise = t.BigBlind
	}
	raiseDelta := amount
	if t.CurrentBet > 0 {
		raiseDelta = amount - t.CurrentBet
	}

	switch {
	case raiseDelta < minRaise && amount < s.StackSize:
		return ErrRaiseTooSmall

	case raiseDelta < minRaise:
		// All-in for less than a full raise: the bet level moves but the
		// last raise size stays, so players who already matched the prior
		// bet cannot re-raise below the minimum.
		s.Bet += s.StackSize
		s.StackSize = 0
		t.CurrentBet = s.Bet

	default:
		prevBet := t.CurrentBet
		s.StackSize -= amount
		s.Bet += amount
		t.CurrentBet = s.Bet
		if prevBet > 0 {
			// The recorded raise is the jump in bet level, so chips
			// already posted (a blind) count toward it.
			s.RaiseSize = s.Bet - prevBet
			t.LastRaiseSize = s.RaiseSize
		}
		t.closeActionBehind()
	}

	t.NextAction()
	return nil
}

// closeActionBehind moves the round-closing position to the nearest acting
// seat before the raiser: everyone after the raiser must respond before the
// round can end.
func (t *Table) closeActionBehind() {
	n := len(t.Seats)
	pos := t.ActorSeat
	for i := 0; i < n; i++ {
		pos--
		if pos < 0 {
			pos = n - 1
		}
		if s := t.Seats[pos]; s != nil && t.isActing(s) {
			t.LastActorSeat = pos
			return
		}
	}
}

// Apply validates and applies a single action for the identified player.
// Host and every client apply the same action records through this entry
// point so all replicas converge on identical state.
func (t *Table) Apply(playerID string, action Action, amount int) error {
	_, s := t.SeatByID(playerID)
	if s == nil {
		return ErrPlayerNotFound
	}
	switch action {
	case Check:
		return t.TakeCheck(s)
	case Call:
		return t.TakeCall(s)
	case Bet:
		return t.TakeBet(s, amount)
	case Raise:
		return t.TakeRaise(s, amount)
	case Fold:
		return t.TakeFold(s)
	}
	return ErrIllegalAction
}
