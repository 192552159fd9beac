package table

// DealCards starts a new hand: cleans up the table, posts blinds (short
// stacks post all-in), sets the current bet to the big blind, and puts the
// action on the first occupied seat after the big blind with the round
// closing at the big blind itself. A hand whose pots still await winner
// confirmation counts as in progress.
func (t *Table) DealCards() error {
	if t.CurrentRound != RoundNone || t.IsShowdown {
		return ErrHandInProgress
	}
	t.CleanUpTable()
	if len(t.ActivePlayers()) < 2 {
		return ErrNotEnoughPlayers
	}

	t.CurrentRound = PreFlop
	t.HandNumber++

	// Positions are re-derived from current occupancy every hand; the
	// button only advances when auto-rotation is on and this is not the
	// first hand.
	if t.HandNumber > 1 && t.AutoMoveDealer {
		_ = t.MoveDealer(t.DealerSeat + 1)
	} else {
		from := t.DealerSeat
		if from == NoSeat {
			from = 0
		}
		_ = t.MoveDealer(from)
	}

	t.postBlind(t.Seats[t.SmallBlindSeat], t.SmallBlind)
	t.postBlind(t.Seats[t.BigBlindSeat], t.BigBlind)
	t.CurrentBet = t.BigBlind

	t.ActorSeat = t.firstOccupied(t.BigBlindSeat + 1)
	t.LastActorSeat = t.BigBlindSeat
	return nil
}

// postBlind moves the lesser of the blind and the player's whole stack into
// their bet. A short stack posting a blind is all-in, not an error.
func (t *Table) postBlind(s *Seat, amount int) {
	if amount > s.StackSize {
		s.Bet = s.StackSize
		s.StackSize = 0
		return
	}
	s.StackSize -= amount
	s.Bet = amount
}

// NextAction advances the turn. When a single non-folded player remains the
// hand goes straight to showdown; when the action returns to the
// round-closing seat the next round begins; otherwise the turn moves
// clockwise, skipping seats that are empty, folded, all-in, or otherwise owe
// no action. The recursion is bounded: with more than one player left an
// acting player or a round boundary is reached within one lap.
func (t *Table) NextAction() {
	if len(t.ActivePlayers()) == 1 {
		t.Showdown()
		return
	}
	if t.ActorSeat == t.LastActorSeat {
		t.nextRound()
		return
	}

	t.ActorSeat = (t.ActorSeat + 1) % len(t.Seats)

	actor := t.CurrentActor()
	if actor == nil || !t.isActing(actor) ||
		(t.CurrentBet == 0 && len(t.ActingPlayers()) == 1) {
		t.NextAction()
	}
}

// nextRound gathers the street's bets into pots and advances to the next
// betting round. On the river all live hands are revealed and the hand moves
// to showdown.
func (t *Table) nextRound() {
	switch t.CurrentRound {
	case PreFlop, Flop, Turn:
		t.GatherBets()
		t.CurrentBet = 0
		t.LastRaiseSize = 0
		t.CurrentRound++
		t.resetPosition()
	case River:
		for _, s := range t.Seats {
			if s != nil {
				s.ShowCards = !s.Folded
			}
		}
		t.Showdown()
	}
}

// resetPosition puts the action on the first occupied seat after the dealer
// with the round closing at the dealer, then skips ahead immediately if that
// seat owes no action or no betting is possible this street.
func (t *Table) resetPosition() {
	t.ActorSeat = t.firstOccupied(t.DealerSeat + 1)
	t.LastActorSeat = t.DealerSeat

	actor := t.CurrentActor()
	if actor == nil || !t.isActing(actor) || len(t.ActingPlayers()) <= 1 {
		t.NextAction()
	}
}

// Showdown ends the betting phase: turn pointers are cleared and outstanding
// bets gathered. With more than one live player the hands are revealed and
// the table waits for external winner confirmation per pot; with exactly one
// live player every pot is awarded automatically.
func (t *Table) Showdown() {
	t.CurrentRound = RoundNone
	t.ActorSeat = NoSeat
	t.LastActorSeat = NoSeat
	t.GatherBets()

	// Each all-in layer appends a fresh pot which may never receive chips;
	// empty pots have nothing to confirm.
	pots := t.Pots[:0]
	for _, p := range t.Pots {
		if p.Amount > 0 {
			pots = append(pots, p)
		}
	}
	t.Pots = pots

	active := t.ActivePlayers()
	if len(active) == 1 {
		winner := active[0]
		for _, p := range t.Pots {
			winner.StackSize += p.Amount
		}
		t.Pots = nil
		t.CleanUpTable()
		return
	}
	if len(active) == 0 || len(t.Pots) == 0 {
		t.CleanUpTable()
		return
	}

	for _, s := range active {
		s.ShowCards = true
	}
	t.IsShowdown = true
}

// DistributePot splits the pot at index evenly between the named winners and
// removes it. Odd chips that do not divide evenly go one apiece to winners
// in seat order starting left of the dealer. When the last pot is removed
// the table is cleaned up for the next hand. Only the host initiates this in
// a replicated game.
func (t *Table) DistributePot(index int, winnerIDs []string) error {
	if index < 0 || index >= len(t.Pots) {
		return ErrNoSuchPot
	}
	pot := t.Pots[index]

	winners := t.seatsInOrder(winnerIDs)
	if len(winners) == 0 {
		return ErrInvalidWinners
	}
	for _, w := range winners {
		if !contains(pot.EligibleIDs, w.ID) {
			return ErrInvalidWinners
		}
	}

	share := pot.Amount / len(winners)
	remainder := pot.Amount % len(winners)
	for i, w := range winners {
		w.StackSize += share
		if i < remainder {
			w.StackSize++
		}
	}

	t.Pots = append(t.Pots[:index], t.Pots[index+1:]...)
	if len(t.Pots) == 0 {
		t.CleanUpTable()
	}
	return nil
}

// seatsInOrder resolves player IDs to seats, ordered clockwise starting at
// the seat after the dealer. Unknown IDs are dropped.
func (t *Table) seatsInOrder(ids []string) []*Seat {
	n := len(t.Seats)
	start := t.DealerSeat + 1
	if t.DealerSeat == NoSeat {
		start = 0
	}
	var seats []*Seat
	for i := 0; i < n; i++ {
		idx := ((start+i)%n + n) % n
		s := t.Seats[idx]
		if s != nil && contains(ids, s.ID) {
			seats = append(seats, s)
		}
	}
	return seats
}
