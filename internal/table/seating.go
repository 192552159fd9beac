package table

// MoveDealer scans seats circularly starting at fromSeat and assigns the
// first occupied seat as dealer, then the next occupied seats clockwise as
// small and big blind. Heads-up the dealer posts the small blind and the
// other player the big blind. Idempotent for a given start seat and
// occupancy.
func (t *Table) MoveDealer(fromSeat int) error {
	if t.seatedCount() == 0 {
		return ErrNoSeatedPlayers
	}
	t.DealerSeat = t.firstOccupied(fromSeat)
	if t.seatedCount() == 2 {
		t.SmallBlindSeat = t.DealerSeat
		t.BigBlindSeat = t.firstOccupied(t.DealerSeat + 1)
		return nil
	}
	t.SmallBlindSeat = t.firstOccupied(t.DealerSeat + 1)
	t.BigBlindSeat = t.firstOccupied(t.SmallBlindSeat + 1)
	return nil
}

// SitDown seats a new player with stackSize = buyIn and returns the assigned
// seat number. Pass NoSeat to take the first empty seat. A player joining
// during an active hand, or while pots await winner confirmation, sits out
// folded until the next deal. When no hand is active the table is cleaned up
// and the dealer recomputed.
func (t *Table) SitDown(id, name string, buyIn int, seat int) (int, error) {
	empty := 0
	for _, s := range t.Seats {
		if s == nil {
			empty++
		}
	}
	if empty == 0 {
		return NoSeat, ErrTableFull
	}
	if buyIn < t.BuyIn {
		return NoSeat, ErrBuyInTooLow
	}
	if _, existing := t.SeatByID(id); existing != nil && !t.Debug {
		return NoSeat, ErrDuplicatePlayer
	}
	if seat != NoSeat {
		if seat < 0 || seat >= len(t.Seats) {
			return NoSeat, ErrInvalidSeat
		}
		if t.Seats[seat] != nil {
			return NoSeat, ErrSeatOccupied
		}
	} else {
		for i, s := range t.Seats {
			if s == nil {
				seat = i
				break
			}
		}
	}

	t.Seats[seat] = &Seat{
		ID:        id,
		Name:      name,
		StackSize: buyIn,
		Folded:    t.CurrentRound != RoundNone || t.IsShowdown,
	}

	if t.CurrentRound == RoundNone && !t.IsShowdown {
		t.CleanUpTable()
		from := t.DealerSeat
		if from == NoSeat {
			from = seat
		}
		_ = t.MoveDealer(from)
	}
	return seat, nil
}

// StandUp removes the player with the given ID. During an active hand the
// seat is marked left and folded (chips already committed stay in play) and
// the turn advances if it was theirs; otherwise the seat is vacated at once.
func (t *Table) StandUp(id string) error {
	seat, s := t.SeatByID(id)
	if s == nil || s.Left {
		return ErrPlayerNotFound
	}
	t.standUpSeat(seat)
	return nil
}

// StandUpSeat removes the occupant of the given seat number.
func (t *Table) StandUpSeat(seat int) error {
	if seat < 0 || seat >= len(t.Seats) {
		return ErrInvalidSeat
	}
	s := t.Seats[seat]
	if s == nil || s.Left {
		return ErrPlayerNotFound
	}
	t.standUpSeat(seat)
	return nil
}

func (t *Table) standUpSeat(seat int) {
	s := t.Seats[seat]

	if t.CurrentRound != RoundNone {
		s.Folded = true
		s.Left = true
		if t.ActorSeat == seat || len(t.ActingPlayers()) <= 1 {
			t.NextAction()
		}
		return
	}

	t.Seats[seat] = nil
	if seat == t.DealerSeat {
		if t.seatedCount() == 0 {
			t.DealerSeat = NoSeat
			t.SmallBlindSeat = NoSeat
			t.BigBlindSeat = NoSeat
		} else {
			_ = t.MoveDealer(seat + 1)
		}
	}
}

// CleanUpTable removes seats marked left and busted (zero stack) seats,
// resets every remaining occupant's per-hand state, and resets the pot list
// to a single empty pot. Called between hands.
func (t *Table) CleanUpTable() {
	for i, s := range t.Seats {
		if s != nil && s.Left {
			t.standUpSeat(i)
		}
	}
	for i, s := range t.Seats {
		if s != nil && s.StackSize == 0 {
			t.standUpSeat(i)
		}
	}
	for _, s := range t.Seats {
		if s == nil {
			continue
		}
		s.Bet = 0
		s.RaiseSize = 0
		s.Folded = false
		s.ShowCards = false
	}
	t.Pots = []*Pot{{}}
	t.CurrentBet = 0
	t.LastRaiseSize = 0
	t.ActorSeat = NoSeat
	t.LastActorSeat = NoSeat
	t.IsShowdown = false
}
