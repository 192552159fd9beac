package table

import "github.com/thoas/go-funk"

func contains(ids []string, id string) bool {
	return funk.ContainsString(ids, id)
}

// bettingSeats returns every seat with chips committed this round, folded
// and left players included: they contributed even if they cannot win.
func (t *Table) bettingSeats() []*Seat {
	var betting []*Seat
	for _, s := range t.Seats {
		if s != nil && s.Bet > 0 {
			betting = append(betting, s)
		}
	}
	return betting
}

// GatherBets converts the round's outstanding bets into pots. With at most
// one bettor there is no contest and the chips are returned to that stack.
// Otherwise contributions are layered around all-in short stacks: each layer
// caps every bet at the smallest all-in amount into the active pot, appends
// a fresh pot that becomes the active one, and carries the excess forward,
// producing the main pot plus side pots ordered shallowest all-in first.
// Folded and left players are finally dropped from every eligibility set.
func (t *Table) GatherBets() {
	betting := t.bettingSeats()

	if len(betting) <= 1 {
		for _, s := range betting {
			s.StackSize += s.Bet
			s.Bet = 0
		}
		return
	}

	for allIn := allInBettors(betting); len(allIn) > 0; allIn = allInBettors(betting) {
		lowest := allIn[0].Bet
		for _, s := range allIn[1:] {
			if s.Bet < lowest {
				lowest = s.Bet
			}
		}

		pot := t.CurrentPot()
		for _, s := range betting {
			if s.Bet == 0 {
				continue
			}
			if s.Bet >= lowest {
				s.Bet -= lowest
				pot.Amount += lowest
			} else {
				pot.Amount += s.Bet
				s.Bet = 0
			}
			pot.addEligible(s.ID)
		}
		t.Pots = append(t.Pots, &Pot{})
	}

	pot := t.CurrentPot()
	for _, s := range betting {
		if s.Bet == 0 {
			continue
		}
		pot.Amount += s.Bet
		s.Bet = 0
		pot.addEligible(s.ID)
	}

	for _, p := range t.Pots {
		p.EligibleIDs = funk.FilterString(p.EligibleIDs, func(id string) bool {
			_, s := t.SeatByID(id)
			return s != nil && !s.Folded && !s.Left
		})
	}
}

// allInBettors returns the seats that still have chips committed this round
// and nothing behind; each one caps a pot layer.
func allInBettors(betting []*Seat) []*Seat {
	var allIn []*Seat
	for _, s := range betting {
		if s.Bet > 0 && s.StackSize == 0 {
			allIn = append(allIn, s)
		}
	}
	return allIn
}
