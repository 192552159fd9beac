// Package table implements the authoritative No-Limit Hold'em table engine:
// seating and dealer rotation, the four betting rounds, legal-action
// resolution, bet and pot arithmetic including side pots, and showdown with
// externally confirmed winners. The host owns the single mutable Table;
// clients rebuild theirs from snapshots and re-derive every query locally.
package table

import (
	"fmt"

	"github.com/thoas/go-funk"
)

// NoSeat marks an unset seat pointer (dealer, blinds, actor).
const NoSeat = -1

// Round is the current betting round. RoundNone means no hand is active.
type Round int

const (
	RoundNone Round = iota
	PreFlop
	Flop
	Turn
	River
)

func (r Round) String() string {
	switch r {
	case PreFlop:
		return "pre-flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "none"
	}
}

// Seat is one seated player. A nil entry in Table.Seats is an empty seat.
type Seat struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StackSize int    `json:"stackSize"`
	Bet       int    `json:"bet"`
	RaiseSize int    `json:"raiseSize,omitempty"` // size of this player's most recent raise, 0 = none
	Folded    bool   `json:"folded"`
	Left      bool   `json:"left"` // asked to leave mid-hand, removed at cleanup
	ShowCards bool   `json:"showCards"`
}

// Pot is one pool of chips with a fixed eligibility set. Eligibility is
// tracked by player ID so pots survive serialization without aliasing seats.
type Pot struct {
	Amount      int      `json:"amount"`
	EligibleIDs []string `json:"eligibleIds"`
}

func (p *Pot) addEligible(id string) {
	if !funk.ContainsString(p.EligibleIDs, id) {
		p.EligibleIDs = append(p.EligibleIDs, id)
	}
}

// Config holds the table constants fixed at creation time.
type Config struct {
	MaxSeats   int
	BuyIn      int // minimum buy-in
	SmallBlind int
	BigBlind   int

	// AutoMoveDealer rotates the button before each new hand.
	AutoMoveDealer bool

	// Debug relaxes the duplicate-player check so one identity can occupy
	// several seats in local testing.
	Debug bool
}

// Table is the single source of truth for one game. All mutating methods
// are synchronous and non-reentrant; callers serialize access.
//
// Fields are exported so the whole table serializes as a snapshot for
// replication. Chip conservation holds across every transition except
// DistributePot: sum(stacks) + sum(bets) + sum(pots) is constant.
type Table struct {
	Seats          []*Seat `json:"seats"`
	BuyIn          int     `json:"buyIn"`
	SmallBlind     int     `json:"smallBlind"`
	BigBlind       int     `json:"bigBlind"`
	AutoMoveDealer bool    `json:"autoMoveDealer"`
	Debug          bool    `json:"debug"`

	DealerSeat     int `json:"dealerSeat"`
	SmallBlindSeat int `json:"smallBlindSeat"`
	BigBlindSeat   int `json:"bigBlindSeat"`

	CurrentRound  Round `json:"currentRound"`
	ActorSeat     int   `json:"actorSeat"`     // whose turn it is
	LastActorSeat int   `json:"lastActorSeat"` // where the betting round closes

	CurrentBet    int `json:"currentBet"`    // highest outstanding bet this round, 0 = none
	LastRaiseSize int `json:"lastRaiseSize"` // most recent legal raise size, 0 = none

	Pots       []*Pot `json:"pots"`
	HandNumber int    `json:"handNumber"`
	IsShowdown bool   `json:"isShowdown"` // pots await external winner confirmation
}

// New creates an empty table from config.
func New(cfg Config) *Table {
	if cfg.MaxSeats <= 0 {
		cfg.MaxSeats = 10
	}
	return &Table{
		Seats:          make([]*Seat, cfg.MaxSeats),
		BuyIn:          cfg.BuyIn,
		SmallBlind:     cfg.SmallBlind,
		BigBlind:       cfg.BigBlind,
		AutoMoveDealer: cfg.AutoMoveDealer,
		Debug:          cfg.Debug,
		DealerSeat:     NoSeat,
		SmallBlindSeat: NoSeat,
		BigBlindSeat:   NoSeat,
		ActorSeat:      NoSeat,
		LastActorSeat:  NoSeat,
		Pots:           []*Pot{{}},
	}
}

// SeatByID returns the seat number and occupant for a player ID, or
// (NoSeat, nil) when the player is not seated.
func (t *Table) SeatByID(id string) (int, *Seat) {
	for i, s := range t.Seats {
		if s != nil && s.ID == id {
			return i, s
		}
	}
	return NoSeat, nil
}

// ActivePlayers returns all seated players still in the hand (not folded).
func (t *Table) ActivePlayers() []*Seat {
	var active []*Seat
	for _, s := range t.Seats {
		if s != nil && !s.Folded {
			active = append(active, s)
		}
	}
	return active
}

// ActingPlayers returns the players that still owe a decision this round:
// not folded, chips behind, and either facing no bet, yet to raise, or
// short of the current bet. Recomputed on every call, never cached.
func (t *Table) ActingPlayers() []*Seat {
	var acting []*Seat
	for _, s := range t.Seats {
		if s != nil && t.isActing(s) {
			acting = append(acting, s)
		}
	}
	return acting
}

func (t *Table) isActing(s *Seat) bool {
	if s.Folded || s.StackSize == 0 {
		return false
	}
	return t.CurrentBet == 0 || s.RaiseSize == 0 || s.Bet < t.CurrentBet
}

// CurrentActor returns the player whose turn it is, or nil.
func (t *Table) CurrentActor() *Seat {
	return t.seatAt(t.ActorSeat)
}

// LastActor returns the player at the round-closing position, or nil.
func (t *Table) LastActor() *Seat {
	return t.seatAt(t.LastActorSeat)
}

// Dealer returns the player on the button, or nil.
func (t *Table) Dealer() *Seat {
	return t.seatAt(t.DealerSeat)
}

// SmallBlindPlayer returns the small-blind player, or nil.
func (t *Table) SmallBlindPlayer() *Seat {
	return t.seatAt(t.SmallBlindSeat)
}

// BigBlindPlayer returns the big-blind player, or nil.
func (t *Table) BigBlindPlayer() *Seat {
	return t.seatAt(t.BigBlindSeat)
}

func (t *Table) seatAt(i int) *Seat {
	if i < 0 || i >= len(t.Seats) {
		return nil
	}
	return t.Seats[i]
}

// CurrentPot returns the pot currently being bet into (the newest one),
// creating it when the pot list is empty.
func (t *Table) CurrentPot() *Pot {
	if len(t.Pots) == 0 {
		t.Pots = append(t.Pots, &Pot{})
	}
	return t.Pots[len(t.Pots)-1]
}

// SidePots returns every pot except the newest, or nil when there is only
// the main pot.
func (t *Table) SidePots() []*Pot {
	if len(t.Pots) <= 1 {
		return nil
	}
	return t.Pots[:len(t.Pots)-1]
}

func (t *Table) seatedCount() int {
	n := 0
	for _, s := range t.Seats {
		if s != nil {
			n++
		}
	}
	return n
}

// firstOccupied scans circularly from seat number `from` (inclusive) and
// returns the first occupied seat, or NoSeat if the table is empty.
func (t *Table) firstOccupied(from int) int {
	n := len(t.Seats)
	for i := 0; i < n; i++ {
		idx := ((from+i)%n + n) % n
		if t.Seats[idx] != nil {
			return idx
		}
	}
	return NoSeat
}

// TotalChips sums every stack, outstanding bet, and pot. Conserved across
// all transitions except pot distribution.
func (t *Table) TotalChips() int {
	total := 0
	for _, s := range t.Seats {
		if s != nil {
			total += s.StackSize + s.Bet
		}
	}
	for _, p := range t.Pots {
		total += p.Amount
	}
	return total
}

func (t *Table) String() string {
	actor := "none"
	if a := t.CurrentActor(); a != nil {
		actor = a.Name
	}
	return fmt.Sprintf("hand #%d - %s - %d pot(s) - action on %s",
		t.HandNumber, t.CurrentRound, len(t.Pots), actor)
}
