package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable() *Table {
	return New(Config{
		MaxSeats:       10,
		BuyIn:          100,
		SmallBlind:     5,
		BigBlind:       10,
		AutoMoveDealer: true,
	})
}

// sit seats n players p0..p(n-1) with the minimum buy-in.
func sit(t *testing.T, tbl *Table, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := tbl.SitDown(fmt.Sprintf("p%d", i), fmt.Sprintf("player%d", i), tbl.BuyIn, NoSeat)
		require.NoError(t, err)
	}
}

func TestSitDownTakesFirstEmptySeat(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()

	seat, err := tbl.SitDown("p0", "alice", 100, NoSeat)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)

	seat, err = tbl.SitDown("p1", "bob", 100, NoSeat)
	require.NoError(t, err)
	assert.Equal(t, 1, seat)

	// Vacate seat 0; the next join should reuse it.
	require.NoError(t, tbl.StandUp("p0"))
	seat, err = tbl.SitDown("p2", "carol", 100, NoSeat)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)
}

func TestSitDownRequestedSeat(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()

	seat, err := tbl.SitDown("p0", "alice", 100, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, seat)

	_, err = tbl.SitDown("p1", "bob", 100, 4)
	assert.ErrorIs(t, err, ErrSeatOccupied)

	_, err = tbl.SitDown("p1", "bob", 100, 10)
	assert.ErrorIs(t, err, ErrInvalidSeat)

	_, err = tbl.SitDown("p1", "bob", 100, -2)
	assert.ErrorIs(t, err, ErrInvalidSeat)
}

func TestSitDownFullTable(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 10)

	before := make([]*Seat, len(tbl.Seats))
	copy(before, tbl.Seats)

	_, err := tbl.SitDown("p10", "late", 100, NoSeat)
	assert.ErrorIs(t, err, ErrTableFull)
	assert.Equal(t, before, tbl.Seats)
}

func TestSitDownBuyInTooLow(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()

	_, err := tbl.SitDown("p0", "alice", 99, NoSeat)
	assert.ErrorIs(t, err, ErrBuyInTooLow)
}

func TestSitDownDuplicatePlayer(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 1)

	_, err := tbl.SitDown("p0", "again", 100, NoSeat)
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
}

func TestSitDownDuplicateAllowedInDebug(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	tbl.Debug = true
	sit(t, tbl, 1)

	_, err := tbl.SitDown("p0", "again", 100, NoSeat)
	assert.NoError(t, err)
}

func TestSitDownDuringHandSitsOutFolded(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 2)
	require.NoError(t, tbl.DealCards())

	seat, err := tbl.SitDown("p2", "late", 100, NoSeat)
	require.NoError(t, err)
	assert.True(t, tbl.Seats[seat].Folded)

	// Positions were not disturbed by the join.
	assert.Equal(t, 0, tbl.DealerSeat)
	assert.Equal(t, PreFlop, tbl.CurrentRound)
}

func TestSitDownDuringShowdownKeepsPots(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 2)
	require.NoError(t, tbl.DealCards())
	act(t, tbl, Call, 0)
	act(t, tbl, Check, 0)
	for i := 0; i < 6; i++ {
		act(t, tbl, Check, 0)
	}
	require.True(t, tbl.IsShowdown)
	total := tbl.TotalChips()

	seat, err := tbl.SitDown("p2", "late", 100, NoSeat)
	require.NoError(t, err)

	// The undistributed pot is untouched and the joiner sits out until the
	// winners are confirmed and the next hand is dealt.
	assert.Equal(t, total+100, tbl.TotalChips())
	assert.True(t, tbl.IsShowdown)
	require.Len(t, tbl.Pots, 1)
	assert.Equal(t, 20, tbl.Pots[0].Amount)
	assert.True(t, tbl.Seats[seat].Folded)
}

func TestMoveDealerHeadsUp(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 2)

	require.NoError(t, tbl.MoveDealer(0))
	// Heads-up the dealer posts the small blind.
	assert.Equal(t, 0, tbl.DealerSeat)
	assert.Equal(t, 0, tbl.SmallBlindSeat)
	assert.Equal(t, 1, tbl.BigBlindSeat)

	require.NoError(t, tbl.MoveDealer(1))
	assert.Equal(t, 1, tbl.DealerSeat)
	assert.Equal(t, 1, tbl.SmallBlindSeat)
	assert.Equal(t, 0, tbl.BigBlindSeat)
}

func TestMoveDealerThreeHanded(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 3)

	require.NoError(t, tbl.MoveDealer(2))
	assert.Equal(t, 2, tbl.DealerSeat)
	assert.Equal(t, 0, tbl.SmallBlindSeat)
	assert.Equal(t, 1, tbl.BigBlindSeat)
}

func TestMoveDealerSkipsEmptySeats(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	_, err := tbl.SitDown("p0", "alice", 100, 1)
	require.NoError(t, err)
	_, err = tbl.SitDown("p1", "bob", 100, 5)
	require.NoError(t, err)
	_, err = tbl.SitDown("p2", "carol", 100, 8)
	require.NoError(t, err)

	require.NoError(t, tbl.MoveDealer(2))
	assert.Equal(t, 5, tbl.DealerSeat)
	assert.Equal(t, 8, tbl.SmallBlindSeat)
	assert.Equal(t, 1, tbl.BigBlindSeat)
}

func TestMoveDealerEmptyTable(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	assert.ErrorIs(t, tbl.MoveDealer(0), ErrNoSeatedPlayers)
}

func TestStandUpIdleVacatesSeat(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 3)

	require.NoError(t, tbl.StandUp("p1"))
	assert.Nil(t, tbl.Seats[1])
	assert.ErrorIs(t, tbl.StandUp("p1"), ErrPlayerNotFound)
}

func TestStandUpDealerReassignsButton(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 3)
	require.Equal(t, 0, tbl.DealerSeat)

	require.NoError(t, tbl.StandUp("p0"))
	assert.Equal(t, 1, tbl.DealerSeat)
}

func TestStandUpMidHandFoldsAndAdvances(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 3)
	require.NoError(t, tbl.DealCards())

	// Dealer is first to act three-handed preflop (seat after BB).
	require.Equal(t, 0, tbl.ActorSeat)
	require.NoError(t, tbl.StandUp("p0"))

	// Seat is kept, marked folded+left, and the turn moved on.
	require.NotNil(t, tbl.Seats[0])
	assert.True(t, tbl.Seats[0].Folded)
	assert.True(t, tbl.Seats[0].Left)
	assert.Equal(t, 1, tbl.ActorSeat)
}

func TestStandUpMidHandChipsStayInPlay(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 3)
	require.NoError(t, tbl.DealCards())
	total := tbl.TotalChips()

	// Small blind leaves mid-hand; the posted blind is not refunded.
	require.NoError(t, tbl.StandUp("p1"))
	assert.Equal(t, total, tbl.TotalChips())
}

func TestCleanUpRemovesLeftAndBusted(t *testing.T) {
	t.Parallel()
	tbl := newTestTable()
	sit(t, tbl, 3)
	tbl.Seats[1].Left = true
	tbl.Seats[2].StackSize = 0

	tbl.CleanUpTable()

	assert.NotNil(t, tbl.Seats[0])
	assert.Nil(t, tbl.Seats[1])
	assert.Nil(t, tbl.Seats[2])
	assert.Len(t, tbl.Pots, 1)
	assert.Equal(t, 0, tbl.Pots[0].Amount)
	assert.Equal(t, NoSeat, tbl.ActorSeat)
	assert.False(t, tbl.IsShowdown)
}
