package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRound() *RoundState {
	return &RoundState{
		Button: 0,
		Street: 0,
		Pips:   [2]uint32{SmallBlind, BigBlind},
		Stacks: [2]uint32{StartingStack - SmallBlind, StartingStack - BigBlind},
	}
}

func TestLegalActionsPreflop(t *testing.T) {
	r := startRound()
	// seat 0 (SB) is active, facing a cc of 1
	assert.Equal(t, 0, r.Active())
	assert.Equal(t, uint32(1), r.ContinueCost())
	legal := r.LegalActions()
	assert.True(t, legal.Has(LegalFold))
	assert.True(t, legal.Has(LegalCall))
	assert.True(t, legal.Has(LegalRaise))
	assert.False(t, legal.Has(LegalCheck))
}

func TestLegalActionsNoContinueCost(t *testing.T) {
	r := &RoundState{
		Button: 1,
		Street: 0,
		Pips:   [2]uint32{2, 2},
		Stacks: [2]uint32{198, 198},
	}
	legal := r.LegalActions()
	assert.True(t, legal.Has(LegalCheck))
	assert.True(t, legal.Has(LegalRaise))
	assert.False(t, legal.Has(LegalFold))
	assert.False(t, legal.Has(LegalCall))
}

func TestLegalActionsAllIn(t *testing.T) {
	r := &RoundState{
		Button: 1,
		Street: 0,
		Pips:   [2]uint32{200, 0},
		Stacks: [2]uint32{0, 200},
	}
	legal := r.LegalActions()
	assert.True(t, legal.Has(LegalFold))
	assert.True(t, legal.Has(LegalCall))
	assert.False(t, legal.Has(LegalRaise), "opponent has no stack left, raise must be forbidden")
}

func TestRaiseBounds(t *testing.T) {
	r := startRound()
	min, max := r.RaiseBounds()
	// cc=1; max_contrib = min(199, 198+1) = 199; min_contrib = min(199, 1+max(1,2)) = 3
	assert.Equal(t, uint32(4), min) // pips[active]=1 + 3
	assert.Equal(t, uint32(200), max)
}

func TestProceedFoldZeroSum(t *testing.T) {
	r := startRound()
	res := r.Proceed(Action{Kind: Fold})
	require.NotNil(t, res.Terminal)
	assert.Equal(t, int32(0), res.Terminal.Deltas[0]+res.Terminal.Deltas[1])
}

func TestProceedCallPreflopResetsToBigBlind(t *testing.T) {
	r := startRound()
	res := r.Proceed(Action{Kind: Call})
	require.NotNil(t, res.Round)
	assert.Equal(t, uint32(1), res.Round.Button)
	assert.Equal(t, [2]uint32{BigBlind, BigBlind}, res.Round.Pips)
	assert.Equal(t, [2]uint32{StartingStack - BigBlind, StartingStack - BigBlind}, res.Round.Stacks)
}

func TestProceedCheckBothActedAdvancesStreet(t *testing.T) {
	r := &RoundState{
		Button: 1,
		Street: 0,
		Pips:   [2]uint32{2, 2},
		Stacks: [2]uint32{198, 198},
		Deck:   nil,
	}
	res := r.Proceed(Action{Kind: Check})
	require.NotNil(t, res.Round)
	assert.Equal(t, uint32(1), res.Round.Button)
	assert.Equal(t, [2]uint32{0, 0}, res.Round.Pips)
}

func TestProceedRaiseNoAutoAdvance(t *testing.T) {
	r := startRound()
	res := r.Proceed(Action{Kind: Raise, Amount: 10})
	require.NotNil(t, res.Round)
	assert.Equal(t, uint32(1), res.Round.Button)
	assert.Equal(t, uint32(10), res.Round.Pips[0])
	assert.Equal(t, uint32(StartingStack-SmallBlind-9), res.Round.Stacks[0])
}

func TestProceedStreetRiverGoesToShowdown(t *testing.T) {
	r := &RoundState{Street: 5, Stacks: [2]uint32{100, 100}}
	res := r.ProceedStreet()
	require.NotNil(t, res.Terminal)
	assert.Equal(t, [2]int32{0, 0}, res.Terminal.Deltas)
}

func TestStacksPlusPipsNonIncreasing(t *testing.T) {
	r := startRound()
	before := r.Stacks[0] + r.Pips[0]
	res := r.Proceed(Action{Kind: Raise, Amount: 20})
	after := res.Round.Stacks[0] + res.Round.Pips[0]
	assert.Equal(t, before, after, "committing chips must not change stacks+pips total")
}
