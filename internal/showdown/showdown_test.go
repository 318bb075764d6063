package showdown

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerbot-runtime/internal/card"
)

func mustCards(t *testing.T, tokens ...string) []card.Card {
	t.Helper()
	out := make([]card.Card, 0, len(tokens))
	for _, tok := range tokens {
		c, err := card.Parse(tok)
		require.NoError(t, err, "parsing %q", tok)
		out = append(out, c)
	}
	return out
}

func TestProcessHandRoyalFlush(t *testing.T) {
	e := NewStandard()
	hand := e.ProcessHand(mustCards(t, "As", "Ks", "Qs", "Js", "Ts"))
	require.Equal(t, KindHand, hand.Kind)
	assert.Equal(t, RoyalFlush, hand.Category)
}

func TestProcessHandFlushSuppressesStraightDraw(t *testing.T) {
	e := NewStandard()
	hand := e.ProcessHand(mustCards(t, "Ah", "Kh", "Qh", "Jh", "9h"))
	require.Equal(t, KindHand, hand.Kind)
	assert.Equal(t, Flush, hand.Category)
	for _, ph := range e.PotentialHands(mustCards(t, "Ah", "Kh", "Qh", "Jh", "9h"), true) {
		assert.NotEqual(t, KindStraightDraw, ph.Kind, "the flush covers every straight draw's cards")
	}
}

func TestProcessHandWheelStraightFlushNotRoyal(t *testing.T) {
	e := NewStandard()
	hand := e.ProcessHand(mustCards(t, "5c", "4c", "3c", "2c", "Ac"))
	require.Equal(t, KindHand, hand.Kind)
	assert.Equal(t, StraightFlush, hand.Category, "a wheel straight flush must not be reported as a royal flush")
}

func TestProcessHandWheelStraightNotFlush(t *testing.T) {
	e := NewStandard()
	hand := e.ProcessHand(mustCards(t, "5c", "4d", "3c", "2h", "As"))
	require.Equal(t, KindHand, hand.Kind)
	assert.Equal(t, Straight, hand.Category)
}

func TestProcessHandFourOfAKind(t *testing.T) {
	e := NewStandard()
	hand := e.ProcessHand(mustCards(t, "9s", "9h", "9d", "9c", "2h"))
	require.Equal(t, KindHand, hand.Kind)
	assert.Equal(t, FourOfAKind, hand.Category)
}

func TestProcessHandFullHouse(t *testing.T) {
	e := NewStandard()
	hand := e.ProcessHand(mustCards(t, "9s", "9h", "9d", "2c", "2h"))
	require.Equal(t, KindHand, hand.Kind)
	assert.Equal(t, FullHouse, hand.Category)
}

func TestProcessHandTwoPair(t *testing.T) {
	e := NewStandard()
	hand := e.ProcessHand(mustCards(t, "9s", "9h", "2d", "2c", "4h"))
	require.Equal(t, KindHand, hand.Kind)
	assert.Equal(t, TwoPair, hand.Category)
}

func TestProcessHandHighCardFallback(t *testing.T) {
	e := NewStandard()
	hand := e.ProcessHand(mustCards(t, "Ah", "Kd", "9c", "4s", "2h"))
	assert.Equal(t, KindHighCard, hand.Kind)
	assert.Equal(t, card.Ace, hand.Cards[0].Rank)
}

func TestProcessHandIdempotentUnderPermutation(t *testing.T) {
	e := NewStandard()
	base := mustCards(t, "Ah", "Kd", "9c", "4s", "2h", "Jh", "Tc")
	first := e.ProcessHand(base)

	shuffled := append([]card.Card(nil), base...)
	rng := rand.New(rand.NewSource(1))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	second := e.ProcessHand(shuffled)

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Category, second.Category)
}

func TestCompareAntisymmetric(t *testing.T) {
	e := NewStandard()
	a := e.ProcessHand(mustCards(t, "As", "Ks", "Qs", "Js", "Ts"))
	b := e.ProcessHand(mustCards(t, "9s", "9h", "9d", "9c", "2h"))
	ab := e.Compare(a, b)
	ba := e.Compare(b, a)
	if ab == 0 {
		assert.Equal(t, 0, ba)
	} else {
		assert.Equal(t, -1, sign(ab)*sign(ba))
	}
}

func TestCompareOrdersMadeHandsByCategory(t *testing.T) {
	e := NewStandard()
	worse := e.ProcessHand(mustCards(t, "9s", "9h", "2d", "2c", "4h")) // two pair
	better := e.ProcessHand(mustCards(t, "9s", "9h", "9d", "2c", "2h")) // full house
	assert.True(t, e.Compare(better, worse) > 0)
	assert.True(t, e.Compare(worse, better) < 0)
}

func TestMadeHandAlwaysBeatsDraw(t *testing.T) {
	e := NewStandard()
	made := hand(Pair, mustCards(t, "2s", "2h"))
	draw := straightFlushDraw(mustCards(t, "9s", "8s", "7s", "6s"), OpenEnded)
	assert.True(t, e.Compare(made, draw) > 0)
	assert.True(t, e.Compare(draw, made) < 0)
}

// TestTextbookCategoryFor5CardHands spot-checks process_hand against the
// textbook poker category for a sample of distinct 5-card combinations
// covering every category, verifying the pruning pass always collapses to
// the single strongest report (spec property: category always matches the
// textbook classification).
func TestTextbookCategoryFor5CardHands(t *testing.T) {
	e := NewStandard()
	cases := []struct {
		name string
		toks []string
		want Category
	}{
		{"pair", []string{"2s", "2h", "5d", "9c", "Kh"}, Pair},
		{"two pair", []string{"2s", "2h", "5d", "5c", "Kh"}, TwoPair},
		{"trips", []string{"2s", "2h", "2d", "9c", "Kh"}, ThreeOfAKind},
		{"straight", []string{"4s", "5h", "6d", "7c", "8h"}, Straight},
		{"flush", []string{"2s", "5s", "9s", "Js", "Ks"}, Flush},
		{"full house", []string{"2s", "2h", "2d", "9c", "9h"}, FullHouse},
		{"quads", []string{"2s", "2h", "2d", "2c", "9h"}, FourOfAKind},
		{"straight flush", []string{"4s", "5s", "6s", "7s", "8s"}, StraightFlush},
		{"royal flush", []string{"Ts", "Js", "Qs", "Ks", "As"}, RoyalFlush},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hand := e.ProcessHand(mustCards(t, tc.toks...))
			require.Equal(t, KindHand, hand.Kind)
			assert.Equal(t, tc.want, hand.Category)
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
