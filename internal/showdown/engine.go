package showdown

import (
	"fmt"
	"sort"

	"github.com/lox/pokerbot-runtime/internal/card"
)

// Ordering defines the low-to-high rank order the engine scores by.
// Standard Hold'em play uses StandardOrdering.
type Ordering [13]card.Rank

// StandardOrdering is 2,3,4,5,6,7,8,9,T,J,Q,K,A low to high.
var StandardOrdering = Ordering{
	card.Two, card.Three, card.Four, card.Five, card.Six, card.Seven,
	card.Eight, card.Nine, card.Ten, card.Jack, card.Queen, card.King, card.Ace,
}

// Engine detects hands and draws and totally orders the results, according
// to a configurable rank ordering.
type Engine struct {
	ordering Ordering
}

// New builds an Engine over a custom low-to-high rank ordering.
func New(ordering Ordering) *Engine {
	return &Engine{ordering: ordering}
}

// NewStandard builds an Engine using StandardOrdering.
func NewStandard() *Engine {
	return New(StandardOrdering)
}

func (e *Engine) rankIndex(r card.Rank) int {
	for i, v := range e.ordering {
		if v == r {
			return i
		}
	}
	panic(fmt.Sprintf("showdown: rank %v not present in ordering", r))
}

// ValueOrder compares two ranks under the engine's ordering: -1 if a<b,
// 0 if equal, 1 if a>b.
func (e *Engine) ValueOrder(a, b card.Rank) int {
	ia, ib := e.rankIndex(a), e.rankIndex(b)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}

// HighestCard returns the card with the greatest rank under the ordering.
func (e *Engine) HighestCard(cards []card.Card) card.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if e.ValueOrder(c.Rank, best.Rank) > 0 {
			best = c
		}
	}
	return best
}

// MakeUnique deduplicates a card multiset by identity, preserving the
// first occurrence's position. Detection results are undefined for a hand
// containing duplicates, so callers should always dedupe first.
func MakeUnique(cards []card.Card) []card.Card {
	out := make([]card.Card, 0, len(cards))
	seen := make(map[card.Card]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// setKey builds a canonical, order-independent identity for a card set so
// that two differently-ordered slices of the same cards compare equal.
func setKey(cards []card.Card) string {
	cp := append([]card.Card(nil), cards...)
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].Rank != cp[j].Rank {
			return cp[i].Rank < cp[j].Rank
		}
		return cp[i].Suit < cp[j].Suit
	})
	buf := make([]byte, 0, len(cp)*2)
	for _, c := range cp {
		buf = append(buf, []byte(c.String())...)
	}
	return string(buf)
}

func setsEqual(a, b []card.Card) bool {
	return setKey(a) == setKey(b)
}
