package showdown

import (
	"sort"

	"github.com/lox/pokerbot-runtime/internal/card"
)

// PotentialHands enumerates every made hand and draw detectable in cards,
// pruned so a stronger result that covers a weaker one's cards suppresses
// it. When straightsEnabled is false, straight and straight-flush
// detection is skipped entirely, leaving only the pair and flush families.
func (e *Engine) PotentialHands(cards []card.Card, straightsEnabled bool) []PotentialHand {
	pairs := e.detectOfAKind(cards, 2)
	threes := e.detectOfAKind(cards, 3)
	fours := e.detectOfAKind(cards, 4)
	flushesAll := e.detectFlushes(cards)

	var straights []straightCandidate
	var straightFlushes []straightCandidate
	if straightsEnabled {
		straights = e.detectStraights(cards)
		straightFlushes = e.detectStraightFlushes(straights, flushesAll)
	}

	var out []PotentialHand

	for _, four := range fours {
		out = append(out, hand(FourOfAKind, four))
	}

	for _, three := range threes {
		out = append(out, hand(ThreeOfAKind, three))
		threeRank := three[0].Rank
		for _, pair := range pairs {
			if pair[0].Rank == threeRank {
				continue
			}
			out = append(out, hand(FullHouse, append(append([]card.Card(nil), three...), pair...)))
		}
	}

	for _, pair := range pairs {
		out = append(out, hand(Pair, pair))
	}
	for i := range pairs {
		for j := i + 1; j < len(pairs); j++ {
			if pairs[i][0].Rank == pairs[j][0].Rank {
				continue
			}
			combined := append(append([]card.Card(nil), pairs[i]...), pairs[j]...)
			out = append(out, hand(TwoPair, combined))
		}
	}

	for _, s := range straights {
		if s.Draw == Complete {
			out = append(out, hand(Straight, s.Cards))
		} else {
			out = append(out, straightDraw(s.Cards, s.Draw))
		}
	}

	for _, f := range flushesAll {
		switch len(f) {
		case 5:
			out = append(out, hand(Flush, f))
		case 4:
			out = append(out, flushDraw(f))
		}
	}

	for _, sf := range straightFlushes {
		hc := e.HighestCard(sf.Cards).Rank
		if sf.Draw == Complete {
			if !sf.Wheel && hc == e.ordering[12] {
				out = append(out, hand(RoyalFlush, sf.Cards))
			} else {
				out = append(out, hand(StraightFlush, sf.Cards))
			}
			continue
		}
		if !sf.Wheel && (hc == e.ordering[12] || hc == e.ordering[11]) {
			out = append(out, royalFlushDraw(sf.Cards, sf.Draw))
		} else {
			out = append(out, straightFlushDraw(sf.Cards, sf.Draw))
		}
	}

	return e.prune(out)
}

// prune removes any candidate whose card set is covered (a subset of, or
// equal to) a strictly better-or-equal candidate's card set — e.g. once a
// straight flush covers a straight or flush, or a full house covers its
// participating triple and pair, the weaker report is suppressed.
func (e *Engine) prune(candidates []PotentialHand) []PotentialHand {
	ordered := append([]PotentialHand(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return e.Compare(ordered[i], ordered[j]) > 0
	})

	suppressed := make([]bool, len(ordered))
	for i := range ordered {
		if suppressed[i] {
			continue
		}
		for j := i + 1; j < len(ordered); j++ {
			if suppressed[j] {
				continue
			}
			if isSubset(ordered[j].Cards, ordered[i].Cards) {
				suppressed[j] = true
			}
		}
	}

	var out []PotentialHand
	for i, c := range ordered {
		if !suppressed[i] {
			out = append(out, c)
		}
	}
	return out
}

func isSubset(small, big []card.Card) bool {
	set := make(map[card.Card]struct{}, len(big))
	for _, c := range big {
		set[c] = struct{}{}
	}
	for _, c := range small {
		if _, ok := set[c]; !ok {
			return false
		}
	}
	return true
}

// ProcessHand deduplicates cards and returns the single best PotentialHand,
// falling back to HighCard when nothing else was detected.
func (e *Engine) ProcessHand(cards []card.Card) PotentialHand {
	unique := MakeUnique(cards)
	candidates := e.PotentialHands(unique, true)
	if len(candidates) == 0 {
		return highCard(e.HighestCard(unique))
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if e.Compare(c, best) > 0 {
			best = c
		}
	}
	return best
}
