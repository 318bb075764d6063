package showdown

import "github.com/lox/pokerbot-runtime/internal/card"

// straightCandidate pairs a candidate 4- or 5-card set with how complete it
// is. Wheel marks a candidate built from the duplicated Ace-low bin (the
// A-2-3-4-5 window): its highest card is an Ace by rank value, but it is
// never a royal straight or royal-flush draw.
type straightCandidate struct {
	Cards []card.Card
	Draw  DrawType
	Wheel bool
}

// detectOfAKind bins cards by rank index and, for every bin with at least
// k cards, yields every contiguous k-window of that bin (in encounter
// order) as a candidate set.
func (e *Engine) detectOfAKind(cards []card.Card, k int) [][]card.Card {
	bins := make([][]card.Card, 13)
	for _, c := range cards {
		idx := e.rankIndex(c.Rank)
		bins[idx] = append(bins[idx], c)
	}
	var out [][]card.Card
	for _, bin := range bins {
		if len(bin) < k {
			continue
		}
		for i := 0; i+k <= len(bin); i++ {
			window := append([]card.Card(nil), bin[i:i+k]...)
			out = append(out, window)
		}
	}
	return out
}

// detectFlushes bins cards by suit. A suit with 5 or more cards yields
// every contiguous 5-window (made-flush candidates); a suit with exactly
// 3 or 4 cards yields its whole bin as one candidate (a flush draw, or raw
// material for straight-flush-draw detection). Suits with fewer than 3
// cards never contribute.
func (e *Engine) detectFlushes(cards []card.Card) [][]card.Card {
	var bins [4][]card.Card
	for _, c := range cards {
		bins[c.Suit] = append(bins[c.Suit], c)
	}
	var out [][]card.Card
	for _, bin := range bins {
		switch {
		case len(bin) >= 5:
			for i := 0; i+5 <= len(bin); i++ {
				out = append(out, append([]card.Card(nil), bin[i:i+5]...))
			}
		case len(bin) >= 3:
			out = append(out, append([]card.Card(nil), bin...))
		}
	}
	return out
}

// detectStraights bins cards by rank index into 14 slots (index 0 is a
// duplicate of index 13, the Ace, admitting the wheel A-2-3-4-5) and
// slides a 5-window across them, classifying each window by hole count.
func (e *Engine) detectStraights(cards []card.Card) []straightCandidate {
	var bins [14][]card.Card
	for i := 1; i < 14; i++ {
		for _, c := range cards {
			if e.rankIndex(c.Rank) == i-1 {
				bins[i] = append(bins[i], c)
			}
		}
	}
	bins[0] = bins[13]

	var out []straightCandidate
	for start := 0; start+5 <= 14; start++ {
		window := bins[start : start+5]
		holes := 0
		for _, b := range window {
			if len(b) == 0 {
				holes++
			}
		}
		wheel := start == 0
		switch {
		case holes == 0:
			combos := cartesianProduct(window[0], window[1], window[2], window[3], window[4])
			out = append(out, dedupeCandidates(combos, Complete, wheel)...)
		case holes == 1:
			openEnded := len(window[0]) == 0 || len(window[4]) == 0
			var nonEmpty [][]card.Card
			for _, b := range window {
				if len(b) > 0 {
					nonEmpty = append(nonEmpty, b)
				}
			}
			draw := Inside
			if openEnded {
				draw = OpenEnded
			}
			combos := cartesianProduct(nonEmpty...)
			out = append(out, dedupeCandidates(combos, draw, wheel)...)
		case holes == 2:
			var nonEmptyIdx []int
			for i, b := range window {
				if len(b) > 0 {
					nonEmptyIdx = append(nonEmptyIdx, i)
				}
			}
			if len(nonEmptyIdx) == 3 && nonEmptyIdx[2]-nonEmptyIdx[0] == 2 {
				var nonEmpty [][]card.Card
				for _, i := range nonEmptyIdx {
					nonEmpty = append(nonEmpty, window[i])
				}
				combos := cartesianProduct(nonEmpty...)
				out = append(out, dedupeCandidates(combos, OpenEnded, wheel)...)
			}
		}
	}
	return out
}

// cartesianProduct builds every combination picking exactly one card from
// each non-empty bin passed in.
func cartesianProduct(bins ...[]card.Card) [][]card.Card {
	result := [][]card.Card{{}}
	for _, bin := range bins {
		if len(bin) == 0 {
			continue
		}
		var next [][]card.Card
		for _, partial := range result {
			for _, c := range bin {
				combo := append(append([]card.Card(nil), partial...), c)
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}

func dedupeCandidates(combos [][]card.Card, draw DrawType, wheel bool) []straightCandidate {
	seen := make(map[string]struct{}, len(combos))
	var out []straightCandidate
	for _, combo := range combos {
		key := setKey(combo)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, straightCandidate{Cards: combo, Draw: draw, Wheel: wheel})
	}
	return out
}

// detectStraightFlushes pulls out straights whose card set exactly matches
// one of the flush candidates, i.e. every card shares one suit.
func (e *Engine) detectStraightFlushes(straights []straightCandidate, flushes [][]card.Card) []straightCandidate {
	var out []straightCandidate
	for _, s := range straights {
		for _, f := range flushes {
			if setsEqual(s.Cards, f) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
