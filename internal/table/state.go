// Package table implements the betting state machine: GameState tracks
// overall match progress, RoundState tracks one hand's game tree, and
// TerminalState captures the payoff once a round ends.
package table

import "github.com/lox/pokerbot-runtime/internal/card"

const (
	NumRounds     = 1000
	StartingStack = 200
	SmallBlind    = 1
	BigBlind      = 2
)

// GameState tracks progress across the whole match.
type GameState struct {
	Bankroll  int64
	GameClock float32
	RoundNum  uint32
}

// TerminalState is the payoff snapshot once a round has ended.
type TerminalState struct {
	Deltas   [2]int32
	Previous *RoundState
}

// RoundState is the game tree for a single round of poker.
type RoundState struct {
	Button   uint32
	Street   uint32
	Pips     [2]uint32
	Stacks   [2]uint32
	Hands    [2]*card.Hole
	Deck     card.Board
	Previous *RoundState
}

// clone returns a shallow copy suitable for chaining into Previous; Deck
// and Hands are shared since neither is mutated in place after creation.
func (r *RoundState) clone() *RoundState {
	cp := *r
	return &cp
}

// Active returns the seat index (0 or 1) that is on turn.
func (r *RoundState) Active() int {
	return int(r.Button % 2)
}

// ContinueCost is the chip gap the active seat must call to stay in.
func (r *RoundState) ContinueCost() uint32 {
	active := r.Active()
	return r.Pips[1-active] - r.Pips[active]
}

// Showdown builds the zero-delta terminal state preceding the real payoff,
// which arrives separately via a Delta event.
func (r *RoundState) Showdown() *TerminalState {
	return &TerminalState{Deltas: [2]int32{0, 0}, Previous: r}
}
