// Package agent defines the callback interface the engine drives a
// decision-making strategy through, and a reference implementation
// (CallStation) useful for smoke-testing a connection.
package agent

import (
	"github.com/lox/pokerbot-runtime/internal/table"
)

// Agent reacts to the three moments the engine can tell a strategy about: a
// new round starting, a round resolving, and its own turn to act. All three
// receive the seat this agent is occupying this round so a single Agent
// value can in principle be reused across seats.
type Agent interface {
	NewRound(gs *table.GameState, rs *table.RoundState, seat int) error
	RoundOver(gs *table.GameState, ts *table.TerminalState, seat int) error
	GetAction(gs *table.GameState, rs *table.RoundState, seat int) (table.Action, error)
}

// CallStation never folds and never raises: it calls or checks whenever
// either is legal, and only folds when neither is available. Useful as a
// default agent for exercising the transport and engine layers end to end.
type CallStation struct{}

func (CallStation) NewRound(*table.GameState, *table.RoundState, int) error { return nil }

func (CallStation) RoundOver(*table.GameState, *table.TerminalState, int) error { return nil }

func (CallStation) GetAction(_ *table.GameState, rs *table.RoundState, _ int) (table.Action, error) {
	legal := rs.LegalActions()
	if legal.Has(table.LegalCheck) {
		return table.Action{Kind: table.Check}, nil
	}
	if legal.Has(table.LegalCall) {
		return table.Action{Kind: table.Call}, nil
	}
	return table.Action{Kind: table.Fold}, nil
}

var _ Agent = CallStation{}
