// Package protocol implements the engine's line-oriented wire format: one
// newline-terminated line of whitespace-separated tokens per update, each
// token a single tag character followed by its argument.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/pokerbot-runtime/internal/card"
	"github.com/lox/pokerbot-runtime/internal/table"
)

// Kind distinguishes the eleven token tags the engine can send.
type Kind int

const (
	GameClock Kind = iota
	PlayerIndex
	Hand
	Fold
	Call
	Check
	Raise
	Board
	Reveal
	Delta
	Quit
)

func (k Kind) String() string {
	switch k {
	case GameClock:
		return "GameClock"
	case PlayerIndex:
		return "PlayerIndex"
	case Hand:
		return "Hand"
	case Fold:
		return "Fold"
	case Call:
		return "Call"
	case Check:
		return "Check"
	case Raise:
		return "Raise"
	case Board:
		return "Board"
	case Reveal:
		return "Reveal"
	case Delta:
		return "Delta"
	case Quit:
		return "Quit"
	default:
		return "?"
	}
}

// Event is one decoded token. Only the fields relevant to Kind are valid.
type Event struct {
	Kind        Kind
	GameClock   float32
	PlayerIndex int
	Hand        card.Hole
	RaiseAmount uint32
	Board       card.Board
	Delta       int32
}

// ParseLine splits a line into whitespace-separated tokens and decodes each
// into an Event, in the order they appeared. An error in any one token
// aborts decoding the whole line.
func ParseLine(line string) ([]Event, error) {
	fields := strings.Fields(line)
	events := make([]Event, 0, len(fields))
	for _, tok := range fields {
		ev, err := parseToken(tok)
		if err != nil {
			return nil, fmt.Errorf("protocol: token %q: %w", tok, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseToken(tok string) (Event, error) {
	if len(tok) == 0 {
		return Event{}, fmt.Errorf("empty token")
	}
	tag, arg := tok[0], tok[1:]
	switch tag {
	case 'T':
		v, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return Event{}, fmt.Errorf("expected float for game clock: %w", err)
		}
		return Event{Kind: GameClock, GameClock: float32(v)}, nil
	case 'P':
		v, err := strconv.Atoi(arg)
		if err != nil {
			return Event{}, fmt.Errorf("expected integer for player index: %w", err)
		}
		return Event{Kind: PlayerIndex, PlayerIndex: v}, nil
	case 'H':
		hole, err := parseHole(arg)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: Hand, Hand: hole}, nil
	case 'F':
		return Event{Kind: Fold}, nil
	case 'C':
		return Event{Kind: Call}, nil
	case 'K':
		return Event{Kind: Check}, nil
	case 'R':
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return Event{}, fmt.Errorf("expected positive integer for raise amount: %w", err)
		}
		return Event{Kind: Raise, RaiseAmount: uint32(v)}, nil
	case 'B':
		board, err := parseBoard(arg)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: Board, Board: board}, nil
	case 'O':
		hole, err := parseHole(arg)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: Reveal, Hand: hole}, nil
	case 'D':
		v, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return Event{}, fmt.Errorf("expected integer for delta: %w", err)
		}
		return Event{Kind: Delta, Delta: int32(v)}, nil
	case 'Q':
		return Event{Kind: Quit}, nil
	default:
		return Event{}, fmt.Errorf("unknown tag %q", tag)
	}
}

func parseBoard(arg string) (card.Board, error) {
	cards, err := parseCards(arg)
	if err != nil {
		return nil, err
	}
	return card.Board(cards), nil
}

func parseHole(arg string) (card.Hole, error) {
	cards, err := parseCards(arg)
	if err != nil {
		return card.Hole{}, err
	}
	if len(cards) != 2 {
		return card.Hole{}, fmt.Errorf("expected 2 cards, got %d", len(cards))
	}
	return card.Hole{cards[0], cards[1]}, nil
}

// parseCards splits a token argument into comma-joined cards (the "H",
// "B", "O" tags all carry this form; see DESIGN.md for why comma-joined
// was picked over a fixed 2-character run).
func parseCards(arg string) ([]card.Card, error) {
	parts := strings.Split(arg, ",")
	cards := make([]card.Card, 0, len(parts))
	for _, p := range parts {
		c, err := card.Parse(p)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// EncodeAction renders an outgoing action in wire form, with no trailing
// newline.
func EncodeAction(a table.Action) string {
	switch a.Kind {
	case table.Fold:
		return "F"
	case table.Call:
		return "C"
	case table.Check:
		return "K"
	case table.Raise:
		return fmt.Sprintf("R%d", a.Amount)
	default:
		return "K"
	}
}
