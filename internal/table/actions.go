package table

// ActionKind enumerates the four actions a seat may take.
type ActionKind int

const (
	Fold ActionKind = iota
	Call
	Check
	Raise
)

// Action is one legal or proposed move. Amount is only meaningful for Raise,
// and is the total pip target, not an increment.
type Action struct {
	Kind   ActionKind
	Amount uint32
}

func (a Action) String() string {
	switch a.Kind {
	case Fold:
		return "Fold"
	case Call:
		return "Call"
	case Check:
		return "Check"
	case Raise:
		return "Raise"
	default:
		return "?"
	}
}

// LegalSet is a bitmask of which action kinds are legal in a RoundState.
type LegalSet uint8

const (
	LegalFold LegalSet = 1 << iota
	LegalCall
	LegalCheck
	LegalRaise
)

func (s LegalSet) Has(kind LegalSet) bool { return s&kind != 0 }

// LegalActions returns the bitmask of actions the active seat may take.
func (r *RoundState) LegalActions() LegalSet {
	active := r.Active()
	cc := r.ContinueCost()
	if cc == 0 {
		betsForbidden := r.Stacks[0] == 0 || r.Stacks[1] == 0
		if betsForbidden {
			return LegalCheck
		}
		return LegalCheck | LegalRaise
	}
	raisesForbidden := cc == r.Stacks[active] || r.Stacks[1-active] == 0
	if raisesForbidden {
		return LegalFold | LegalCall
	}
	return LegalFold | LegalCall | LegalRaise
}

// RaiseBounds returns [min, max] total-pip raise targets, inclusive of
// neither endpoint under the runtime's strict legalisation convention (see
// legalize in internal/engine).
func (r *RoundState) RaiseBounds() (min, max uint32) {
	active := r.Active()
	cc := r.ContinueCost()
	maxContrib := minU32(r.Stacks[active], r.Stacks[1-active]+cc)
	minContrib := minU32(maxContrib, cc+maxU32(cc, BigBlind))
	return r.Pips[active] + minContrib, r.Pips[active] + maxContrib
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// StepResult holds exactly one of Round or Terminal, mirroring the
// engine's two-way fork after an action is applied.
type StepResult struct {
	Round    *RoundState
	Terminal *TerminalState
}

// Proceed advances the game tree by one action taken by the active seat.
func (r *RoundState) Proceed(a Action) StepResult {
	active := r.Active()
	switch a.Kind {
	case Fold:
		var delta int32
		if active == 0 {
			delta = satSub32(r.Stacks[0], StartingStack)
		} else {
			delta = int32(StartingStack) - int32(r.Stacks[1])
		}
		return StepResult{Terminal: &TerminalState{
			Deltas:   [2]int32{delta, -delta},
			Previous: r,
		}}

	case Call:
		if r.Button == 0 {
			return StepResult{Round: &RoundState{
				Button:   1,
				Street:   0,
				Pips:     [2]uint32{BigBlind, BigBlind},
				Stacks:   [2]uint32{StartingStack - BigBlind, StartingStack - BigBlind},
				Hands:    r.Hands,
				Deck:     r.Deck,
				Previous: r.clone(),
			}}
		}
		newPips := r.Pips
		newStacks := r.Stacks
		contrib := newPips[1-active] - newPips[active]
		newStacks[active] -= contrib
		newPips[active] += contrib
		next := &RoundState{
			Button:   r.Button + 1,
			Street:   r.Street,
			Pips:     newPips,
			Stacks:   newStacks,
			Hands:    r.Hands,
			Deck:     r.Deck,
			Previous: r.clone(),
		}
		return next.ProceedStreet()

	case Check:
		if (r.Street == 0 && r.Button > 0) || r.Button > 1 {
			return r.ProceedStreet()
		}
		return StepResult{Round: &RoundState{
			Button:   r.Button + 1,
			Street:   r.Street,
			Pips:     r.Pips,
			Stacks:   r.Stacks,
			Hands:    r.Hands,
			Deck:     r.Deck,
			Previous: r.clone(),
		}}

	case Raise:
		newPips := r.Pips
		newStacks := r.Stacks
		contrib := a.Amount - newPips[active]
		newStacks[active] -= contrib
		newPips[active] = a.Amount
		return StepResult{Round: &RoundState{
			Button:   r.Button + 1,
			Street:   r.Street,
			Pips:     newPips,
			Stacks:   newStacks,
			Hands:    r.Hands,
			Deck:     r.Deck,
			Previous: r.clone(),
		}}
	}
	panic("table: unknown action kind")
}

// ProceedStreet resets pips and advances to the next betting street, or
// resolves to a showdown terminal once street 5 (the river) is complete.
func (r *RoundState) ProceedStreet() StepResult {
	if r.Street == 5 {
		return StepResult{Terminal: r.Showdown()}
	}
	newStreet := uint32(len(r.Deck))
	return StepResult{Round: &RoundState{
		Button:   1,
		Street:   newStreet,
		Pips:     [2]uint32{0, 0},
		Stacks:   r.Stacks,
		Hands:    r.Hands,
		Deck:     r.Deck,
		Previous: r.clone(),
	}}
}

// satSub32 is the saturating subtraction used for the fold-delta guard:
// a stack can never owe more than it started with.
func satSub32(a, b uint32) int32 {
	if a < b {
		return 0
	}
	return int32(a - b)
}
