// Package engine drives the connection loop: it reads engine updates off
// the wire, applies them to the match's game-tree state in causal order,
// and replies with the agent's action when it's this bot's turn.
package engine

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerbot-runtime/internal/agent"
	"github.com/lox/pokerbot-runtime/internal/card"
	"github.com/lox/pokerbot-runtime/internal/protocol"
	"github.com/lox/pokerbot-runtime/internal/table"
	"github.com/lox/pokerbot-runtime/internal/transport"
	"github.com/lox/pokerbot-runtime/internal/workerpool"
)

// compTime bounds how long a single session may run before it's forced to
// end, a safety valve against a stalled engine never sending Quit.
const compTime = 60 * time.Second

// gameClockEpsilon matches runner.rs's relative_eq!(game_clock, 0.0,
// epsilon=0.001) tolerance for "effectively out of time".
const gameClockEpsilon = 0.001

// monitorInterval is how often the termination conditions are re-checked.
const monitorInterval = time.Millisecond

// matchRoundLimit is one past the last playable round; the engine sends no
// further Hand event once round_num reaches it.
const matchRoundLimit = table.NumRounds + 1

// pollLock spins on TryLock until it succeeds. Acquiring state for write
// access never blocks on a held lock: it retries instead, so a slow
// responder job never stalls the receiver from making progress.
func pollLock(mu *sync.RWMutex) {
	for !mu.TryLock() {
	}
}

// pollRLock is pollLock's read-side counterpart.
func pollRLock(mu *sync.RWMutex) {
	for !mu.TryRLock() {
	}
}

// Runner owns the connection and the (GameState, RoundState, TerminalState)
// triple and drives them forward as engine updates arrive.
type Runner struct {
	sock   *transport.Socket
	pool   *workerpool.Pool
	agent  agent.Agent
	logger *log.Logger
	clock  quartz.Clock

	gameMu sync.RWMutex
	game   *table.GameState

	roundMu sync.RWMutex
	round   *table.RoundState

	termMu sync.RWMutex
	term   *table.TerminalState

	seat atomic.Int32

	events chan protocol.Event
	errs   chan error

	start time.Time
}

// New builds a Runner ready to Run over sock, using pool to fan out the
// receive/dispatch/respond work and ag to make decisions.
func New(sock *transport.Socket, pool *workerpool.Pool, ag agent.Agent, logger *log.Logger) *Runner {
	clock := quartz.NewReal()
	return newRunner(sock, pool, ag, logger, clock)
}

// newRunner builds a Runner over an explicit clock, letting tests drive
// session termination with quartz.NewMock() instead of real time.
func newRunner(sock *transport.Socket, pool *workerpool.Pool, ag agent.Agent, logger *log.Logger, clock quartz.Clock) *Runner {
	return &Runner{
		sock:   sock,
		pool:   pool,
		agent:  ag,
		logger: logger,
		clock:  clock,
		game:   &table.GameState{RoundNum: 1},
		events: make(chan protocol.Event, 256),
		errs:   make(chan error, 1),
		start:  clock.Now(),
	}
}

// Run processes engine updates until a Quit event, a fatal transport
// error, the socket closing, or one of monitorLoop's end-of-session
// conditions. Respond work is fanned out to the worker
// pool (see maybeRespond); receive and dispatch each get their own
// dedicated goroutine, since both are long-lived loops rather than
// discrete jobs.
func (r *Runner) Run() error {
	finished := make(chan struct{}, 2)
	done := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		defer func() { finished <- struct{}{} }()
		return r.receiveLoop()
	})
	g.Go(func() error {
		defer func() { finished <- struct{}{} }()
		return r.dispatchLoop()
	})
	g.Go(func() error {
		defer close(done)
		select {
		case err := <-r.errs:
			return err
		case <-finished:
			return errDone
		}
	})
	g.Go(func() error {
		err := r.monitorLoop(done)
		// Closing the socket unblocks receiveLoop's pending read, so the
		// session ends as soon as monitorLoop (or dispatch) is done.
		r.sock.Close()
		return err
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, errDone) && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// monitorLoop ends the session once the match is over, the engine's clock
// for this bot has run out, or the session has run past the compute-time
// ceiling, mirroring runner.rs's post-dispatch termination check. done is
// closed once the receive/dispatch side has already finished on its own.
func (r *Runner) monitorLoop(done <-chan struct{}) error {
	ticker := r.clock.NewTicker(monitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return errDone
		case <-ticker.C:
			if r.sessionOver() {
				return errDone
			}
		}
	}
}

// sessionOver reports whether any of the three match-ending conditions hold:
// this bot's game clock has run out past round 1, the session has run past
// the compute-time ceiling, or the match round limit was reached with no
// round in progress.
func (r *Runner) sessionOver() bool {
	pollRLock(&r.gameMu)
	game := *r.game
	r.gameMu.RUnlock()

	pollRLock(&r.roundMu)
	roundActive := r.round != nil
	r.roundMu.RUnlock()

	outOfTime := game.GameClock < gameClockEpsilon && game.RoundNum > 1
	overBudget := r.clock.Now().Sub(r.start) > compTime
	matchOver := game.RoundNum == matchRoundLimit && !roundActive
	return outOfTime || overBudget || matchOver
}

// receiveLoop reads lines off the socket and decodes them onto the ordered
// event queue, preserving the within-line token order the dispatcher
// depends on to apply same-line updates causally.
func (r *Runner) receiveLoop() error {
	for {
		line, err := r.sock.ReadLine()
		if err != nil {
			close(r.events)
			if errors.Is(err, io.EOF) {
				return errDone
			}
			return fmt.Errorf("engine: receive: %w", err)
		}

		evs, err := protocol.ParseLine(line)
		if err != nil {
			close(r.events)
			return fmt.Errorf("engine: decode: %w", err)
		}
		for _, ev := range evs {
			r.events <- ev
		}
	}
}

// dispatchLoop applies queued events to state in order, invoking the
// agent's callbacks and, once it's our turn, submitting a respond job.
func (r *Runner) dispatchLoop() error {
	for ev := range r.events {
		if ev.Kind == protocol.Quit {
			return errDone
		}
		r.applyEvent(ev)
	}
	return errDone
}

// errDone is a sentinel the run loop resolves back to a nil error: it lets
// the errgroup distinguish "one stage finished cleanly" from "nothing has
// finished yet" without every other still-running stage also returning.
var errDone = errors.New("engine: done")

func (r *Runner) applyEvent(ev protocol.Event) {
	switch ev.Kind {
	case protocol.GameClock:
		pollLock(&r.gameMu)
		r.game.GameClock = ev.GameClock
		r.gameMu.Unlock()

	case protocol.PlayerIndex:
		r.seat.Store(int32(ev.PlayerIndex))

	case protocol.Hand:
		seat := int(r.seat.Load())
		pollLock(&r.roundMu)
		hole := ev.Hand
		var hands [2]*card.Hole
		hands[seat] = &hole
		r.round = &table.RoundState{
			Button: 0,
			Street: 0,
			Pips:   [2]uint32{table.SmallBlind, table.BigBlind},
			Stacks: [2]uint32{table.StartingStack - table.SmallBlind, table.StartingStack - table.BigBlind},
			Hands:  hands,
		}
		round := r.round
		r.roundMu.Unlock()

		pollRLock(&r.gameMu)
		game := *r.game
		r.gameMu.RUnlock()
		if err := r.agent.NewRound(&game, round, seat); err != nil {
			r.logger.Error("agent new round callback failed", "error", err)
		}
		r.maybeRespond()

	case protocol.Fold, protocol.Call, protocol.Check, protocol.Raise:
		action := decodeAction(ev)
		pollLock(&r.roundMu)
		if r.round == nil {
			r.roundMu.Unlock()
			r.logger.Error("received action with no round in progress")
			return
		}
		result := r.round.Proceed(action)
		if result.Terminal != nil {
			// round is left in place, not cleared: it's only superseded
			// once Delta arrives and folds it into the terminal's history.
			pollLock(&r.termMu)
			r.term = result.Terminal
			r.termMu.Unlock()
		} else {
			r.round = result.Round
		}
		r.roundMu.Unlock()
		r.sock.ClearRoundSent()
		r.maybeRespond()

	case protocol.Board:
		pollLock(&r.roundMu)
		if r.round != nil {
			r.round.Deck = ev.Board
			r.round.Street = uint32(len(ev.Board))
		}
		r.roundMu.Unlock()

	case protocol.Reveal:
		seat := int(r.seat.Load())
		pollLock(&r.roundMu)
		if r.round == nil {
			r.roundMu.Unlock()
			r.logger.Error("received reveal with no round in progress")
			return
		}
		revised := *r.round
		hole := ev.Hand
		revised.Hands[1-seat] = &hole
		r.roundMu.Unlock()

		pollLock(&r.termMu)
		r.term = &table.TerminalState{Deltas: [2]int32{0, 0}, Previous: &revised}
		r.termMu.Unlock()

	case protocol.Delta:
		seat := int(r.seat.Load())
		pollLock(&r.termMu)
		if r.term == nil {
			r.termMu.Unlock()
			r.logger.Error("received delta with no terminal state pending")
			return
		}
		deltas := [2]int32{-ev.Delta, -ev.Delta}
		deltas[seat] = ev.Delta
		term := &table.TerminalState{Deltas: deltas, Previous: r.term.Previous}
		r.term = term
		r.termMu.Unlock()

		pollLock(&r.gameMu)
		r.game.Bankroll += int64(ev.Delta)
		game := *r.game
		r.gameMu.Unlock()

		if err := r.agent.RoundOver(&game, term, seat); err != nil {
			r.logger.Error("agent round over callback failed", "error", err)
		}

		pollLock(&r.gameMu)
		r.game.RoundNum++
		r.gameMu.Unlock()

		pollLock(&r.roundMu)
		r.round = nil
		r.roundMu.Unlock()
	}
}

// maybeRespond submits a respond job when it's our turn and we haven't
// already sent an action for this round.
func (r *Runner) maybeRespond() {
	r.pool.Execute(workerpool.JobRespond, func() {
		pollRLock(&r.roundMu)
		round := r.round
		r.roundMu.RUnlock()
		if round == nil {
			return
		}

		seat := int(r.seat.Load())
		if round.Active() != seat {
			return
		}
		if r.sock.RoundSent() {
			return
		}

		pollRLock(&r.gameMu)
		game := *r.game
		r.gameMu.RUnlock()

		action, err := r.agent.GetAction(&game, round, seat)
		if err != nil {
			r.logger.Error("agent get action failed", "error", err)
			return
		}
		action = legalize(round, action)

		if err := r.sock.WriteLine(protocol.EncodeAction(action)); err != nil {
			r.errs <- fmt.Errorf("engine: respond: %w", err)
		}
	})
}

// legalize clamps an agent's requested action down to something the round
// actually permits: an out-of-bounds or illegal Raise falls back to Check,
// or Call when checking isn't legal; an illegal Check becomes a Fold; and a
// Call or Fold becomes a Check when there's nothing to call.
func legalize(round *table.RoundState, action table.Action) table.Action {
	legal := round.LegalActions()

	switch action.Kind {
	case table.Raise:
		if legal.Has(table.LegalRaise) {
			min, max := round.RaiseBounds()
			if action.Amount > min && action.Amount < max {
				return action
			}
		}
		if legal.Has(table.LegalCheck) {
			return table.Action{Kind: table.Check}
		}
		return table.Action{Kind: table.Call}
	case table.Check:
		if legal.Has(table.LegalCheck) {
			return action
		}
		return table.Action{Kind: table.Fold}
	case table.Call:
		if legal.Has(table.LegalCheck) {
			return table.Action{Kind: table.Check}
		}
		return action
	case table.Fold:
		if legal.Has(table.LegalCheck) {
			return table.Action{Kind: table.Check}
		}
		return action
	default:
		return action
	}
}

func decodeAction(ev protocol.Event) table.Action {
	switch ev.Kind {
	case protocol.Fold:
		return table.Action{Kind: table.Fold}
	case protocol.Call:
		return table.Action{Kind: table.Call}
	case protocol.Check:
		return table.Action{Kind: table.Check}
	case protocol.Raise:
		return table.Action{Kind: table.Raise, Amount: ev.RaiseAmount}
	default:
		return table.Action{Kind: table.Fold}
	}
}
