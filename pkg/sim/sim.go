// Package sim moves every ant of a nest from the source to the sink in
// synchronized steps without ever exceeding a room's capacity.
//
// # Step Algorithm
//
// Each [Simulator.Step] offers every ant still short of the sink one move.
// It runs in two phases:
//
//  1. Greedy pass. Ants are processed in ascending ID order against a working
//     copy of the occupancy that is updated after every move. An ant takes
//     the sink if it is adjacent, otherwise the available neighbour closest to
//     the sink (first in neighbour order on ties). An ant whose best option is
//     full in the working copy is deferred.
//  2. Batch pass. Deferred ants re-plan against the occupancy as it was before
//     the step. Planned moves are grouped by destination and accepted in ID
//     order while the destination has room, crediting ants that leave that
//     destination in the same batch. This lets two ants swap rooms.
//
// Both phases commit to one authoritative [colony.State]. The working copy
// only serves the greedy pass; it never replaces the authoritative state.
// Every step ends with [colony.State.Verify].
//
// # Termination
//
// [Simulator.Solve] steps until every ant is at the sink
// ([OutcomeDelivered]), a step moves nobody ([OutcomeStalled]), or the step
// limit is reached ([OutcomeStepLimit]). Stalls are outcomes, not errors.
package sim

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/history"
	"github.com/matzehuels/antnest/pkg/nest"
)

// Outcome is how a run ended.
type Outcome string

const (
	// OutcomeDelivered means every ant reached the sink.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeStalled means a step produced no move while ants remained.
	OutcomeStalled Outcome = "stalled"
	// OutcomeStepLimit means the run hit Options.MaxSteps.
	OutcomeStepLimit Outcome = "step_limit"
)

// Success reports whether the outcome delivered every ant.
func (o Outcome) Success() bool { return o == OutcomeDelivered }

// Options configures a simulation.
type Options struct {
	// MaxSteps bounds the run. Zero selects DefaultMaxSteps for the nest.
	MaxSteps int

	// SuppressRegressive keeps an ant in place instead of moving it to a room
	// farther from the sink than its current one.
	SuppressRegressive bool

	// Logger receives per-step debug output. Nil discards it.
	Logger *log.Logger
}

// DefaultMaxSteps returns the step bound used when Options.MaxSteps is zero.
// A greedy run on a connected nest finishes well below it; the bound only
// catches runs where ants oscillate between rooms forever.
func DefaultMaxSteps(n *nest.Nest) int {
	return stepBound(n.Agents(), n.NodeCount())
}

// stepBound is 10*agents*rooms+10, saturating at math.MaxInt.
func stepBound(agents, rooms int) int {
	if agents <= 0 || rooms <= 0 {
		return 10
	}
	limit := (math.MaxInt - 10) / 10
	if agents > limit/rooms {
		return math.MaxInt
	}
	return 10*agents*rooms + 10
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults(n *nest.Nest) {
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps(n)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Simulator drives one run over one nest. It owns the colony state and the
// recorder for that run and is not safe for concurrent use.
type Simulator struct {
	nest  *nest.Nest
	state *colony.State
	rec   *history.Recorder
	opts  Options
	step  int
}

// New creates a simulator with every ant at the source.
func New(n *nest.Nest, opts Options) *Simulator {
	opts.SetDefaults(n)
	return &Simulator{
		nest:  n,
		state: colony.NewState(n),
		rec:   history.NewRecorder(),
		opts:  opts,
	}
}

// Nest returns the simulated nest.
func (s *Simulator) Nest() *nest.Nest { return s.nest }

// State returns the authoritative colony state.
func (s *Simulator) State() *colony.State { return s.state }

// Recorder returns the run history.
func (s *Simulator) Recorder() *history.Recorder { return s.rec }

// Steps returns the number of steps simulated so far.
func (s *Simulator) Steps() int { return s.step }

// Options returns the effective options.
func (s *Simulator) Options() Options { return s.opts }
