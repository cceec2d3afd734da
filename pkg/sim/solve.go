package sim

import (
	"context"
	"time"

	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/history"
	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/observability"
)

// Result is the outcome of a complete run.
type Result struct {
	Outcome   Outcome
	Steps     int // recorded steps, including a final empty step on stall
	Delivered int
	Agents    int
	Recorder  *history.Recorder
	Final     colony.Occupancy
	Duration  time.Duration
}

// Solve steps until every ant is delivered, a step moves nobody, or the step
// limit is reached. ctx is checked between steps; on cancellation the
// context error is returned together with the partial result.
func (s *Simulator) Solve(ctx context.Context) (*Result, error) {
	hooks := observability.Solve()
	start := time.Now()
	hooks.OnSolveStart(ctx, s.nest.Name(), s.nest.Agents())

	outcome, err := s.loop(ctx, hooks)
	res := &Result{
		Outcome:   outcome,
		Steps:     s.rec.Len(),
		Delivered: s.state.Delivered(),
		Agents:    s.state.Agents(),
		Recorder:  s.rec,
		Final:     s.state.Snapshot(),
		Duration:  time.Since(start),
	}
	hooks.OnSolveComplete(ctx, string(outcome), res.Steps, res.Duration, err)
	if err != nil {
		return res, err
	}

	s.opts.Logger.Debug("solved",
		"nest", s.nest.Name(),
		"outcome", outcome,
		"steps", res.Steps,
		"delivered", res.Delivered,
		"duration", res.Duration)
	return res, nil
}

func (s *Simulator) loop(ctx context.Context, hooks observability.SolveHooks) (Outcome, error) {
	for !s.state.Done() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if s.step >= s.opts.MaxSteps {
			return OutcomeStepLimit, nil
		}
		rep, err := s.Step()
		if err != nil {
			return "", err
		}
		hooks.OnStep(ctx, rep.Index, len(rep.Moves))
		if len(rep.Moves) == 0 {
			return OutcomeStalled, nil
		}
	}
	return OutcomeDelivered, nil
}

// Run simulates n from scratch with opts.
func Run(ctx context.Context, n *nest.Nest, opts Options) (*Result, error) {
	return New(n, opts).Solve(ctx)
}
