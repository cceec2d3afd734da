package sim

import (
	"fmt"

	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/nest"
)

// StepReport describes what happened during one step.
type StepReport struct {
	Index    int              // 1-based step number
	Moves    []colony.Move    // committed moves, greedy pass first
	Greedy   int              // number of moves committed by the greedy pass
	Deferred []colony.AgentID // ants handed to the batch pass
	Dropped  []colony.AgentID // deferred ants that did not move
	Held     []colony.AgentID // ants that stayed rather than move away from the sink
}

// Step simulates one step, commits it and records it. An empty Moves slice
// means the colony is stuck. A returned error means the state invariant was
// broken and the simulator must not be used further.
func (s *Simulator) Step() (StepReport, error) {
	s.step++
	rep := StepReport{Index: s.step}
	pre := s.state.Snapshot()

	moves, err := s.greedy(pre, &rep)
	if err != nil {
		return rep, fmt.Errorf("step %d: %w", s.step, err)
	}
	rep.Greedy = len(moves)

	batch := s.batch(pre, &rep)
	for _, m := range batch {
		if err := s.state.Apply(m); err != nil {
			return rep, fmt.Errorf("step %d: %w", s.step, err)
		}
	}
	moves = append(moves, batch...)
	rep.Moves = moves
	rep.Dropped = dropped(rep.Deferred, batch)

	if err := s.state.Verify(); err != nil {
		return rep, fmt.Errorf("step %d: %w", s.step, err)
	}
	s.rec.Append(moves)

	s.opts.Logger.Debug("step",
		"n", rep.Index,
		"moves", len(rep.Moves),
		"greedy", rep.Greedy,
		"deferred", len(rep.Deferred),
		"dropped", len(rep.Dropped),
		"delivered", s.state.Delivered())
	return rep, nil
}

// greedy runs the sequential pass. work starts as a copy of pre and follows
// every committed move so later ants see room freed by earlier ones.
func (s *Simulator) greedy(pre colony.Occupancy, rep *StepReport) ([]colony.Move, error) {
	work := pre.Clone()
	var moves []colony.Move

	for i := 1; i <= s.state.Agents(); i++ {
		a := colony.AgentID(i)
		if s.state.Arrived(a) {
			continue
		}
		m, held := s.plan(a, work)
		switch {
		case held:
			rep.Held = append(rep.Held, a)
			continue
		case m.IsZero():
			// Every useful neighbour is full right now: the batch pass may
			// still find room in the pre-step state.
			if s.hasRoute(s.state.Position(a)) {
				rep.Deferred = append(rep.Deferred, a)
			}
			continue
		}

		work.Move(m)
		if err := s.state.Apply(m); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// batch plans the deferred ants against pre and returns the moves that fit
// the current authoritative occupancy.
func (s *Simulator) batch(pre colony.Occupancy, rep *StepReport) []colony.Move {
	if len(rep.Deferred) == 0 {
		return nil
	}
	var planned []colony.Move
	for _, a := range rep.Deferred {
		m, held := s.plan(a, pre)
		if held {
			rep.Held = append(rep.Held, a)
		}
		if !m.IsZero() {
			planned = append(planned, m)
		}
	}
	return Resolve(s.nest, s.state.Snapshot(), planned)
}

// plan returns the move a makes against snap, or [colony.NoMove] when the ant
// stays. held reports that it stays because the only option leads away from
// the sink while regressive moves are suppressed.
func (s *Simulator) plan(a colony.AgentID, snap colony.Occupancy) (m colony.Move, held bool) {
	dest, ok := s.choose(a, snap)
	if !ok {
		return colony.NoMove, false
	}
	from := s.state.Position(a)
	if s.regressive(from, dest) {
		return colony.NoMove, true
	}
	return colony.Move{Agent: a, From: from, To: dest}, false
}

// choose returns the preferred destination of a given snap: the sink when it
// is adjacent, otherwise the available room closest to the sink. Rooms that
// cannot reach the sink are never chosen.
func (s *Simulator) choose(a colony.AgentID, snap colony.Occupancy) (string, bool) {
	best, bestDist := "", nest.Unreachable
	for _, room := range s.state.AvailableDestinations(a, snap) {
		if room == s.nest.Sink() {
			return room, true
		}
		d := s.nest.Distance(room)
		if d == nest.Unreachable {
			continue
		}
		if best == "" || d < bestDist {
			best, bestDist = room, d
		}
	}
	return best, best != ""
}

// hasRoute reports whether some neighbour of room leads to the sink.
func (s *Simulator) hasRoute(room string) bool {
	for _, next := range s.nest.Neighbors(room) {
		if s.nest.Reachable(next) {
			return true
		}
	}
	return false
}

// regressive reports whether moving from -> to must be suppressed.
func (s *Simulator) regressive(from, to string) bool {
	if !s.opts.SuppressRegressive {
		return false
	}
	df := s.nest.Distance(from)
	return df != nest.Unreachable && s.nest.Distance(to) > df
}

func dropped(deferred []colony.AgentID, batch []colony.Move) []colony.AgentID {
	moved := make(map[colony.AgentID]bool, len(batch))
	for _, m := range batch {
		moved[m.Agent] = true
	}
	var out []colony.AgentID
	for _, a := range deferred {
		if !moved[a] {
			out = append(out, a)
		}
	}
	return out
}
