// Package colony tracks where every ant is inside a nest and enforces the
// capacity invariant.
//
// A [State] is the authoritative record: one occupancy structure plus the
// recorded position of every ant, kept in agreement by [State.Apply].
// Capacity checks are evaluated against whichever [Occupancy] snapshot the
// caller supplies, so a simulator can reason about a working copy and the
// authoritative state with the same predicates.
package colony

import (
	"errors"
	"fmt"

	"github.com/matzehuels/antnest/pkg/nest"
)

// ErrInvariant is returned by [State.Verify] when the occupancy structure is
// inconsistent. It always indicates a bug in the caller.
var ErrInvariant = errors.New("colony invariant violated")

// ErrInvalidMove is returned by [State.Apply] for a move that does not start
// at the ant's recorded position or does not follow a tunnel.
var ErrInvalidMove = errors.New("invalid move")

// Move records an ant changing rooms during a step.
type Move struct {
	Agent AgentID
	From  string
	To    string
}

// NoMove is the zero Move: the ant stays where it is.
var NoMove = Move{}

// IsZero reports whether m is [NoMove].
func (m Move) IsZero() bool { return m == NoMove }

// String renders the move in solution-file syntax.
func (m Move) String() string { return fmt.Sprintf("f%d - %s - %s", m.Agent, m.From, m.To) }

// State is the authoritative colony state for one simulation run.
// It is not safe for concurrent use.
type State struct {
	nest      *nest.Nest
	occupancy Occupancy
	positions []string // index agent-1
}

// NewState places every ant at the source.
func NewState(n *nest.Nest) *State {
	s := &State{
		nest:      n,
		occupancy: make(Occupancy, n.NodeCount()),
		positions: make([]string, n.Agents()),
	}
	for i := range s.positions {
		s.positions[i] = n.Source()
		s.occupancy.Add(n.Source(), AgentID(i+1))
	}
	return s
}

// Nest returns the topology the state lives in.
func (s *State) Nest() *nest.Nest { return s.nest }

// Agents returns the population size.
func (s *State) Agents() int { return len(s.positions) }

// Position returns the recorded room of agent, or "" for an unknown ID.
func (s *State) Position(agent AgentID) string {
	if agent < 1 || int(agent) > len(s.positions) {
		return ""
	}
	return s.positions[agent-1]
}

// Snapshot returns a copy of the authoritative occupancy.
func (s *State) Snapshot() Occupancy { return s.occupancy.Clone() }

// Count returns the number of ants currently in room.
func (s *State) Count(room string) int { return s.occupancy.Count(room) }

// Delivered returns the number of ants at the sink.
func (s *State) Delivered() int { return s.occupancy.Count(s.nest.Sink()) }

// Done reports whether every ant has reached the sink.
func (s *State) Done() bool { return s.Delivered() == len(s.positions) }

// Arrived reports whether agent is at the sink.
func (s *State) Arrived(agent AgentID) bool { return s.Position(agent) == s.nest.Sink() }

// Accepts reports whether room can take one more ant according to snap.
// Terminals always accept.
func (s *State) Accepts(room string, snap Occupancy) bool {
	if s.nest.IsTerminal(room) {
		return true
	}
	return snap.Count(room) < s.nest.Capacity(room)
}

// AvailableDestinations returns the neighbours of agent's current room that
// accept it according to snap, in neighbour order.
func (s *State) AvailableDestinations(agent AgentID, snap Occupancy) []string {
	var out []string
	for _, room := range s.nest.Neighbors(s.Position(agent)) {
		if s.Accepts(room, snap) {
			out = append(out, room)
		}
	}
	return out
}

// Apply commits m: the ant leaves m.From, enters m.To and its recorded
// position follows. Capacity is not checked here; see [State.Verify].
func (s *State) Apply(m Move) error {
	pos := s.Position(m.Agent)
	if pos == "" {
		return fmt.Errorf("%w: unknown ant %d", ErrInvalidMove, m.Agent)
	}
	if pos != m.From {
		return fmt.Errorf("%w: ant %d is in %s, not %s", ErrInvalidMove, m.Agent, pos, m.From)
	}
	if !s.nest.HasEdge(m.From, m.To) {
		return fmt.Errorf("%w: no tunnel %s - %s", ErrInvalidMove, m.From, m.To)
	}
	if !s.occupancy.Move(m) {
		return fmt.Errorf("%w: ant %d missing from %s", ErrInvariant, m.Agent, m.From)
	}
	s.positions[m.Agent-1] = m.To
	return nil
}

// Verify checks every state invariant: capacities hold for non-terminal
// rooms, each ant appears in exactly one room, that room is the ant's
// recorded position, and the population is conserved.
func (s *State) Verify() error {
	seen := make(map[AgentID]string, len(s.positions))
	for room, agents := range s.occupancy {
		if !s.nest.Has(room) {
			return fmt.Errorf("%w: ants in unknown room %s", ErrInvariant, room)
		}
		if !s.nest.IsTerminal(room) && len(agents) > s.nest.Capacity(room) {
			return fmt.Errorf("%w: room %s holds %d ants, capacity %d",
				ErrInvariant, room, len(agents), s.nest.Capacity(room))
		}
		for _, a := range agents {
			if prev, dup := seen[a]; dup {
				return fmt.Errorf("%w: ant %d in both %s and %s", ErrInvariant, a, prev, room)
			}
			seen[a] = room
		}
	}
	if len(seen) != len(s.positions) {
		return fmt.Errorf("%w: %d ants placed, want %d", ErrInvariant, len(seen), len(s.positions))
	}
	for i, pos := range s.positions {
		a := AgentID(i + 1)
		room, ok := seen[a]
		if !ok {
			return fmt.Errorf("%w: ant %d missing", ErrInvariant, a)
		}
		if room != pos {
			return fmt.Errorf("%w: ant %d recorded in %s but found in %s", ErrInvariant, a, pos, room)
		}
	}
	return nil
}
