// Package history records the moves of a simulation run and derives
// reporting data from them: tunnel usage ("pheromone") at any step, occupancy
// replay, per-ant routes and usage statistics.
//
// Every derived value is a pure function of the recorded steps, so it can be
// queried repeatedly and for any prefix without side effects.
package history

import (
	"slices"

	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/nest"
)

// EdgeKey identifies a tunnel independently of traversal direction. A <= B.
type EdgeKey struct {
	A, B string
}

// Key returns the normalized key for a tunnel between a and b.
func Key(a, b string) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// String renders the key in nest-file syntax.
func (k EdgeKey) String() string { return k.A + " - " + k.B }

// Recorder is an append-only log of step move lists for one run.
// It is not safe for concurrent use.
type Recorder struct {
	steps [][]colony.Move
	total map[EdgeKey]int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{total: make(map[EdgeKey]int)}
}

// FromSteps builds a recorder holding a copy of steps.
func FromSteps(steps [][]colony.Move) *Recorder {
	r := NewRecorder()
	for _, moves := range steps {
		r.Append(moves)
	}
	return r
}

// Append records the moves of the next step. An empty slice records a stall.
func (r *Recorder) Append(moves []colony.Move) {
	r.steps = append(r.steps, slices.Clone(moves))
	for _, m := range moves {
		r.total[Key(m.From, m.To)]++
	}
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int { return len(r.steps) }

// Step returns a copy of the moves at step index i (0-based).
func (r *Recorder) Step(i int) []colony.Move {
	if i < 0 || i >= len(r.steps) {
		return nil
	}
	return slices.Clone(r.steps[i])
}

// Steps returns a copy of the whole history.
func (r *Recorder) Steps() [][]colony.Move {
	out := make([][]colony.Move, len(r.steps))
	for i, moves := range r.steps {
		out[i] = slices.Clone(moves)
	}
	return out
}

// MoveCount returns the total number of recorded moves.
func (r *Recorder) MoveCount() int {
	n := 0
	for _, moves := range r.steps {
		n += len(moves)
	}
	return n
}

// Usage returns the number of passages per tunnel over steps 0..k inclusive.
// k beyond the last step is clamped; a negative k yields an empty map.
func (r *Recorder) Usage(k int) map[EdgeKey]int {
	out := make(map[EdgeKey]int)
	for i := 0; i <= k && i < len(r.steps); i++ {
		for _, m := range r.steps[i] {
			out[Key(m.From, m.To)]++
		}
	}
	return out
}

// Totals returns the running passage counter maintained by Append. It always
// equals Usage(Len()-1).
func (r *Recorder) Totals() map[EdgeKey]int {
	out := make(map[EdgeKey]int, len(r.total))
	for k, v := range r.total {
		out[k] = v
	}
	return out
}

// Stats summarizes tunnel usage.
type Stats struct {
	TotalEdges  int     `json:"total_edges" yaml:"total_edges" bson:"total_edges"`
	ActiveEdges int     `json:"active_edges" yaml:"active_edges" bson:"active_edges"`
	Passages    int     `json:"passages" yaml:"passages" bson:"passages"`
	Ratio       float64 `json:"ratio" yaml:"ratio" bson:"ratio"`
}

// Stats computes usage statistics over steps 0..k for the tunnels of n.
// Ratio is ActiveEdges/TotalEdges, or zero for a nest without tunnels.
func (r *Recorder) Stats(n *nest.Nest, k int) Stats {
	usage := r.Usage(k)
	s := Stats{TotalEdges: n.EdgeCount()}
	for _, e := range n.Edges() {
		if c := usage[Key(e.A, e.B)]; c > 0 {
			s.ActiveEdges++
			s.Passages += c
		}
	}
	if s.TotalEdges > 0 {
		s.Ratio = float64(s.ActiveEdges) / float64(s.TotalEdges)
	}
	return s
}

// VisitedRooms returns every room that appears in a move, plus the source,
// sorted.
func (r *Recorder) VisitedRooms(n *nest.Nest) []string {
	seen := map[string]bool{n.Source(): true}
	for _, moves := range r.steps {
		for _, m := range moves {
			seen[m.From] = true
			seen[m.To] = true
		}
	}
	out := make([]string, 0, len(seen))
	for room := range seen {
		out = append(out, room)
	}
	slices.Sort(out)
	return out
}
