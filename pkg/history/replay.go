package history

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/nest"
)

// ErrInconsistent is returned when a recorded move does not start where the
// ant was at that point of the history.
var ErrInconsistent = errors.New("inconsistent history")

// Replay rebuilds the occupancy after step k (inclusive) by applying the
// recorded moves to the initial state. A negative k returns the initial
// occupancy.
func (r *Recorder) Replay(n *nest.Nest, k int) (colony.Occupancy, error) {
	s := colony.NewState(n)
	for i := 0; i <= k && i < len(r.steps); i++ {
		for _, m := range r.steps[i] {
			if err := s.Apply(m); err != nil {
				return nil, fmt.Errorf("%w: step %d: %v", ErrInconsistent, i+1, err)
			}
		}
	}
	return s.Snapshot(), nil
}

// Paths returns the route of every ant, starting at the source.
func (r *Recorder) Paths(n *nest.Nest) (map[colony.AgentID][]string, error) {
	paths := make(map[colony.AgentID][]string, n.Agents())
	for a := 1; a <= n.Agents(); a++ {
		paths[colony.AgentID(a)] = []string{n.Source()}
	}
	for i, moves := range r.steps {
		for _, m := range moves {
			route, ok := paths[m.Agent]
			if !ok {
				return nil, fmt.Errorf("%w: step %d: unknown ant %d", ErrInconsistent, i+1, m.Agent)
			}
			if cur := route[len(route)-1]; cur != m.From {
				return nil, fmt.Errorf("%w: step %d: ant %d is in %s, not %s", ErrInconsistent, i+1, m.Agent, cur, m.From)
			}
			paths[m.Agent] = append(route, m.To)
		}
	}
	return paths, nil
}

// Trail is the rendering weight of one tunnel.
type Trail struct {
	Edge      EdgeKey `json:"edge" yaml:"edge"`
	Passages  int     `json:"passages" yaml:"passages"`
	Intensity float64 `json:"intensity" yaml:"intensity"` // passages / max passages
	Width     float64 `json:"width" yaml:"width"`         // 1 + 4*intensity
	Alpha     float64 `json:"alpha" yaml:"alpha"`         // 0.3 + 0.6*intensity
}

// Trails returns the pheromone weight of every tunnel of n over steps 0..k,
// in tunnel order. Unused tunnels have zero intensity.
func (r *Recorder) Trails(n *nest.Nest, k int) []Trail {
	usage := r.Usage(k)
	peak := 0
	for _, c := range usage {
		peak = max(peak, c)
	}

	trails := make([]Trail, 0, n.EdgeCount())
	for _, e := range n.Edges() {
		key := Key(e.A, e.B)
		t := Trail{Edge: key, Passages: usage[key]}
		if peak > 0 {
			t.Intensity = float64(t.Passages) / float64(peak)
		}
		t.Width = round2(1 + 4*t.Intensity)
		t.Alpha = round2(0.3 + 0.6*t.Intensity)
		trails = append(trails, t)
	}
	return trails
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
