package graph

import (
	"fmt"

	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/history"
	"github.com/matzehuels/antnest/pkg/nest"
)

// =============================================================================
// Frame - Per-Step Plotting Format
// =============================================================================

// Frame is the state of a run after one step, in a form external plotting
// tools can draw without re-running the simulation.
//
// Frame 0 is the initial state: every ant at the source and no moves.
type Frame struct {
	Step      int              `json:"step" yaml:"step" bson:"step"`
	Moves     []Move           `json:"moves" yaml:"moves" bson:"moves"`
	Occupancy map[string][]int `json:"occupancy" yaml:"occupancy" bson:"occupancy"`
	Trails    []Trail          `json:"trails" yaml:"trails" bson:"trails"`
}

// Trail is the pheromone weight of one tunnel at a frame.
type Trail struct {
	A         string  `json:"a" yaml:"a" bson:"a"`
	B         string  `json:"b" yaml:"b" bson:"b"`
	Passages  int     `json:"passages" yaml:"passages" bson:"passages"`
	Intensity float64 `json:"intensity" yaml:"intensity" bson:"intensity"`
	Width     float64 `json:"width" yaml:"width" bson:"width"`
	Alpha     float64 `json:"alpha" yaml:"alpha" bson:"alpha"`
}

// Frames replays rec on n and returns one frame per step, preceded by the
// initial frame.
func Frames(n *nest.Nest, rec *history.Recorder) ([]Frame, error) {
	state := colony.NewState(n)
	frames := make([]Frame, 0, rec.Len()+1)
	frames = append(frames, newFrame(n, rec, 0, nil, state.Snapshot()))

	for i := range rec.Len() {
		moves := rec.Step(i)
		for _, m := range moves {
			if err := state.Apply(m); err != nil {
				return nil, fmt.Errorf("%w: step %d: %v", history.ErrInconsistent, i+1, err)
			}
		}
		frames = append(frames, newFrame(n, rec, i+1, moves, state.Snapshot()))
	}
	return frames, nil
}

func newFrame(n *nest.Nest, rec *history.Recorder, step int, moves []colony.Move, occ colony.Occupancy) Frame {
	f := Frame{
		Step:      step,
		Moves:     fromMoves(moves),
		Occupancy: make(map[string][]int, len(occ)),
	}
	for _, room := range occ.Rooms() {
		agents := occ.Agents(room)
		ids := make([]int, len(agents))
		for i, a := range agents {
			ids[i] = int(a)
		}
		f.Occupancy[room] = ids
	}
	for _, t := range rec.Trails(n, step-1) {
		f.Trails = append(f.Trails, Trail{
			A:         t.Edge.A,
			B:         t.Edge.B,
			Passages:  t.Passages,
			Intensity: t.Intensity,
			Width:     t.Width,
			Alpha:     t.Alpha,
		})
	}
	return f
}
