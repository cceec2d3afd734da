package pipeline

import (
	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/history"
	"github.com/matzehuels/antnest/pkg/nest"
)

// View is the state of a run after one step, ready for drawing.
type View struct {
	// Step is 1-based; 0 is the initial state of a run without steps.
	Step      int
	Occupancy colony.Occupancy
	Trails    []history.Trail
}

// ResolveStep maps a requested step onto 1..steps. Zero and out of range
// requests select the last step.
func ResolveStep(requested, steps int) int {
	if requested <= 0 || requested > steps {
		return steps
	}
	return requested
}

// SelectView replays rec on n up to the requested step.
func SelectView(n *nest.Nest, rec *history.Recorder, step int) (View, error) {
	k := ResolveStep(step, rec.Len())
	occ, err := rec.Replay(n, k-1)
	if err != nil {
		return View{}, err
	}
	return View{
		Step:      k,
		Occupancy: occ,
		Trails:    rec.Trails(n, k-1),
	}, nil
}
