package sim

import (
	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/nest"
)

// Resolve decides which moves of a simultaneous batch can be committed on top
// of occ. planned must be in ascending agent order; the result keeps that
// order.
//
// Moves into the source or sink are always accepted. For any other room the
// number of free spots is
//
//	capacity - occupants + departures
//
// where departures counts planned moves leaving that room, so ants may swap
// rooms. Moves into a room are accepted first come first served until the
// spots run out.
//
// A departure credit is only sound if the departing move is itself accepted.
// When a dropped move leaves its origin over capacity, the last accepted move
// into that room is dropped as well, repeating until every room fits.
func Resolve(n *nest.Nest, occ colony.Occupancy, planned []colony.Move) []colony.Move {
	departures := make(map[string]int)
	for _, m := range planned {
		departures[m.From]++
	}

	accepted := make([]bool, len(planned))
	taken := make(map[string]int)
	for i, m := range planned {
		if n.IsTerminal(m.To) {
			accepted[i] = true
			continue
		}
		spots := n.Capacity(m.To) - occ.Count(m.To) + departures[m.To]
		if taken[m.To] < spots {
			accepted[i] = true
			taken[m.To]++
		}
	}

	for settle(n, occ, planned, accepted) {
	}

	out := make([]colony.Move, 0, len(planned))
	for i, m := range planned {
		if accepted[i] {
			out = append(out, m)
		}
	}
	return out
}

// settle drops at most one accepted move that leaves a room over capacity
// and reports whether it did.
func settle(n *nest.Nest, occ colony.Occupancy, planned []colony.Move, accepted []bool) bool {
	net := make(map[string]int)
	for i, m := range planned {
		if accepted[i] {
			net[m.To]++
			net[m.From]--
		}
	}
	for i := len(planned) - 1; i >= 0; i-- {
		m := planned[i]
		if !accepted[i] || n.IsTerminal(m.To) {
			continue
		}
		if occ.Count(m.To)+net[m.To] > n.Capacity(m.To) {
			accepted[i] = false
			return true
		}
	}
	return false
}
