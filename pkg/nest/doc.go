// Package nest provides the immutable topology of an ant nest: rooms with
// capacities, undirected tunnels between them, and the hop distance from every
// room to the dormitory.
//
// # Overview
//
// A nest has two designated terminals. The source (vestibule, "Sv" by default)
// holds every ant at the start of a simulation. The sink (dormitory, "Sd" by
// default) is where every ant must end up. Both terminals accept any number of
// ants; every other room has a positive capacity that must never be exceeded.
//
// # Basic Usage
//
// Describe the nest and build it with [New] (structural checks only) or
// [Build] (structural checks plus source-to-sink connectivity):
//
//	n, err := nest.Build(nest.Description{
//	    Name:   "simple",
//	    Agents: 2,
//	    Nodes: []nest.Node{
//	        {ID: "Sv"}, {ID: "S1", Capacity: 1}, {ID: "Sd"},
//	    },
//	    Edges: []nest.Edge{{A: "Sv", B: "S1"}, {A: "S1", B: "Sd"}},
//	})
//
// # Neighbour Order
//
// [Nest.Neighbors] returns neighbours in tunnel insertion order. The step
// simulator breaks distance ties by this order, so it is part of the
// observable behaviour: reordering tunnels in a nest file can change the
// resulting move sequence.
//
// # Distances
//
// Hop distances to the sink are computed once, by breadth-first search from
// the sink, when the nest is built. Rooms with no path to the sink report
// [Unreachable] instead of failing.
package nest
