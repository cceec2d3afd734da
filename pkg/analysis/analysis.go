// Package analysis inspects a nest's topology for structural problems:
// how many independent routes lead from the source to the sink, which rooms
// and tunnels every route depends on, and how hard the nest is to clear.
package analysis

import (
	"slices"

	"github.com/matzehuels/antnest/pkg/nest"
)

// MaxPathLength is the longest simple path, in tunnels, counted by [Analyze].
const MaxPathLength = 10

// Quality is the overall verdict of an analysis, from best to worst.
type Quality string

const (
	QualityExcellent    Quality = "Excellent"
	QualityGood         Quality = "Good"
	QualityBottleneck   Quality = "Bottleneck"
	QualityCritical     Quality = "Critical"
	QualityDisconnected Quality = "Disconnected"
)

var qualityRank = map[Quality]int{
	QualityExcellent:    0,
	QualityGood:         1,
	QualityBottleneck:   2,
	QualityCritical:     3,
	QualityDisconnected: 4,
}

// Better reports whether q ranks above other.
func (q Quality) Better(other Quality) bool { return qualityRank[q] < qualityRank[other] }

// Analysis is the structural report of a nest.
type Analysis struct {
	HasDirectPath   bool        `json:"has_direct_path" yaml:"has_direct_path"`
	ParallelPaths   int         `json:"parallel_paths" yaml:"parallel_paths"`
	CriticalPaths   [][]string  `json:"critical_paths" yaml:"critical_paths"`
	BottleneckNodes []string    `json:"bottleneck_nodes" yaml:"bottleneck_nodes"`
	BottleneckEdges []nest.Edge `json:"bottleneck_edges" yaml:"bottleneck_edges"`
	Quality         Quality     `json:"quality" yaml:"quality"`
}

// Analyze reports the routes and weak points of n.
//
// Paths are simple source-to-sink paths of at most [MaxPathLength] tunnels,
// enumerated in neighbour order. A bottleneck room lies on every path and
// disconnects the sink when removed; its tunnels count as bottlenecks too. A
// bottleneck tunnel is any tunnel whose removal disconnects the sink.
func Analyze(n *nest.Nest) Analysis {
	a := Analysis{HasDirectPath: n.HasEdge(n.Source(), n.Sink())}

	paths := simplePaths(n, MaxPathLength)
	a.ParallelPaths = len(paths)
	a.CriticalPaths = shortest(paths)

	if len(paths) > 0 {
		a.BottleneckNodes, a.BottleneckEdges = bottlenecks(n, paths)
	}
	a.Quality = grade(a)
	return a
}

func grade(a Analysis) Quality {
	switch {
	case a.ParallelPaths == 0:
		return QualityDisconnected
	case a.ParallelPaths == 1 && len(a.BottleneckEdges) > 0:
		return QualityCritical
	case len(a.BottleneckEdges) > 2:
		return QualityBottleneck
	case a.ParallelPaths >= 3:
		return QualityExcellent
	default:
		return QualityGood
	}
}

func shortest(paths [][]string) [][]string {
	if len(paths) == 0 {
		return nil
	}
	minLen := len(paths[0])
	for _, p := range paths[1:] {
		minLen = min(minLen, len(p))
	}
	var out [][]string
	for _, p := range paths {
		if len(p) == minLen {
			out = append(out, p)
		}
	}
	return out
}

func bottlenecks(n *nest.Nest, paths [][]string) ([]string, []nest.Edge) {
	var nodes []string
	var edges []nest.Edge
	seen := make(map[nest.Edge]bool)
	addEdge := func(e nest.Edge) {
		if key := e.Normalize(); !seen[key] {
			seen[key] = true
			edges = append(edges, e)
		}
	}

	for _, room := range common(paths) {
		if connected(n, room, nest.Edge{}) {
			continue
		}
		nodes = append(nodes, room)
		for _, nb := range n.Neighbors(room) {
			addEdge(nest.Edge{A: room, B: nb})
		}
	}
	for _, e := range n.Edges() {
		if !connected(n, "", e) {
			addEdge(e)
		}
	}
	return nodes, edges
}

// common returns the intermediate rooms shared by every path, in the order
// of the first path.
func common(paths [][]string) []string {
	first := paths[0]
	var out []string
	for _, room := range first[1 : len(first)-1] {
		onAll := true
		for _, p := range paths[1:] {
			if !slices.Contains(p[1:len(p)-1], room) {
				onAll = false
				break
			}
		}
		if onAll {
			out = append(out, room)
		}
	}
	return out
}
