package analysis

import (
	"slices"
	"testing"

	"github.com/matzehuels/antnest/pkg/nest"
)

func build(t *testing.T, agents int, rooms []string, edges ...string) *nest.Nest {
	t.Helper()
	nodes := []nest.Node{{ID: "Sv"}, {ID: "Sd"}}
	for _, r := range rooms {
		nodes = append(nodes, nest.Node{ID: r, Capacity: 1})
	}
	var es []nest.Edge
	for i := 0; i+1 < len(edges); i += 2 {
		es = append(es, nest.Edge{A: edges[i], B: edges[i+1]})
	}
	n, err := nest.New(nest.Description{Name: t.Name(), Agents: agents, Nodes: nodes, Edges: es})
	if err != nil {
		t.Fatalf("nest.New() error = %v", err)
	}
	return n
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		nest     func(t *testing.T) *nest.Nest
		direct   bool
		paths    int
		critical int
		nodes    []string
		edges    int
		quality  Quality
	}{
		{
			name:     "direct",
			nest:     func(t *testing.T) *nest.Nest { return build(t, 5, nil, "Sv", "Sd") },
			direct:   true,
			paths:    1,
			critical: 1,
			edges:    1,
			quality:  QualityCritical,
		},
		{
			name:     "line",
			nest:     func(t *testing.T) *nest.Nest { return build(t, 2, []string{"M"}, "Sv", "M", "M", "Sd") },
			paths:    1,
			critical: 1,
			nodes:    []string{"M"},
			edges:    2,
			quality:  QualityCritical,
		},
		{
			name: "fork",
			nest: func(t *testing.T) *nest.Nest {
				return build(t, 4, []string{"A", "B"}, "Sv", "A", "Sv", "B", "A", "Sd", "B", "Sd")
			},
			paths:    2,
			critical: 2,
			quality:  QualityGood,
		},
		{
			name: "three branches",
			nest: func(t *testing.T) *nest.Nest {
				return build(t, 3, []string{"A", "B", "C"},
					"Sv", "A", "Sv", "B", "Sv", "C", "A", "Sd", "B", "Sd", "C", "Sd")
			},
			paths:    3,
			critical: 3,
			quality:  QualityExcellent,
		},
		{
			name: "shared corridor",
			nest: func(t *testing.T) *nest.Nest {
				return build(t, 3, []string{"A", "B", "C", "D"},
					"Sv", "A", "Sv", "B", "A", "C", "B", "C", "C", "D", "D", "Sd")
			},
			paths:    2,
			critical: 2,
			nodes:    []string{"C", "D"},
			edges:    4,
			quality:  QualityBottleneck,
		},
		{
			name:    "disconnected",
			nest:    func(t *testing.T) *nest.Nest { return build(t, 1, []string{"A", "B"}, "Sv", "A", "B", "Sd") },
			quality: QualityDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(tt.nest(t))
			if a.HasDirectPath != tt.direct {
				t.Errorf("HasDirectPath = %v, want %v", a.HasDirectPath, tt.direct)
			}
			if a.ParallelPaths != tt.paths {
				t.Errorf("ParallelPaths = %d, want %d", a.ParallelPaths, tt.paths)
			}
			if len(a.CriticalPaths) != tt.critical {
				t.Errorf("len(CriticalPaths) = %d, want %d", len(a.CriticalPaths), tt.critical)
			}
			if !slices.Equal(a.BottleneckNodes, tt.nodes) {
				t.Errorf("BottleneckNodes = %v, want %v", a.BottleneckNodes, tt.nodes)
			}
			if len(a.BottleneckEdges) != tt.edges {
				t.Errorf("BottleneckEdges = %v, want %d", a.BottleneckEdges, tt.edges)
			}
			if a.Quality != tt.quality {
				t.Errorf("Quality = %s, want %s", a.Quality, tt.quality)
			}
		})
	}
}

func TestSimplePathsCutoff(t *testing.T) {
	// Sv - R1 - ... - R10 - Sd is 11 tunnels long.
	rooms := []string{"R1", "R2", "R3", "R4", "R5", "R6", "R7", "R8", "R9", "R10"}
	edges := []string{"Sv", "R1"}
	for i := 0; i+1 < len(rooms); i++ {
		edges = append(edges, rooms[i], rooms[i+1])
	}
	edges = append(edges, "R10", "Sd")
	n := build(t, 1, rooms, edges...)

	if got := len(simplePaths(n, MaxPathLength)); got != 0 {
		t.Errorf("paths within %d tunnels = %d, want 0", MaxPathLength, got)
	}
	if got := len(simplePaths(n, 11)); got != 1 {
		t.Errorf("paths within 11 tunnels = %d, want 1", got)
	}
}

func TestCriticalPathsAreShortest(t *testing.T) {
	n := build(t, 2, []string{"A", "B", "C"}, "Sv", "A", "A", "Sd", "Sv", "B", "B", "C", "C", "Sd")
	a := Analyze(n)

	want := [][]string{{"Sv", "A", "Sd"}}
	if !slices.EqualFunc(a.CriticalPaths, want, slices.Equal[[]string]) {
		t.Errorf("CriticalPaths = %v, want %v", a.CriticalPaths, want)
	}
}

func TestQualityBetter(t *testing.T) {
	if !QualityExcellent.Better(QualityGood) || QualityDisconnected.Better(QualityCritical) {
		t.Error("quality ranking is wrong")
	}
}
