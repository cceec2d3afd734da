// Package generate builds random nests for testing and exploration.
//
// Generation is deterministic for a given [Options.Seed]. A spanning tree
// rooted at the source guarantees that every room is reachable; extra
// tunnels are then added according to [Options.Density].
package generate

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/nest"
)

// Density controls how many tunnels are added beyond the spanning tree.
type Density string

const (
	DensitySparse Density = "sparse" // 0-2 extra tunnels
	DensityNormal Density = "normal" // 1-4 extra tunnels
	DensityDense  Density = "dense"  // 3-7 extra tunnels
)

// TerminalCapacity is the capacity declared for the source and sink.
// Terminals are unlimited regardless; the value is informational.
const TerminalCapacity = 999

const (
	maxAttempts    = 10
	maxEdgeRetries = 100
	relaxAfter     = 5
)

// ErrInvalidOptions is returned by [Generate] for inconsistent options.
var ErrInvalidOptions = errors.New("invalid generator options")

// Options configures [Generate].
type Options struct {
	Name        string
	Agents      int
	Rooms       int
	MinCapacity int
	MaxCapacity int
	Density     Density

	// NoDirect forbids a tunnel between the source and the sink.
	NoDirect bool

	// MultiPath branches the tree at the source and adds 2-4 extra tunnels.
	// Attempts with fewer than two paths are rejected.
	MultiPath bool

	// AvoidBottlenecks rejects attempts with more than one bottleneck tunnel.
	AvoidBottlenecks bool

	Seed uint64
}

// ValidateAndSetDefaults fills zero values and checks ranges.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Agents == 0 {
		o.Agents = 10
	}
	if o.Rooms == 0 {
		o.Rooms = 6
	}
	if o.MinCapacity == 0 {
		o.MinCapacity = 1
	}
	if o.MaxCapacity == 0 {
		o.MaxCapacity = max(3, o.MinCapacity)
	}
	if o.Density == "" {
		o.Density = DensityNormal
	}
	if o.Name == "" {
		o.Name = fmt.Sprintf("generated_%d", o.Seed)
	}

	switch {
	case o.Agents < 1:
		return fmt.Errorf("%w: agents must be positive", ErrInvalidOptions)
	case o.Agents > nest.MaxAgents:
		return fmt.Errorf("%w: at most %d agents", ErrInvalidOptions, nest.MaxAgents)
	case o.Rooms < 1:
		return fmt.Errorf("%w: rooms must be positive", ErrInvalidOptions)
	case o.MinCapacity < 1:
		return fmt.Errorf("%w: minimum capacity must be positive", ErrInvalidOptions)
	case o.MinCapacity > o.MaxCapacity:
		return fmt.Errorf("%w: minimum capacity %d exceeds maximum %d", ErrInvalidOptions, o.MinCapacity, o.MaxCapacity)
	}
	if _, ok := extraRange[o.Density]; !ok {
		return fmt.Errorf("%w: unknown density %q", ErrInvalidOptions, o.Density)
	}
	return nil
}

var extraRange = map[Density][2]int{
	DensitySparse: {0, 2},
	DensityNormal: {1, 4},
	DensityDense:  {3, 7},
}

// Generate builds a random nest. With MultiPath or AvoidBottlenecks up to
// ten candidates are drawn and the best acceptable one by
// [analysis.Quality] is kept; after five attempts any Good or Excellent
// candidate is acceptable. If none qualifies, a plain candidate is returned.
func Generate(opts Options) (*nest.Nest, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	g := &generator{opts: opts, rng: rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))}

	if !opts.MultiPath && !opts.AvoidBottlenecks {
		return g.candidate(false)
	}

	var best *nest.Nest
	bestQuality := analysis.QualityDisconnected
	for attempt := range maxAttempts {
		n, err := g.candidate(opts.MultiPath)
		if err != nil {
			return nil, err
		}
		a := analysis.Analyze(n)
		if !g.accept(a, attempt) {
			continue
		}
		if best == nil || a.Quality.Better(bestQuality) {
			best, bestQuality = n, a.Quality
		}
		if a.Quality == analysis.QualityExcellent {
			break
		}
	}
	if best != nil {
		return best, nil
	}
	return g.candidate(false)
}

type generator struct {
	opts Options
	rng  *rand.Rand
}

func (g *generator) accept(a analysis.Analysis, attempt int) bool {
	if attempt >= relaxAfter && (a.Quality == analysis.QualityGood || a.Quality == analysis.QualityExcellent) {
		return true
	}
	if g.opts.MultiPath && a.ParallelPaths < 2 {
		return false
	}
	if g.opts.AvoidBottlenecks && len(a.BottleneckEdges) > 1 {
		return false
	}
	return true
}

// between returns a uniform integer in [lo, hi].
func (g *generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *generator) candidate(branch bool) (*nest.Nest, error) {
	desc := nest.Description{
		Name:   g.opts.Name,
		Agents: g.opts.Agents,
		Nodes: []nest.Node{
			{ID: nest.DefaultSource, Capacity: TerminalCapacity},
			{ID: nest.DefaultSink, Capacity: TerminalCapacity},
		},
	}
	rooms := make([]string, g.opts.Rooms)
	for i := range rooms {
		rooms[i] = fmt.Sprintf("S%d", i+1)
		desc.Nodes = append(desc.Nodes, nest.Node{ID: rooms[i], Capacity: g.between(g.opts.MinCapacity, g.opts.MaxCapacity)})
	}

	edges := g.tree(rooms, branch)
	if g.opts.NoDirect {
		edges = g.detach(edges, rooms)
	}
	desc.Edges = g.extra(edges, rooms, branch)
	return nest.Build(desc)
}

// tree connects every room to a random already-connected one, starting
// from the source. With branch set and at least four rooms, the source gets
// up to three children first.
func (g *generator) tree(rooms []string, branch bool) []nest.Edge {
	pending := append(slices.Clone(rooms), nest.DefaultSink)
	connected := []string{nest.DefaultSource}
	var edges []nest.Edge

	take := func() string {
		i := g.rng.IntN(len(pending))
		id := pending[i]
		pending = slices.Delete(pending, i, i+1)
		return id
	}

	if branch && len(rooms) >= 4 {
		for range min(3, len(rooms)/2) {
			to := take()
			edges = append(edges, nest.Edge{A: nest.DefaultSource, B: to})
			connected = append(connected, to)
		}
	}
	for len(pending) > 0 {
		from := connected[g.rng.IntN(len(connected))]
		to := take()
		edges = append(edges, nest.Edge{A: from, B: to})
		connected = append(connected, to)
	}
	return edges
}

// detach removes a direct source-sink tunnel and, if that cut the sink off,
// reattaches it to a room still reachable from the source.
func (g *generator) detach(edges []nest.Edge, rooms []string) []nest.Edge {
	direct := nest.Edge{A: nest.DefaultSource, B: nest.DefaultSink}.Normalize()
	edges = slices.DeleteFunc(edges, func(e nest.Edge) bool { return e.Normalize() == direct })

	reach := reachable(edges)
	if reach[nest.DefaultSink] {
		return edges
	}
	var candidates []string
	for _, r := range rooms {
		if reach[r] {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		// Every room hangs below the sink; link the source into that subtree.
		return append(edges, nest.Edge{A: nest.DefaultSource, B: rooms[g.rng.IntN(len(rooms))]})
	}
	return append(edges, nest.Edge{A: candidates[g.rng.IntN(len(candidates))], B: nest.DefaultSink})
}

func (g *generator) extra(edges []nest.Edge, rooms []string, branch bool) []nest.Edge {
	all := append([]string{nest.DefaultSource}, rooms...)
	all = append(all, nest.DefaultSink)

	r := extraRange[g.opts.Density]
	add := g.between(r[0], r[1])
	if branch {
		add += g.between(2, 4)
	}
	target := min(len(edges)+add, len(all)*(len(all)-1)/2)

	seen := make(map[nest.Edge]bool, len(edges))
	for _, e := range edges {
		seen[e.Normalize()] = true
	}
	direct := nest.Edge{A: nest.DefaultSource, B: nest.DefaultSink}.Normalize()
	for tries := 0; len(edges) < target && tries < maxEdgeRetries; tries++ {
		e := nest.Edge{A: all[g.rng.IntN(len(all))], B: all[g.rng.IntN(len(all))]}
		if e.A == e.B {
			continue
		}
		key := e.Normalize()
		if seen[key] || (g.opts.NoDirect && key == direct) {
			continue
		}
		seen[key] = true
		edges = append(edges, e)
	}
	return edges
}

func reachable(edges []nest.Edge) map[string]bool {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}
	seen := map[string]bool{nest.DefaultSource: true}
	queue := []string{nest.DefaultSource}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, nb := range adj[id] {
			if !seen[nb] {
				seen[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return seen
}
