package nest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Default terminal names used by nest files.
const (
	DefaultSource = "Sv"
	DefaultSink   = "Sd"
)

// Unlimited is the capacity reported for the source and sink.
const Unlimited = math.MaxInt

// MaxAgents is the largest colony [New] accepts.
const MaxAgents = 1_000_000

var (
	// ErrInvalidAgents is returned by [New] when the agent count is not positive.
	ErrInvalidAgents = errors.New("agent count must be positive")

	// ErrTooManyAgents is returned by [New] when the agent count exceeds
	// [MaxAgents].
	ErrTooManyAgents = errors.New("too many agents")

	// ErrInvalidNodeID is returned by [New] when a room has an empty identifier.
	ErrInvalidNodeID = errors.New("room ID must not be empty")

	// ErrDuplicateNode is returned by [New] when two rooms share an identifier.
	ErrDuplicateNode = errors.New("duplicate room")

	// ErrInvalidCapacity is returned by [New] when a non-terminal room has a
	// capacity below one.
	ErrInvalidCapacity = errors.New("room capacity must be positive")

	// ErrMissingSource is returned by [New] when the source room is not declared.
	ErrMissingSource = errors.New("missing source room")

	// ErrMissingSink is returned by [New] when the sink room is not declared.
	ErrMissingSink = errors.New("missing sink room")

	// ErrSameTerminal is returned by [New] when source and sink are the same room.
	ErrSameTerminal = errors.New("source and sink must differ")

	// ErrUnknownNode is returned by [New] when a tunnel references an
	// undeclared room.
	ErrUnknownNode = errors.New("unknown room")

	// ErrSelfLoop is returned by [New] when a tunnel connects a room to itself.
	ErrSelfLoop = errors.New("tunnel connects a room to itself")

	// ErrDisconnected is returned by [Nest.Validate] when no path leads from
	// the source to the sink.
	ErrDisconnected = errors.New("sink is not reachable from source")
)

// Node is a room declaration. Capacity is ignored for the source and sink.
type Node struct {
	ID       string
	Capacity int
}

// Edge is an undirected tunnel between two rooms.
type Edge struct {
	A, B string
}

// Normalize returns the edge with its endpoints in ascending order.
func (e Edge) Normalize() Edge {
	if e.B < e.A {
		return Edge{A: e.B, B: e.A}
	}
	return e
}

// String renders the edge in nest-file syntax.
func (e Edge) String() string { return e.A + " - " + e.B }

// Description is the raw input a nest is built from. It is what the text
// parser produces and what reports serialize.
type Description struct {
	Name   string
	Agents int
	Source string // defaults to DefaultSource
	Sink   string // defaults to DefaultSink
	Nodes  []Node
	Edges  []Edge
}

// Nest is an immutable, validated nest topology.
//
// The zero value is not usable; use [New] or [Build]. A Nest is safe for
// concurrent reads.
type Nest struct {
	name   string
	agents int
	source string
	sink   string

	nodes []Node
	index map[string]int
	edges []Edge
	adj   map[string][]string
	dist  map[string]int
}

// New builds a nest from desc after structural validation. It does not check
// that the sink is reachable; see [Nest.Validate] and [Build].
//
// Duplicate tunnels are ignored. The first declaration wins and keeps its
// position in the neighbour order.
func New(desc Description) (*Nest, error) {
	if desc.Agents < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAgents, desc.Agents)
	}
	if desc.Agents > MaxAgents {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyAgents, desc.Agents, MaxAgents)
	}
	n := &Nest{
		name:   desc.Name,
		agents: desc.Agents,
		source: desc.Source,
		sink:   desc.Sink,
		index:  make(map[string]int, len(desc.Nodes)),
		adj:    make(map[string][]string, len(desc.Nodes)),
	}
	if n.source == "" {
		n.source = DefaultSource
	}
	if n.sink == "" {
		n.sink = DefaultSink
	}
	if n.source == n.sink {
		return nil, fmt.Errorf("%w: %s", ErrSameTerminal, n.source)
	}

	for _, node := range desc.Nodes {
		if err := n.addNode(node); err != nil {
			return nil, err
		}
	}
	if _, ok := n.index[n.source]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingSource, n.source)
	}
	if _, ok := n.index[n.sink]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingSink, n.sink)
	}

	seen := make(map[Edge]bool, len(desc.Edges))
	for _, e := range desc.Edges {
		if err := n.checkEdge(e); err != nil {
			return nil, err
		}
		key := e.Normalize()
		if seen[key] {
			continue
		}
		seen[key] = true
		n.edges = append(n.edges, e)
		n.adj[e.A] = append(n.adj[e.A], e.B)
		n.adj[e.B] = append(n.adj[e.B], e.A)
	}

	n.dist = n.distancesToSink()
	return n, nil
}

// Build is [New] followed by [Nest.Validate].
func Build(desc Description) (*Nest, error) {
	n, err := New(desc)
	if err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Nest) addNode(node Node) error {
	if node.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := n.index[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}
	if node.ID != n.source && node.ID != n.sink && node.Capacity < 1 {
		return fmt.Errorf("%w: %s has capacity %d", ErrInvalidCapacity, node.ID, node.Capacity)
	}
	n.index[node.ID] = len(n.nodes)
	n.nodes = append(n.nodes, node)
	return nil
}

func (n *Nest) checkEdge(e Edge) error {
	if _, ok := n.index[e.A]; !ok {
		return fmt.Errorf("%w: %s in tunnel %s", ErrUnknownNode, e.A, e)
	}
	if _, ok := n.index[e.B]; !ok {
		return fmt.Errorf("%w: %s in tunnel %s", ErrUnknownNode, e.B, e)
	}
	if e.A == e.B {
		return fmt.Errorf("%w: %s", ErrSelfLoop, e.A)
	}
	return nil
}

// Validate checks that the sink can be reached from the source.
// Rooms that cannot reach the sink are allowed; see [Nest.UnreachableRooms].
func (n *Nest) Validate() error {
	if !n.Reachable(n.source) {
		return fmt.Errorf("%w: no path from %s to %s", ErrDisconnected, n.source, n.sink)
	}
	return nil
}

// Name returns the nest name (usually the file stem).
func (n *Nest) Name() string { return n.name }

// Agents returns the number of ants to move.
func (n *Nest) Agents() int { return n.agents }

// Source returns the source room ID.
func (n *Nest) Source() string { return n.source }

// Sink returns the sink room ID.
func (n *Nest) Sink() string { return n.sink }

// IsTerminal reports whether id is the source or the sink.
func (n *Nest) IsTerminal(id string) bool { return id == n.source || id == n.sink }

// Has reports whether the room exists.
func (n *Nest) Has(id string) bool {
	_, ok := n.index[id]
	return ok
}

// Capacity returns the room capacity, or [Unlimited] for the source and sink.
// Unknown rooms report zero.
func (n *Nest) Capacity(id string) int {
	if n.IsTerminal(id) {
		return Unlimited
	}
	i, ok := n.index[id]
	if !ok {
		return 0
	}
	return n.nodes[i].Capacity
}

// Neighbors returns the rooms adjacent to id in tunnel insertion order.
// The returned slice must not be modified.
func (n *Nest) Neighbors(id string) []string { return n.adj[id] }

// Degree returns the number of tunnels at id.
func (n *Nest) Degree(id string) int { return len(n.adj[id]) }

// HasEdge reports whether a tunnel connects a and b.
func (n *Nest) HasEdge(a, b string) bool { return slices.Contains(n.adj[a], b) }

// Nodes returns the room declarations in declaration order.
func (n *Nest) Nodes() []Node { return slices.Clone(n.nodes) }

// Rooms returns the IDs of every non-terminal room in declaration order.
func (n *Nest) Rooms() []string {
	ids := make([]string, 0, len(n.nodes))
	for _, node := range n.nodes {
		if !n.IsTerminal(node.ID) {
			ids = append(ids, node.ID)
		}
	}
	return ids
}

// Edges returns the tunnels in insertion order, without duplicates.
func (n *Nest) Edges() []Edge { return slices.Clone(n.edges) }

// NodeCount returns the number of rooms including terminals.
func (n *Nest) NodeCount() int { return len(n.nodes) }

// EdgeCount returns the number of distinct tunnels.
func (n *Nest) EdgeCount() int { return len(n.edges) }

// TotalCapacity sums the capacities of all non-terminal rooms.
func (n *Nest) TotalCapacity() int {
	total := 0
	for _, node := range n.nodes {
		if !n.IsTerminal(node.ID) {
			total += node.Capacity
		}
	}
	return total
}

// Description returns a description that rebuilds an equivalent nest.
func (n *Nest) Description() Description {
	return Description{
		Name:   n.name,
		Agents: n.agents,
		Source: n.source,
		Sink:   n.sink,
		Nodes:  n.Nodes(),
		Edges:  n.Edges(),
	}
}

// Hash returns a content hash of the topology. Two nests with the same hash
// produce identical simulations. The name is not part of the hash but tunnel
// order is, since it drives tie-breaking.
func (n *Nest) Hash() string {
	var b strings.Builder
	fmt.Fprintf(&b, "agents=%d\nsource=%s\nsink=%s\n", n.agents, n.source, n.sink)
	for _, node := range n.nodes {
		fmt.Fprintf(&b, "node %s %d\n", node.ID, n.Capacity(node.ID))
	}
	for _, e := range n.edges {
		fmt.Fprintf(&b, "edge %s %s\n", e.A, e.B)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
