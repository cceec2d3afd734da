package graph

import (
	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/history"
	"github.com/matzehuels/antnest/pkg/nest"
)

// =============================================================================
// Nest - Topology Serialization
// =============================================================================

// Nest is the serialization format for a nest topology.
//
// Room and tunnel order is preserved: tunnel order drives tie-breaking in the
// simulator, so a round trip must not reorder it.
type Nest struct {
	Name    string   `json:"name" yaml:"name" bson:"name"`
	Agents  int      `json:"agents" yaml:"agents" bson:"agents"`
	Source  string   `json:"source" yaml:"source" bson:"source"`
	Sink    string   `json:"sink" yaml:"sink" bson:"sink"`
	Rooms   []Room   `json:"rooms" yaml:"rooms" bson:"rooms"`
	Tunnels []Tunnel `json:"tunnels" yaml:"tunnels" bson:"tunnels"`
}

// Room is a serialized room. Capacity is omitted for terminals declared
// without one.
type Room struct {
	ID       string `json:"id" yaml:"id" bson:"id"`
	Capacity int    `json:"capacity,omitempty" yaml:"capacity,omitempty" bson:"capacity,omitempty"`
}

// Tunnel is a serialized undirected tunnel.
type Tunnel struct {
	A string `json:"a" yaml:"a" bson:"a"`
	B string `json:"b" yaml:"b" bson:"b"`
}

// Move is a serialized ant move.
type Move struct {
	Agent int    `json:"agent" yaml:"agent" bson:"agent"`
	From  string `json:"from" yaml:"from" bson:"from"`
	To    string `json:"to" yaml:"to" bson:"to"`
}

// Usage is the number of passages through one tunnel.
type Usage struct {
	A        string `json:"a" yaml:"a" bson:"a"`
	B        string `json:"b" yaml:"b" bson:"b"`
	Passages int    `json:"passages" yaml:"passages" bson:"passages"`
}

// =============================================================================
// Nest Conversion
// =============================================================================

// FromNest converts a nest to its serialization format.
func FromNest(n *nest.Nest) Nest {
	out := Nest{
		Name:    n.Name(),
		Agents:  n.Agents(),
		Source:  n.Source(),
		Sink:    n.Sink(),
		Rooms:   make([]Room, 0, n.NodeCount()),
		Tunnels: make([]Tunnel, 0, n.EdgeCount()),
	}
	for _, node := range n.Nodes() {
		out.Rooms = append(out.Rooms, Room{ID: node.ID, Capacity: node.Capacity})
	}
	for _, e := range n.Edges() {
		out.Tunnels = append(out.Tunnels, Tunnel{A: e.A, B: e.B})
	}
	return out
}

// Description converts the serialized nest back into a build description.
func (g Nest) Description() nest.Description {
	desc := nest.Description{
		Name:   g.Name,
		Agents: g.Agents,
		Source: g.Source,
		Sink:   g.Sink,
		Nodes:  make([]nest.Node, len(g.Rooms)),
		Edges:  make([]nest.Edge, len(g.Tunnels)),
	}
	for i, r := range g.Rooms {
		desc.Nodes[i] = nest.Node{ID: r.ID, Capacity: r.Capacity}
	}
	for i, t := range g.Tunnels {
		desc.Edges[i] = nest.Edge{A: t.A, B: t.B}
	}
	return desc
}

// ToNest builds a nest from its serialization format. Connectivity is not
// checked, so a stalled run's nest can still be restored.
func ToNest(g Nest) (*nest.Nest, error) {
	return nest.New(g.Description())
}

// =============================================================================
// Move Conversion
// =============================================================================

func fromMoves(moves []colony.Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[i] = Move{Agent: int(m.Agent), From: m.From, To: m.To}
	}
	return out
}

func toMoves(moves []Move) []colony.Move {
	out := make([]colony.Move, len(moves))
	for i, m := range moves {
		out[i] = colony.Move{Agent: colony.AgentID(m.Agent), From: m.From, To: m.To}
	}
	return out
}

func fromUsage(n *nest.Nest, usage map[history.EdgeKey]int) []Usage {
	out := make([]Usage, 0, n.EdgeCount())
	for _, e := range n.Edges() {
		if c := usage[history.Key(e.A, e.B)]; c > 0 {
			out = append(out, Usage{A: e.A, B: e.B, Passages: c})
		}
	}
	return out
}
