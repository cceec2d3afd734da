package nest

import (
	"errors"
	"slices"
	"testing"
)

func chain() Description {
	return Description{
		Name:   "chain",
		Agents: 2,
		Nodes:  []Node{{ID: "Sv"}, {ID: "S1", Capacity: 1}, {ID: "S2", Capacity: 2}, {ID: "Sd"}},
		Edges:  []Edge{{A: "Sv", B: "S1"}, {A: "S1", B: "S2"}, {A: "S2", B: "Sd"}},
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Description)
		want   error
	}{
		{"zero agents", func(d *Description) { d.Agents = 0 }, ErrInvalidAgents},
		{"too many agents", func(d *Description) { d.Agents = MaxAgents + 1 }, ErrTooManyAgents},
		{"overflowing agents", func(d *Description) { d.Agents = 922337203685477580 }, ErrTooManyAgents},
		{"empty id", func(d *Description) { d.Nodes = append(d.Nodes, Node{Capacity: 1}) }, ErrInvalidNodeID},
		{"duplicate room", func(d *Description) { d.Nodes = append(d.Nodes, Node{ID: "S1", Capacity: 3}) }, ErrDuplicateNode},
		{"zero capacity", func(d *Description) { d.Nodes[1].Capacity = 0 }, ErrInvalidCapacity},
		{"negative capacity", func(d *Description) { d.Nodes[2].Capacity = -4 }, ErrInvalidCapacity},
		{"missing source", func(d *Description) { d.Nodes = d.Nodes[1:]; d.Edges = d.Edges[1:] }, ErrMissingSource},
		{"missing sink", func(d *Description) { d.Nodes = d.Nodes[:3]; d.Edges = d.Edges[:2] }, ErrMissingSink},
		{"same terminal", func(d *Description) { d.Sink = "Sv" }, ErrSameTerminal},
		{"unknown room", func(d *Description) { d.Edges = append(d.Edges, Edge{A: "S1", B: "S9"}) }, ErrUnknownNode},
		{"self loop", func(d *Description) { d.Edges = append(d.Edges, Edge{A: "S2", B: "S2"}) }, ErrSelfLoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := chain()
			tt.mutate(&d)
			_, err := New(d)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTerminalCapacityIgnored(t *testing.T) {
	d := chain()
	d.Nodes[0].Capacity = 0
	d.Nodes[3].Capacity = -1
	n, err := New(d)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := n.Capacity("Sv"); got != Unlimited {
		t.Errorf("Capacity(Sv) = %d, want Unlimited", got)
	}
	if got := n.Capacity("S2"); got != 2 {
		t.Errorf("Capacity(S2) = %d, want 2", got)
	}
	if got := n.Capacity("nope"); got != 0 {
		t.Errorf("Capacity(nope) = %d, want 0", got)
	}
}

func TestNeighborsInsertionOrder(t *testing.T) {
	n, err := New(Description{
		Agents: 1,
		Nodes:  []Node{{ID: "Sv"}, {ID: "B", Capacity: 1}, {ID: "A", Capacity: 1}, {ID: "C", Capacity: 1}, {ID: "Sd"}},
		Edges: []Edge{
			{A: "Sv", B: "B"}, {A: "A", B: "Sv"}, {A: "Sv", B: "C"},
			{A: "B", B: "Sv"}, // duplicate, ignored
			{A: "A", B: "Sd"}, {A: "B", B: "Sd"}, {A: "C", B: "Sd"},
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, want := n.Neighbors("Sv"), []string{"B", "A", "C"}; !slices.Equal(got, want) {
		t.Errorf("Neighbors(Sv) = %v, want %v", got, want)
	}
	if got, want := n.Neighbors("Sd"), []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Errorf("Neighbors(Sd) = %v, want %v", got, want)
	}
	if n.EdgeCount() != 6 {
		t.Errorf("EdgeCount() = %d, want 6", n.EdgeCount())
	}
	if !n.HasEdge("Sd", "C") || n.HasEdge("A", "B") {
		t.Error("HasEdge() mismatch")
	}
}

func TestDistance(t *testing.T) {
	d := chain()
	d.Nodes = append(d.Nodes, Node{ID: "island", Capacity: 1})
	n, err := New(d)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		id   string
		want int
	}{
		{"Sd", 0},
		{"S2", 1},
		{"S1", 2},
		{"Sv", 3},
		{"island", Unreachable},
		{"missing", Unreachable},
	}
	for _, tt := range tests {
		if got := n.Distance(tt.id); got != tt.want {
			t.Errorf("Distance(%s) = %d, want %d", tt.id, got, tt.want)
		}
	}

	if got := n.UnreachableRooms(); !slices.Equal(got, []string{"island"}) {
		t.Errorf("UnreachableRooms() = %v, want [island]", got)
	}
}

func TestValidateDisconnected(t *testing.T) {
	d := chain()
	d.Edges = d.Edges[:2]

	n, err := New(d)
	if err != nil {
		t.Fatalf("New() should accept a disconnected nest: %v", err)
	}
	if err := n.Validate(); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Validate() error = %v, want %v", err, ErrDisconnected)
	}
	if _, err := Build(d); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Build() error = %v, want %v", err, ErrDisconnected)
	}
}

func TestHash(t *testing.T) {
	a, _ := New(chain())
	b, _ := New(chain())
	if a.Hash() != b.Hash() {
		t.Error("Hash should be deterministic")
	}

	renamed := chain()
	renamed.Name = "other"
	c, _ := New(renamed)
	if a.Hash() != c.Hash() {
		t.Error("Hash should ignore the nest name")
	}

	reordered := chain()
	reordered.Edges[0], reordered.Edges[2] = reordered.Edges[2], reordered.Edges[0]
	r, _ := New(reordered)
	if a.Hash() == r.Hash() {
		t.Error("Hash should depend on tunnel order")
	}
	if len(a.Hash()) != 64 {
		t.Errorf("Hash length = %d, want 64", len(a.Hash()))
	}
}

func TestDescriptionRoundTrip(t *testing.T) {
	n, _ := New(chain())
	m, err := New(n.Description())
	if err != nil {
		t.Fatalf("New(Description()) error = %v", err)
	}
	if n.Hash() != m.Hash() {
		t.Error("rebuilt nest differs")
	}
	if got := n.Rooms(); !slices.Equal(got, []string{"S1", "S2"}) {
		t.Errorf("Rooms() = %v, want [S1 S2]", got)
	}
	if n.TotalCapacity() != 3 {
		t.Errorf("TotalCapacity() = %d, want 3", n.TotalCapacity())
	}
}
