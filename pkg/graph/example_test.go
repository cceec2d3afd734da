package graph_test

import (
	"fmt"

	"github.com/matzehuels/antnest/pkg/graph"
)

func ExampleToNest() {
	g := graph.Nest{
		Name:   "fork",
		Agents: 3,
		Source: "Sv",
		Sink:   "Sd",
		Rooms:  []graph.Room{{ID: "Sv"}, {ID: "Sd"}, {ID: "S1", Capacity: 2}, {ID: "S2", Capacity: 1}},
		Tunnels: []graph.Tunnel{
			{A: "Sv", B: "S1"}, {A: "Sv", B: "S2"},
			{A: "S1", B: "Sd"}, {A: "S2", B: "Sd"},
		},
	}

	n, err := graph.ToNest(g)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Rooms:", n.Rooms())
	fmt.Println("Neighbors of Sv:", n.Neighbors("Sv"))
	fmt.Println("Capacity:", n.TotalCapacity())
	// Output:
	// Rooms: [S1 S2]
	// Neighbors of Sv: [S1 S2]
	// Capacity: 3
}
