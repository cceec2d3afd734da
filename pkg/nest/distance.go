package nest

// Unreachable is the distance reported for rooms with no path to the sink.
const Unreachable = -1

// Distance returns the number of tunnels on a shortest path from id to the
// sink, or [Unreachable]. Unknown rooms are unreachable.
func (n *Nest) Distance(id string) int {
	d, ok := n.dist[id]
	if !ok {
		return Unreachable
	}
	return d
}

// Reachable reports whether a path leads from id to the sink.
func (n *Nest) Reachable(id string) bool { return n.Distance(id) != Unreachable }

// UnreachableRooms returns the rooms with no path to the sink, in
// declaration order.
func (n *Nest) UnreachableRooms() []string {
	var out []string
	for _, node := range n.nodes {
		if !n.Reachable(node.ID) {
			out = append(out, node.ID)
		}
	}
	return out
}

// queueItem is a pending room in the breadth-first walk.
type queueItem struct {
	id    string
	depth int
}

// distancesToSink walks the nest breadth-first from the sink. Rooms absent
// from the result are unreachable.
func (n *Nest) distancesToSink() map[string]int {
	dist := make(map[string]int, len(n.nodes))
	dist[n.sink] = 0

	queue := []queueItem{{id: n.sink}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		for _, next := range n.adj[item.id] {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = item.depth + 1
			queue = append(queue, queueItem{id: next, depth: item.depth + 1})
		}
	}
	return dist
}
