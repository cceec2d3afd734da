package analysis

import "github.com/matzehuels/antnest/pkg/nest"

// simplePaths enumerates simple source-to-sink paths of at most cutoff
// tunnels by depth-first search in neighbour order.
func simplePaths(n *nest.Nest, cutoff int) [][]string {
	w := &pathWalker{
		nest:    n,
		cutoff:  cutoff,
		visited: map[string]bool{n.Source(): true},
		path:    []string{n.Source()},
	}
	w.visit(n.Source())
	return w.paths
}

type pathWalker struct {
	nest    *nest.Nest
	cutoff  int
	visited map[string]bool
	path    []string
	paths   [][]string
}

func (w *pathWalker) visit(id string) {
	if len(w.path)-1 >= w.cutoff {
		return
	}
	for _, nb := range w.nest.Neighbors(id) {
		if w.visited[nb] {
			continue
		}
		if nb == w.nest.Sink() {
			p := make([]string, len(w.path)+1)
			copy(p, w.path)
			p[len(w.path)] = nb
			w.paths = append(w.paths, p)
			continue
		}
		w.visited[nb] = true
		w.path = append(w.path, nb)
		w.visit(nb)
		w.path = w.path[:len(w.path)-1]
		w.visited[nb] = false
	}
}

// connected reports whether the sink is reachable from the source once room
// (if non-empty) and tunnel cut (if non-zero) are removed.
func connected(n *nest.Nest, room string, cut nest.Edge) bool {
	cut = cut.Normalize()
	seen := map[string]bool{n.Source(): true}
	queue := []string{n.Source()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == n.Sink() {
			return true
		}
		for _, nb := range n.Neighbors(id) {
			if seen[nb] || nb == room {
				continue
			}
			if (nest.Edge{A: id, B: nb}).Normalize() == cut {
				continue
			}
			seen[nb] = true
			queue = append(queue, nb)
		}
	}
	return false
}
