package io

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/sim"
)

// WriteNest encodes n in the nest text format. Terminals are implicit in the
// format and are not written. Only nests using the default terminal names
// can be expressed.
func WriteNest(w io.Writer, n *nest.Nest) error {
	if n.Source() != nest.DefaultSource || n.Sink() != nest.DefaultSink {
		return fmt.Errorf("%w: terminals must be %s and %s", ErrSyntax, nest.DefaultSource, nest.DefaultSink)
	}

	bw := bufio.NewWriter(w)
	if n.Name() != "" {
		fmt.Fprintf(bw, "# %s\n", n.Name())
	}
	fmt.Fprintf(bw, "f=%d\n", n.Agents())
	for _, node := range n.Nodes() {
		switch {
		case n.IsTerminal(node.ID):
		case node.Capacity == 1:
			fmt.Fprintln(bw, node.ID)
		default:
			fmt.Fprintf(bw, "%s { %d }\n", node.ID, node.Capacity)
		}
	}
	for _, e := range n.Edges() {
		fmt.Fprintln(bw, e.String())
	}
	return bw.Flush()
}

// ExportNest writes n to a nest file at path.
func ExportNest(n *nest.Nest, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteNest(f, n)
}

// WriteSolution prints the moves of res step by step, framed by a header
// naming the nest and a trailer stating the outcome. The empty final step of
// a stalled run is printed as a bare header.
func WriteSolution(w io.Writer, n *nest.Nest, res *sim.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s: %d ants\n", n.Name(), n.Agents())
	for i, moves := range res.Recorder.Steps() {
		fmt.Fprintf(bw, "+++ E%d +++\n", i+1)
		for _, m := range moves {
			fmt.Fprintln(bw, m.String())
		}
	}
	fmt.Fprintf(bw, "# %s\n", Summary(res))
	return bw.Flush()
}

// Summary is the one-line outcome of a run.
func Summary(res *sim.Result) string {
	switch res.Outcome {
	case sim.OutcomeDelivered:
		return fmt.Sprintf("delivered in %d steps", res.Steps)
	case sim.OutcomeStalled:
		return fmt.Sprintf("stalled after %d steps (%d/%d delivered)", res.Steps, res.Delivered, res.Agents)
	default:
		return fmt.Sprintf("step limit reached after %d steps (%d/%d delivered)", res.Steps, res.Delivered, res.Agents)
	}
}
