package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/history"
	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/render"
)

const (
	trailColor      = "#8b4513"
	bottleneckColor = "#d62728"
	sourceFill      = "#d4f4dd"
	sinkFill        = "#fde2e2"
	busyFill        = "#ffe8a3"
	fullFill        = "#ffb347"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Step is shown in the diagram title when positive.
	Step int

	// Trails weights tunnels by pheromone intensity. Nil draws every tunnel
	// with unit width.
	Trails []history.Trail

	// Occupancy adds ant counts to room labels. Nil shows capacity only.
	Occupancy colony.Occupancy

	// Highlight marks the bottlenecks of an analysis.
	Highlight *analysis.Analysis
}

// ToDOT converts a nest to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(n *nest.Nest, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [color=\"" + trailColor + "\"];\n")
	if title := fmtTitle(n, opts); title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", title)
	}
	buf.WriteString("\n")

	hl := highlights(opts.Highlight)
	for _, node := range n.Nodes() {
		attrs := fmtNodeAttrs(n, node.ID, opts, hl)
		fmt.Fprintf(&buf, "  %q [%s];\n", node.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	trails := make(map[history.EdgeKey]history.Trail, len(opts.Trails))
	for _, t := range opts.Trails {
		trails[t.Edge] = t
	}
	for _, e := range n.Edges() {
		attrs := fmtEdgeAttrs(e, trails, opts.Trails != nil, hl)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.A, e.B)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.A, e.B, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtTitle(n *nest.Nest, opts Options) string {
	switch {
	case opts.Step > 0 && n.Name() != "":
		return fmt.Sprintf("%s - step %d", n.Name(), opts.Step)
	case opts.Step > 0:
		return fmt.Sprintf("step %d", opts.Step)
	default:
		return n.Name()
	}
}

type highlight struct {
	nodes map[string]bool
	edges map[nest.Edge]bool
}

func highlights(a *analysis.Analysis) highlight {
	h := highlight{nodes: map[string]bool{}, edges: map[nest.Edge]bool{}}
	if a == nil {
		return h
	}
	for _, id := range a.BottleneckNodes {
		h.nodes[id] = true
	}
	for _, e := range a.BottleneckEdges {
		h.edges[e.Normalize()] = true
	}
	return h
}

func fmtLabel(n *nest.Nest, id string, occ colony.Occupancy) string {
	switch {
	case n.IsTerminal(id) && occ != nil:
		return fmt.Sprintf("%s\n(%d)", id, occ.Count(id))
	case n.IsTerminal(id):
		return id
	case occ != nil:
		return fmt.Sprintf("%s\n(%d/%d)", id, occ.Count(id), n.Capacity(id))
	default:
		return fmt.Sprintf("%s\n(%d)", id, n.Capacity(id))
	}
}

func fmtNodeAttrs(n *nest.Nest, id string, opts Options, hl highlight) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, id, opts.Occupancy))}
	switch {
	case id == n.Source():
		attrs = append(attrs, "shape=doublecircle", fmt.Sprintf("fillcolor=%q", sourceFill))
	case id == n.Sink():
		attrs = append(attrs, "shape=doublecircle", fmt.Sprintf("fillcolor=%q", sinkFill))
	case opts.Occupancy != nil && opts.Occupancy.Count(id) >= n.Capacity(id):
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fullFill))
	case opts.Occupancy != nil && opts.Occupancy.Count(id) > 0:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", busyFill))
	}
	if hl.nodes[id] {
		attrs = append(attrs, fmt.Sprintf("color=%q", bottleneckColor), "penwidth=2")
	}
	return attrs
}

func fmtEdgeAttrs(e nest.Edge, trails map[history.EdgeKey]history.Trail, weighted bool, hl highlight) []string {
	var attrs []string
	if weighted {
		t := trails[history.Key(e.A, e.B)]
		width, alpha := t.Width, t.Alpha
		if width == 0 {
			width, alpha = 1, 0.3
		}
		attrs = append(attrs,
			"penwidth="+strconv.FormatFloat(width, 'f', -1, 64),
			fmt.Sprintf("color=%q", trailColor+alphaHex(alpha)))
	}
	if hl.edges[e.Normalize()] {
		attrs = append(attrs, fmt.Sprintf("color=%q", bottleneckColor), "style=dashed")
	}
	return attrs
}

// alphaHex encodes an opacity in [0, 1] as a two-digit hex suffix.
func alphaHex(alpha float64) string {
	v := int(math.Round(max(0, min(1, alpha)) * 255))
	return fmt.Sprintf("%02x", v)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing scales from its
// origin at its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
