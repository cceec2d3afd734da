// Package nodelink renders nests as node-link diagrams.
//
// # Overview
//
// Rooms are drawn as circles and tunnels as undirected lines, laid out by
// Graphviz. The source and sink are double circles. A run's history can be
// overlaid:
//
//   - Trails: tunnel pen width and opacity follow the pheromone intensity
//     (width 1 + 4i, alpha 0.3 + 0.6i, where i is passages over the busiest
//     tunnel's passages)
//   - Occupancy: room labels read "id (ants/capacity)" and busy rooms are
//     shaded
//   - Highlight: bottleneck rooms and tunnels from an analysis are drawn in red
//
// # Usage
//
//	occ, _ := rec.Replay(n, k)
//	dot := nodelink.ToDOT(n, nodelink.Options{
//	    Step:      k + 1,
//	    Trails:    rec.Trails(n, k),
//	    Occupancy: occ,
//	})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use [RenderPDF] and [RenderPNG], which need librsvg
// (rsvg-convert) on the PATH.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
