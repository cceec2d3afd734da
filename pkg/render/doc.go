// Package render provides visualization output for nests and runs.
//
// # Overview
//
// The [nodelink] subpackage draws a nest as an undirected Graphviz diagram,
// with tunnel widths and opacity following the pheromone trail left by a run
// and room labels showing occupancy at a chosen step.
//
//	dot := nodelink.ToDOT(n, nodelink.Options{Trails: rec.Trails(n, k)})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/antnest/pkg/render/nodelink
package render
