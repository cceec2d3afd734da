package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/graph"
	nestio "github.com/matzehuels/antnest/pkg/io"
	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/render/nodelink"
	"github.com/matzehuels/antnest/pkg/sim"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, n *nest.Nest, res *sim.Result, report graph.Report, view View, a *analysis.Analysis, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	if opts.NeedsDiagram() {
		dot = nodelink.ToDOT(n, nodelink.Options{
			Step:      view.Step,
			Trails:    view.Trails,
			Occupancy: view.Occupancy,
			Highlight: a,
		})
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatText:
			var buf bytes.Buffer
			err = nestio.WriteSolution(&buf, n, res)
			data = buf.Bytes()
		case FormatJSON:
			data, err = graph.MarshalReport(report)
		case FormatYAML:
			data, err = nestio.MarshalYAML(report)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
