package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/antnest/pkg/pipeline"
)

// renderCommand creates the render command for drawing a step of a run.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [nest.txt|-]",
		Short: "Draw the nest at one step of its run",
		Long: `Draw the nest at one step of its run.

Rooms are labelled with their occupancy after the chosen step and tunnels are
weighted by the pheromone trail laid so far. --highlight marks the bottleneck
rooms and tunnels found by 'antnest analyze'.

SVG, PNG and PDF output require Graphviz support compiled in; PNG and PDF are
converted with rsvg-convert. Results are cached locally for faster subsequent
runs.`,
		Example: `  antnest render nests/simple.txt
  antnest render nests/simple.txt --step 3 -f svg,png
  antnest render nests/simple.txt -f dot -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNestFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatSVG)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			c.applySimDefaults(cmd, &opts)
			if err := setInput(&opts, args[0], cmd.InOrStdin()); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().IntVar(&opts.Step, "step", 0, "1-based step to draw (0 draws the last step)")
	cmd.Flags().BoolVar(&opts.Highlight, "highlight", false, "mark bottleneck rooms and tunnels")
	completeFormats(cmd, true, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT)
	addSimFlags(cmd, &opts, &noCache)

	return cmd
}

// runRender executes the pipeline for diagram formats.
func (c *CLI) runRender(ctx context.Context, w, status io.Writer, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spin := startSpinner(ctx, status, "Rendering "+strings.Join(opts.Formats, ", "))
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			spin.stop()
			return ctx.Err()
		}
		spin.fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spin.stop()

	paths, err := writeArtifacts(w, result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	if paths == nil {
		return nil
	}

	printSuccess("Rendered %s at step %d of %d", result.Nest.Name(), result.View.Step, result.Run.Steps)
	printRunStats(result, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
