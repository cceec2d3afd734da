package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	nestio "github.com/matzehuels/antnest/pkg/io"
	"github.com/matzehuels/antnest/pkg/pipeline"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "solve [nest.txt|-]",
		Short: "Simulate a nest and print every move",
		Long: `Simulate a nest and print every move.

The default output is the solution text: a "# <nest>: <ants> ants" header,
one "+++ E<step> +++" line per step followed by its "f<ant> - <from> - <to>"
moves, and a closing summary comment. JSON and YAML reports carry the full
history.

A single text format is printed to stdout unless -o is given. Pass "-" to read
the nest from stdin.`,
		Example: `  antnest solve nests/simple.txt
  antnest solve nests/simple.txt -f json -o run.json
  cat nest.txt | antnest solve - --no-regress --archive`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNestFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatText)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			c.applySimDefaults(cmd, &opts)
			if err := setInput(&opts, args[0], cmd.InOrStdin()); err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), cmd.OutOrStdout(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): txt (default), json, yaml (comma-separated)")
	cmd.Flags().BoolVar(&opts.Archive, "archive", false, "save the run to the run archive")
	completeFormats(cmd, true, pipeline.ValidFormats...)
	addSimFlags(cmd, &opts, &noCache)

	return cmd
}

// runSolve executes the pipeline and writes its artifacts.
func (c *CLI) runSolve(ctx context.Context, w io.Writer, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, opts.Archive)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	if !result.Run.Outcome.Success() {
		loggerFromContext(ctx).Warn("nest not cleared", "summary", nestio.Summary(result.Run))
	}

	paths, err := writeArtifacts(w, result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	if paths == nil {
		return nil
	}

	printOutcome(result.Nest.Name(), result.Run)
	printRunStats(result, result.CacheInfo.SolveHit)
	for _, p := range paths {
		printFile(p)
	}
	if result.RunID != "" {
		printKeyValue("Run", result.RunID)
	}
	return nil
}
