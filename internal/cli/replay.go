package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/graph"
	nestio "github.com/matzehuels/antnest/pkg/io"
	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/pipeline"
)

// replayCommand creates the interactive replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		start   int
		plain   bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "replay [nest.txt|-|run-id]",
		Short: "Step through a run interactively",
		Long: `Step through a run interactively.

The argument is a nest file, "-" for stdin, or the id of an archived run.
--plain prints every frame instead of starting the viewer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				n   *nest.Nest
				rep graph.Report
				err error
			)
			if archive.ValidID(args[0]) {
				n, rep, err = c.loadArchived(ctx, args[0])
			} else {
				c.applySimDefaults(cmd, &opts)
				if err := setInput(&opts, args[0], cmd.InOrStdin()); err != nil {
					return err
				}
				n, rep, err = c.solveForReplay(ctx, opts, noCache)
			}
			if err != nil {
				return err
			}
			return c.runReplay(cmd.OutOrStdout(), n, rep, start, plain)
		},
	}

	cmd.Flags().IntVar(&start, "step", 0, "step to open at (0 is the initial state)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print all frames and exit")
	addSimFlags(cmd, &opts, &noCache)

	return cmd
}

func (c *CLI) loadArchived(ctx context.Context, id string) (*nest.Nest, graph.Report, error) {
	store, err := c.newArchive(ctx)
	if err != nil {
		return nil, graph.Report{}, err
	}
	if store == nil {
		return nil, graph.Report{}, fmt.Errorf("run archive is disabled")
	}
	defer store.Close()

	run, err := store.Get(ctx, id)
	if err != nil {
		return nil, graph.Report{}, err
	}
	n, _, err := run.Report.Restore()
	if err != nil {
		return nil, graph.Report{}, fmt.Errorf("run %s: %w", id, err)
	}
	return n, run.Report, nil
}

func (c *CLI) solveForReplay(ctx context.Context, opts pipeline.Options, noCache bool) (*nest.Nest, graph.Report, error) {
	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return nil, graph.Report{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	n, err := pipeline.Load(opts)
	if err != nil {
		return nil, graph.Report{}, err
	}
	_, rep, err := runner.Solve(ctx, n, opts)
	if err != nil {
		return nil, graph.Report{}, err
	}
	return n, rep, nil
}

func (c *CLI) runReplay(w io.Writer, n *nest.Nest, rep graph.Report, start int, plain bool) error {
	frames, err := graph.Frames(n, rep.Recorder())
	if err != nil {
		return err
	}
	_, res, err := rep.Result()
	if err != nil {
		return err
	}
	model := NewReplayModel(n, frames, nestio.Summary(res), start)

	if plain {
		for i := range frames {
			model.Index = i
			if _, err := fmt.Fprintf(w, "%s\n\n", model.View()); err != nil {
				return err
			}
		}
		return nil
	}

	_, err = tea.NewProgram(model, tea.WithOutput(w)).Run()
	return err
}
