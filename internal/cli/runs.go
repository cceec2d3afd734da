package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/errors"
	"github.com/matzehuels/antnest/pkg/graph"
	nestio "github.com/matzehuels/antnest/pkg/io"
	"github.com/matzehuels/antnest/pkg/pipeline"
	"github.com/matzehuels/antnest/pkg/sim"
)

var showFormats = []string{pipeline.FormatText, pipeline.FormatJSON, pipeline.FormatYAML}

// runsCommand creates the run archive command.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived runs",
		Long: `Inspect archived runs.

Runs are saved by 'antnest solve --archive' and by the HTTP server. The archive
backend (file or mongo) is chosen in the config file.`,
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsDeleteCommand())

	return cmd
}

// withArchive opens the archive for the duration of fn.
func (c *CLI) withArchive(ctx context.Context, fn func(archive.Store) error) error {
	store, err := c.newArchive(ctx)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if store == nil {
		return fmt.Errorf("run archive is disabled")
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) runsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withArchive(cmd.Context(), func(store archive.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					printInfo("No archived runs")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultListLimit, "maximum number of runs")
	return cmd
}

func (c *CLI) runsShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:               "show <run-id>",
		Short:             "Print an archived run",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRunID,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateFormat(format, showFormats); err != nil {
				return err
			}
			return c.withArchive(cmd.Context(), func(store archive.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeRun(cmd.OutOrStdout(), run, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatText, "output format: txt, json, yaml")
	completeFormats(cmd, false, showFormats...)
	return cmd
}

func (c *CLI) runsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <run-id>",
		Short:             "Delete an archived run",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRunID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withArchive(cmd.Context(), func(store archive.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted run %s", args[0])
				return nil
			})
		},
	}
}

// writeRun prints run as solution text or as a report.
func writeRun(w io.Writer, run *archive.Run, format string) error {
	switch format {
	case pipeline.FormatJSON:
		return graph.WriteReport(run.Report, w)
	case pipeline.FormatYAML:
		return nestio.WriteYAML(w, run.Report)
	}
	n, res, err := run.Report.Result()
	if err != nil {
		return fmt.Errorf("run %s: %w", run.ID, err)
	}
	return nestio.WriteSolution(w, n, res)
}

// renderRuns formats run summaries as a table.
func renderRuns(runs []archive.Run, now time.Time) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.Name,
			r.Outcome,
			fmt.Sprint(r.Steps),
			fmt.Sprintf("%d/%d", r.Delivered, r.Agents),
			formatRelativeTime(r.CreatedAt, now),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("ID", "Nest", "Outcome", "Steps", "Delivered", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 && !sim.Outcome(runs[row].Outcome).Success() {
				return lipgloss.NewStyle().Foreground(colorWarn)
			}
			if col == 0 || col == 5 {
				return lipgloss.NewStyle().Foreground(colorMuted)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
