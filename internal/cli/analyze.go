package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/errors"
	"github.com/matzehuels/antnest/pkg/pipeline"
)

// analyzeReport is the machine-readable output of analyze.
type analyzeReport struct {
	Nest       string              `json:"nest" yaml:"nest"`
	Steps      int                 `json:"steps" yaml:"steps"`
	Analysis   analysis.Analysis   `json:"analysis" yaml:"analysis"`
	Complexity analysis.Complexity `json:"complexity" yaml:"complexity"`
}

var analyzeFormats = []string{"table", pipeline.FormatJSON, pipeline.FormatYAML}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		format  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "analyze [nest.txt|-]",
		Short: "Report the routes, bottlenecks and difficulty of a nest",
		Long: `Report the routes, bottlenecks and difficulty of a nest.

Paths are simple source-to-sink routes of at most 10 tunnels. A bottleneck
room lies on every path and a bottleneck tunnel disconnects the sink when
removed. The complexity score combines ant density, bottlenecks, nest size and
the number of steps the nest takes to clear.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNestFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateFormat(format, analyzeFormats); err != nil {
				return err
			}
			c.applySimDefaults(cmd, &opts)
			if err := setInput(&opts, args[0], cmd.InOrStdin()); err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), opts, format, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml")
	completeFormats(cmd, false, analyzeFormats...)
	addSimFlags(cmd, &opts, &noCache)

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, w io.Writer, opts pipeline.Options, format string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	n, err := pipeline.Load(opts)
	if err != nil {
		return err
	}
	res, _, err := runner.Solve(ctx, n, opts)
	if err != nil {
		return err
	}

	a := analysis.Analyze(n)
	report := analyzeReport{
		Nest:       n.Name(),
		Steps:      res.Steps,
		Analysis:   a,
		Complexity: analysis.Assess(n, a, res.Steps),
	}

	switch format {
	case pipeline.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case pipeline.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err = fmt.Fprintln(w, renderAnalysis(report))
	return err
}

// renderAnalysis formats report for the terminal.
func renderAnalysis(r analyzeReport) string {
	var b strings.Builder
	a, cx := r.Analysis, r.Complexity

	b.WriteString(StyleTitle.Render(r.Nest))
	b.WriteString("\n\n")

	kv := func(key, value string) {
		keyStyle := lipgloss.NewStyle().Foreground(colorLabel).Width(14)
		b.WriteString(keyStyle.Render(key) + " " + value + "\n")
	}
	kv("Quality", qualityStyle(a.Quality).Render(string(a.Quality)))
	kv("Complexity", fmt.Sprintf("%s (%s)", StyleNumber.Render(fmt.Sprintf("%.1f", cx.Score)), cx.Class))
	kv("Steps", StyleNumber.Render(fmt.Sprint(r.Steps)))
	kv("Paths", StyleNumber.Render(fmt.Sprint(a.ParallelPaths)))
	kv("Direct tunnel", fmt.Sprint(a.HasDirectPath))
	kv("Bottlenecks", orDash(strings.Join(a.BottleneckNodes, ", ")))

	if len(a.CriticalPaths) > 0 {
		rows := make([][]string, len(a.CriticalPaths))
		for i, p := range a.CriticalPaths {
			rows[i] = []string{fmt.Sprint(len(p) - 1), strings.Join(p, " → ")}
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
			Headers("Tunnels", "Shortest path").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
				}
				return lipgloss.NewStyle()
			})
		b.WriteString("\n" + t.Render() + "\n")
	}

	for _, reason := range cx.Reasons {
		b.WriteString("\n" + StyleDim.Render(iconInfo+" "+reason))
	}
	return strings.TrimRight(b.String(), "\n")
}

func qualityStyle(q analysis.Quality) lipgloss.Style {
	switch q {
	case analysis.QualityExcellent, analysis.QualityGood:
		return StyleSuccess
	case analysis.QualityCritical, analysis.QualityDisconnected:
		return lipgloss.NewStyle().Foreground(colorRed)
	}
	return StyleWarning
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
