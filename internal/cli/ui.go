package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	nestio "github.com/matzehuels/antnest/pkg/io"
	"github.com/matzehuels/antnest/pkg/pipeline"
	"github.com/matzehuels/antnest/pkg/sim"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorRed    = lipgloss.Color("167")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleError       = lipgloss.NewStyle().Foreground(colorRed)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

const (
	iconInfo  = "›"
	iconArrow = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printLine(icon lipgloss.Style, glyph, format string, args ...any) {
	fmt.Println(icon.Render(glyph) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	printLine(StyleSuccess, "✓", format, args...)
}

func printError(format string, args ...any) {
	printLine(styleError, "✗", format, args...)
}

func printInfo(format string, args ...any) {
	printLine(styleLabel.UnsetWidth(), iconInfo, format, args...)
}

func printWarning(format string, args ...any) {
	printLine(StyleWarning, "!", "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + path)
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + value)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Run Summaries
// =============================================================================

// printOutcome prints the one-line result of a run: a check mark when every
// ant reached the sink, a warning otherwise.
func printOutcome(name string, res *sim.Result) {
	if res.Outcome == sim.OutcomeDelivered {
		printSuccess("%s %s", name, nestio.Summary(res))
		return
	}
	printWarning("%s %s", name, nestio.Summary(res))
}

// printRunStats prints nest size, run length and cache status on one line.
func printRunStats(result *pipeline.Result, cached bool) {
	status := "fresh"
	if cached {
		status = StyleSuccess.Render("cached")
	}
	parts := []string{
		fmt.Sprintf("%d ants", result.Nest.Agents()),
		fmt.Sprintf("%d rooms", result.Stats.Rooms),
		fmt.Sprintf("%d tunnels", result.Stats.Tunnels),
		fmt.Sprintf("%d steps", result.Run.Steps),
		status,
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}
