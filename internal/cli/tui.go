package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/antnest/pkg/graph"
	"github.com/matzehuels/antnest/pkg/nest"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
)

// maxAgentsShown bounds the ant ids listed per room.
const maxAgentsShown = 8

// =============================================================================
// ReplayModel - Step-by-step run viewer
// =============================================================================

// replayRoom is one table row of the viewer.
type replayRoom struct {
	ID       string
	Capacity int // 0 for the source and sink
	Terminal bool
}

// ReplayModel is the bubbletea model for stepping through a recorded run.
// Frame 0 is the initial state.
type ReplayModel struct {
	Name    string
	Summary string
	Rooms   []replayRoom
	Frames  []graph.Frame
	Index   int
}

// NewReplayModel creates a viewer for the frames of a run of n, starting at
// frame start (clamped to the available frames).
func NewReplayModel(n *nest.Nest, frames []graph.Frame, summary string, start int) ReplayModel {
	rooms := make([]replayRoom, 0, n.NodeCount())
	for _, node := range n.Nodes() {
		r := replayRoom{ID: node.ID, Terminal: n.IsTerminal(node.ID)}
		if !r.Terminal {
			r.Capacity = n.Capacity(node.ID)
		}
		rooms = append(rooms, r)
	}
	m := ReplayModel{Name: n.Name(), Summary: summary, Rooms: rooms, Frames: frames}
	m.Index = min(max(start, 0), m.last())
	return m
}

func (m ReplayModel) last() int { return max(len(m.Frames)-1, 0) }

func (m ReplayModel) Init() tea.Cmd {
	return nil
}

func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "k", "up":
			if m.Index > 0 {
				m.Index--
			}
		case "right", "l", "j", "down", " ":
			if m.Index < m.last() {
				m.Index++
			}
		case "home", "g":
			m.Index = 0
		case "end", "G":
			m.Index = m.last()
		}
	}
	return m, nil
}

func (m ReplayModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  step %d/%d", m.Index, m.last())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ step  home/end jump  q quit"))
	b.WriteString("\n\n")

	if len(m.Frames) == 0 {
		b.WriteString(listDimStyle.Render("no frames"))
		return b.String()
	}
	frame := m.Frames[m.Index]

	rows := make([][]string, len(m.Rooms))
	for i, r := range m.Rooms {
		ants := frame.Occupancy[r.ID]
		capacity := "∞"
		if !r.Terminal {
			capacity = fmt.Sprint(r.Capacity)
		}
		rows[i] = []string{r.ID, fmt.Sprint(len(ants)), capacity, formatAgents(ants)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Room", "Ants", "Cap", "Who").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			r := m.Rooms[row]
			n := len(frame.Occupancy[r.ID])
			switch {
			case r.Terminal:
				return lipgloss.NewStyle().Foreground(colorLabel)
			case n > 0 && n == r.Capacity:
				return lipgloss.NewStyle().Foreground(colorWarn)
			case n > 0:
				return lipgloss.NewStyle().Foreground(colorOK)
			}
			return lipgloss.NewStyle().Foreground(colorMuted)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if len(frame.Moves) == 0 {
		if m.Index == 0 {
			b.WriteString(listDimStyle.Render("initial state"))
		} else {
			b.WriteString(listDimStyle.Render("no ant moved"))
		}
	} else {
		for _, mv := range frame.Moves {
			b.WriteString(listSelectedStyle.Render(fmt.Sprintf("f%d", mv.Agent)))
			b.WriteString(fmt.Sprintf(" %s %s %s\n", mv.From, iconArrow, mv.To))
		}
	}
	if m.Index == m.last() && m.Summary != "" {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render(m.Summary))
	}

	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// Helpers
// =============================================================================

// formatAgents lists ant ids as "f1 f2 …", eliding past maxAgentsShown.
func formatAgents(ids []int) string {
	if len(ids) == 0 {
		return "—"
	}
	parts := make([]string, 0, maxAgentsShown+1)
	for i, id := range ids {
		if i == maxAgentsShown {
			parts = append(parts, fmt.Sprintf("+%d", len(ids)-maxAgentsShown))
			break
		}
		parts = append(parts, fmt.Sprintf("f%d", id))
	}
	return strings.Join(parts, " ")
}
