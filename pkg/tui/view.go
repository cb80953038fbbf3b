package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"}).Bold(true)
	groupStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"})
	selectedStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"})
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#17A2B8", Dark: "#4DD0E1"})
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"})
)

// View renders the breadcrumb, the current group's items, the last run
// status and the help line.
func (m Model) View() string {
	var b strings.Builder

	crumbs := make([]string, 0, len(m.path))
	for _, n := range m.path {
		crumbs = append(crumbs, n.Label())
	}
	b.WriteString(titleStyle.Render(strings.Join(crumbs, " › ")))
	b.WriteString("\n\n")

	items := m.items()
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("  (empty)"))
		b.WriteString("\n")
	}
	for i, it := range items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		var line string
		if it.group != nil {
			line = groupStyle.Render(it.group.Label() + "/")
		} else {
			label := it.action.Label
			if label == "" {
				label = it.action.ID
			}
			line = label
			if it.action.Shortcut != "" {
				line += " " + keyStyle.Render(it.action.Shortcut)
			}
		}
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
