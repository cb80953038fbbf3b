package render

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	groupColor = lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"}
	textColor  = lipgloss.AdaptiveColor{Light: "#495057", Dark: "#E9ECEF"}
	mutedColor = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
	keyColor   = lipgloss.AdaptiveColor{Light: "#17A2B8", Dark: "#4DD0E1"}
	errorColor = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
)

type styles struct {
	root       lipgloss.Style
	group      lipgloss.Style
	action     lipgloss.Style
	id         lipgloss.Style
	shortcut   lipgloss.Style
	conflict   lipgloss.Style
	enumerator lipgloss.Style
}

// newStyles binds the palette to r so the colour profile is per writer
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		root:       r.NewStyle().Foreground(groupColor).Bold(true),
		group:      r.NewStyle().Foreground(groupColor),
		action:     r.NewStyle().Foreground(textColor),
		id:         r.NewStyle().Foreground(mutedColor),
		shortcut:   r.NewStyle().Foreground(keyColor),
		conflict:   r.NewStyle().Foreground(errorColor).Bold(true),
		enumerator: r.NewStyle().Foreground(mutedColor).PaddingRight(1),
	}
}
