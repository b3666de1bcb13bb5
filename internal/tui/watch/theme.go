// Package watch is a terminal preview of the ring clock. It renders the
// frames published by a clock.Controller and the hub's event stream.
package watch

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/ringclock/internal/paint"
)

// Theme centralizes all styling for the watch TUI. Ring colours are not
// here; they follow the active clock theme frame by frame.
type Theme struct {
	Border    lipgloss.Style
	Title     lipgloss.Style
	Header    lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style

	Animating lipgloss.Style
	Failed    lipgloss.Style
	OK        lipgloss.Style

	TickerActive   lipgloss.Style
	TickerInactive lipgloss.Style
}

func NewDefaultTheme() Theme {
	purple := lipgloss.Color("#874BFD")

	return Theme{
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#61AFEF")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),

		Animating: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00")),
		Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		OK:        lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),

		TickerActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		TickerInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
	}
}

// colorStyle renders text in c, ignoring alpha.
func colorStyle(c paint.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.WithAlpha(1).Hex()))
}
