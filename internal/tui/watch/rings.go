package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/ringclock/internal/clock"
	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

// Display toggles mirror the clock preferences.
type Display struct {
	ShowSeconds bool
	ShowDigital bool
	TextColor   paint.Color
}

// ringBar renders one progress value as a bar in the ring colour.
func ringBar(p float64, c paint.Color, width int) string {
	bar := progress.New(
		progress.WithSolidFill(c.WithAlpha(1).Hex()),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(p)
}

func renderRingSet(label string, p timemodel.Progress, s clock.State, d Display, theme Theme, width int) []string {
	barWidth := width - 14
	if barWidth < 10 {
		barWidth = 10
	}
	lines := []string{theme.Header.Render(label)}
	row := func(name string, v float64, c paint.Color) {
		lines = append(lines, fmt.Sprintf("  %-3s %s %3.0f%%", name, ringBar(v, c, barWidth), v*100))
	}
	row("hr", p.Hour, s.Colors.Hour)
	row("min", p.Minute, s.Colors.Minute)
	if d.ShowSeconds {
		row("sec", p.Second, s.Colors.Second)
	}
	return lines
}

func renderRings(s clock.State, d Display, theme Theme, width int) string {
	innerWidth := width - 4

	var blocks []string
	primaryLabel := s.Primary
	if d.ShowDigital && s.Digital != "" {
		primaryLabel += "  " + colorStyle(d.TextColor).Render(s.Digital)
	}
	blocks = append(blocks, strings.Join(renderRingSet(primaryLabel, s.Progress, s, d, theme, innerWidth), "\n"))

	for _, z := range s.Zones {
		if z.ID == s.Primary {
			continue
		}
		label := z.Label
		if d.ShowDigital {
			label += "  " + theme.Highlight.Render(z.Digital)
		}
		if !z.Resolved {
			label += "  " + theme.Failed.Render("(unknown zone, host time)")
		}
		blocks = append(blocks, strings.Join(renderRingSet(label, z.Progress, s, d, theme, innerWidth), "\n"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("RINGS"),
		lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(blocks, "\n\n")),
	)
	return theme.Border.Width(innerWidth).Render(content)
}
