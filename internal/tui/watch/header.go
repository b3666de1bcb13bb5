package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/ringclock/internal/clock"
)

func renderHeader(s clock.State, ticker Ticker, spinner Spinner, theme Theme, width int, now time.Time) string {
	innerWidth := width - 4

	tickerStr := theme.Highlight.Render(ticker.Current())
	if ticker.Stalled(now, 2*time.Second) {
		tickerStr = theme.Failed.Render("✕")
	}
	titleText := fmt.Sprintf(" RINGCLOCK %s", tickerStr)
	primary := theme.Dim.Render(s.Primary)

	titleWidth := lipgloss.Width(titleText)
	primaryWidth := lipgloss.Width(primary)
	pad := innerWidth - titleWidth - primaryWidth - 4
	if pad < 1 {
		pad = 1
	}
	titleLine := titleText + strings.Repeat(" ", pad) + primary + " "

	status := theme.OK.Render("steady")
	if s.IsAnimating {
		status = theme.Animating.Render(fmt.Sprintf("flipping x%+.0f° y%+.0f° z%+.0f°",
			s.RotationX, s.RotationY, s.RotationZ))
	}
	statsLine := fmt.Sprintf(" %s  %s", status, theme.Dim.Render(s.At.Format("2006-01-02 15:04:05 MST")))

	lastEventStr := "never"
	if !spinner.LastEvent().IsZero() {
		ago := now.Sub(spinner.LastEvent()).Round(time.Second)
		lastEventStr = fmt.Sprintf("%s ago", ago)
	}
	activityLine := fmt.Sprintf(" Last event: %s %s", lastEventStr, spinner.Render(theme))

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleLine,
		statsLine,
		activityLine,
	)

	return theme.Border.Width(innerWidth).Render(content)
}
