package watch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/ringclock/internal/events"
)

func renderEventStream(eventLog []events.Event, theme Theme, width int) string {
	innerWidth := width - 4

	if len(eventLog) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			theme.Title.Render("EVENT STREAM"),
			theme.Dim.Render("  Waiting for events..."),
		)
		return theme.Border.Width(innerWidth).Render(content)
	}

	var lines []string
	for i, e := range eventLog {
		if i >= 8 {
			break
		}
		lines = append(lines, formatEvent(e, theme))
	}

	eventsText := lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("EVENT STREAM"),
		eventsText,
	)

	return theme.Border.Width(innerWidth).Render(content)
}

func formatEvent(e events.Event, theme Theme) string {
	ts := theme.Dim.Render(e.At.Local().Format("15:04:05"))

	var typeStyle lipgloss.Style
	switch {
	case strings.HasSuffix(e.Type, ".failed"):
		typeStyle = theme.Failed
	case strings.HasSuffix(e.Type, ".started"):
		typeStyle = theme.Animating
	case strings.HasPrefix(e.Type, "preference"), strings.HasPrefix(e.Type, "theme"):
		typeStyle = theme.Highlight
	default:
		typeStyle = theme.Dim
	}

	typeName := typeStyle.Render(fmt.Sprintf("%-20s", e.Type))
	return fmt.Sprintf("%s %s %s", ts, typeName, extractEventDesc(e))
}

func extractEventDesc(e events.Event) string {
	data := make(map[string]any)
	_ = json.Unmarshal(e.Data, &data)

	var parts []string
	if key, ok := data["key"].(string); ok {
		parts = append(parts, key)
		if deleted, _ := data["deleted"].(bool); deleted {
			parts = append(parts, "(reset)")
		}
	}
	if theme, ok := data["theme"].(string); ok {
		parts = append(parts, theme)
	}
	if z, ok := data["z"].(float64); ok {
		x, _ := data["x"].(float64)
		y, _ := data["y"].(float64)
		parts = append(parts, fmt.Sprintf("x%+.0f° y%+.0f° z%+.0f°", x, y, z))
	}
	if size, ok := data["size"].(float64); ok {
		parts = append(parts, fmt.Sprintf("%dpx", int(size)))
	}
	if errText, ok := data["error"].(string); ok {
		parts = append(parts, errText)
	}

	if len(parts) == 0 {
		raw := string(e.Data)
		if raw == "{}" {
			return ""
		}
		if len(raw) > 60 {
			raw = raw[:60] + "..."
		}
		return raw
	}
	return strings.Join(parts, " ")
}
