package watch

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/ringclock/internal/clock"
	"github.com/mattjoyce/ringclock/internal/events"
	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/theme"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

func testFrame() clock.State {
	colors, _ := theme.Builtin(theme.Ghost)
	return clock.State{
		Progress: timemodel.Progress{Hour: 0.5, Minute: 0.25, Second: 0.75},
		Primary:  "Europe/Berlin",
		Digital:  "12:15:45",
		Colors:   colors,
		At:       time.Date(2026, 1, 2, 12, 15, 45, 0, time.UTC),
		Zones: []clock.ZoneState{
			{ID: "Europe/Berlin", Label: "Berlin", Resolved: true, Digital: "12:15:45"},
			{ID: "Asia/Tokyo", Label: "Tokyo", Resolved: true, Digital: "20:15:45",
				Progress: timemodel.Progress{Hour: 0.84, Minute: 0.25, Second: 0.75}},
			{ID: "Mars/Base", Label: "Base", Resolved: false},
		},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestViewBeforeFrames(t *testing.T) {
	m := New(make(chan clock.State), nil, Display{})
	assert.Contains(t, m.View(), "Initializing")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, m.View(), "Waiting for the first clock frame")
}

func TestFrameRendersZones(t *testing.T) {
	frames := make(chan clock.State, 1)
	m := New(frames, nil, Display{ShowSeconds: true, ShowDigital: true, TextColor: paint.White})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, cmd := update(t, m, frameMsg(testFrame()))
	require.NotNil(t, cmd, "keeps listening for frames")

	view := m.View()
	assert.Contains(t, view, "RINGCLOCK")
	assert.Contains(t, view, "Europe/Berlin")
	assert.Contains(t, view, "12:15:45")
	assert.Contains(t, view, "Tokyo")
	assert.Contains(t, view, "20:15:45")
	assert.Contains(t, view, "unknown zone")
	assert.Contains(t, view, "sec")
	assert.Contains(t, view, "steady")

	// Primary, Tokyo and the unresolved zone; Berlin is not repeated.
	assert.Equal(t, 3, strings.Count(view, "hr "))
}

func TestToggleKeys(t *testing.T) {
	m := New(make(chan clock.State), nil, Display{ShowSeconds: true, ShowDigital: true})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, frameMsg(testFrame()))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.False(t, m.display.ShowSeconds)
	assert.NotContains(t, m.View(), " sec ")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.False(t, m.display.ShowDigital)
	assert.NotContains(t, m.View(), "20:15:45")
}

func TestAnimatingHeader(t *testing.T) {
	m := New(make(chan clock.State), nil, Display{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	f := testFrame()
	f.IsAnimating = true
	f.RotationX, f.RotationY, f.RotationZ = 12, -30, 360
	m, _ = update(t, m, frameMsg(f))
	assert.Contains(t, m.View(), "flipping x+12° y-30° z+360°")
}

func TestEventsAreLoggedNewestFirst(t *testing.T) {
	hub := events.NewHub(8)
	ch, cancel := hub.Subscribe()
	defer cancel()

	m := New(make(chan clock.State), ch, Display{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, frameMsg(testFrame()))

	hub.Publish(events.PreferenceChanged, map[string]any{"key": "showSeconds"})
	hub.Publish(events.IconFailed, map[string]any{"size": 24, "error": "disk full"})
	for range 2 {
		var cmd tea.Cmd
		m, cmd = update(t, m, eventMsg(<-ch))
		assert.NotNil(t, cmd)
	}

	require.Len(t, m.eventLog, 2)
	assert.Equal(t, events.IconFailed, m.eventLog[0].Type)
	view := m.View()
	assert.Contains(t, view, "showSeconds")
	assert.Contains(t, view, "24px disk full")
	assert.Contains(t, view, "icon update failed")
}

func TestHistorySeedsEventLog(t *testing.T) {
	hub := events.NewHub(8)
	hub.Publish(events.ThemeChanged, map[string]any{"theme": "moon"})
	hub.Publish(events.IconInstalled, map[string]any{"size": 24})

	ch, cancel := hub.Subscribe()
	defer cancel()
	// Published between subscribing and taking the snapshot, so it is seen twice.
	hub.Publish(events.AnimationStarted, nil)

	m := New(make(chan clock.State), ch, Display{}).WithHistory(hub.SnapshotSince(0))
	require.Len(t, m.eventLog, 3)
	assert.Equal(t, events.AnimationStarted, m.eventLog[0].Type)
	assert.Equal(t, events.ThemeChanged, m.eventLog[2].Type)

	m, _ = update(t, m, eventMsg(<-ch))
	assert.Len(t, m.eventLog, 3, "duplicate of a seeded event is dropped")

	hub.Publish(events.AnimationFinished, nil)
	m, _ = update(t, m, eventMsg(<-ch))
	require.Len(t, m.eventLog, 4)
	assert.Equal(t, events.AnimationFinished, m.eventLog[0].Type)
}

func TestDisplayFollowsPreferenceChanges(t *testing.T) {
	hub := events.NewHub(8)
	ch, cancel := hub.Subscribe()
	defer cancel()

	current := Display{TextColor: paint.White}
	m := New(make(chan clock.State), ch, current).
		WithDisplaySource(func() Display { return current })

	current = Display{ShowSeconds: true, TextColor: paint.Red}
	hub.Publish(events.IconInstalled, map[string]any{"size": 24})
	m, _ = update(t, m, eventMsg(<-ch))
	assert.Equal(t, paint.White, m.display.TextColor, "unrelated events leave display alone")

	hub.Publish(events.ThemeChanged, map[string]any{"theme": "vintage"})
	m, _ = update(t, m, eventMsg(<-ch))
	assert.Equal(t, current, m.display)

	current = Display{ShowDigital: true, TextColor: paint.Blue}
	hub.Publish(events.PreferenceChanged, map[string]any{"key": "showDigitalTime"})
	m, _ = update(t, m, eventMsg(<-ch))
	assert.Equal(t, current, m.display)
}

func TestFramesClosedQuits(t *testing.T) {
	m := New(make(chan clock.State), nil, Display{})
	_, cmd := update(t, m, framesClosedMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestReceiveNextFrameClosed(t *testing.T) {
	ch := make(chan clock.State)
	close(ch)
	assert.Equal(t, framesClosedMsg{}, receiveNextFrame(ch)())
	assert.Nil(t, receiveNextEvent(nil))
}

func TestTickerStalls(t *testing.T) {
	tk := NewTicker()
	base := time.Now()
	assert.False(t, tk.Stalled(base, time.Second), "no frame yet")
	tk.Tick(base)
	assert.False(t, tk.Stalled(base.Add(500*time.Millisecond), time.Second))
	assert.True(t, tk.Stalled(base.Add(3*time.Second), time.Second))
}

func TestSpinnerDecay(t *testing.T) {
	s := NewSpinner()
	base := time.Now()
	s.OnEvent(base)
	s.Decay(base.Add(5 * time.Second))
	assert.Equal(t, 3, s.dots)
	s.Decay(base.Add(11 * time.Second))
	assert.Equal(t, 0, s.dots)
}
