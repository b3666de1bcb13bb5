package watch

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/ringclock/internal/clock"
	"github.com/mattjoyce/ringclock/internal/events"
)

const eventLogSize = 50

type frameMsg clock.State

type eventMsg events.Event

type framesClosedMsg struct{}

type tickMsg time.Time

// Model is the main BubbleTea model for the watch TUI.
type Model struct {
	width  int
	height int

	state    clock.State
	hasFrame bool
	display  Display
	eventLog []events.Event
	// seeded holds IDs logged by WithHistory that may also arrive live.
	seeded map[int64]struct{}

	ticker  Ticker
	spinner Spinner
	theme   Theme
	now     func() time.Time

	frames    <-chan clock.State
	hubEvents <-chan events.Event
	// displaySource recomputes display after preference or theme changes.
	displaySource func() Display

	lastError string
}

// New creates a watch model reading frames from a controller subscription
// and, optionally, events from the hub.
func New(frames <-chan clock.State, hubEvents <-chan events.Event, display Display) Model {
	return Model{
		display:   display,
		eventLog:  make([]events.Event, 0),
		ticker:    NewTicker(),
		spinner:   NewSpinner(),
		theme:     NewDefaultTheme(),
		now:       time.Now,
		frames:    frames,
		hubEvents: hubEvents,
	}
}

// WithHistory seeds the event stream with events published before the model
// started, oldest first as returned by the hub.
func (m Model) WithHistory(evs []events.Event) Model {
	if len(evs) == 0 {
		return m
	}
	m.seeded = make(map[int64]struct{}, len(evs))
	for _, e := range evs {
		m = m.logEvent(e)
		m.seeded[e.ID] = struct{}{}
	}
	return m
}

// WithDisplaySource makes the model reread its display settings whenever a
// preference or theme change is published.
func (m Model) WithDisplaySource(fn func() Display) Model {
	m.displaySource = fn
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		receiveNextFrame(m.frames),
		receiveNextEvent(m.hubEvents),
		tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) }),
		tea.EnterAltScreen,
	)
}

func receiveNextFrame(ch <-chan clock.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg(s)
	}
}

func receiveNextEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.display.ShowSeconds = !m.display.ShowSeconds
		case "d":
			m.display.ShowDigital = !m.display.ShowDigital
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		m.state = clock.State(msg)
		m.hasFrame = true
		m.ticker.Tick(m.now())
		m.lastError = ""
		return m, receiveNextFrame(m.frames)

	case framesClosedMsg:
		m.lastError = "clock stopped"
		return m, tea.Quit

	case eventMsg:
		e := events.Event(msg)
		if _, dup := m.seeded[e.ID]; dup {
			delete(m.seeded, e.ID)
			return m, receiveNextEvent(m.hubEvents)
		}
		m = m.logEvent(e)
		m.spinner.OnEvent(m.now())
		switch e.Type {
		case events.IconFailed:
			m.lastError = "icon update failed"
		case events.PreferenceChanged, events.ThemeChanged:
			if m.displaySource != nil {
				m.display = m.displaySource()
			}
		}
		return m, receiveNextEvent(m.hubEvents)

	case tickMsg:
		m.spinner.Decay(m.now())
		return m, tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
	}

	return m, nil
}

func (m Model) logEvent(e events.Event) Model {
	m.eventLog = append([]events.Event{e}, m.eventLog...)
	if len(m.eventLog) > eventLogSize {
		m.eventLog = m.eventLog[:eventLogSize]
	}
	return m
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing ringclock..."
	}
	if !m.hasFrame {
		return "Waiting for the first clock frame..."
	}

	now := m.now()
	header := renderHeader(m.state, m.ticker, m.spinner, m.theme, m.width, now)
	rings := renderRings(m.state, m.display, m.theme, m.width)
	eventStream := renderEventStream(m.eventLog, m.theme, m.width)

	var errBar string
	if m.lastError != "" {
		errBar = m.theme.Failed.Render(fmt.Sprintf(" ⚠ %s", m.lastError))
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(" [q] Quit • [s] Seconds ring • [d] Digital time")

	parts := []string{header, rings, eventStream}
	if errBar != "" {
		parts = append(parts, errBar)
	}
	parts = append(parts, help)

	return lipgloss.NewStyle().Margin(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}
