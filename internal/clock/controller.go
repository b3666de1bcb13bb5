package clock

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mattjoyce/ringclock/internal/events"
	"github.com/mattjoyce/ringclock/internal/scheduler"
	"github.com/mattjoyce/ringclock/internal/theme"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

// ZoneSource supplies the zone selection.
type ZoneSource interface {
	SelectedZones() []string
	PrimaryZone() string
}

// FormatSource supplies the digital time format.
type FormatSource interface {
	DigitalFormat() timemodel.Format
}

// ColorSource supplies the active ring colours.
type ColorSource interface {
	ActiveColors() theme.Triple
}

type Config struct {
	TickInterval      time.Duration
	AnimationDuration time.Duration
	MaxTiltDegrees    float64
}

func DefaultConfig() Config {
	return Config{
		TickInterval:      100 * time.Millisecond,
		AnimationDuration: time.Second,
		MaxTiltDegrees:    40,
	}
}

// Controller recomputes the clock state on every tick and runs the minute
// flip animation.
type Controller struct {
	cfg    Config
	zones  ZoneSource
	format FormatSource
	colors ColorSource

	clock  scheduler.Clock
	rng    *rand.Rand
	logger *slog.Logger
	hub    *events.Hub

	mu      sync.Mutex
	state   State
	latched bool
	reset   *scheduler.Task
	stopped bool
	warned  map[string]bool

	subMu     sync.Mutex
	subs      map[int]chan State
	nextSubID int

	loop *scheduler.Loop
}

type Option func(*Controller)

func WithClock(c scheduler.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

func WithRand(r *rand.Rand) Option {
	return func(ctl *Controller) { ctl.rng = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) {
		if l != nil {
			ctl.logger = l
		}
	}
}

func WithHub(h *events.Hub) Option {
	return func(ctl *Controller) { ctl.hub = h }
}

func New(cfg Config, zones ZoneSource, format FormatSource, colors ColorSource, opts ...Option) *Controller {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.AnimationDuration <= 0 {
		cfg.AnimationDuration = def.AnimationDuration
	}
	if cfg.MaxTiltDegrees <= 0 {
		cfg.MaxTiltDegrees = def.MaxTiltDegrees
	}

	c := &Controller{
		cfg:    cfg,
		zones:  zones,
		format: format,
		colors: colors,
		clock:  scheduler.System,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.Default(),
		warned: make(map[string]bool),
		subs:   make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "clock")
	c.loop = scheduler.NewLoop("clock", cfg.TickInterval, func(context.Context) { c.Tick() }, c.logger)
	return c
}

// Start runs the tick loop until Stop or ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	c.logger.Info("starting clock controller", "tick_interval", c.cfg.TickInterval)
	return c.loop.Start(ctx)
}

// Stop ends the tick loop, cancels a pending animation reset and closes
// every subscription. Ticks after Stop still refresh progress but never
// start an animation.
func (c *Controller) Stop() {
	c.loop.Stop()

	c.mu.Lock()
	c.stopped = true
	c.reset.Cancel()
	c.reset = nil
	c.mu.Unlock()

	c.subMu.Lock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.subMu.Unlock()
	c.logger.Info("clock controller stopped")
}

// Snapshot returns the latest frame.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe delivers every new frame. A subscriber that falls behind misses
// frames; the tick never waits for it.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan State, 1)
	c.subs[id] = ch

	cancel := func() {
		c.subMu.Lock()
		if s, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(s)
		}
		c.subMu.Unlock()
	}
	return ch, cancel
}

// Tick samples the clock once and publishes the resulting frame.
func (c *Controller) Tick() State {
	now := c.clock.Now()
	format := c.format.DigitalFormat()

	primaryID := c.zones.PrimaryZone()
	primaryLoc := c.resolve(primaryID)
	comps := timemodel.ComponentsAt(now, primaryLoc)

	ids := c.zones.SelectedZones()
	zones := make([]ZoneState, 0, len(ids))
	for _, id := range ids {
		loc, ok := timemodel.ResolveZone(id)
		if !ok {
			c.warnZone(id)
		}
		zones = append(zones, ZoneState{
			ID:       id,
			Label:    timemodel.ZoneLabel(id),
			Resolved: ok,
			Progress: timemodel.ProgressAt(now, loc),
			Digital:  timemodel.DigitalTimeAt(now, loc, format),
		})
	}
	colors := c.colors.ActiveColors()

	c.mu.Lock()
	c.state.Progress = timemodel.ProgressOf(comps)
	c.state.Primary = primaryID
	c.state.Digital = timemodel.DigitalTimeAt(now, primaryLoc, format)
	c.state.Zones = zones
	c.state.Colors = colors
	c.state.At = now

	started := false
	if timemodel.IsInAnimationWindow(comps.Second) {
		if !c.latched && !c.stopped {
			c.latched = true
			c.startAnimationLocked()
			started = true
		}
	} else {
		c.latched = false
	}
	frame := c.state.clone()
	c.mu.Unlock()

	if started {
		c.logger.Debug("minute flip started",
			"rotation_x", frame.RotationX, "rotation_y", frame.RotationY, "rotation_z", frame.RotationZ)
		c.hub.Publish(events.AnimationStarted, rotation(frame))
	}
	c.broadcast(frame)
	return frame
}

func (c *Controller) startAnimationLocked() {
	tilt := c.cfg.MaxTiltDegrees
	c.state.RotationX = (c.rng.Float64()*2 - 1) * tilt
	c.state.RotationY = (c.rng.Float64()*2 - 1) * tilt
	if c.rng.IntN(2) == 0 {
		c.state.RotationZ += 360
	} else {
		c.state.RotationZ -= 360
	}
	c.state.IsAnimating = true

	c.reset.Cancel()
	c.reset = scheduler.After(c.clock, c.cfg.AnimationDuration, c.finishAnimation)
}

// finishAnimation runs from the deferred task. It is a no-op once the
// controller is stopped or the task has been superseded.
func (c *Controller) finishAnimation(task *scheduler.Task) {
	c.mu.Lock()
	if c.stopped || c.reset != task {
		c.mu.Unlock()
		return
	}
	c.reset = nil
	c.state.RotationX = 0
	c.state.RotationY = 0
	c.state.RotationZ = 0
	c.state.IsAnimating = false
	frame := c.state.clone()
	c.mu.Unlock()

	c.logger.Debug("minute flip finished", "task", task.ID())
	c.hub.Publish(events.AnimationFinished, rotation(frame))
	c.broadcast(frame)
}

func (c *Controller) resolve(id string) *time.Location {
	loc, ok := timemodel.ResolveZone(id)
	if !ok {
		c.warnZone(id)
	}
	return loc
}

func (c *Controller) warnZone(id string) {
	c.mu.Lock()
	seen := c.warned[id]
	c.warned[id] = true
	c.mu.Unlock()
	if !seen {
		c.logger.Warn("unknown time zone, using local zone", "zone", id)
	}
}

func (c *Controller) broadcast(frame State) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		// Replace an unread frame with the newer one.
		select {
		case ch <- frame:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- frame:
			default:
			}
		}
	}
}

func rotation(s State) map[string]float64 {
	return map[string]float64{"x": s.RotationX, "y": s.RotationY, "z": s.RotationZ}
}
