package icon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/mattjoyce/ringclock/internal/events"
	"github.com/mattjoyce/ringclock/internal/scheduler"
)

type UpdaterConfig struct {
	Interval time.Duration
	Sizes    []int
}

func DefaultUpdaterConfig() UpdaterConfig {
	return UpdaterConfig{Interval: time.Second, Sizes: []int{24, 128}}
}

// Updater re-renders the icon on every tick and installs sizes whose
// pixels changed.
type Updater struct {
	cfg      UpdaterConfig
	renderer *Renderer
	sink     Sink
	enabled  func() bool

	clock  scheduler.Clock
	logger *slog.Logger
	hub    *events.Hub

	mu   sync.Mutex
	last map[int][32]byte

	loop *scheduler.Loop
}

type UpdaterOption func(*Updater)

// WithGate suspends installs while fn reports false.
func WithGate(fn func() bool) UpdaterOption {
	return func(u *Updater) { u.enabled = fn }
}

func WithUpdaterClock(c scheduler.Clock) UpdaterOption {
	return func(u *Updater) { u.clock = c }
}

func WithUpdaterLogger(l *slog.Logger) UpdaterOption {
	return func(u *Updater) {
		if l != nil {
			u.logger = l
		}
	}
}

func WithUpdaterHub(h *events.Hub) UpdaterOption {
	return func(u *Updater) { u.hub = h }
}

func NewUpdater(r *Renderer, sink Sink, cfg UpdaterConfig, opts ...UpdaterOption) *Updater {
	def := DefaultUpdaterConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = def.Sizes
	}

	u := &Updater{
		cfg:      cfg,
		renderer: r,
		sink:     sink,
		clock:    scheduler.System,
		logger:   slog.Default(),
		last:     make(map[int][32]byte),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.logger = u.logger.With("component", "icon")
	u.loop = scheduler.NewLoop("icon", cfg.Interval, func(ctx context.Context) { u.Update(ctx) }, u.logger)
	return u
}

func (u *Updater) Start(ctx context.Context) error {
	u.logger.Info("starting icon updater", "sizes", u.cfg.Sizes, "interval", u.cfg.Interval)
	return u.loop.Start(ctx)
}

func (u *Updater) Stop() {
	u.loop.Stop()
	u.logger.Info("icon updater stopped")
}

// Update renders every size from one time sample and installs the changed
// ones. It returns how many sizes were installed.
func (u *Updater) Update(ctx context.Context) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.enabled != nil && !u.enabled() {
		// Forget what was installed so re-enabling installs again.
		clear(u.last)
		return 0
	}

	icons, err := u.renderer.RenderAt(u.cfg.Sizes, u.clock.Now())
	if err != nil {
		u.logger.Warn("icon render skipped", "error", err)
		return 0
	}

	installed := 0
	for _, ic := range icons {
		if ic.Err != nil {
			u.logger.Warn("icon render failed, keeping previous icon", "size", ic.Size, "error", ic.Err)
			u.hub.Publish(events.IconFailed, map[string]any{"size": ic.Size, "error": ic.Err.Error()})
			continue
		}

		sum := blake3.Sum256(ic.Image.Pix)
		if prev, ok := u.last[ic.Size]; ok && prev == sum {
			continue
		}
		if err := u.sink.Install(ctx, ic.Size, ic.Image); err != nil {
			u.logger.Warn("icon install failed", "size", ic.Size, "error", err)
			u.hub.Publish(events.IconFailed, map[string]any{"size": ic.Size, "error": err.Error()})
			continue
		}
		u.last[ic.Size] = sum
		installed++
		u.logger.Debug("icon installed", "size", ic.Size, "time", ic.At.Format("15:04"))
		u.hub.Publish(events.IconInstalled, map[string]any{"size": ic.Size, "time": ic.At.Format("15:04")})
	}
	return installed
}
