// Package app wires the clock components together for one process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mattjoyce/ringclock/internal/clock"
	"github.com/mattjoyce/ringclock/internal/config"
	"github.com/mattjoyce/ringclock/internal/events"
	"github.com/mattjoyce/ringclock/internal/icon"
	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/scheduler"
	"github.com/mattjoyce/ringclock/internal/settings"
	"github.com/mattjoyce/ringclock/internal/storage"
	"github.com/mattjoyce/ringclock/internal/theme"
)

// App owns the preference backend and every component built on it.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	Hub      *events.Hub
	Prefs    *prefs.Store
	Settings *settings.Settings
	Themes   *theme.Catalog
	Clock    *clock.Controller
	Icons    *icon.Updater // nil when icons are disabled

	backend  storage.Backend
	degraded error

	stopOnce sync.Once
}

type options struct {
	logger  *slog.Logger
	clock   scheduler.Clock
	sink    icon.Sink
	backend storage.Backend
	noIcons bool
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces the wall clock for the controller and the icons.
func WithClock(c scheduler.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithSink installs icons somewhere other than the configured directory.
func WithSink(s icon.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithBackend skips opening the configured backend.
func WithBackend(b storage.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithoutIcons leaves the icon updater out, for one-shot commands.
func WithoutIcons() Option {
	return func(o *options) { o.noIcons = true }
}

// New opens the preference backend and builds the components. A backend
// that cannot be opened is replaced by an in-memory one; Degraded reports
// why.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logger: slog.Default(), clock: scheduler.System}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	a := &App{cfg: cfg, logger: logger, Hub: events.NewHub(256)}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = storage.Open(ctx, cfg.State.Driver, cfg.State.Path)
		if err != nil {
			logger.Error("preference backend unavailable, preferences will not persist",
				"driver", cfg.State.Driver, "path", cfg.State.Path, "error", err)
			a.degraded = err
			backend = storage.NewMemoryBackend()
		}
	}
	a.backend = backend

	store, err := prefs.Open(ctx, backend, prefs.WithHub(a.Hub), prefs.WithLogger(logger))
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	a.Prefs = store
	a.Settings = settings.New(store)
	a.Themes = theme.NewCatalog(store, theme.WithHub(a.Hub), theme.WithLogger(logger))

	a.Clock = clock.New(clock.Config{
		TickInterval:      cfg.Clock.TickInterval,
		AnimationDuration: cfg.Clock.AnimationDuration,
		MaxTiltDegrees:    cfg.Clock.MaxTiltDegrees,
	}, a.Settings, a.Settings, a.Themes,
		clock.WithClock(o.clock),
		clock.WithLogger(logger),
		clock.WithHub(a.Hub),
	)

	if cfg.Icon.Enabled && !o.noIcons {
		if err := a.buildIcons(o); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *App) buildIcons(o options) error {
	renderer, err := icon.NewRenderer(icon.DefaultFace())
	if err != nil {
		return fmt.Errorf("icon renderer: %w", err)
	}
	sink := o.sink
	if sink == nil {
		pngSink, err := icon.NewPNGSink(a.cfg.Icon.OutputDir, a.cfg.Icon.Prefix)
		if err != nil {
			return fmt.Errorf("icon sink: %w", err)
		}
		sink = pngSink
	}
	a.Icons = icon.NewUpdater(renderer, sink, icon.UpdaterConfig{
		Interval: a.cfg.Icon.TickInterval,
		Sizes:    a.cfg.Icon.Sizes,
	},
		icon.WithGate(a.Settings.ShowMenuBarIcon),
		icon.WithUpdaterClock(o.clock),
		icon.WithUpdaterLogger(a.logger),
		icon.WithUpdaterHub(a.Hub),
	)
	return nil
}

// Degraded returns the backend error that forced in-memory preferences.
func (a *App) Degraded() error { return a.degraded }

// Start launches the controller, then the icon updater.
func (a *App) Start(ctx context.Context) error {
	if err := a.Clock.Start(ctx); err != nil {
		return fmt.Errorf("start clock: %w", err)
	}
	if a.Icons != nil {
		if err := a.Icons.Start(ctx); err != nil {
			a.Clock.Stop()
			return fmt.Errorf("start icons: %w", err)
		}
	}
	return nil
}

// Stop stops the icon updater, then the controller, then closes the
// backend. It is safe to call more than once.
func (a *App) Stop() error {
	var err error
	a.stopOnce.Do(func() {
		if a.Icons != nil {
			a.Icons.Stop()
		}
		a.Clock.Stop()
		if cerr := a.Prefs.Close(); cerr != nil && !errors.Is(cerr, storage.ErrClosed) {
			err = fmt.Errorf("close preferences: %w", cerr)
		}
	})
	return err
}
