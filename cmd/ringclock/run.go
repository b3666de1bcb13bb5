package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mattjoyce/ringclock/internal/app"
	"github.com/mattjoyce/ringclock/internal/config"
	"github.com/mattjoyce/ringclock/internal/lock"
	"github.com/mattjoyce/ringclock/internal/log"
	"github.com/mattjoyce/ringclock/internal/theme"
	"github.com/mattjoyce/ringclock/internal/tui/watch"
)

func (c *cli) newRunCmd() *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clock and keep the menu-bar icon current",
		Long: `Run the clock controller and the icon updater until interrupted.

Only one instance may run per lock file (state.lock_path).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context(), duration)
			defer stop()
			return c.run(ctx, cfg)
		},
	}
	cmd.Flags().DurationVar(&duration, "for", 0, "stop after this long (0 runs until interrupted)")
	return cmd
}

func (c *cli) run(ctx context.Context, cfg *config.Config) error {
	base := c.logger(cfg)
	logger := log.WithComponent("main")

	pidLock, err := lock.Acquire(cfg.State.LockPath)
	if err != nil {
		logger.Error("failed to acquire PID lock (another instance may be running)",
			"path", cfg.State.LockPath, "error", err)
		return exitError{code: 1}
	}
	defer func() { _ = pidLock.Release() }()
	logger = logger.With("instance", pidLock.Instance())
	logger.Info("acquired PID lock", "path", pidLock.Path())

	a, err := app.New(ctx, cfg, app.WithLogger(base))
	if err != nil {
		return err
	}
	if derr := a.Degraded(); derr != nil {
		logger.Warn("running with in-memory preferences", "error", derr)
	}
	if err := a.Start(ctx); err != nil {
		_ = a.Stop()
		return err
	}
	logger.Info("ringclock started",
		"zones", a.Settings.SelectedZones(),
		"primary", a.Settings.PrimaryZone(),
		"theme", a.Themes.Active(),
		"icons", a.Icons != nil,
	)

	<-ctx.Done()
	logger.Info("shutting down")
	return a.Stop()
}

func (c *cli) newWatchCmd() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a live terminal preview of the clock",
		Long: `Show the rings of every selected time zone and the event stream in
the terminal. Press s to toggle the seconds ring, d for digital time and q
to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			logger, closeLog, err := watchLogger(cfg, logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signalContext(cmd.Context(), 0)
			defer stop()

			a, err := app.New(ctx, cfg, app.WithLogger(logger), app.WithoutIcons())
			if err != nil {
				return err
			}
			defer func() { _ = a.Stop() }()

			frames, cancelFrames := a.Clock.Subscribe()
			defer cancelFrames()
			hubEvents, cancelEvents := a.Hub.Subscribe()
			defer cancelEvents()

			if err := a.Start(ctx); err != nil {
				return err
			}

			display := func() watch.Display {
				return watch.Display{
					ShowSeconds: a.Settings.ShowSeconds(),
					ShowDigital: a.Settings.ShowDigitalTime(),
					TextColor:   theme.TextColor(a.Settings.DigitalTextColor(), a.Themes.ActiveColors()),
				}
			}
			model := watch.New(frames, hubEvents, display()).
				WithDisplaySource(display).
				WithHistory(a.Hub.SnapshotSince(0))
			p := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithOutput(c.stdout),
			)
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs here instead of discarding them")
	return cmd
}

// watchLogger keeps log output off the terminal the TUI is drawing on.
func watchLogger(cfg *config.Config, path string) (*slog.Logger, func(), error) {
	if path == "" {
		return log.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, cfg.Service.LogLevel, cfg.Service.LogFormat), func() { _ = f.Close() }, nil
}

// signalContext is cancelled on SIGINT, SIGTERM or, when d > 0, after d.
func signalContext(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stopSignals := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	if d <= 0 {
		return ctx, stopSignals
	}
	tctx, cancel := context.WithTimeout(ctx, d)
	return tctx, func() {
		cancel()
		stopSignals()
	}
}
