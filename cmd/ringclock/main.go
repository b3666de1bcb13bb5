package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/ringclock/internal/app"
	"github.com/mattjoyce/ringclock/internal/config"
	"github.com/mattjoyce/ringclock/internal/log"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// exitError ends a command with a code and no further output.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// cli holds the persistent flags shared by every command.
type cli struct {
	configPath string
	logLevel   string

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "ringclock",
		Short: "A ring clock with themes, time zones and a menu-bar icon",
		Long: `ringclock draws the time as three concentric progress rings.

It keeps preferences in a local store and can show a live terminal preview
of the clock face. While running it redraws a small status icon every second
and installs it only when the picture changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"path to config.yaml or its directory (default $"+config.EnvConfig+" or the user config)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override service.log_level")

	root.AddCommand(
		c.newRunCmd(),
		c.newWatchCmd(),
		c.newPrefsCmd(),
		c.newThemeCmd(),
		c.newZoneCmd(),
		c.newIconCmd(),
		c.newDoctorCmd(),
		c.newConfigCmd(),
		c.newVersionCmd(),
	)
	return root
}

// loadConfig discovers the configuration and applies flag overrides.
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.Discover(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.Service.LogLevel = c.logLevel
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// logger installs the process logger for cfg on the command's stderr.
func (c *cli) logger(cfg *config.Config) *slog.Logger {
	return log.Setup(c.stderr, cfg.Service.LogLevel, cfg.Service.LogFormat)
}

// openApp builds the components for a one-shot command. Preferences that
// would silently fall back to memory are refused.
func (c *cli) openApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	a, err := app.New(ctx, cfg, app.WithLogger(c.logger(cfg)), app.WithoutIcons())
	if err != nil {
		return nil, err
	}
	if derr := a.Degraded(); derr != nil {
		_ = a.Stop()
		return nil, fmt.Errorf("preference store %s unavailable: %w", cfg.State.Path, derr)
	}
	return a, nil
}

// withApp loads the config, opens the app, runs fn and closes the app.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := c.openApp(ctx, cfg)
	if err != nil {
		return err
	}
	ferr := fn(ctx, a)
	if serr := a.Stop(); serr != nil && ferr == nil {
		return serr
	}
	return ferr
}
