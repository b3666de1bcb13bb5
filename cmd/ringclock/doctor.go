package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/ringclock/internal/config"
	"github.com/mattjoyce/ringclock/internal/doctor"
	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/storage"
)

func (c *cli) newDoctorCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration and the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := c.diagnose(cmd.Context())
			if jsonOut {
				out, err := doctor.FormatJSON(r)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, out)
			} else {
				fmt.Fprint(c.stdout, doctor.FormatHuman(r))
			}
			if !r.Valid {
				return exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output the report as JSON")
	return cmd
}

func (c *cli) diagnose(ctx context.Context) *doctor.Result {
	cfg, err := c.loadConfig()
	if err != nil {
		return &doctor.Result{Errors: []doctor.Issue{{Category: "config", Message: err.Error()}}}
	}

	var store *prefs.Store
	if backend, err := storage.Open(ctx, cfg.State.Driver, cfg.State.Path); err == nil {
		if s, err := prefs.Open(ctx, backend); err == nil {
			store = s
			defer func() { _ = s.Close() }()
		} else {
			_ = backend.Close()
		}
	}
	return doctor.New(cfg, store).Validate()
}

func (c *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, check and lock the configuration file",
	}

	var raw bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if raw {
				if cfg.Path == "" {
					return fmt.Errorf("no config file in use")
				}
				data, err := os.ReadFile(cfg.Path)
				if err != nil {
					return err
				}
				_, err = c.stdout.Write(data)
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			if cfg.Path != "" {
				fmt.Fprintf(c.stdout, "# %s\n", cfg.Path)
			} else {
				fmt.Fprintln(c.stdout, "# built-in defaults")
			}
			_, err = c.stdout.Write(data)
			return err
		},
	}
	show.Flags().BoolVar(&raw, "raw", false, "print the file as written instead of the resolved values")

	check := &cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Path == "" {
				fmt.Fprintln(c.stdout, "Configuration valid (built-in defaults).")
				return nil
			}
			fmt.Fprintf(c.stdout, "Configuration valid: %s\n", cfg.Path)
			return nil
		},
	}

	lockCmd := &cobra.Command{
		Use:   "lock",
		Short: "Record the config file hash in .checksums",
		Long: `Record the BLAKE3 hash of the config file in a .checksums file beside
it. Once locked, ringclock refuses to start if the file changes until it is
locked again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			cfg, err := config.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("refusing to lock invalid configuration: %w", err)
			}
			hash, err := config.Lock(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "locked %s (blake3 %s)\n", path, hash)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.UserConfigPath()
			}
			if path == "" {
				return fmt.Errorf("no home directory; pass --config")
			}
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, "config.yaml")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			data, err := config.Defaults().Marshal()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, check, lockCmd, initCmd)
	return cmd
}

// configFile resolves the config file path without loading it.
func (c *cli) configFile() (string, error) {
	path, err := config.DiscoverPath(c.configPath)
	if errors.Is(err, config.ErrNoConfig) {
		return "", fmt.Errorf("no config file to lock; run 'ringclock config init' first")
	}
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "config.yaml")
	}
	return filepath.Abs(path)
}
