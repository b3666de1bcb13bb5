// Package doctor checks the ringclock configuration and the health of the
// stored preferences.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mattjoyce/ringclock/internal/config"
	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/settings"
	"github.com/mattjoyce/ringclock/internal/storage"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid        bool    `json:"valid"`
	ConfigPath   string  `json:"config_path,omitempty"`
	ConfigDigest string  `json:"config_digest,omitempty"`
	Errors       []Issue `json:"errors,omitempty"`
	Warnings     []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor inspects a loaded config and, when available, the preference store.
type Doctor struct {
	cfg   *config.Config
	store *prefs.Store

	checkFS func(string) error
}

// New creates a Doctor. store may be nil when the backend could not be opened.
func New(cfg *config.Config, store *prefs.Store) *Doctor {
	return &Doctor{cfg: cfg, store: store, checkFS: storage.CheckLocalFilesystem}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true, ConfigPath: d.cfg.Path}

	d.validateConfig(r)
	d.validateState(r)
	d.validateIconOutput(r)
	d.checkPreferences(r)
	d.checkZones(r)
	d.warnUnknownKeys(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) validateConfig(r *Result) {
	if err := config.Validate(d.cfg); err != nil {
		d.addError(r, "config", "", err.Error())
	}
	if d.cfg.Path == "" {
		d.addWarning(r, "config", "", "no config file found; running on built-in defaults")
		return
	}
	digest, err := config.ComputeBlake3Hash(d.cfg.Path)
	if err != nil {
		d.addError(r, "config", "", fmt.Sprintf("cannot hash config file: %v", err))
		return
	}
	r.ConfigDigest = digest
}

// validateState checks the preference database location.
func (d *Doctor) validateState(r *Result) {
	driver := strings.ToLower(d.cfg.State.Driver)
	if driver == storage.DriverMemory {
		d.addWarning(r, "state", "state.driver", "memory driver: preferences are lost on exit")
		return
	}
	if d.cfg.State.Path == "" {
		return
	}
	if err := d.checkFS(d.cfg.State.Path); err != nil {
		d.addError(r, "state", "state.path", err.Error())
	}
	if d.store == nil {
		d.addWarning(r, "state", "state.path",
			fmt.Sprintf("preference database %s could not be opened; values were not checked", d.cfg.State.Path))
	}
}

func (d *Doctor) validateIconOutput(r *Result) {
	if !d.cfg.Icon.Enabled {
		return
	}
	info, err := os.Stat(d.cfg.Icon.OutputDir)
	switch {
	case os.IsNotExist(err):
		// Created on first run.
	case err != nil:
		d.addWarning(r, "icon", "icon.output_dir", err.Error())
	case !info.IsDir():
		d.addError(r, "icon", "icon.output_dir", fmt.Sprintf("%s is not a directory", d.cfg.Icon.OutputDir))
	}
	if !slices.Contains(d.cfg.Icon.Sizes, 24) && !slices.Contains(d.cfg.Icon.Sizes, 22) {
		d.addWarning(r, "icon", "icon.sizes", "no menu-bar sized icon (22 or 24 px) configured")
	}
}

// checkPreferences reports stored values that currently read as defaults
// because they cannot be decoded or fall outside their range.
func (d *Doctor) checkPreferences(r *Result) {
	if d.store == nil {
		return
	}
	for _, def := range settings.Defs {
		raw, ok := d.store.Raw(def.Key)
		if !ok {
			continue
		}
		if err := d.store.Valid(def.Key, def.Kind); err != nil {
			d.addWarning(r, "preferences", def.Key,
				fmt.Sprintf("stored %s value %q is unreadable (%v); default %s is used", def.Kind, truncate(raw), err, def.Default))
			continue
		}
		if def.Ranged() {
			if f, err := strconv.ParseFloat(raw, 64); err == nil && (f < def.Min || f > def.Max) {
				d.addWarning(r, "preferences", def.Key,
					fmt.Sprintf("stored value %g is outside %g..%g and is clamped", f, def.Min, def.Max))
			}
		}
		if len(def.Enum) > 0 && !slices.Contains(def.Enum, raw) {
			d.addWarning(r, "preferences", def.Key,
				fmt.Sprintf("stored value %q is not one of %v; default %s is used", raw, def.Enum, def.Default))
		}
	}
}

func (d *Doctor) checkZones(r *Result) {
	if d.store == nil {
		return
	}
	zones := prefs.JSON[[]string](d.store, settings.KeySelectedTimeZones, nil)
	for _, id := range zones {
		if !timemodel.ValidZone(id) {
			d.addWarning(r, "zones", settings.KeySelectedTimeZones,
				fmt.Sprintf("zone %q is not in the time zone database; the host zone is shown instead", id))
		}
	}
	if primary, ok := d.store.Raw(settings.KeyPrimaryTimeZone); ok && primary != "" && !timemodel.ValidZone(primary) {
		d.addWarning(r, "zones", settings.KeyPrimaryTimeZone,
			fmt.Sprintf("primary zone %q is not in the time zone database", primary))
	}
}

func (d *Doctor) warnUnknownKeys(r *Result) {
	if d.store == nil {
		return
	}
	for _, key := range d.store.Keys() {
		if _, ok := settings.Lookup(key); !ok {
			d.addWarning(r, "unused", key, "stored key is not a known preference")
		}
	}
}

func truncate(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// FormatHuman returns a human-readable validation report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.ConfigPath != "" {
		fmt.Fprintf(&b, "Config: %s", r.ConfigPath)
		if r.ConfigDigest != "" {
			fmt.Fprintf(&b, " (blake3 %s)", r.ConfigDigest[:16])
		}
		b.WriteString("\n")
	}

	if r.Valid && len(r.Warnings) == 0 {
		b.WriteString("Configuration valid.\n")
		return b.String()
	}

	if r.Valid && len(r.Warnings) > 0 {
		b.WriteString("Configuration valid")
		fmt.Fprintf(&b, " (%d warning(s))\n", len(r.Warnings))
	}

	if !r.Valid {
		fmt.Fprintf(&b, "Configuration invalid (%d error(s), %d warning(s))\n", len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		if e.Field != "" {
			fmt.Fprintf(&b, "  ERROR [%s] %s: %s\n", e.Category, e.Field, e.Message)
		} else {
			fmt.Fprintf(&b, "  ERROR [%s] %s\n", e.Category, e.Message)
		}
	}
	for _, w := range r.Warnings {
		if w.Field != "" {
			fmt.Fprintf(&b, "  WARN  [%s] %s: %s\n", w.Category, w.Field, w.Message)
		} else {
			fmt.Fprintf(&b, "  WARN  [%s] %s\n", w.Category, w.Message)
		}
	}

	return b.String()
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
