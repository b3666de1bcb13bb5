package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattjoyce/ringclock/internal/config"
	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/settings"
	"github.com/mattjoyce/ringclock/internal/storage"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "state:\n  driver: sqlite\n  path: ./prefs.db\nicon:\n  output_dir: ./icons\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func storeWith(t *testing.T, values map[string]string) *prefs.Store {
	t.Helper()
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	for k, v := range values {
		if err := backend.Put(ctx, k, v); err != nil {
			t.Fatal(err)
		}
	}
	s, err := prefs.Open(ctx, backend)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newDoctor(cfg *config.Config, store *prefs.Store) *Doctor {
	d := New(cfg, store)
	d.checkFS = func(string) error { return nil }
	return d
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	r := newDoctor(cfg, storeWith(t, nil)).Validate()
	if !r.Valid {
		t.Fatalf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("expected no warnings, got: %v", r.Warnings)
	}
	if len(r.ConfigDigest) != 64 {
		t.Fatalf("config digest = %q", r.ConfigDigest)
	}
	if r.ConfigPath != cfg.Path {
		t.Fatalf("config path = %q, want %q", r.ConfigPath, cfg.Path)
	}
}

func TestValidate_DefaultsWarn(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	r := newDoctor(cfg, storeWith(t, nil)).Validate()
	if !r.Valid {
		t.Fatalf("expected valid, got errors: %v", r.Errors)
	}
	assertHasWarning(t, r, "config", "built-in defaults")
	if r.ConfigDigest != "" {
		t.Fatal("defaults have no digest")
	}
}

func TestValidate_InvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.Clock.TickInterval = 0
	r := newDoctor(cfg, nil).Validate()
	if r.Valid {
		t.Fatal("expected invalid")
	}
	assertHasError(t, r, "config", "clock.tick_interval")
}

func TestValidate_NetworkFilesystem(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	d := New(cfg, storeWith(t, nil))
	d.checkFS = func(string) error { return errors.New("state.path is on nfs") }
	r := d.Validate()
	if r.Valid {
		t.Fatal("expected invalid")
	}
	assertHasError(t, r, "state", "nfs")
}

func TestValidate_MemoryDriverWarns(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.State.Driver = storage.DriverMemory
	r := newDoctor(cfg, storeWith(t, nil)).Validate()
	if !r.Valid {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	assertHasWarning(t, r, "state", "lost on exit")
}

func TestValidate_StoreUnavailable(t *testing.T) {
	t.Parallel()
	r := newDoctor(validConfig(t), nil).Validate()
	assertHasWarning(t, r, "state", "could not be opened")
}

func TestValidate_IconOutputIsFile(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	if err := os.WriteFile(cfg.Icon.OutputDir, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	r := newDoctor(cfg, storeWith(t, nil)).Validate()
	assertHasError(t, r, "icon", "not a directory")
}

func TestValidate_NoMenuBarSize(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.Icon.Sizes = []int{64, 128}
	r := newDoctor(cfg, storeWith(t, nil)).Validate()
	assertHasWarning(t, r, "icon", "menu-bar")
}

func TestValidate_CorruptPreferences(t *testing.T) {
	t.Parallel()
	store := storeWith(t, map[string]string{
		settings.KeyShowSeconds:      "maybe",
		settings.KeyRingThickness:    "95",
		settings.KeyDigitalTextColor: "purple",
		settings.KeyCustomHourColor:  "not-an-archive",
		settings.KeySavedThemes:      "{broken",
		"legacyWindowFrame":          "1,2,3,4",
	})
	r := newDoctor(validConfig(t), store).Validate()
	if !r.Valid {
		t.Fatalf("preference problems are warnings, got errors: %v", r.Errors)
	}

	assertWarningField(t, r, "preferences", settings.KeyShowSeconds, "unreadable")
	assertWarningField(t, r, "preferences", settings.KeyRingThickness, "clamped")
	assertWarningField(t, r, "preferences", settings.KeyDigitalTextColor, "not one of")
	assertWarningField(t, r, "preferences", settings.KeyCustomHourColor, "unreadable")
	assertWarningField(t, r, "preferences", settings.KeySavedThemes, "unreadable")
	assertWarningField(t, r, "unused", "legacyWindowFrame", "not a known preference")
}

func TestValidate_UnknownZones(t *testing.T) {
	t.Parallel()
	store := storeWith(t, map[string]string{
		settings.KeySelectedTimeZones: `["Asia/Tokyo","Mars/Olympus"]`,
		settings.KeyPrimaryTimeZone:   "Moon/Base",
	})
	r := newDoctor(validConfig(t), store).Validate()
	assertHasWarning(t, r, "zones", "Mars/Olympus")
	assertHasWarning(t, r, "zones", "Moon/Base")
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, "Asia/Tokyo") {
			t.Fatalf("valid zone reported: %v", w)
		}
	}
}

func TestFormatHuman(t *testing.T) {
	t.Parallel()
	r := &Result{
		Valid:        false,
		ConfigPath:   "/etc/ringclock.yaml",
		ConfigDigest: strings.Repeat("ab", 32),
		Errors:       []Issue{{Category: "config", Message: "bad"}},
		Warnings:     []Issue{{Category: "zones", Field: "primaryTimeZone", Message: "odd"}},
	}
	out := FormatHuman(r)
	for _, want := range []string{
		"Config: /etc/ringclock.yaml (blake3 abababababababab)",
		"Configuration invalid (1 error(s), 1 warning(s))",
		"ERROR [config] bad",
		"WARN  [zones] primaryTimeZone: odd",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if got := FormatHuman(&Result{Valid: true}); got != "Configuration valid.\n" {
		t.Errorf("clean output = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()
	out, err := FormatJSON(&Result{Valid: true, Warnings: []Issue{{Category: "unused", Message: "x"}}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"valid": true`) || !strings.Contains(out, `"category": "unused"`) {
		t.Fatalf("unexpected JSON: %s", out)
	}
}

func assertHasError(t *testing.T, r *Result, category, substring string) {
	t.Helper()
	for _, e := range r.Errors {
		if e.Category == category && strings.Contains(e.Message, substring) {
			return
		}
	}
	t.Fatalf("expected error with category=%q containing %q, got: %v", category, substring, r.Errors)
}

func assertHasWarning(t *testing.T, r *Result, category, substring string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Category == category && strings.Contains(w.Message, substring) {
			return
		}
	}
	t.Fatalf("expected warning with category=%q containing %q, got: %v", category, substring, r.Warnings)
}

func assertWarningField(t *testing.T, r *Result, category, field, substring string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Category == category && w.Field == field && strings.Contains(w.Message, substring) {
			return
		}
	}
	t.Fatalf("expected warning %s/%s containing %q, got: %v", category, field, substring, r.Warnings)
}
