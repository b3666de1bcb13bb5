package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mattjoyce/ringclock/internal/events"
	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/settings"
)

var (
	ErrThemeNotFound = errors.New("saved theme not found")
	ErrUnknownTheme  = errors.New("unknown theme")
)

// SavedTheme is a named snapshot of custom colours.
type SavedTheme struct {
	Name   string
	Colors Triple
}

// savedRecord is the persisted form of a SavedTheme.
type savedRecord struct {
	Name          string `json:"name"`
	HourColorData string `json:"hourColorData"`
	MinColorData  string `json:"minColorData"`
	SecColorData  string `json:"secColorData"`
}

// Catalog resolves theme colours against the preference store.
type Catalog struct {
	store  *prefs.Store
	hub    *events.Hub
	logger *slog.Logger

	// serialises read-modify-write of the saved theme list
	mu sync.Mutex
}

type Option func(*Catalog)

func WithHub(h *events.Hub) Option {
	return func(c *Catalog) { c.hub = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewCatalog(store *prefs.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:  store,
		logger: slog.Default().With("component", "theme"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ColorsFor returns the colours of id. Custom reads the stored custom
// colours; unknown ids resolve like the default theme.
func (c *Catalog) ColorsFor(id ID) Triple {
	if id == Custom {
		return c.CustomColors()
	}
	if t, ok := Builtin(id); ok {
		return t
	}
	t, _ := Builtin(Default)
	return t
}

// Active returns the stored theme, or Default when missing or unknown.
func (c *Catalog) Active() ID {
	id, ok := ParseID(c.store.String(settings.KeyColorScheme, string(Default)))
	if !ok {
		return Default
	}
	return id
}

func (c *Catalog) ActiveColors() Triple {
	return c.ColorsFor(c.Active())
}

func (c *Catalog) SetActive(ctx context.Context, id ID) error {
	if _, ok := ParseID(string(id)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, id)
	}
	if err := c.store.SetString(ctx, settings.KeyColorScheme, string(id)); err != nil {
		return err
	}
	c.hub.Publish(events.ThemeChanged, map[string]string{"theme": string(id)})
	return nil
}

// Toggle flips between base and moon. Any other theme switches to base.
func (c *Catalog) Toggle(ctx context.Context) (ID, error) {
	next := Base
	if c.Active() == Base {
		next = Moon
	}
	return next, c.SetActive(ctx, next)
}

// CustomColors reads the custom slots, each defaulting to the moon colour.
func (c *Catalog) CustomColors() Triple {
	moon, _ := Builtin(Moon)
	return Triple{
		Hour:   c.store.Color(settings.KeyCustomHourColor, moon.Hour),
		Minute: c.store.Color(settings.KeyCustomMinColor, moon.Minute),
		Second: c.store.Color(settings.KeyCustomSecColor, moon.Second),
	}
}

func (c *Catalog) SetCustomColors(ctx context.Context, t Triple) error {
	if err := c.store.SetColor(ctx, settings.KeyCustomHourColor, t.Hour); err != nil {
		return err
	}
	if err := c.store.SetColor(ctx, settings.KeyCustomMinColor, t.Minute); err != nil {
		return err
	}
	return c.store.SetColor(ctx, settings.KeyCustomSecColor, t.Second)
}

// SavedThemes decodes the registry. Corrupt JSON reads as empty; a corrupt
// colour inside an entry reads as red, green or blue for its ring.
func (c *Catalog) SavedThemes() []SavedTheme {
	records := prefs.JSON[[]savedRecord](c.store, settings.KeySavedThemes, nil)
	out := make([]SavedTheme, 0, len(records))
	for _, r := range records {
		out = append(out, SavedTheme{
			Name: r.Name,
			Colors: Triple{
				Hour:   paint.DecodeOr(r.HourColorData, paint.Red),
				Minute: paint.DecodeOr(r.MinColorData, paint.Green),
				Second: paint.DecodeOr(r.SecColorData, paint.Blue),
			},
		})
	}
	return out
}

// Find returns the saved theme with exactly this name.
func (c *Catalog) Find(name string) (SavedTheme, bool) {
	for _, t := range c.SavedThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return SavedTheme{}, false
}

// Save stores t under name, replacing an entry with the same name in place
// or appending a new one.
func (c *Catalog) Save(ctx context.Context, name string, t Triple) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	themes := c.SavedThemes()
	entry := SavedTheme{Name: name, Colors: t}
	if i := slices.IndexFunc(themes, func(s SavedTheme) bool { return s.Name == name }); i >= 0 {
		themes[i] = entry
	} else {
		themes = append(themes, entry)
	}
	return c.writeSaved(ctx, themes)
}

// SaveCurrent saves the current custom colours under name.
func (c *Catalog) SaveCurrent(ctx context.Context, name string) error {
	return c.Save(ctx, name, c.CustomColors())
}

// Load copies a saved theme into the custom slots and activates custom.
func (c *Catalog) Load(ctx context.Context, name string) error {
	t, ok := c.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if err := c.SetCustomColors(ctx, t.Colors); err != nil {
		return err
	}
	return c.SetActive(ctx, Custom)
}

// Delete removes the saved theme with exactly this name. Absent names are a
// no-op.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	themes := c.SavedThemes()
	before := len(themes)
	kept := slices.DeleteFunc(themes, func(s SavedTheme) bool { return s.Name == name })
	if len(kept) == before {
		return nil
	}
	return c.writeSaved(ctx, kept)
}

func (c *Catalog) writeSaved(ctx context.Context, themes []SavedTheme) error {
	records := make([]savedRecord, 0, len(themes))
	for _, t := range themes {
		records = append(records, savedRecord{
			Name:          t.Name,
			HourColorData: paint.Encode(t.Colors.Hour),
			MinColorData:  paint.Encode(t.Colors.Minute),
			SecColorData:  paint.Encode(t.Colors.Second),
		})
	}
	if err := c.store.SetJSON(ctx, settings.KeySavedThemes, records); err != nil {
		return err
	}
	c.logger.Debug("saved themes updated", "count", len(records))
	return nil
}
