package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/ringclock/internal/events"
	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/settings"
	"github.com/mattjoyce/ringclock/internal/storage"
)

var testTriple = Triple{
	Hour:   paint.Color{R: 0.1, G: 0.2, B: 0.3, A: 1},
	Minute: paint.Color{R: 0.4, G: 0.5, B: 0.6, A: 0.9},
	Second: paint.Color{R: 0.7, G: 0.8, B: 0.9, A: 0.8},
}

func newCatalog(t *testing.T, seed map[string]string, opts ...Option) *Catalog {
	t.Helper()
	b := storage.NewMemoryBackend()
	for k, v := range seed {
		require.NoError(t, b.Put(context.Background(), k, v))
	}
	store, err := prefs.Open(context.Background(), b)
	require.NoError(t, err)
	return NewCatalog(store, opts...)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID(" Vintage ")
	assert.True(t, ok)
	assert.Equal(t, Vintage, id)

	_, ok = ParseID("neon")
	assert.False(t, ok)

	for _, id := range IDs() {
		got, ok := ParseID(string(id))
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}
}

func TestBuiltinsCoverEveryNonCustomID(t *testing.T) {
	for _, id := range IDs() {
		_, ok := Builtin(id)
		assert.Equal(t, id != Custom, ok, string(id))
	}
}

func TestDefaultThemeIsGhost(t *testing.T) {
	c := newCatalog(t, nil)
	assert.Equal(t, Ghost, c.Active())

	ghost, _ := Builtin(Ghost)
	assert.Equal(t, ghost, c.ActiveColors())
}

func TestUnknownStoredThemeReadsDefault(t *testing.T) {
	c := newCatalog(t, map[string]string{settings.KeyColorScheme: "neon"})
	assert.Equal(t, Ghost, c.Active())
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	hub := events.NewHub(10)
	c := newCatalog(t, nil, WithHub(hub))

	require.NoError(t, c.SetActive(ctx, Moon))
	assert.Equal(t, Moon, c.Active())
	moon, _ := Builtin(Moon)
	assert.Equal(t, moon, c.ActiveColors())

	assert.ErrorIs(t, c.SetActive(ctx, ID("neon")), ErrUnknownTheme)
	assert.Equal(t, Moon, c.Active())

	var themeEvents int
	for _, ev := range hub.SnapshotSince(0) {
		if ev.Type == events.ThemeChanged {
			themeEvents++
		}
	}
	assert.Equal(t, 1, themeEvents)
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)

	next, err := c.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, Base, next)

	next, err = c.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, Moon, next)

	next, err = c.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, Base, next)
}

func TestCustomColorsDefaultToMoon(t *testing.T) {
	c := newCatalog(t, map[string]string{settings.KeyCustomMinColor: "corrupt"})
	moon, _ := Builtin(Moon)
	assert.Equal(t, moon, c.ColorsFor(Custom))
}

func TestSetCustomColors(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)

	require.NoError(t, c.SetCustomColors(ctx, testTriple))
	assert.Equal(t, testTriple, c.ColorsFor(Custom))
}

func TestSaveUpsertsByName(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)

	require.NoError(t, c.Save(ctx, "Test Theme", testTriple))
	require.NoError(t, c.Save(ctx, "Other", Triple{Hour: paint.White, Minute: paint.Black, Second: paint.Red}))

	got, ok := c.Find("Test Theme")
	require.True(t, ok)
	assert.Equal(t, testTriple, got.Colors)

	moon, _ := Builtin(Moon)
	require.NoError(t, c.Save(ctx, "Test Theme", moon))

	themes := c.SavedThemes()
	require.Len(t, themes, 2)
	assert.Equal(t, "Test Theme", themes[0].Name)
	assert.Equal(t, moon, themes[0].Colors)
	assert.Equal(t, "Other", themes[1].Name)

	// Names match exactly.
	_, ok = c.Find("test theme")
	assert.False(t, ok)
}

func TestSaveCurrent(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)
	require.NoError(t, c.SetCustomColors(ctx, testTriple))

	require.NoError(t, c.SaveCurrent(ctx, "Mine"))
	got, ok := c.Find("Mine")
	require.True(t, ok)
	assert.Equal(t, testTriple, got.Colors)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)
	require.NoError(t, c.Save(ctx, "Test Theme", testTriple))

	require.NoError(t, c.Load(ctx, "Test Theme"))
	assert.Equal(t, Custom, c.Active())
	assert.Equal(t, testTriple, c.ActiveColors())
}

func TestLoadUnknownChangesNothing(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)

	assert.ErrorIs(t, c.Load(ctx, "missing"), ErrThemeNotFound)
	assert.Equal(t, Ghost, c.Active())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, nil)
	require.NoError(t, c.Save(ctx, "Test Theme", testTriple))

	require.NoError(t, c.Delete(ctx, "absent"))
	assert.Len(t, c.SavedThemes(), 1)

	require.NoError(t, c.Delete(ctx, "Test Theme"))
	_, ok := c.Find("Test Theme")
	assert.False(t, ok)
	assert.Empty(t, c.SavedThemes())
}

func TestCorruptSavedThemes(t *testing.T) {
	c := newCatalog(t, map[string]string{settings.KeySavedThemes: "{}"})
	assert.Empty(t, c.SavedThemes())

	c = newCatalog(t, map[string]string{
		settings.KeySavedThemes: `[{"name":"Broken","hourColorData":"xx","minColorData":"","secColorData":"` + paint.Encode(paint.White) + `"}]`,
	})
	themes := c.SavedThemes()
	require.Len(t, themes, 1)
	assert.Equal(t, Triple{Hour: paint.Red, Minute: paint.Green, Second: paint.White}, themes[0].Colors)
}

func TestTextColor(t *testing.T) {
	ghost, _ := Builtin(Ghost)

	assert.Equal(t, paint.White, TextColor(settings.TextWhite, ghost))
	assert.Equal(t, paint.Black, TextColor(settings.TextBlack, ghost))
	assert.Equal(t, paint.White, TextColor("unknown", ghost))

	// Ghost minute (0,1,0.4) is the lightest, second (0.4,0,0.6) the darkest.
	assert.Equal(t, ghost.Minute.WithAlpha(1), TextColor(settings.TextBrightest, ghost))
	assert.Equal(t, ghost.Second.WithAlpha(1), TextColor(settings.TextDarkest, ghost))
}
