package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/storage"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

func newSettings(t *testing.T, seed map[string]string) *Settings {
	t.Helper()
	b := storage.NewMemoryBackend()
	for k, v := range seed {
		require.NoError(t, b.Put(context.Background(), k, v))
	}
	store, err := prefs.Open(context.Background(), b)
	require.NoError(t, err)
	return New(store, WithHostZone(func() string { return "Europe/Berlin" }))
}

func TestDefaults(t *testing.T) {
	s := newSettings(t, nil)

	assert.False(t, s.ShowSeconds())
	assert.Equal(t, 50.0, s.RingThickness())
	assert.Equal(t, 1.0, s.WindowOpacity())
	assert.False(t, s.Use24HourFormat())
	assert.False(t, s.ShowDigitalTime())
	assert.Equal(t, 24.0, s.DigitalFontSize())
	assert.Equal(t, TextWhite, s.DigitalTextColor())
	assert.True(t, s.DigitalShowSeconds())
	assert.True(t, s.ShowMenuBarIcon())
	assert.Equal(t, []string{"Europe/Berlin"}, s.SelectedZones())
	assert.Equal(t, "Europe/Berlin", s.PrimaryZone())
	assert.Equal(t, timemodel.Format{ShowSeconds: true}, s.DigitalFormat())
}

func TestStoredNumbersAreClamped(t *testing.T) {
	s := newSettings(t, map[string]string{
		KeyRingThickness:   "95",
		KeyWindowOpacity:   "0.1",
		KeyDigitalFontSize: "garbage",
	})

	assert.Equal(t, 70.0, s.RingThickness())
	assert.Equal(t, 0.5, s.WindowOpacity())
	assert.Equal(t, 24.0, s.DigitalFontSize())
}

func TestUnknownTextColorReadsWhite(t *testing.T) {
	s := newSettings(t, map[string]string{KeyDigitalTextColor: "plaid"})
	assert.Equal(t, TextWhite, s.DigitalTextColor())
}

func TestSetNumberRange(t *testing.T) {
	ctx := context.Background()
	s := newSettings(t, nil)

	require.NoError(t, s.SetNumber(ctx, KeyRingThickness, 30))
	assert.Equal(t, 30.0, s.RingThickness())

	assert.ErrorIs(t, s.SetNumber(ctx, KeyRingThickness, 71), ErrOutOfRange)
	assert.ErrorIs(t, s.SetNumber(ctx, KeyWindowOpacity, 0.49), ErrOutOfRange)
	assert.ErrorIs(t, s.SetNumber(ctx, KeyShowSeconds, 1), ErrInvalidText)
	assert.ErrorIs(t, s.SetNumber(ctx, "nope", 1), ErrUnknownKey)
	assert.Equal(t, 30.0, s.RingThickness())
}

func TestSetBool(t *testing.T) {
	ctx := context.Background()
	s := newSettings(t, nil)

	require.NoError(t, s.SetBool(ctx, KeyUse24HourFormat, true))
	require.NoError(t, s.SetBool(ctx, KeyDigitalShowSeconds, false))
	assert.Equal(t, timemodel.Format{Use24Hour: true}, s.DigitalFormat())

	assert.ErrorIs(t, s.SetBool(ctx, KeyRingThickness, true), ErrInvalidText)
}

func TestSetText(t *testing.T) {
	ctx := context.Background()
	store, err := prefs.Open(ctx, storage.NewMemoryBackend())
	require.NoError(t, err)
	s := New(store)

	require.NoError(t, s.SetText(ctx, KeyShowSeconds, "true"))
	require.NoError(t, s.SetText(ctx, KeyDigitalFontSize, " 32 "))
	require.NoError(t, s.SetText(ctx, KeyColorScheme, "vintage"))
	require.NoError(t, s.SetText(ctx, KeyDigitalTextColor, TextBrightest))
	require.NoError(t, s.SetText(ctx, KeyCustomHourColor, "#ff0000"))
	require.NoError(t, s.SetText(ctx, KeySelectedTimeZones, "UTC, Asia/Tokyo,UTC"))

	assert.True(t, s.ShowSeconds())
	assert.Equal(t, 32.0, s.DigitalFontSize())
	assert.Equal(t, TextBrightest, s.DigitalTextColor())
	assert.Equal(t, []string{"UTC", "Asia/Tokyo"}, s.SelectedZones())
	assert.Equal(t, paint.Red, store.Color(KeyCustomHourColor, paint.Blue))

	assert.ErrorIs(t, s.SetText(ctx, KeyShowSeconds, "sometimes"), ErrInvalidText)
	assert.ErrorIs(t, s.SetText(ctx, KeyColorScheme, "neon"), ErrInvalidText)
	assert.ErrorIs(t, s.SetText(ctx, KeyDigitalFontSize, "big"), ErrInvalidText)
	assert.ErrorIs(t, s.SetText(ctx, KeyDigitalFontSize, "99"), ErrOutOfRange)
	assert.ErrorIs(t, s.SetText(ctx, KeyCustomMinColor, "#nothex"), ErrInvalidText)
	assert.ErrorIs(t, s.SetText(ctx, KeySavedThemes, "[oops"), ErrInvalidText)
	assert.ErrorIs(t, s.SetText(ctx, KeySelectedTimeZones, "Atlantis/Capital"), ErrUnknownZone)
	assert.ErrorIs(t, s.SetText(ctx, "missing", "x"), ErrUnknownKey)
}

func TestDisplay(t *testing.T) {
	ctx := context.Background()
	s := newSettings(t, map[string]string{KeyCustomSecColor: "corrupt"})

	v, err := s.Display(KeyRingThickness)
	require.NoError(t, err)
	assert.Equal(t, "50", v)

	require.NoError(t, s.SetText(ctx, KeyCustomHourColor, "#00ff00"))
	v, err = s.Display(KeyCustomHourColor)
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", v)

	v, err = s.Display(KeyCustomSecColor)
	require.NoError(t, err)
	assert.Equal(t, "moon second", v)

	v, err = s.Display(KeyColorScheme)
	require.NoError(t, err)
	assert.Equal(t, "ghost", v)

	v, err = s.Display(KeySelectedTimeZones)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", v)

	_, err = s.Display("bogus")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newSettings(t, map[string]string{KeyShowMenuBarIcon: "false"})

	assert.False(t, s.ShowMenuBarIcon())
	require.NoError(t, s.Reset(ctx, KeyShowMenuBarIcon))
	assert.True(t, s.ShowMenuBarIcon())
	assert.ErrorIs(t, s.Reset(ctx, "bogus"), ErrUnknownKey)
}

func TestLookupCoversEveryKey(t *testing.T) {
	for _, d := range Defs {
		got, ok := Lookup(d.Key)
		require.True(t, ok, d.Key)
		assert.Equal(t, d.Key, got.Key)
	}
	_, ok := Lookup("nothing")
	assert.False(t, ok)
}
