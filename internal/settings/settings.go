package settings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

var (
	ErrUnknownKey  = errors.New("unknown preference")
	ErrOutOfRange  = errors.New("value out of range")
	ErrInvalidText = errors.New("invalid value")
	ErrUnknownZone = errors.New("unknown time zone")
)

// Settings is the typed view over the preference store.
type Settings struct {
	store    *prefs.Store
	hostZone func() string
}

type Option func(*Settings)

// WithHostZone overrides host zone detection.
func WithHostZone(fn func() string) Option {
	return func(s *Settings) { s.hostZone = fn }
}

func New(store *prefs.Store, opts ...Option) *Settings {
	s := &Settings{store: store, hostZone: timemodel.HostZoneName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Settings) ShowSeconds() bool        { return s.store.Bool(KeyShowSeconds, false) }
func (s *Settings) Use24HourFormat() bool    { return s.store.Bool(KeyUse24HourFormat, false) }
func (s *Settings) ShowDigitalTime() bool    { return s.store.Bool(KeyShowDigitalTime, false) }
func (s *Settings) DigitalShowSeconds() bool { return s.store.Bool(KeyDigitalShowSeconds, true) }
func (s *Settings) ShowMenuBarIcon() bool    { return s.store.Bool(KeyShowMenuBarIcon, true) }

func (s *Settings) RingThickness() float64   { return s.ranged(KeyRingThickness, 50) }
func (s *Settings) WindowOpacity() float64   { return s.ranged(KeyWindowOpacity, 1) }
func (s *Settings) DigitalFontSize() float64 { return s.ranged(KeyDigitalFontSize, 24) }

// DigitalTextColor returns the stored colour mode, or white when unknown.
func (s *Settings) DigitalTextColor() string {
	v := s.store.String(KeyDigitalTextColor, TextWhite)
	d, _ := Lookup(KeyDigitalTextColor)
	if !slices.Contains(d.Enum, v) {
		return TextWhite
	}
	return v
}

// DigitalFormat is the digital overlay format.
func (s *Settings) DigitalFormat() timemodel.Format {
	return timemodel.Format{
		Use24Hour:   s.Use24HourFormat(),
		ShowSeconds: s.DigitalShowSeconds(),
	}
}

// SetBool writes a boolean preference.
func (s *Settings) SetBool(ctx context.Context, key string, v bool) error {
	d, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if d.Kind != prefs.KindBool {
		return fmt.Errorf("%w: %s is a %s preference", ErrInvalidText, key, d.Kind)
	}
	return s.store.SetBool(ctx, key, v)
}

// SetNumber writes a ranged number, rejecting values outside its range.
func (s *Settings) SetNumber(ctx context.Context, key string, v float64) error {
	d, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if d.Kind != prefs.KindNumber {
		return fmt.Errorf("%w: %s is a %s preference", ErrInvalidText, key, d.Kind)
	}
	if math.IsNaN(v) || v < d.Min || v > d.Max {
		return fmt.Errorf("%w: %s must be within %g..%g, got %g", ErrOutOfRange, key, d.Min, d.Max, v)
	}
	return s.store.SetFloat(ctx, key, v)
}

// SetText parses text according to the preference definition and stores it.
// Colours are given as hex; zone lists as comma separated ids.
func (s *Settings) SetText(ctx context.Context, key, text string) error {
	d, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	text = strings.TrimSpace(text)

	switch d.Kind {
	case prefs.KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", ErrInvalidText, key)
		}
		return s.store.SetBool(ctx, key, b)
	case prefs.KindNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number", ErrInvalidText, key)
		}
		return s.SetNumber(ctx, key, f)
	case prefs.KindColor:
		c, err := paint.ParseHex(text)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidText, err)
		}
		return s.store.SetColor(ctx, key, c)
	case prefs.KindJSON:
		if key == KeySelectedTimeZones {
			return s.SetZones(ctx, splitList(text))
		}
		if err := prefs.KindJSON.Check(text); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidText, key, err)
		}
		return s.store.SetString(ctx, key, text)
	default:
		if len(d.Enum) > 0 && !slices.Contains(d.Enum, text) {
			return fmt.Errorf("%w: %s must be one of %s", ErrInvalidText, key, strings.Join(d.Enum, ", "))
		}
		if key == KeyPrimaryTimeZone {
			return s.SetPrimaryZone(ctx, text)
		}
		return s.store.SetString(ctx, key, text)
	}
}

// Display renders the effective value of key as text.
func (s *Settings) Display(key string) (string, error) {
	d, ok := Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	switch key {
	case KeySelectedTimeZones:
		return strings.Join(s.SelectedZones(), ","), nil
	case KeyPrimaryTimeZone:
		return s.PrimaryZone(), nil
	case KeyDigitalTextColor:
		return s.DigitalTextColor(), nil
	}

	switch d.Kind {
	case prefs.KindBool:
		def, _ := strconv.ParseBool(d.Default)
		return strconv.FormatBool(s.store.Bool(key, def)), nil
	case prefs.KindNumber:
		def, _ := strconv.ParseFloat(d.Default, 64)
		return strconv.FormatFloat(s.ranged(key, def), 'g', -1, 64), nil
	case prefs.KindColor:
		raw, ok := s.store.Raw(key)
		if !ok {
			return d.Default, nil
		}
		c, err := paint.Decode(raw)
		if err != nil {
			return d.Default, nil
		}
		return c.Hex(), nil
	default:
		return s.store.String(key, d.Default), nil
	}
}

// Reset deletes the stored value of key.
func (s *Settings) Reset(ctx context.Context, key string) error {
	if _, ok := Lookup(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.store.Delete(ctx, key)
}

// ranged reads a number, clamping stored values into the key's range.
func (s *Settings) ranged(key string, def float64) float64 {
	v := s.store.Float(key, def)
	d, ok := Lookup(key)
	if !ok || !d.Ranged() {
		return v
	}
	return math.Min(math.Max(v, d.Min), d.Max)
}

func splitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
