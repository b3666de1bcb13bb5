// Package settings names every persisted preference of the clock and gives
// each one a typed, range-checked accessor over a prefs.Store.
package settings

import (
	"github.com/mattjoyce/ringclock/internal/prefs"
)

// Persisted preference keys.
const (
	KeyColorScheme        = "colorScheme"
	KeyShowSeconds        = "showSeconds"
	KeyRingThickness      = "ringThickness"
	KeyWindowOpacity      = "windowOpacity"
	KeyUse24HourFormat    = "use24HourFormat"
	KeyShowDigitalTime    = "showDigitalTime"
	KeyDigitalFontSize    = "digitalFontSize"
	KeyDigitalTextColor   = "digitalTextColor"
	KeyDigitalShowSeconds = "digitalShowSeconds"
	KeyShowMenuBarIcon    = "showMenuBarIcon"
	KeySelectedTimeZones  = "selectedTimeZones"
	KeyPrimaryTimeZone    = "primaryTimeZone"
	KeyCustomHourColor    = "customHourColor"
	KeyCustomMinColor     = "customMinColor"
	KeyCustomSecColor     = "customSecColor"
	KeySavedThemes        = "savedThemes"
)

// Digital text colour modes.
const (
	TextWhite     = "white"
	TextBlack     = "black"
	TextBrightest = "brightest"
	TextDarkest   = "darkest"
)

// Def describes one preference: its encoding, default and accepted values.
type Def struct {
	Key     string
	Kind    prefs.Kind
	Default string // as displayed; dynamic defaults are described in words
	Min     float64
	Max     float64
	Enum    []string
	Help    string
}

// Ranged reports whether the preference is a bounded number.
func (d Def) Ranged() bool { return d.Kind == prefs.KindNumber && d.Max > d.Min }

// Defs lists every preference in display order.
var Defs = []Def{
	{Key: KeyColorScheme, Kind: prefs.KindString, Default: "ghost", Enum: []string{"base", "moon", "ghost", "gray", "vintage", "custom"}, Help: "active theme"},
	{Key: KeyShowSeconds, Kind: prefs.KindBool, Default: "false", Help: "draw the seconds ring"},
	{Key: KeyRingThickness, Kind: prefs.KindNumber, Default: "50", Min: 30, Max: 70, Help: "ring thickness"},
	{Key: KeyWindowOpacity, Kind: prefs.KindNumber, Default: "1", Min: 0.5, Max: 1, Help: "window opacity"},
	{Key: KeyUse24HourFormat, Kind: prefs.KindBool, Default: "false", Help: "24-hour digital time"},
	{Key: KeyShowDigitalTime, Kind: prefs.KindBool, Default: "false", Help: "show the digital time overlay"},
	{Key: KeyDigitalFontSize, Kind: prefs.KindNumber, Default: "24", Min: 16, Max: 48, Help: "digital time font size"},
	{Key: KeyDigitalTextColor, Kind: prefs.KindString, Default: TextWhite, Enum: []string{TextWhite, TextBlack, TextBrightest, TextDarkest}, Help: "digital time colour"},
	{Key: KeyDigitalShowSeconds, Kind: prefs.KindBool, Default: "true", Help: "include seconds in the digital time"},
	{Key: KeyShowMenuBarIcon, Kind: prefs.KindBool, Default: "true", Help: "keep the status icon updated"},
	{Key: KeySelectedTimeZones, Kind: prefs.KindJSON, Default: "[host zone]", Help: "displayed zones (JSON list)"},
	{Key: KeyPrimaryTimeZone, Kind: prefs.KindString, Default: "first selected zone", Help: "zone of the main clock"},
	{Key: KeyCustomHourColor, Kind: prefs.KindColor, Default: "moon hour", Help: "custom hour ring colour"},
	{Key: KeyCustomMinColor, Kind: prefs.KindColor, Default: "moon minute", Help: "custom minute ring colour"},
	{Key: KeyCustomSecColor, Kind: prefs.KindColor, Default: "moon second", Help: "custom second ring colour"},
	{Key: KeySavedThemes, Kind: prefs.KindJSON, Default: "[]", Help: "saved custom themes"},
}

// Lookup finds the definition of key.
func Lookup(key string) (Def, bool) {
	for _, d := range Defs {
		if d.Key == key {
			return d, true
		}
	}
	return Def{}, false
}
