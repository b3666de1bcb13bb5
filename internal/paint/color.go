// Package paint holds the colour type shared by themes, preferences and the
// icon renderer, plus the archive codec used to persist colours.
package paint

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha RGBA colour with components in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// RGBA builds a colour, clamping every component into [0,1].
func RGBA(r, g, b, a float64) Color {
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(a)}
}

// Common colours.
var (
	White = Color{R: 1, G: 1, B: 1, A: 1}
	Black = Color{A: 1}
	Red   = Color{R: 1, A: 1}
	Green = Color{G: 1, A: 1}
	Blue  = Color{B: 1, A: 1}
)

// RGBA implements color.Color (alpha-premultiplied, 16 bit).
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(math.Round(clamp01(c.A) * 0xffff))
	r = uint32(math.Round(clamp01(c.R) * clamp01(c.A) * 0xffff))
	g = uint32(math.Round(clamp01(c.G) * clamp01(c.A) * 0xffff))
	b = uint32(math.Round(clamp01(c.B) * clamp01(c.A) * 0xffff))
	return r, g, b, a
}

// NRGBA converts to an 8-bit straight-alpha colour.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// Colorful returns the opaque RGB part as a go-colorful colour.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// Luminance is the CIE L* lightness of the RGB part, in [0,1].
func (c Color) Luminance() float64 {
	l, _, _ := c.Colorful().Lab()
	return l
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Mix blends c towards o by t in [0,1], interpolating in RGB.
func (c Color) Mix(o Color, t float64) Color {
	t = clamp01(t)
	m := c.Colorful().BlendRgb(o.Colorful(), t).Clamped()
	return Color{R: m.R, G: m.G, B: m.B, A: c.A + (o.A-c.A)*t}
}

// Hex renders "#rrggbb", or "#rrggbbaa" when the colour is not opaque.
func (c Color) Hex() string {
	h := c.Colorful().Hex()
	if n := c.NRGBA(); n.A != 0xff {
		h += fmt.Sprintf("%02x", n.A)
	}
	return h
}

// Equal compares colours at 8-bit precision.
func (c Color) Equal(o Color) bool {
	return c.NRGBA() == o.NRGBA()
}

// ParseHex accepts "#rgb", "#rrggbb" and "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse alpha of %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}

	cf, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return RGBA(cf.R, cf.G, cf.B, alpha), nil
}

// Brightest returns the colour with the highest L*, or White for no input.
func Brightest(cs ...Color) Color {
	if len(cs) == 0 {
		return White
	}
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Luminance() > best.Luminance() {
			best = c
		}
	}
	return best
}

// Darkest returns the colour with the lowest L*, or Black for no input.
func Darkest(cs ...Color) Color {
	if len(cs) == 0 {
		return Black
	}
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Luminance() < best.Luminance() {
			best = c
		}
	}
	return best
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
