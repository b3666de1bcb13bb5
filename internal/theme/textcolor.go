package theme

import (
	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/settings"
)

// TextColor resolves a digital text colour mode against the ring colours.
// Brightest and darkest compare CIE L* and drop the ring's alpha.
func TextColor(mode string, t Triple) paint.Color {
	switch mode {
	case settings.TextBlack:
		return paint.Black
	case settings.TextBrightest:
		return paint.Brightest(t.Colors()...).WithAlpha(1)
	case settings.TextDarkest:
		return paint.Darkest(t.Colors()...).WithAlpha(1)
	default:
		return paint.White
	}
}
