// Package theme maps theme identifiers to ring colours and manages the
// custom colours and the saved-theme registry.
package theme

import (
	"strings"

	"github.com/mattjoyce/ringclock/internal/paint"
)

// ID identifies a theme.
type ID string

const (
	Base    ID = "base"
	Moon    ID = "moon"
	Ghost   ID = "ghost"
	Gray    ID = "gray"
	Vintage ID = "vintage"
	Custom  ID = "custom"
)

// Default is the theme used when nothing valid is stored.
const Default = Ghost

// IDs lists every theme in display order.
func IDs() []ID {
	return []ID{Base, Moon, Ghost, Gray, Vintage, Custom}
}

// ParseID matches s against the known ids, ignoring case and surrounding
// space.
func ParseID(s string) (ID, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, id := range IDs() {
		if string(id) == s {
			return id, true
		}
	}
	return "", false
}

// Triple is the colour of each ring.
type Triple struct {
	Hour   paint.Color `json:"hour"`
	Minute paint.Color `json:"minute"`
	Second paint.Color `json:"second"`
}

// Colors returns the three colours in ring order.
func (t Triple) Colors() []paint.Color {
	return []paint.Color{t.Hour, t.Minute, t.Second}
}

var builtins = map[ID]Triple{
	Base: {
		Hour:   paint.Color{R: 0.4, G: 0.6, B: 0.9, A: 1},
		Minute: paint.Color{R: 0.5, G: 0.8, B: 0.6, A: 1},
		Second: paint.Color{R: 1, G: 0.8, B: 0.6, A: 0.7},
	},
	Moon: {
		Hour:   paint.Color{R: 0.7, G: 0.4, B: 0.1, A: 0.7},
		Minute: paint.Color{R: 0.9, G: 0.7, B: 0.1, A: 0.6},
		Second: paint.Color{R: 0.1, G: 0.2, B: 0.5, A: 0.5},
	},
	Ghost: {
		Hour:   paint.Color{R: 0, G: 0.8, B: 0.8, A: 0.8},
		Minute: paint.Color{R: 0, G: 1, B: 0.4, A: 0.6},
		Second: paint.Color{R: 0.4, G: 0, B: 0.6, A: 0.7},
	},
	Gray: {
		Hour:   paint.Color{R: 0.6, G: 0.6, B: 0.6, A: 0.8},
		Minute: paint.Color{R: 0.4, G: 0.4, B: 0.4, A: 0.7},
		Second: paint.Color{R: 0.8, G: 0.8, B: 0.8, A: 0.6},
	},
	Vintage: {
		Hour:   paint.Color{R: 0.75, G: 0.73, B: 0.64, A: 0.6},
		Minute: paint.Color{R: 0.70, G: 0.68, B: 0.58, A: 0.7},
		Second: paint.Color{R: 0.80, G: 0.78, B: 0.70, A: 0.8},
	},
}

// Builtin returns the constant colours of a built-in theme. Custom is not
// built in.
func Builtin(id ID) (Triple, bool) {
	t, ok := builtins[id]
	return t, ok
}
