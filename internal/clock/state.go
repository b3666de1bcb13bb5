// Package clock owns the live clock state: progress per zone, the minute
// flip animation and the observers that render it.
package clock

import (
	"slices"
	"time"

	"github.com/mattjoyce/ringclock/internal/theme"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

// ZoneState is the clock for one selected zone.
type ZoneState struct {
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	Resolved bool               `json:"resolved"`
	Progress timemodel.Progress `json:"progress"`
	Digital  string             `json:"digital"`
}

// State is one frame of the clock. Progress is that of the primary zone.
type State struct {
	timemodel.Progress

	RotationX   float64 `json:"rotation_x"`
	RotationY   float64 `json:"rotation_y"`
	RotationZ   float64 `json:"rotation_z"`
	IsAnimating bool    `json:"is_animating"`

	Primary string       `json:"primary"`
	Digital string       `json:"digital"`
	Zones   []ZoneState  `json:"zones"`
	Colors  theme.Triple `json:"colors"`
	At      time.Time    `json:"at"`
}

func (s State) clone() State {
	s.Zones = slices.Clone(s.Zones)
	return s
}
