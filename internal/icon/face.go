// Package icon draws the clock-face application icon and keeps installed
// copies of it current.
package icon

import (
	"errors"

	"github.com/mattjoyce/ringclock/internal/paint"
)

var (
	ErrInvalidSize      = errors.New("icon size out of range")
	ErrIndistinctHands  = errors.New("minute hand colour must differ from hour hand colour")
	ErrNoSizes          = errors.New("no icon sizes configured")
	ErrInvisibleMinutes = errors.New("minute hand colour is fully transparent")
)

// Accepted pixel sizes.
const (
	MinSize = 8
	MaxSize = 2048
)

// Face holds the colours of each icon layer.
type Face struct {
	Background paint.Color
	Ticks      paint.Color
	Ring       paint.Color
	Hour       paint.Color
	Minute     paint.Color
	Dot        paint.Color
}

// DefaultFace is white on a dark panel with a red minute hand.
func DefaultFace() Face {
	return Face{
		Background: paint.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},
		Ticks:      paint.White,
		Ring:       paint.White,
		Hour:       paint.White,
		Minute:     paint.Color{R: 255.0 / 255, G: 59.0 / 255, B: 48.0 / 255, A: 1},
		Dot:        paint.White,
	}
}

func (f Face) validate() error {
	if f.Minute.Equal(f.Hour) {
		return ErrIndistinctHands
	}
	if f.Minute.NRGBA().A == 0 {
		return ErrInvisibleMinutes
	}
	return nil
}

// geometry is the face layout for one pixel size, all in pixels.
type geometry struct {
	size         float64
	cx, cy       float64
	padding      float64
	corner       float64
	radius       float64
	ringWidth    float64
	hourLength   float64
	hourWidth    float64
	minuteLength float64
	minuteWidth  float64
	dotRadius    float64
}

func layout(size int) geometry {
	s := float64(size)
	r := s * 0.32
	return geometry{
		size:         s,
		cx:           s / 2,
		cy:           s / 2,
		padding:      s * 0.1,
		corner:       s * 0.15,
		radius:       r,
		ringWidth:    s * 0.035,
		hourLength:   r * 0.4,
		hourWidth:    s * 0.065,
		minuteLength: r * 0.5,
		minuteWidth:  s * 0.08,
		dotRadius:    s * 0.025,
	}
}
