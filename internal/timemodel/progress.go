// Package timemodel converts wall-clock instants into ring progress values,
// digital strings and hand angles. Everything here is a pure function of its
// inputs; callers supply the instant and the zone.
package timemodel

import (
	"fmt"
	"math"
	"time"
)

// AnimationWindowStart is the second within a minute at which the
// minute-boundary animation window opens.
const AnimationWindowStart = 59.0

// Progress holds the fractional completion of each ring, each in [0,1).
type Progress struct {
	Hour   float64 `json:"hour"`
	Minute float64 `json:"minute"`
	Second float64 `json:"second"`
}

// Components are the wall-clock fields of an instant in a zone.
type Components struct {
	Hour   int
	Minute int
	// Second includes the fractional part.
	Second float64
}

// Format controls the digital time string.
type Format struct {
	Use24Hour   bool
	ShowSeconds bool
}

// ComponentsAt extracts hour, minute and fractional second of t in loc.
// A nil loc means the host local zone.
func ComponentsAt(t time.Time, loc *time.Location) Components {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return Components{
		Hour:   lt.Hour(),
		Minute: lt.Minute(),
		Second: float64(lt.Second()) + float64(lt.Nanosecond())/1e9,
	}
}

// ProgressAt returns the ring progress for t in loc.
func ProgressAt(t time.Time, loc *time.Location) Progress {
	return ProgressOf(ComponentsAt(t, loc))
}

// ProgressOf maps components onto ring progress. Sub-second precision carries
// up into the minute and hour rings.
func ProgressOf(c Components) Progress {
	second := c.Second / 60.0
	minute := (float64(c.Minute) + second) / 60.0
	hours := float64(c.Hour%12) + minute
	hour := math.Mod(hours, 12) / 12.0

	return Progress{
		Hour:   wrapUnit(hour),
		Minute: wrapUnit(minute),
		Second: wrapUnit(second),
	}
}

// wrapUnit keeps a value in [0,1). Rounding at x:59:59.999999999 can land
// exactly on 1.
func wrapUnit(v float64) float64 {
	if v >= 1 || v < 0 {
		v = math.Mod(v, 1)
		if v < 0 {
			v++
		}
	}
	return v
}

// DigitalTime formats hour/minute/second for the digital overlay.
//
// 24-hour: "14:05" or "14:05:09". 12-hour: "2:05 PM" or "2:05:09 PM", with
// midnight shown as 12 AM and noon as 12 PM.
func DigitalTime(hour, minute, second int, f Format) string {
	if f.Use24Hour {
		if f.ShowSeconds {
			return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	display := hour % 12
	if display == 0 {
		display = 12
	}
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	if f.ShowSeconds {
		return fmt.Sprintf("%d:%02d:%02d %s", display, minute, second, meridiem)
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

// DigitalTimeAt formats t in loc.
func DigitalTimeAt(t time.Time, loc *time.Location, f Format) string {
	c := ComponentsAt(t, loc)
	return DigitalTime(c.Hour, c.Minute, int(c.Second), f)
}

// HandAngles returns the hour and minute hand angles in degrees, clockwise
// from 12 o'clock.
func HandAngles(hour, minute int) (hourAngle, minuteAngle float64) {
	minuteAngle = float64(minute) * 6.0
	hourAngle = float64(hour%12)*30.0 + float64(minute)*0.5
	return hourAngle, minuteAngle
}

// IsInAnimationWindow reports whether second (fraction included) falls in
// the trailing second of a minute.
func IsInAnimationWindow(second float64) bool {
	return second >= AnimationWindowStart
}
