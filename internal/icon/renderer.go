package icon

import (
	"fmt"
	"image"
	"time"

	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

// Renderer draws the clock face for a given hour and minute.
type Renderer struct {
	face Face
}

// NewRenderer validates face and returns a renderer for it.
func NewRenderer(face Face) (*Renderer, error) {
	if err := face.validate(); err != nil {
		return nil, err
	}
	return &Renderer{face: face}, nil
}

// Render draws a size×size icon showing hour:minute. Layers, back to front:
// panel, tick marks, ring, hour hand, minute hand, centre dot.
func (r *Renderer) Render(size, hour, minute int) (*image.RGBA, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidSize, size, MinSize, MaxSize)
	}

	g := layout(size)
	c := newCanvas(size)
	hourAngle, minuteAngle := timemodel.HandAngles(hour, minute)

	c.roundedRect(g.padding, g.padding, g.size-g.padding, g.size-g.padding, g.corner, r.face.Background)
	r.drawTicks(c, g)
	r.drawRing(c, g)

	hx, hy := polar(g.cx, g.cy, g.hourLength, hourAngle)
	c.stroke(g.cx, g.cy, hx, hy, g.hourWidth, r.face.Hour)

	mx, my := polar(g.cx, g.cy, g.minuteLength, minuteAngle)
	c.stroke(g.cx, g.cy, mx, my, g.minuteWidth, r.face.Minute)

	c.disc(g.cx, g.cy, g.dotRadius, r.face.Dot)
	// Pin highlight.
	c.disc(g.cx-g.dotRadius*0.3, g.cy-g.dotRadius*0.3, g.dotRadius*0.35, r.face.Dot.Mix(paint.White, 0.7).WithAlpha(0.8))

	return c.dst, nil
}

// RenderAt draws every size from the same time sample.
func (r *Renderer) RenderAt(sizes []int, t time.Time) ([]Icon, error) {
	if len(sizes) == 0 {
		return nil, ErrNoSizes
	}
	out := make([]Icon, 0, len(sizes))
	for _, size := range sizes {
		img, err := r.Render(size, t.Hour(), t.Minute())
		out = append(out, Icon{Size: size, At: t, Image: img, Err: err})
	}
	return out, nil
}

// Icon is one rendered size. Err is set when that size could not be drawn.
type Icon struct {
	Size  int
	At    time.Time
	Image *image.RGBA
	Err   error
}

func (r *Renderer) drawTicks(c *canvas, g geometry) {
	major := r.face.Ticks.WithAlpha(r.face.Ticks.A * 0.9)
	minor := r.face.Ticks.WithAlpha(r.face.Ticks.A * 0.4)
	for i := 0; i < 60; i++ {
		angle := float64(i) * 6
		inner, width, col := 0.84, g.size*0.01, minor
		if i%5 == 0 {
			inner, width, col = 0.74, g.size*0.02, major
		}
		x0, y0 := polar(g.cx, g.cy, g.radius*inner, angle)
		x1, y1 := polar(g.cx, g.cy, g.radius*0.92, angle)
		c.stroke(x0, y0, x1, y1, width, col)
	}
}

func (r *Renderer) drawRing(c *canvas, g geometry) {
	shadow := paint.Black.WithAlpha(0.35)
	gloss := r.face.Ring.Mix(paint.White, 0.6).WithAlpha(0.5)

	c.annulus(g.cx, g.cy+g.size*0.01, g.radius, g.ringWidth*1.2, shadow)
	c.annulus(g.cx, g.cy, g.radius, g.ringWidth, r.face.Ring)
	c.annulus(g.cx, g.cy, g.radius+g.ringWidth*0.15, g.ringWidth*0.35, gloss)
}
