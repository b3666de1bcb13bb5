package icon

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/mattjoyce/ringclock/internal/paint"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// canvas wraps a destination image and a reusable rasterizer.
type canvas struct {
	dst *image.RGBA
	z   *vector.Rasterizer
}

func newCanvas(size int) *canvas {
	return &canvas{
		dst: image.NewRGBA(image.Rect(0, 0, size, size)),
		z:   vector.NewRasterizer(size, size),
	}
}

func (c *canvas) begin() {
	b := c.dst.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Over
}

func (c *canvas) fill(col paint.Color) {
	c.z.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{})
}

// circle adds a closed circle. Clockwise circles add coverage; an
// anticlockwise one inside a clockwise one cuts a hole.
func (c *canvas) circle(cx, cy, r float64, clockwise bool) {
	k := r * kappa
	x, y := float32(cx), float32(cy)
	f := func(v float64) float32 { return float32(v) }
	if clockwise {
		c.z.MoveTo(x, f(cy-r))
		c.z.CubeTo(f(cx+k), f(cy-r), f(cx+r), f(cy-k), f(cx+r), y)
		c.z.CubeTo(f(cx+r), f(cy+k), f(cx+k), f(cy+r), x, f(cy+r))
		c.z.CubeTo(f(cx-k), f(cy+r), f(cx-r), f(cy+k), f(cx-r), y)
		c.z.CubeTo(f(cx-r), f(cy-k), f(cx-k), f(cy-r), x, f(cy-r))
	} else {
		c.z.MoveTo(x, f(cy-r))
		c.z.CubeTo(f(cx-k), f(cy-r), f(cx-r), f(cy-k), f(cx-r), y)
		c.z.CubeTo(f(cx-r), f(cy+k), f(cx-k), f(cy+r), x, f(cy+r))
		c.z.CubeTo(f(cx+k), f(cy+r), f(cx+r), f(cy+k), f(cx+r), y)
		c.z.CubeTo(f(cx+r), f(cy-k), f(cx+k), f(cy-r), x, f(cy-r))
	}
	c.z.ClosePath()
}

func (c *canvas) disc(cx, cy, r float64, col paint.Color) {
	if r <= 0 {
		return
	}
	c.begin()
	c.circle(cx, cy, r, true)
	c.fill(col)
}

// annulus fills the band between radius-width/2 and radius+width/2.
func (c *canvas) annulus(cx, cy, radius, width float64, col paint.Color) {
	inner := radius - width/2
	outer := radius + width/2
	if outer <= 0 {
		return
	}
	c.begin()
	c.circle(cx, cy, outer, true)
	if inner > 0 {
		c.circle(cx, cy, inner, false)
	}
	c.fill(col)
}

// roundedRect fills an axis-aligned rectangle with circular corners.
func (c *canvas) roundedRect(x0, y0, x1, y1, r float64, col paint.Color) {
	r = math.Min(r, math.Min(x1-x0, y1-y0)/2)
	k := r * kappa
	f := func(v float64) float32 { return float32(v) }

	c.begin()
	c.z.MoveTo(f(x0+r), f(y0))
	c.z.LineTo(f(x1-r), f(y0))
	c.z.CubeTo(f(x1-r+k), f(y0), f(x1), f(y0+r-k), f(x1), f(y0+r))
	c.z.LineTo(f(x1), f(y1-r))
	c.z.CubeTo(f(x1), f(y1-r+k), f(x1-r+k), f(y1), f(x1-r), f(y1))
	c.z.LineTo(f(x0+r), f(y1))
	c.z.CubeTo(f(x0+r-k), f(y1), f(x0), f(y1-r+k), f(x0), f(y1-r))
	c.z.LineTo(f(x0), f(y0+r))
	c.z.CubeTo(f(x0), f(y0+r-k), f(x0+r-k), f(y0), f(x0+r), f(y0))
	c.z.ClosePath()
	c.fill(col)
}

// stroke fills a butt-capped segment from (x0,y0) to (x1,y1).
func (c *canvas) stroke(x0, y0, x1, y1, width float64, col paint.Color) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 {
		return
	}
	// Unit normal scaled to half the width.
	nx, ny := -dy/length*width/2, dx/length*width/2
	f := func(v float64) float32 { return float32(v) }

	c.begin()
	c.z.MoveTo(f(x0+nx), f(y0+ny))
	c.z.LineTo(f(x1+nx), f(y1+ny))
	c.z.LineTo(f(x1-nx), f(y1-ny))
	c.z.LineTo(f(x0-nx), f(y0-ny))
	c.z.ClosePath()
	c.fill(col)
}

// polar returns the point at distance l from the centre along a clock
// angle in degrees (0 at twelve, clockwise) in image coordinates.
func polar(cx, cy, l, degrees float64) (float64, float64) {
	rad := degrees * math.Pi / 180
	return cx + l*math.Sin(rad), cy - l*math.Cos(rad)
}
