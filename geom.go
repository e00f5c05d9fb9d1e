package ink

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in page-local coordinates.
// W and H may be negative while a selection drag is in flight;
// call Normalize before interpreting the rectangle spatially.
type Rect struct {
	X, Y, W, H float64
}

// Normalize returns an equivalent rectangle anchored at its minimum
// corner with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Scale returns the rectangle with both position and size multiplied
// per axis.
func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{X: r.X * sx, Y: r.Y * sy, W: r.W * sx, H: r.H * sy}
}

// Clamp restricts the rectangle to the area [0, 0, width, height].
// The receiver must be normalized.
func (r Rect) Clamp(width, height float64) Rect {
	x0 := math.Max(r.X, 0)
	y0 := math.Max(r.Y, 0)
	x1 := math.Min(r.X+r.W, width)
	y1 := math.Min(r.Y+r.H, height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ImageRect returns the smallest integer rectangle covering r.
func (r Rect) ImageRect() image.Rectangle {
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	x1 := int(math.Ceil(r.X + r.W))
	y1 := int(math.Ceil(r.Y + r.H))
	return image.Rect(x0, y0, x1, y1)
}
