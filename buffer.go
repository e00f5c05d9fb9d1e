package ink

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

// Buffer is the drawing surface of one page: a transparent raster layer
// the stroke tools paint into. Dimensions are device pixels (page units
// multiplied by the annotator's scale factor).
//
// Buffer is NOT safe for concurrent use.
type Buffer struct {
	ctx *gg.Context
}

// newBuffer allocates a transparent drawing surface.
func newBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Buffer{ctx: gg.NewContext(width, height)}, nil
}

// Width returns the buffer width in device pixels.
func (b *Buffer) Width() int { return b.ctx.Width() }

// Height returns the buffer height in device pixels.
func (b *Buffer) Height() int { return b.ctx.Height() }

// Context returns the underlying gg drawing context. It is an escape
// hatch for hosts that need direct drawing access; mutations made through
// it bypass history capture.
func (b *Buffer) Context() *gg.Context { return b.ctx }

// Snapshot returns an immutable copy of the current pixels.
func (b *Buffer) Snapshot() *Snapshot {
	pm := b.ctx.ResizeTarget()
	return newSnapshot(pm.Width(), pm.Height(), pm.Data())
}

// Restore overwrites the buffer contents with a snapshot. A snapshot
// captured at different dimensions (the page was resized since) is
// rescaled bilinearly to the current buffer size; the snapshot itself is
// not modified.
func (b *Buffer) Restore(s *Snapshot) {
	pm := b.ctx.ResizeTarget()
	if s.width == pm.Width() && s.height == pm.Height() {
		copy(pm.Data(), s.pix)
		return
	}
	scaleRGBA(rgbaView(pm), s.view())
}

// Image returns a copy of the current pixels.
func (b *Buffer) Image() *image.RGBA {
	return b.ctx.ResizeTarget().ToImage()
}

// CompositeOnto draws the buffer contents over dst, rescaling when the
// bounds differ.
func (b *Buffer) CompositeOnto(dst *image.RGBA) {
	overRGBA(dst, rgbaView(b.ctx.ResizeTarget()))
}

// clear wipes the buffer back to full transparency.
func (b *Buffer) clear() {
	b.ctx.Clear()
}

// resize rebuilds the surface at new dimensions. Contents are lost; the
// caller repaints from history.
func (b *Buffer) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if err := b.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("ink: surface resize failed: %w", err)
	}
	return nil
}
