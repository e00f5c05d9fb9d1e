package ink

import "image"

// Snapshot is an immutable full-resolution copy of a page buffer's pixels
// at one point in its history. Pixel data is RGBA with premultiplied
// alpha, four bytes per pixel, matching the gg pixmap layout.
type Snapshot struct {
	width  int
	height int
	pix    []uint8
}

// newSnapshot copies pix into a new snapshot. The caller keeps ownership
// of pix.
func newSnapshot(width, height int, pix []uint8) *Snapshot {
	cp := make([]uint8, len(pix))
	copy(cp, pix)
	return &Snapshot{width: width, height: height, pix: cp}
}

// Width returns the snapshot width in pixels.
func (s *Snapshot) Width() int { return s.width }

// Height returns the snapshot height in pixels.
func (s *Snapshot) Height() int { return s.height }

// Image returns the snapshot as a new image.RGBA.
func (s *Snapshot) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.pix)
	return img
}

// view returns the snapshot pixels wrapped as an image.RGBA without
// copying. The result must not be mutated.
func (s *Snapshot) view() *image.RGBA {
	return &image.RGBA{
		Pix:    s.pix,
		Stride: s.width * 4,
		Rect:   image.Rect(0, 0, s.width, s.height),
	}
}
