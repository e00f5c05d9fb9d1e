package ink

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Minimum selection sizes in page units. Anything smaller is treated as
// an accidental drag and silently discarded.
const (
	minSnapshotSize = 5
	minNoteSize     = 20
)

// selectionSession holds the transient state of a snapshot or note drag:
// the anchored corner and the floating corner, in page-local units.
// No pixels change while a selection is in flight; any outline shown on
// screen belongs to the presentation layer.
type selectionSession struct {
	page           *Page
	tool           Tool
	startX, startY float64
	curX, curY     float64
}

// beginSelection starts a selection drag anchored at page-local (x, y).
func beginSelection(p *Page, tool Tool, x, y float64) *selectionSession {
	return &selectionSession{page: p, tool: tool, startX: x, startY: y, curX: x, curY: y}
}

// move updates the floating corner.
func (s *selectionSession) move(x, y float64) {
	s.curX = x
	s.curY = y
}

// rect returns the normalized drag rectangle clamped to the page bounds.
func (s *selectionSession) rect() Rect {
	r := Rect{X: s.startX, Y: s.startY, W: s.curX - s.startX, H: s.curY - s.startY}
	return r.Normalize().Clamp(float64(s.page.width), float64(s.page.height))
}

// captureRegion flattens the selected region into a standalone image.
// With a background present the capture is produced at the background's
// native resolution: the page-unit rectangle is scaled by the ratio of
// native size to page size, the background sub-region is copied over a
// white base, and the drawing layer sub-region is rescaled on top. Blank
// pages are captured at buffer resolution over white.
func captureRegion(p *Page, r Rect, scale float64) (image.Image, error) {
	bufView := rgbaView(p.buf.ctx.ResizeTarget())
	devRect := r.Scale(scale, scale).ImageRect().Intersect(bufView.Bounds())
	if devRect.Empty() {
		return nil, fmt.Errorf("%w: selection outside page", ErrInvalidDimensions)
	}

	if bg := p.background; bg != nil {
		nb := bg.Bounds()
		sx := float64(nb.Dx()) / float64(p.width)
		sy := float64(nb.Dy()) / float64(p.height)
		natRect := r.Scale(sx, sy).ImageRect().Add(nb.Min).Intersect(nb)
		if natRect.Empty() {
			return nil, fmt.Errorf("%w: selection outside background", ErrInvalidDimensions)
		}
		out := image.NewRGBA(image.Rect(0, 0, natRect.Dx(), natRect.Dy()))
		fillWhite(out)
		draw.Draw(out, out.Bounds(), bg, natRect.Min, draw.Over)
		sub := bufView.SubImage(devRect)
		xdraw.BiLinear.Scale(out, out.Bounds(), sub, sub.Bounds(), xdraw.Over, nil)
		return out, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, devRect.Dx(), devRect.Dy()))
	fillWhite(out)
	draw.Draw(out, out.Bounds(), bufView.SubImage(devRect), devRect.Min, draw.Over)
	return out, nil
}
