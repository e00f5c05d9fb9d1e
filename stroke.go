package ink

import (
	"math"

	"github.com/gogpu/gg"
)

// moveThreshold is the minimum pointer travel in page units before a
// sample extends a stroke. A release that never crossed it counts as a
// click and paints a dot of the tool's width instead.
const moveThreshold = 0.5

// strokeSession holds the transient state of one pointer-down to
// pointer-up cycle of a drawing tool. It is created on pointer-down and
// discarded on pointer-up; nothing in it is ever persisted.
type strokeSession struct {
	page  *Page
	tool  Tool
	scale float64

	color gg.RGBA
	width float64 // device pixels

	lastX, lastY float64 // device pixels
	moved        bool

	// Highlighter replay state: the pre-stroke pixels and the full
	// accumulated polyline, redrawn from scratch on every sample.
	base *Snapshot
	pts  []gg.Point
}

// beginStroke starts a session at page-local (x, y) with the tool
// settings captured at pointer-down time.
func beginStroke(p *Page, tool Tool, scale float64, pen Pen, eraserSize float64, hl Highlighter, x, y float64) *strokeSession {
	s := &strokeSession{page: p, tool: tool, scale: scale}
	switch tool {
	case ToolEraser:
		s.width = eraserSize * scale
	case ToolHighlighter:
		s.color = hl.Color
		s.width = hl.Width * scale
		s.base = p.buf.Snapshot()
	default:
		s.color = pen.Color
		s.width = pen.Width * scale
	}
	if s.width < 1 {
		s.width = 1
	}
	s.lastX = x * scale
	s.lastY = y * scale
	if tool == ToolHighlighter {
		s.pts = append(s.pts, gg.Pt(s.lastX, s.lastY))
	}
	return s
}

// move extends the stroke to page-local (x, y). Travel below the
// threshold is ignored, so the anchor point only advances on real
// movement.
func (s *strokeSession) move(x, y float64) {
	dx := x * s.scale
	dy := y * s.scale
	if math.Hypot(dx-s.lastX, dy-s.lastY) < moveThreshold*s.scale {
		return
	}
	s.moved = true
	switch s.tool {
	case ToolEraser:
		s.eraseSegment(s.lastX, s.lastY, dx, dy)
	case ToolHighlighter:
		s.pts = append(s.pts, gg.Pt(dx, dy))
		s.replay()
	default:
		s.penSegment(s.lastX, s.lastY, dx, dy)
	}
	s.lastX = dx
	s.lastY = dy
}

// finish completes the stroke at page-local (x, y) and releases session
// resources. The caller captures the history snapshot afterward.
func (s *strokeSession) finish(x, y float64) {
	s.move(x, y)
	if !s.moved {
		s.dot()
	}
	s.base = nil
	s.pts = nil
	resetPaint(s.page.buf.ctx)
}

// cancel abandons the session without drawing anything further. The
// caller is expected to repaint the buffer from history, which discards
// any uncommitted stroke pixels.
func (s *strokeSession) cancel() {
	s.base = nil
	s.pts = nil
	resetPaint(s.page.buf.ctx)
}

// penSegment strokes one opaque round-capped segment in device pixels.
func (s *strokeSession) penSegment(x1, y1, x2, y2 float64) {
	ctx := s.page.buf.ctx
	ctx.SetRGBA(s.color.R, s.color.G, s.color.B, 1)
	ctx.SetLineWidth(s.width)
	ctx.SetLineCap(gg.LineCapRound)
	ctx.SetLineJoin(gg.LineJoinRound)
	ctx.MoveTo(x1, y1)
	ctx.LineTo(x2, y2)
	if err := ctx.Stroke(); err != nil {
		Logger().Warn("pen segment failed", "page", s.page.index, "error", err)
	}
}

// eraseSegment knocks the segment's coverage out of the page buffer.
// The segment is rendered into a scratch surface bounded to its bounding
// box, then applied with destination-out compositing so erased pixels
// return to full transparency.
func (s *strokeSession) eraseSegment(x1, y1, x2, y2 float64) {
	pad := s.width/2 + 2
	s.eraseMask(x1, y1, x2, y2, pad, func(scratch *gg.Context, ox, oy float64) error {
		scratch.SetLineWidth(s.width)
		scratch.SetLineCap(gg.LineCapRound)
		scratch.SetLineJoin(gg.LineJoinRound)
		scratch.MoveTo(x1-ox, y1-oy)
		scratch.LineTo(x2-ox, y2-oy)
		return scratch.Stroke()
	})
}

// eraseDot knocks a filled disc out of the page buffer.
func (s *strokeSession) eraseDot(cx, cy, r float64) {
	s.eraseMask(cx, cy, cx, cy, r+2, func(scratch *gg.Context, ox, oy float64) error {
		scratch.DrawCircle(cx-ox, cy-oy, r)
		return scratch.Fill()
	})
}

// eraseMask renders coverage into a scratch surface spanning the padded
// bounding box of (x1,y1)-(x2,y2) and composites it destination-out onto
// the page. Geometry falling entirely off the page is skipped.
func (s *strokeSession) eraseMask(x1, y1, x2, y2, pad float64, render func(scratch *gg.Context, ox, oy float64) error) {
	buf := s.page.buf
	x0 := int(math.Floor(math.Min(x1, x2) - pad))
	y0 := int(math.Floor(math.Min(y1, y2) - pad))
	x3 := int(math.Ceil(math.Max(x1, x2) + pad))
	y3 := int(math.Ceil(math.Max(y1, y2) + pad))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x3 > buf.Width() {
		x3 = buf.Width()
	}
	if y3 > buf.Height() {
		y3 = buf.Height()
	}
	w := x3 - x0
	h := y3 - y0
	if w <= 0 || h <= 0 {
		return
	}
	scratch := gg.NewContext(w, h)
	scratch.SetRGBA(1, 1, 1, 1)
	if err := render(scratch, float64(x0), float64(y0)); err != nil {
		Logger().Warn("eraser mask failed", "page", s.page.index, "error", err)
		return
	}
	destinationOut(rgbaView(buf.ctx.ResizeTarget()), rgbaView(scratch.ResizeTarget()), x0, y0)
}

// replay restores the pre-stroke pixels and strokes the entire
// accumulated polyline once at the highlighter opacity. Drawing the whole
// path in a single pass is what keeps self-overlapping regions from
// doubling up.
func (s *strokeSession) replay() {
	buf := s.page.buf
	buf.Restore(s.base)
	ctx := buf.ctx
	ctx.SetRGBA(s.color.R, s.color.G, s.color.B, HighlighterOpacity)
	ctx.SetLineWidth(s.width)
	ctx.SetLineCap(gg.LineCapRound)
	ctx.SetLineJoin(gg.LineJoinRound)
	ctx.MoveTo(s.pts[0].X, s.pts[0].Y)
	for _, pt := range s.pts[1:] {
		ctx.LineTo(pt.X, pt.Y)
	}
	if err := ctx.Stroke(); err != nil {
		Logger().Warn("highlighter replay failed", "page", s.page.index, "error", err)
	}
}

// dot paints a click without drag: a filled disc of the tool's width at
// the release point, using the tool's compositing rule.
func (s *strokeSession) dot() {
	r := s.width / 2
	ctx := s.page.buf.ctx
	switch s.tool {
	case ToolEraser:
		s.eraseDot(s.lastX, s.lastY, r)
		return
	case ToolHighlighter:
		ctx.SetRGBA(s.color.R, s.color.G, s.color.B, HighlighterOpacity)
	default:
		ctx.SetRGBA(s.color.R, s.color.G, s.color.B, 1)
	}
	ctx.DrawCircle(s.lastX, s.lastY, r)
	if err := ctx.Fill(); err != nil {
		Logger().Warn("dot fill failed", "page", s.page.index, "error", err)
	}
}

// resetPaint returns a context's paint state to its neutral defaults.
func resetPaint(ctx *gg.Context) {
	ctx.ClearPath()
	ctx.SetRGBA(0, 0, 0, 1)
	ctx.SetLineWidth(1)
	ctx.SetLineCap(gg.LineCapButt)
	ctx.SetLineJoin(gg.LineJoinMiter)
}
