package ink

import (
	"fmt"
	"image"
	"math"
)

// Annotator is the annotation engine: a set of pages, the active tool
// and its settings, and the pointer state machine that turns input events
// into strokes, selections, and history entries.
//
// An Annotator is NOT safe for concurrent use. Drive it from a single
// event-handling goroutine, or use external synchronization.
type Annotator struct {
	scale      float64
	defaultW   int
	defaultH   int
	maxHistory int
	sink       Sink

	tool        Tool
	pen         Pen
	eraserSize  float64
	highlighter Highlighter

	pages      []*Page
	activePage int

	stroke    *strokeSession
	selection *selectionSession
}

// New creates an annotation engine holding a single blank page.
// Use SetPages or SetPageSpecs to load a document.
func New(opts ...Option) *Annotator {
	o := defaultAnnotatorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	a := &Annotator{
		scale:       o.scale,
		defaultW:    o.defaultW,
		defaultH:    o.defaultH,
		maxHistory:  o.maxHistory,
		sink:        o.sink,
		tool:        ToolPen,
		pen:         defaultPen(),
		eraserSize:  defaultEraserSize,
		highlighter: defaultHighlighter(),
	}
	_ = a.SetPageSpecs(nil)
	return a
}

// SetPages replaces the workspace with one page per background image.
// Passing no images produces a single blank page of the default size.
// All drawing buffers and histories are recreated from scratch.
func (a *Annotator) SetPages(backgrounds []image.Image) error {
	specs := make([]PageSpec, len(backgrounds))
	for i, bg := range backgrounds {
		specs[i].Background = bg
	}
	return a.SetPageSpecs(specs)
}

// SetPageSpecs replaces the workspace with the described pages. Page
// sizes default to the background dimensions, or to the annotator's
// default page size for blank pages. On error the existing workspace is
// left untouched.
func (a *Annotator) SetPageSpecs(specs []PageSpec) error {
	if len(specs) == 0 {
		specs = []PageSpec{{}}
	}
	pages := make([]*Page, 0, len(specs))
	for i, spec := range specs {
		w, h := spec.Width, spec.Height
		if (w <= 0 || h <= 0) && spec.Background != nil {
			b := spec.Background.Bounds()
			w, h = b.Dx(), b.Dy()
		}
		if w <= 0 || h <= 0 {
			w, h = a.defaultW, a.defaultH
		}
		buf, err := newBuffer(a.devicePx(w), a.devicePx(h))
		if err != nil {
			return fmt.Errorf("ink: page %d: %w", i, err)
		}
		p := &Page{
			index:      i,
			width:      w,
			height:     h,
			buf:        buf,
			history:    newHistory(a.maxHistory),
			background: spec.Background,
		}
		p.history.Push(buf.Snapshot())
		pages = append(pages, p)
	}
	a.cancelSessions()
	a.pages = pages
	a.activePage = 0
	for _, p := range a.pages {
		a.emitHistory(p)
	}
	Logger().Info("workspace loaded", "pages", len(pages))
	return nil
}

// Reset clears the workspace back to a single blank page.
func (a *Annotator) Reset() {
	_ = a.SetPageSpecs(nil)
}

// PageCount returns the number of pages in the workspace.
func (a *Annotator) PageCount() int { return len(a.pages) }

// Page returns the page at the given zero-based index.
func (a *Annotator) Page(index int) (*Page, error) {
	if index < 0 || index >= len(a.pages) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoSuchPage, index, len(a.pages))
	}
	return a.pages[index], nil
}

// ActivePage returns the index of the page the user interacted with most
// recently. Toolbar-style hosts can use it to target undo and redo.
func (a *Annotator) ActivePage() int { return a.activePage }

// Scale returns the device pixel scale factor.
func (a *Annotator) Scale() float64 { return a.scale }

// SetTool selects the active pointer tool. The change takes effect at
// the next pointer-down; an in-flight session keeps the tool it started
// with.
func (a *Annotator) SetTool(t Tool) { a.tool = t }

// Tool returns the active pointer tool.
func (a *Annotator) Tool() Tool { return a.tool }

// SetPen updates the pen settings. Settings with a non-positive width
// are ignored.
func (a *Annotator) SetPen(p Pen) {
	if p.Width <= 0 {
		Logger().Debug("pen settings ignored", "width", p.Width)
		return
	}
	a.pen = p
}

// Pen returns the current pen settings.
func (a *Annotator) Pen() Pen { return a.pen }

// SetEraserSize updates the eraser diameter in page units. Non-positive
// sizes are ignored.
func (a *Annotator) SetEraserSize(size float64) {
	if size <= 0 {
		Logger().Debug("eraser size ignored", "size", size)
		return
	}
	a.eraserSize = size
}

// EraserSize returns the eraser diameter in page units.
func (a *Annotator) EraserSize() float64 { return a.eraserSize }

// SetHighlighter updates the highlighter settings. Settings with a
// non-positive width are ignored.
func (a *Annotator) SetHighlighter(h Highlighter) {
	if h.Width <= 0 {
		Logger().Debug("highlighter settings ignored", "width", h.Width)
		return
	}
	a.highlighter = h
}

// Highlighter returns the current highlighter settings.
func (a *Annotator) Highlighter() Highlighter { return a.highlighter }

// PointerDown begins a tool session on a page at page-local (x, y).
// A pointer-down while a session is active, on an unknown page, or on an
// unavailable page is ignored.
func (a *Annotator) PointerDown(page int, x, y float64) {
	if a.stroke != nil || a.selection != nil {
		Logger().Debug("pointer down ignored: session active", "page", page)
		return
	}
	p, err := a.Page(page)
	if err != nil {
		Logger().Debug("pointer down ignored: no such page", "page", page)
		return
	}
	if p.broken {
		Logger().Debug("pointer down ignored: page unavailable", "page", page)
		return
	}
	a.activePage = page
	switch a.tool {
	case ToolSnapshot, ToolNote:
		a.selection = beginSelection(p, a.tool, x, y)
	default:
		a.ensureBaseline(p)
		a.stroke = beginStroke(p, a.tool, a.scale, a.pen, a.eraserSize, a.highlighter, x, y)
	}
}

// PointerMove extends the active session to page-local (x, y). Moves
// with no active session are ignored.
func (a *Annotator) PointerMove(x, y float64) {
	switch {
	case a.stroke != nil:
		a.stroke.move(x, y)
	case a.selection != nil:
		a.selection.move(x, y)
	}
}

// PointerUp finishes the active session at page-local (x, y). A stroke
// session pushes the page's new pixels onto its history; a selection
// session emits a snapshot or note event when the rectangle is large
// enough. Releases with no active session are ignored.
func (a *Annotator) PointerUp(x, y float64) {
	switch {
	case a.stroke != nil:
		s := a.stroke
		a.stroke = nil
		s.finish(x, y)
		a.commit(s.page)
	case a.selection != nil:
		sel := a.selection
		a.selection = nil
		sel.move(x, y)
		a.finishSelection(sel)
	}
}

// Undo steps the page back one history entry and repaints its buffer.
// At the oldest entry nothing changes; availability is re-reported either
// way.
func (a *Annotator) Undo(page int) error {
	p, err := a.Page(page)
	if err != nil {
		return err
	}
	if p.broken {
		return fmt.Errorf("ink: page %d: %w", page, ErrPageUnavailable)
	}
	a.interruptPage(p)
	if s := p.history.Undo(); s != nil {
		p.buf.Restore(s)
	}
	a.activePage = page
	a.emitHistory(p)
	return nil
}

// Redo steps the page forward one history entry and repaints its buffer.
// At the newest entry nothing changes; availability is re-reported either
// way.
func (a *Annotator) Redo(page int) error {
	p, err := a.Page(page)
	if err != nil {
		return err
	}
	if p.broken {
		return fmt.Errorf("ink: page %d: %w", page, ErrPageUnavailable)
	}
	a.interruptPage(p)
	if s := p.history.Redo(); s != nil {
		p.buf.Restore(s)
	}
	a.activePage = page
	a.emitHistory(p)
	return nil
}

// CanUndo reports whether the page has an older history entry. Unknown
// pages report false.
func (a *Annotator) CanUndo(page int) bool {
	p, err := a.Page(page)
	if err != nil {
		return false
	}
	return p.history.CanUndo()
}

// CanRedo reports whether the page has a newer history entry. Unknown
// pages report false.
func (a *Annotator) CanRedo(page int) bool {
	p, err := a.Page(page)
	if err != nil {
		return false
	}
	return p.history.CanRedo()
}

// ClearPage wipes the page's drawing layer. The blank state is recorded
// as a new history entry, so the wipe itself is undoable.
func (a *Annotator) ClearPage(page int) error {
	p, err := a.Page(page)
	if err != nil {
		return err
	}
	if p.broken {
		return fmt.Errorf("ink: page %d: %w", page, ErrPageUnavailable)
	}
	a.interruptPage(p)
	a.ensureBaseline(p)
	p.buf.clear()
	a.commit(p)
	a.activePage = page
	return nil
}

// ResizePage rebuilds the page's buffer for a new rendered size in page
// units and repaints it from the current history entry, rescaled. An
// uncommitted stroke on the page is abandoned.
func (a *Annotator) ResizePage(page, width, height int) error {
	p, err := a.Page(page)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if p.broken {
		return fmt.Errorf("ink: page %d: %w", page, ErrPageUnavailable)
	}
	a.interruptPage(p)
	if p.width == width && p.height == height {
		return nil
	}
	p.width = width
	p.height = height
	if err := p.buf.resize(a.devicePx(width), a.devicePx(height)); err != nil {
		p.broken = true
		Logger().Warn("page surface lost", "page", page, "error", err)
		return fmt.Errorf("ink: page %d: %w", page, ErrPageUnavailable)
	}
	if s := p.history.Current(); s != nil {
		p.buf.Restore(s)
	} else {
		p.history.Push(p.buf.Snapshot())
	}
	a.emitHistory(p)
	return nil
}

// ExportPage flattens the page into a single image at buffer resolution:
// a white base, the background rescaled to the buffer, and the drawing
// layer composited on top.
func (a *Annotator) ExportPage(page int) (image.Image, error) {
	p, err := a.Page(page)
	if err != nil {
		return nil, err
	}
	if p.broken {
		return nil, fmt.Errorf("ink: page %d: %w", page, ErrPageUnavailable)
	}
	out := image.NewRGBA(image.Rect(0, 0, p.buf.Width(), p.buf.Height()))
	fillWhite(out)
	if p.background != nil {
		overRGBA(out, p.background)
	}
	p.buf.CompositeOnto(out)
	return out, nil
}

// PageImage returns a copy of the page's drawing layer alone, on a
// transparent background.
func (a *Annotator) PageImage(page int) (image.Image, error) {
	p, err := a.Page(page)
	if err != nil {
		return nil, err
	}
	if p.broken {
		return nil, fmt.Errorf("ink: page %d: %w", page, ErrPageUnavailable)
	}
	return p.buf.Image(), nil
}

// finishSelection applies the size thresholds and emits the selection's
// event. Undersized rectangles are discarded silently.
func (a *Annotator) finishSelection(sel *selectionSession) {
	r := sel.rect()
	switch sel.tool {
	case ToolNote:
		if r.W < minNoteSize || r.H < minNoteSize {
			Logger().Debug("note selection discarded", "page", sel.page.index, "w", r.W, "h", r.H)
			return
		}
		a.sink.NoteRequested(NoteEvent{ID: newEventID(), Page: sel.page.index, Region: r})
	default:
		if r.W < minSnapshotSize || r.H < minSnapshotSize {
			Logger().Debug("snapshot selection discarded", "page", sel.page.index, "w", r.W, "h", r.H)
			return
		}
		img, err := captureRegion(sel.page, r, a.scale)
		if err != nil {
			Logger().Warn("snapshot capture failed", "page", sel.page.index, "error", err)
			return
		}
		a.sink.SnapshotCaptured(SnapshotEvent{ID: newEventID(), Page: sel.page.index, Region: r, Image: img})
	}
}

// commit pushes the page's pixels as a new history entry and reports the
// resulting undo/redo availability.
func (a *Annotator) commit(p *Page) {
	p.history.Push(p.buf.Snapshot())
	a.emitHistory(p)
}

// ensureBaseline guarantees the page has a pre-interaction snapshot, so
// the first stroke after a history reset can still be undone.
func (a *Annotator) ensureBaseline(p *Page) {
	if p.history.Len() == 0 {
		p.history.Push(p.buf.Snapshot())
	}
}

func (a *Annotator) emitHistory(p *Page) {
	a.sink.HistoryChanged(HistoryEvent{
		Page:    p.index,
		CanUndo: p.history.CanUndo(),
		CanRedo: p.history.CanRedo(),
	})
}

// interruptPage abandons any in-flight session on the page. A cancelled
// stroke's uncommitted pixels are discarded by repainting the buffer from
// the current history entry.
func (a *Annotator) interruptPage(p *Page) {
	if a.stroke != nil && a.stroke.page == p {
		a.stroke.cancel()
		a.stroke = nil
		if s := p.history.Current(); s != nil {
			p.buf.Restore(s)
		}
	}
	if a.selection != nil && a.selection.page == p {
		a.selection = nil
	}
}

// cancelSessions abandons any in-flight session regardless of page.
func (a *Annotator) cancelSessions() {
	if a.stroke != nil {
		a.stroke.cancel()
		a.stroke = nil
	}
	a.selection = nil
}

// devicePx converts page units to device pixels under the scale factor.
func (a *Annotator) devicePx(u int) int {
	px := int(math.Round(float64(u) * a.scale))
	if px < 1 {
		px = 1
	}
	return px
}
