package ink

import "image"

// PageSpec describes one page of a workspace.
type PageSpec struct {
	// Background is the page's backdrop at native resolution, or nil for
	// a blank page.
	Background image.Image

	// Width and Height are the page size in page units. When zero they
	// are derived from Background, or from the annotator's default page
	// size for blank pages.
	Width, Height int
}

// Page couples one drawing buffer with its background image and its
// snapshot history. Pages are created by SetPages or SetPageSpecs and
// addressed by zero-based index.
type Page struct {
	index      int
	width      int
	height     int
	buf        *Buffer
	history    *History
	background image.Image
	broken     bool
}

// Index returns the page's zero-based index.
func (p *Page) Index() int { return p.index }

// Width returns the page width in page units.
func (p *Page) Width() int { return p.width }

// Height returns the page height in page units.
func (p *Page) Height() int { return p.height }

// Buffer returns the page's drawing surface, or nil if the page is
// unavailable.
func (p *Page) Buffer() *Buffer {
	if p.broken {
		return nil
	}
	return p.buf
}

// History returns the page's snapshot history.
func (p *Page) History() *History { return p.history }

// Background returns the native-resolution background image, or nil for
// a blank page.
func (p *Page) Background() image.Image { return p.background }

// Available reports whether the page's drawing surface is usable.
// A page becomes unavailable when its surface could not be rebuilt.
func (p *Page) Available() bool { return !p.broken }
