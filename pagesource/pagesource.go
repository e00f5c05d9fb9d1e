// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pagesource

import (
	"image"

	"github.com/gogpu/ink"
)

// Page is one annotatable page: an optional background raster and the
// page's size in page units.
type Page struct {
	// Image is the background raster, or nil for a blank page. A raster
	// larger than the page's unit size makes snapshot captures come back
	// at the raster's native resolution.
	Image image.Image

	Width  int
	Height int
}

// Document is an ordered set of pages ready to hand to an annotator.
type Document struct {
	Pages []Page
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// PageSpecs converts the document into annotator page specs.
func (d *Document) PageSpecs() []ink.PageSpec {
	specs := make([]ink.PageSpec, len(d.Pages))
	for i, p := range d.Pages {
		specs[i] = ink.PageSpec{Background: p.Image, Width: p.Width, Height: p.Height}
	}
	return specs
}

// Apply replaces the annotator's workspace with this document's pages.
func (d *Document) Apply(a *ink.Annotator) error {
	return a.SetPageSpecs(d.PageSpecs())
}

// Blank returns a document of count empty pages at the given size in
// page units. Counts below one are treated as one.
func Blank(count, width, height int) *Document {
	if count < 1 {
		count = 1
	}
	doc := &Document{Pages: make([]Page, count)}
	for i := range doc.Pages {
		doc.Pages[i] = Page{Width: width, Height: height}
	}
	return doc
}

// FromImages returns a document with one page per image, each sized to
// its image's bounds.
func FromImages(imgs ...image.Image) *Document {
	doc := &Document{Pages: make([]Page, 0, len(imgs))}
	for _, img := range imgs {
		b := img.Bounds()
		doc.Pages = append(doc.Pages, Page{Image: img, Width: b.Dx(), Height: b.Dy()})
	}
	return doc
}
