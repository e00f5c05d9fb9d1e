// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pagesource

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/gogpu/ink"
)

// DefaultPDFDPI is the raster density used when PDFOptions.DPI is zero.
const DefaultPDFDPI = 144

// PDFOptions controls how a PDF document maps to annotatable pages.
type PDFOptions struct {
	// DPI converts the PDF's point geometry (72 points per inch) into
	// page units. Zero means DefaultPDFDPI.
	DPI float64

	// RenderDir optionally names a directory of pre-rendered page
	// rasters, page-0001.png onward. A page whose raster is present gets
	// it as background; the rest stay blank at their PDF geometry.
	RenderDir string
}

// LoadPDF builds a document from a PDF file's page geometry. Each page
// is sized from its media box at the configured density. The PDF's
// content streams are not rasterized here; backgrounds come from
// opts.RenderDir when provided.
func LoadPDF(path string, opts PDFOptions) (*Document, error) {
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultPDFDPI
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pagesource: open pdf: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pagesource: read pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("pagesource: read pdf: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("pagesource: page dimensions: %w", err)
	}

	doc := &Document{Pages: make([]Page, 0, len(dims))}
	for i, dim := range dims {
		p := Page{
			Width:  pointsToPixels(dim.Width, dpi),
			Height: pointsToPixels(dim.Height, dpi),
		}
		if opts.RenderDir != "" {
			name := fmt.Sprintf("page-%04d.png", i+1)
			img, err := loadImageFile(filepath.Join(opts.RenderDir, name))
			switch {
			case err == nil:
				p.Image = img
			case os.IsNotExist(err):
				// Blank page at PDF geometry.
			default:
				ink.Logger().Warn("page render unusable", "file", name, "error", err)
			}
		}
		doc.Pages = append(doc.Pages, p)
	}
	ink.Logger().Info("pdf loaded", "path", path, "pages", len(doc.Pages))
	return doc, nil
}

// pointsToPixels converts PDF points to pixels at the given density,
// never collapsing below one pixel.
func pointsToPixels(pt, dpi float64) int {
	px := int(math.Round(pt / 72 * dpi))
	if px < 1 {
		px = 1
	}
	return px
}
