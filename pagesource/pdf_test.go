// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pagesource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// minimalPDF assembles a tiny but well-formed PDF with one empty page
// per media box size, computing cross-reference offsets as it goes.
func minimalPDF(sizes [][2]float64) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	var offsets []int
	addObj := func(body string) {
		offsets = append(offsets, b.Len())
		b.WriteString(body)
	}

	n := len(sizes)
	kids := make([]string, n)
	for i := range sizes {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), n))
	for i, s := range sizes {
		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] >>\nendobj\n",
			3+i, s[0], s[1]))
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(offsets)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xref)
	return b.Bytes()
}

func writePDF(t *testing.T, sizes [][2]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, minimalPDF(sizes), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

func TestLoadPDF_GeometryAtDPI(t *testing.T) {
	path := writePDF(t, [][2]float64{{612, 792}, {595, 842}})

	doc, err := LoadPDF(path, PDFOptions{DPI: 144})
	if err != nil {
		t.Fatalf("LoadPDF: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
	}
	// US Letter: 612x792pt doubles at 144 DPI.
	if p := doc.Pages[0]; p.Width != 1224 || p.Height != 1584 {
		t.Errorf("page 0 size = %dx%d, want 1224x1584", p.Width, p.Height)
	}
	// A4: 595x842pt.
	if p := doc.Pages[1]; p.Width != 1190 || p.Height != 1684 {
		t.Errorf("page 1 size = %dx%d, want 1190x1684", p.Width, p.Height)
	}
	if doc.Pages[0].Image != nil {
		t.Error("page 0 has a background, want blank without renders")
	}
}

func TestLoadPDF_DefaultDPI(t *testing.T) {
	path := writePDF(t, [][2]float64{{72, 144}})

	doc, err := LoadPDF(path, PDFOptions{})
	if err != nil {
		t.Fatalf("LoadPDF: %v", err)
	}
	// One inch wide at the 144 DPI default.
	if p := doc.Pages[0]; p.Width != 144 || p.Height != 288 {
		t.Errorf("page size = %dx%d, want 144x288", p.Width, p.Height)
	}
}

func TestLoadPDF_WithRenderDir(t *testing.T) {
	path := writePDF(t, [][2]float64{{612, 792}, {612, 792}})
	renders := t.TempDir()
	writePNG(t, renders, "page-0001.png", 100, 130)

	doc, err := LoadPDF(path, PDFOptions{DPI: 72, RenderDir: renders})
	if err != nil {
		t.Fatalf("LoadPDF: %v", err)
	}
	if doc.Pages[0].Image == nil {
		t.Fatal("page 0 background missing, want the supplied render")
	}
	if b := doc.Pages[0].Image.Bounds(); b.Dx() != 100 || b.Dy() != 130 {
		t.Errorf("page 0 render = %dx%d, want 100x130", b.Dx(), b.Dy())
	}
	// Page geometry still comes from the PDF, not the render.
	if p := doc.Pages[0]; p.Width != 612 || p.Height != 792 {
		t.Errorf("page 0 size = %dx%d, want 612x792", p.Width, p.Height)
	}
	if doc.Pages[1].Image != nil {
		t.Error("page 1 has a background, want blank (no render on disk)")
	}
}

func TestLoadPDF_MissingFile(t *testing.T) {
	if _, err := LoadPDF(filepath.Join(t.TempDir(), "absent.pdf"), PDFOptions{}); err == nil {
		t.Error("LoadPDF on a missing file: got nil error")
	}
}

func TestLoadPDF_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPDF(path, PDFOptions{}); err == nil {
		t.Error("LoadPDF on junk bytes: got nil error")
	}
}
