// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pagesource loads annotatable page sets from blank canvases,
// images, directories, and PDF documents.
//
// A Document is an ordered set of pages, each an optional background
// raster plus a size in page units. Documents convert directly into an
// annotator workspace:
//
//	doc, err := pagesource.LoadDir("scans/")
//	if err != nil {
//		log.Fatal(err)
//	}
//	a := ink.New()
//	if err := doc.Apply(a); err != nil {
//		log.Fatal(err)
//	}
//
// # Directories
//
// LoadDir reads PNG, JPEG, and WebP files in lexical filename order, one
// page per file. WatchDir reloads the directory when files change, with
// event bursts coalesced into a single reload.
//
// # PDF documents
//
// LoadPDF sizes pages from the PDF's page geometry at a configurable
// density. Rasterizing PDF content streams is out of scope; pre-rendered
// page images can be supplied through PDFOptions.RenderDir and become
// page backgrounds.
package pagesource
