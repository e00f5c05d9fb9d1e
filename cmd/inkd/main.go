// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// inkd runs an annotation workspace as a Model Context Protocol server.
// Pages come from a PDF, a directory of images, or blank canvases;
// annotation payloads persist in a local SQLite database.
package main

import (
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gogpu/ink"
	mcpserver "github.com/gogpu/ink/mcp"
	"github.com/gogpu/ink/pagesource"
	"github.com/gogpu/ink/store"
)

var (
	buildTime = "unknown" // set by build flags
	gitCommit = "unknown" // set by build flags
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	setupLogging(cfg)

	if err := run(cfg); err != nil {
		ink.Logger().Error("inkd failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	doc, err := loadDocument(cfg)
	if err != nil {
		return err
	}

	annotator := ink.New(ink.WithScale(cfg.Scale))
	if err := doc.Apply(annotator); err != nil {
		return fmt.Errorf("apply document: %w", err)
	}

	var st *store.Store
	if cfg.DB != "" {
		st, err = store.Open(cfg.DB)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		if err := restoreAnnotations(cfg, annotator, st); err != nil {
			return err
		}
	}

	if cfg.Mode == modeExport {
		return runExport(cfg, annotator)
	}
	return runStdio(cfg, annotator, st)
}

// loadDocument builds the page set from the configured source.
func loadDocument(cfg *config) (*pagesource.Document, error) {
	switch {
	case cfg.PDF != "":
		return pagesource.LoadPDF(cfg.PDF, pagesource.PDFOptions{DPI: cfg.DPI})
	case cfg.PagesDir != "":
		return pagesource.LoadDir(cfg.PagesDir)
	default:
		return pagesource.Blank(cfg.BlankPages, cfg.BlankWidth, cfg.BlankHeight), nil
	}
}

// restoreAnnotations loads the persisted payload for the configured
// document. A missing payload starts fresh; a malformed one is logged
// and leaves the workspace blank.
func restoreAnnotations(cfg *config, annotator *ink.Annotator, st *store.Store) error {
	payload, err := st.Load(cfg.DocID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load annotations: %w", err)
	}
	if err := annotator.UnmarshalAnnotations(payload); err != nil {
		if errors.Is(err, ink.ErrMalformedPayload) {
			ink.Logger().Warn("stored annotations malformed, starting blank", "doc", cfg.DocID, "error", err)
			return nil
		}
		return fmt.Errorf("restore annotations: %w", err)
	}
	ink.Logger().Info("annotations restored", "doc", cfg.DocID, "bytes", len(payload))
	return nil
}

func runStdio(cfg *config, annotator *ink.Annotator, st *store.Store) error {
	srv := mcpserver.New(mcpserver.Deps{
		Annotator:  annotator,
		Store:      st,
		DocumentID: cfg.DocID,
	})

	if cfg.Watch {
		w, err := pagesource.WatchDir(cfg.PagesDir, func(doc *pagesource.Document, err error) {
			if err != nil {
				ink.Logger().Warn("page reload failed", "dir", cfg.PagesDir, "error", err)
				return
			}
			if err := srv.ApplyDocument(doc); err != nil {
				ink.Logger().Warn("page reload rejected", "error", err)
				return
			}
			ink.Logger().Info("pages reloaded", "dir", cfg.PagesDir, "pages", doc.PageCount())
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.PagesDir, err)
		}
		defer w.Close()
	}

	return srv.ServeStdio()
}

// runExport renders every page with its annotations to PNG files in the
// output directory, named page-0001.png onward.
func runExport(cfg *config, annotator *ink.Annotator) error {
	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for i := 0; i < annotator.PageCount(); i++ {
		img, err := annotator.ExportPage(i)
		if err != nil {
			return fmt.Errorf("render page %d: %w", i, err)
		}
		path := filepath.Join(cfg.Out, fmt.Sprintf("page-%04d.png", i+1))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
	}
	ink.Logger().Info("pages exported", "pages", annotator.PageCount(), "dir", cfg.Out)
	return nil
}

func setupLogging(cfg *config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// Stdout carries the MCP protocol in stdio mode, so logs go to
	// stderr unconditionally.
	ink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func printVersion() {
	fmt.Printf("inkd %s\n", ink.Version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
