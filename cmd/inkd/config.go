// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	modeStdio  = "stdio"
	modeExport = "export"

	defaultDB       = "annotations.db"
	defaultOut      = "export"
	defaultDocID    = "default"
	defaultLogLevel = "info"
)

// config holds everything inkd needs to assemble a workspace and run.
type config struct {
	// Mode selects what inkd does: "stdio" serves MCP over
	// stdin/stdout, "export" renders every page to PNG files and exits.
	Mode string

	// Page sources. PDF and PagesDir are mutually exclusive; with
	// neither set the workspace starts with blank pages.
	PDF      string
	PagesDir string
	Watch    bool

	// Blank workspace geometry, used when no document is given.
	BlankPages  int
	BlankWidth  int
	BlankHeight int

	// Rendering.
	Scale float64
	DPI   float64

	// Persistence.
	DB    string
	DocID string

	// Export mode output directory.
	Out string

	LogLevel string
}

func defaultConfig() *config {
	return &config{
		Mode:        modeStdio,
		BlankPages:  1,
		BlankWidth:  794,
		BlankHeight: 1123,
		Scale:       1,
		DB:          defaultDB,
		DocID:       defaultDocID,
		Out:         defaultOut,
		LogLevel:    defaultLogLevel,
	}
}

// loadConfig parses flags and INKD_* environment variables into a
// validated config.
func loadConfig() (*config, error) {
	cfg := defaultConfig()

	viper.SetEnvPrefix("INKD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("pdf", cfg.PDF)
	viper.SetDefault("pages-dir", cfg.PagesDir)
	viper.SetDefault("watch", cfg.Watch)
	viper.SetDefault("blank-pages", cfg.BlankPages)
	viper.SetDefault("blank-width", cfg.BlankWidth)
	viper.SetDefault("blank-height", cfg.BlankHeight)
	viper.SetDefault("scale", cfg.Scale)
	viper.SetDefault("dpi", cfg.DPI)
	viper.SetDefault("db", cfg.DB)
	viper.SetDefault("doc-id", cfg.DocID)
	viper.SetDefault("out", cfg.Out)
	viper.SetDefault("log-level", cfg.LogLevel)

	pflag.String("mode", cfg.Mode, "Run mode: 'stdio' serves MCP, 'export' renders pages to PNG and exits")
	pflag.String("pdf", cfg.PDF, "PDF file providing page geometry and backgrounds")
	pflag.String("pages-dir", cfg.PagesDir, "Directory of page images, in lexical order")
	pflag.Bool("watch", cfg.Watch, "Reload page backgrounds when --pages-dir changes (stdio mode)")
	pflag.Int("blank-pages", cfg.BlankPages, "Blank page count when no document is given")
	pflag.Int("blank-width", cfg.BlankWidth, "Blank page width in page units")
	pflag.Int("blank-height", cfg.BlankHeight, "Blank page height in page units")
	pflag.Float64("scale", cfg.Scale, "Drawing buffer scale factor (2 doubles stroke resolution)")
	pflag.Float64("dpi", cfg.DPI, "PDF page geometry resolution (0 uses the built-in default)")
	pflag.String("db", cfg.DB, "SQLite database for annotation payloads ('' disables persistence)")
	pflag.String("doc-id", cfg.DocID, "Document ID annotations are saved under")
	pflag.String("out", cfg.Out, "Output directory for export mode")
	pflag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	for _, name := range []string{
		"mode", "pdf", "pages-dir", "watch",
		"blank-pages", "blank-width", "blank-height",
		"scale", "dpi", "db", "doc-id", "out", "log-level",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}

	pflag.Usage = usage
	pflag.Parse()

	cfg.Mode = viper.GetString("mode")
	cfg.PDF = viper.GetString("pdf")
	cfg.PagesDir = viper.GetString("pages-dir")
	cfg.Watch = viper.GetBool("watch")
	cfg.BlankPages = viper.GetInt("blank-pages")
	cfg.BlankWidth = viper.GetInt("blank-width")
	cfg.BlankHeight = viper.GetInt("blank-height")
	cfg.Scale = viper.GetFloat64("scale")
	cfg.DPI = viper.GetFloat64("dpi")
	cfg.DB = viper.GetString("db")
	cfg.DocID = viper.GetString("doc-id")
	cfg.Out = viper.GetString("out")
	cfg.LogLevel = viper.GetString("log-level")

	if cfg.PDF != "" {
		if abs, err := filepath.Abs(cfg.PDF); err == nil {
			cfg.PDF = abs
		}
	}
	if cfg.PagesDir != "" {
		if abs, err := filepath.Abs(cfg.PagesDir); err == nil {
			cfg.PagesDir = abs
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.Mode != modeStdio && c.Mode != modeExport {
		return errors.New("mode must be either 'stdio' or 'export'")
	}
	if c.PDF != "" && c.PagesDir != "" {
		return errors.New("--pdf and --pages-dir are mutually exclusive")
	}
	if c.Watch && c.PagesDir == "" {
		return errors.New("--watch requires --pages-dir")
	}
	if c.BlankPages < 1 {
		return errors.New("--blank-pages must be at least 1")
	}
	if c.BlankWidth < 1 || c.BlankHeight < 1 {
		return errors.New("blank page dimensions must be positive")
	}
	if c.Scale <= 0 {
		return errors.New("--scale must be positive")
	}
	if c.DPI < 0 {
		return errors.New("--dpi must not be negative")
	}
	if c.Mode == modeExport && c.Out == "" {
		return errors.New("export mode needs --out")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\ninkd - annotation workspace daemon speaking the Model Context Protocol\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s                                  # stdio mode, one blank A4 page\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --pdf=paper.pdf --doc-id=paper   # annotate a PDF's pages\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --pages-dir=scans --watch        # image pages, reloaded on change\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --mode=export --pdf=paper.pdf --doc-id=paper --out=rendered\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	fmt.Fprintf(os.Stderr, "  INKD_MODE, INKD_PDF, INKD_PAGES_DIR, INKD_WATCH, INKD_SCALE, INKD_DPI,\n")
	fmt.Fprintf(os.Stderr, "  INKD_DB, INKD_DOC_ID, INKD_OUT, INKD_LOG_LEVEL and friends mirror the flags\n")
}
