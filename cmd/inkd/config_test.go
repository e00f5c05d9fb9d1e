// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"strings"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.Mode != modeStdio {
		t.Errorf("default mode = %q, want stdio", cfg.Mode)
	}
	if cfg.BlankWidth != 794 || cfg.BlankHeight != 1123 {
		t.Errorf("default blank page = %dx%d, want 794x1123", cfg.BlankWidth, cfg.BlankHeight)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config)
		wantErr string
	}{
		{
			name:    "bad mode",
			mutate:  func(c *config) { c.Mode = "http" },
			wantErr: "mode must be",
		},
		{
			name: "pdf and pages-dir together",
			mutate: func(c *config) {
				c.PDF = "a.pdf"
				c.PagesDir = "pages"
			},
			wantErr: "mutually exclusive",
		},
		{
			name:    "watch without pages-dir",
			mutate:  func(c *config) { c.Watch = true },
			wantErr: "--watch requires",
		},
		{
			name:    "zero blank pages",
			mutate:  func(c *config) { c.BlankPages = 0 },
			wantErr: "--blank-pages",
		},
		{
			name:    "negative blank width",
			mutate:  func(c *config) { c.BlankWidth = -1 },
			wantErr: "dimensions must be positive",
		},
		{
			name:    "zero scale",
			mutate:  func(c *config) { c.Scale = 0 },
			wantErr: "--scale",
		},
		{
			name:    "negative dpi",
			mutate:  func(c *config) { c.DPI = -72 },
			wantErr: "--dpi",
		},
		{
			name: "export without out",
			mutate: func(c *config) {
				c.Mode = modeExport
				c.Out = ""
			},
			wantErr: "--out",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config) { c.LogLevel = "verbose" },
			wantErr: "invalid log level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateWatchWithPagesDir(t *testing.T) {
	cfg := defaultConfig()
	cfg.PagesDir = "pages"
	cfg.Watch = true
	if err := cfg.validate(); err != nil {
		t.Errorf("watch with pages-dir should validate: %v", err)
	}
}
