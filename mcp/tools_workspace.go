// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gogpu/gg"
	"github.com/gogpu/ink/pagesource"
)

type pageInfo struct {
	Page       int  `json:"page"`
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	HistoryLen int  `json:"history_length"`
	Cursor     int  `json:"cursor"`
	CanUndo    bool `json:"can_undo"`
	CanRedo    bool `json:"can_redo"`
	Available  bool `json:"available"`
}

type workspaceStatus struct {
	Tool       string     `json:"tool"`
	Scale      float64    `json:"scale"`
	ActivePage int        `json:"active_page"`
	PageCount  int        `json:"page_count"`
	PenColor   string     `json:"pen_color"`
	PenWidth   float64    `json:"pen_width"`
	EraserSize float64    `json:"eraser_size"`
	Pages      []pageInfo `json:"pages"`
}

func (s *Server) registerWorkspaceTools() {
	s.mcp.AddTool(mcp.NewTool("workspace_status",
		mcp.WithDescription("Get the current workspace state: active tool, scale, and per-page dimensions and history positions"),
	), s.handleWorkspaceStatus)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all pages with their dimensions and undo/redo availability"),
	), s.handleListPages)

	s.mcp.AddTool(mcp.NewTool("new_workspace",
		mcp.WithDescription("Replace the workspace with blank pages, discarding all annotations and history"),
		mcp.WithNumber("pages",
			mcp.Description("Number of blank pages (default 1)"),
		),
		mcp.WithNumber("width",
			mcp.Description("Page width in page units (default A4 at 96 DPI)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Page height in page units (default A4 at 96 DPI)"),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			DestructiveHint: boolPtr(true),
		}),
	), s.handleNewWorkspace)

	s.mcp.AddTool(mcp.NewTool("load_document",
		mcp.WithDescription("Load page backgrounds from a PDF file or a directory of images, replacing the workspace"),
		mcp.WithString("path",
			mcp.Description("Path to a .pdf file or a directory of page images"),
			mcp.Required(),
		),
		mcp.WithNumber("dpi",
			mcp.Description("Render resolution for PDF page geometry (default 144)"),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			DestructiveHint: boolPtr(true),
		}),
	), s.handleLoadDocument)
}

func (s *Server) handleWorkspaceStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pen := s.annotator.Pen()
	status := workspaceStatus{
		Tool:       s.annotator.Tool().String(),
		Scale:      s.annotator.Scale(),
		ActivePage: s.annotator.ActivePage(),
		PageCount:  s.annotator.PageCount(),
		PenColor:   colorHex(pen.Color),
		PenWidth:   pen.Width,
		EraserSize: s.annotator.EraserSize(),
		Pages:      s.pageInfos(),
	}
	return jsonResult(status)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return jsonResult(s.pageInfos())
}

func (s *Server) handleNewWorkspace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	args := req.GetArguments()
	count := 1
	if v, ok := args["pages"].(float64); ok && v >= 1 {
		count = int(v)
	}
	width, height := 794, 1123
	if v, ok := args["width"].(float64); ok && v >= 1 {
		width = int(v)
	}
	if v, ok := args["height"].(float64); ok && v >= 1 {
		height = int(v)
	}

	doc := pagesource.Blank(count, width, height)
	if err := doc.Apply(s.annotator); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return textResult(fmt.Sprintf("Workspace reset to %d blank %dx%d page(s)", count, width, height)), nil
}

func (s *Server) handleLoadDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	var (
		doc *pagesource.Document
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		opts := pagesource.PDFOptions{}
		if dpi, ok := args["dpi"].(float64); ok && dpi > 0 {
			opts.DPI = dpi
		}
		doc, err = pagesource.LoadPDF(path, opts)
	} else {
		doc, err = pagesource.LoadDir(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := doc.Apply(s.annotator); err != nil {
		return nil, fmt.Errorf("apply document: %w", err)
	}
	return textResult(fmt.Sprintf("Loaded %d page(s) from %s", doc.PageCount(), path)), nil
}

func (s *Server) pageInfos() []pageInfo {
	infos := make([]pageInfo, 0, s.annotator.PageCount())
	for i := 0; i < s.annotator.PageCount(); i++ {
		p, err := s.annotator.Page(i)
		if err != nil {
			continue
		}
		infos = append(infos, pageInfo{
			Page:       i,
			Width:      p.Width(),
			Height:     p.Height(),
			HistoryLen: p.History().Len(),
			Cursor:     p.History().Cursor(),
			CanUndo:    s.annotator.CanUndo(i),
			CanRedo:    s.annotator.CanRedo(i),
			Available:  p.Available(),
		})
	}
	return infos
}

// colorHex formats a color as #rrggbb, ignoring alpha.
func colorHex(c gg.RGBA) string {
	clamp := func(f float64) int {
		v := int(f*255 + 0.5)
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}
