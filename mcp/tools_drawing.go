// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gogpu/gg"
	"github.com/gogpu/ink"
)

func (s *Server) registerDrawingTools() {
	s.mcp.AddTool(mcp.NewTool("set_tool",
		mcp.WithDescription("Select the active tool: pen, eraser, highlighter, snapshot, or note"),
		mcp.WithString("tool",
			mcp.Description("Tool name"),
			mcp.Required(),
		),
	), s.handleSetTool)

	s.mcp.AddTool(mcp.NewTool("set_pen",
		mcp.WithDescription("Configure the pen color and stroke width"),
		mcp.WithString("color",
			mcp.Description("Hex color such as #ff0000 (alpha is ignored; pens draw opaque)"),
		),
		mcp.WithNumber("width",
			mcp.Description("Stroke width in page units"),
		),
	), s.handleSetPen)

	s.mcp.AddTool(mcp.NewTool("set_highlighter",
		mcp.WithDescription("Configure the highlighter color and stroke width"),
		mcp.WithString("color",
			mcp.Description("Hex color such as #ffd400"),
		),
		mcp.WithNumber("width",
			mcp.Description("Stroke width in page units"),
		),
	), s.handleSetHighlighter)

	s.mcp.AddTool(mcp.NewTool("set_eraser",
		mcp.WithDescription("Set the eraser diameter"),
		mcp.WithNumber("size",
			mcp.Description("Eraser diameter in page units"),
			mcp.Required(),
		),
	), s.handleSetEraser)

	s.mcp.AddTool(mcp.NewTool("draw_stroke",
		mcp.WithDescription("Draw a stroke on a page with the active tool. A single point paints a dot"),
		mcp.WithNumber("page",
			mcp.Description("Page index, starting at 0"),
			mcp.Required(),
		),
		mcp.WithString("points",
			mcp.Description("JSON array of [x, y] pairs in page units, e.g. [[10,20],[30,40]]"),
			mcp.Required(),
		),
		mcp.WithString("tool",
			mcp.Description("Optional tool to select before drawing"),
		),
	), s.handleDrawStroke)

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last annotation step on a page"),
		mcp.WithNumber("page",
			mcp.Description("Page index, starting at 0"),
			mcp.Required(),
		),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo a previously undone annotation step on a page"),
		mcp.WithNumber("page",
			mcp.Description("Page index, starting at 0"),
			mcp.Required(),
		),
	), s.handleRedo)

	s.mcp.AddTool(mcp.NewTool("clear_page",
		mcp.WithDescription("Clear all annotations on a page. The clear is recorded in history and can be undone"),
		mcp.WithNumber("page",
			mcp.Description("Page index, starting at 0"),
			mcp.Required(),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			DestructiveHint: boolPtr(true),
		}),
	), s.handleClearPage)
}

func (s *Server) handleSetTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, _ := req.GetArguments()["tool"].(string)
	tool, err := ink.ParseTool(name)
	if err != nil {
		return nil, err
	}
	s.annotator.SetTool(tool)
	return textResult(fmt.Sprintf("Active tool: %s", tool)), nil
}

func (s *Server) handleSetPen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	args := req.GetArguments()
	pen := s.annotator.Pen()
	if hex, ok := args["color"].(string); ok && hex != "" {
		c := gg.Hex(hex)
		c.A = 1
		pen.Color = c
	}
	if w, ok := args["width"].(float64); ok && w > 0 {
		pen.Width = w
	}
	s.annotator.SetPen(pen)
	pen = s.annotator.Pen()
	return textResult(fmt.Sprintf("Pen: color %s, width %.1f", colorHex(pen.Color), pen.Width)), nil
}

func (s *Server) handleSetHighlighter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	args := req.GetArguments()
	hl := s.annotator.Highlighter()
	if hex, ok := args["color"].(string); ok && hex != "" {
		c := gg.Hex(hex)
		c.A = 1
		hl.Color = c
	}
	if w, ok := args["width"].(float64); ok && w > 0 {
		hl.Width = w
	}
	s.annotator.SetHighlighter(hl)
	hl = s.annotator.Highlighter()
	return textResult(fmt.Sprintf("Highlighter: color %s, width %.1f", colorHex(hl.Color), hl.Width)), nil
}

func (s *Server) handleSetEraser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size, ok := req.GetArguments()["size"].(float64)
	if !ok {
		return nil, fmt.Errorf("size is required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %v", size)
	}
	s.annotator.SetEraserSize(size)
	return textResult(fmt.Sprintf("Eraser size: %.1f", s.annotator.EraserSize())), nil
}

func (s *Server) handleDrawStroke(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	args := req.GetArguments()
	page, err := pageArg(args)
	if err != nil {
		return nil, err
	}
	if _, err := s.annotator.Page(page); err != nil {
		return nil, err
	}

	if name, ok := args["tool"].(string); ok && name != "" {
		tool, err := ink.ParseTool(name)
		if err != nil {
			return nil, err
		}
		s.annotator.SetTool(tool)
	}

	pointsJSON, _ := args["points"].(string)
	var pts [][2]float64
	if err := json.Unmarshal([]byte(pointsJSON), &pts); err != nil {
		return nil, fmt.Errorf("parse points: %w", err)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("points must contain at least one [x, y] pair")
	}

	s.annotator.PointerDown(page, pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		s.annotator.PointerMove(p[0], p[1])
	}
	last := pts[len(pts)-1]
	s.annotator.PointerUp(last[0], last[1])

	return textResult(fmt.Sprintf("Drew %d-point %s stroke on page %d", len(pts), s.annotator.Tool(), page)), nil
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := pageArg(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.annotator.Undo(page); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Undid last step on page %d (can_undo=%t, can_redo=%t)",
		page, s.annotator.CanUndo(page), s.annotator.CanRedo(page))), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := pageArg(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.annotator.Redo(page); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Redid step on page %d (can_undo=%t, can_redo=%t)",
		page, s.annotator.CanUndo(page), s.annotator.CanRedo(page))), nil
}

func (s *Server) handleClearPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := pageArg(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.annotator.ClearPage(page); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Cleared page %d (undo is available)", page)), nil
}
