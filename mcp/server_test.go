// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "annotations.db"))
	if err != nil {
		t.Fatalf("Open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(Deps{
		Annotator:  ink.New(ink.WithDefaultPageSize(100, 100)),
		Store:      st,
		DocumentID: "doc-1",
	})
}

func callReq(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("no text content in result: %#v", res.Content)
	return ""
}

func pixelAt(t *testing.T, s *Server, page, x, y int) color.RGBA {
	t.Helper()
	img, err := s.annotator.PageImage(page)
	if err != nil {
		t.Fatalf("PageImage(%d): %v", page, err)
	}
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestServer_DrawStrokeAndUndo(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.handleSetPen(ctx, callReq(map[string]any{
		"color": "#0000ff", "width": float64(10),
	})); err != nil {
		t.Fatalf("set_pen: %v", err)
	}

	res, err := s.handleDrawStroke(ctx, callReq(map[string]any{
		"page": float64(0), "points": "[[10,50],[90,50]]",
	}))
	if err != nil {
		t.Fatalf("draw_stroke: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "2-point pen stroke") {
		t.Errorf("unexpected result text: %q", text)
	}

	if got := pixelAt(t, s, 0, 50, 50); got.B != 255 || got.A != 255 {
		t.Errorf("stroke pixel = %+v, want opaque blue", got)
	}
	if !s.annotator.CanUndo(0) {
		t.Error("CanUndo(0) = false after stroke")
	}

	res, err = s.handleUndo(ctx, callReq(map[string]any{"page": float64(0)}))
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "can_redo=true") {
		t.Errorf("undo result text = %q, want can_redo=true", text)
	}
	if got := pixelAt(t, s, 0, 50, 50); got.A != 0 {
		t.Errorf("pixel after undo = %+v, want transparent", got)
	}

	if _, err := s.handleRedo(ctx, callReq(map[string]any{"page": float64(0)})); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := pixelAt(t, s, 0, 50, 50); got.A != 255 {
		t.Errorf("pixel after redo = %+v, want opaque", got)
	}
}

func TestServer_DrawStrokeValidation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing page", map[string]any{"points": "[[1,1]]"}},
		{"unknown page", map[string]any{"page": float64(7), "points": "[[1,1]]"}},
		{"bad points json", map[string]any{"page": float64(0), "points": "not json"}},
		{"empty points", map[string]any{"page": float64(0), "points": "[]"}},
		{"bad tool", map[string]any{"page": float64(0), "points": "[[1,1]]", "tool": "crayon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.handleDrawStroke(ctx, callReq(tc.args)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if s.annotator.CanUndo(0) {
		t.Error("rejected calls must not touch history")
	}
}

func TestServer_SetToolAndEraser(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.handleSetTool(ctx, callReq(map[string]any{"tool": "highlighter"})); err != nil {
		t.Fatalf("set_tool: %v", err)
	}
	if got := s.annotator.Tool(); got != ink.ToolHighlighter {
		t.Errorf("Tool() = %v, want highlighter", got)
	}
	if _, err := s.handleSetTool(ctx, callReq(map[string]any{"tool": "crayon"})); err == nil {
		t.Error("set_tool with unknown name should fail")
	}

	if _, err := s.handleSetEraser(ctx, callReq(map[string]any{"size": float64(40)})); err != nil {
		t.Fatalf("set_eraser: %v", err)
	}
	if got := s.annotator.EraserSize(); got != 40 {
		t.Errorf("EraserSize() = %v, want 40", got)
	}
	if _, err := s.handleSetEraser(ctx, callReq(map[string]any{"size": float64(-1)})); err == nil {
		t.Error("set_eraser with negative size should fail")
	}
}

func TestServer_WorkspaceStatus(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleWorkspaceStatus(ctx, callReq(nil))
	if err != nil {
		t.Fatalf("workspace_status: %v", err)
	}
	var status workspaceStatus
	if err := json.Unmarshal([]byte(resultText(t, res)), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Tool != "pen" {
		t.Errorf("Tool = %q, want pen", status.Tool)
	}
	if status.PageCount != 1 || len(status.Pages) != 1 {
		t.Fatalf("PageCount = %d, Pages = %d, want 1 page", status.PageCount, len(status.Pages))
	}
	p := status.Pages[0]
	if p.Width != 100 || p.Height != 100 {
		t.Errorf("page size = %dx%d, want 100x100", p.Width, p.Height)
	}
	if p.HistoryLen != 1 || p.CanUndo || p.CanRedo {
		t.Errorf("fresh page history: len=%d canUndo=%t canRedo=%t", p.HistoryLen, p.CanUndo, p.CanRedo)
	}
	if !p.Available {
		t.Error("fresh page should be available")
	}
}

func TestServer_NewWorkspace(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.handleDrawStroke(ctx, callReq(map[string]any{
		"page": float64(0), "points": "[[10,10],[90,90]]",
	})); err != nil {
		t.Fatalf("draw_stroke: %v", err)
	}

	res, err := s.handleNewWorkspace(ctx, callReq(map[string]any{
		"pages": float64(3), "width": float64(50), "height": float64(60),
	}))
	if err != nil {
		t.Fatalf("new_workspace: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "3 blank 50x60") {
		t.Errorf("unexpected result text: %q", text)
	}

	if got := s.annotator.PageCount(); got != 3 {
		t.Fatalf("PageCount = %d, want 3", got)
	}
	p, err := s.annotator.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	if p.Width() != 50 || p.Height() != 60 {
		t.Errorf("page size = %dx%d, want 50x60", p.Width(), p.Height())
	}
	if s.annotator.CanUndo(0) {
		t.Error("old history must not survive a workspace reset")
	}
}

func TestServer_ExportPageInline(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.handleDrawStroke(ctx, callReq(map[string]any{
		"page": float64(0), "points": "[[10,50],[90,50]]",
	})); err != nil {
		t.Fatalf("draw_stroke: %v", err)
	}

	res, err := s.handleExportPage(ctx, callReq(map[string]any{"page": float64(0)}))
	if err != nil {
		t.Fatalf("export_page: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("len(Content) = %d, want 1", len(res.Content))
	}
	ic, ok := res.Content[0].(mcp.ImageContent)
	if !ok {
		t.Fatalf("content type = %T, want ImageContent", res.Content[0])
	}
	if ic.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", ic.MIMEType)
	}
	raw, err := base64.StdEncoding.DecodeString(ic.Data)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("exported bounds = %v, want 100x100", img.Bounds())
	}
}

func TestServer_ExportPageToFile(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "page.png")

	res, err := s.handleExportPage(ctx, callReq(map[string]any{
		"page": float64(0), "path": out,
	}))
	if err != nil {
		t.Fatalf("export_page: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, out) {
		t.Errorf("result text %q does not mention %q", text, out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("exported file is not a png: %v", err)
	}
}

func TestServer_SaveLoadRoundTrip(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.handleSetPen(ctx, callReq(map[string]any{"color": "#ff0000", "width": float64(8)})); err != nil {
		t.Fatalf("set_pen: %v", err)
	}
	if _, err := s.handleDrawStroke(ctx, callReq(map[string]any{
		"page": float64(0), "points": "[[20,50],[80,50]]",
	})); err != nil {
		t.Fatalf("draw_stroke: %v", err)
	}

	res, err := s.handleSaveAnnotations(ctx, callReq(nil))
	if err != nil {
		t.Fatalf("save_annotations: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "doc-1") {
		t.Errorf("save result text = %q, want default document id", text)
	}

	// A second server sharing the store starts blank and picks up the
	// saved payload.
	other := New(Deps{
		Annotator:  ink.New(ink.WithDefaultPageSize(100, 100)),
		Store:      s.store,
		DocumentID: "doc-1",
	})
	if got := pixelAt(t, other, 0, 50, 50); got.A != 0 {
		t.Fatalf("fresh workspace pixel = %+v, want transparent", got)
	}
	if _, err := other.handleLoadAnnotations(ctx, callReq(nil)); err != nil {
		t.Fatalf("load_annotations: %v", err)
	}
	if got := pixelAt(t, other, 0, 50, 50); got.R != 255 || got.A != 255 {
		t.Errorf("loaded pixel = %+v, want opaque red", got)
	}

	res, err = other.handleListDocuments(ctx, callReq(nil))
	if err != nil {
		t.Fatalf("list_documents: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "doc-1") {
		t.Errorf("list result text = %q, want doc-1", text)
	}
}

func TestServer_LoadMissingDocument(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleLoadAnnotations(context.Background(), callReq(map[string]any{
		"document_id": "nope",
	}))
	if err == nil || !strings.Contains(err.Error(), "no annotations stored") {
		t.Errorf("err = %v, want missing-document error", err)
	}
}

func TestServer_DocumentIDOverride(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.handleSaveAnnotations(ctx, callReq(map[string]any{
		"document_id": "scratchpad",
	})); err != nil {
		t.Fatalf("save_annotations: %v", err)
	}
	if _, err := s.store.Load("scratchpad"); err != nil {
		t.Errorf("Load(scratchpad): %v", err)
	}
	if _, err := s.store.Load("doc-1"); err == nil {
		t.Error("default document should not have been written")
	}
}

func TestServer_StoreToolsWithoutStore(t *testing.T) {
	s := New(Deps{Annotator: ink.New()})
	ctx := context.Background()

	if _, err := s.handleSaveAnnotations(ctx, callReq(nil)); err == nil {
		t.Error("save_annotations without a store should fail")
	}
	if _, err := s.handleLoadAnnotations(ctx, callReq(nil)); err == nil {
		t.Error("load_annotations without a store should fail")
	}
	if _, err := s.handleListDocuments(ctx, callReq(nil)); err == nil {
		t.Error("list_documents without a store should fail")
	}
}

func TestServer_ClearPage(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.handleDrawStroke(ctx, callReq(map[string]any{
		"page": float64(0), "points": "[[10,50],[90,50]]",
	})); err != nil {
		t.Fatalf("draw_stroke: %v", err)
	}
	if _, err := s.handleClearPage(ctx, callReq(map[string]any{"page": float64(0)})); err != nil {
		t.Fatalf("clear_page: %v", err)
	}
	if got := pixelAt(t, s, 0, 50, 50); got.A != 0 {
		t.Errorf("pixel after clear = %+v, want transparent", got)
	}
	if !s.annotator.CanUndo(0) {
		t.Error("clear_page must be undoable")
	}
}
