// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/store"
)

func (s *Server) registerDocumentTools() {
	s.mcp.AddTool(mcp.NewTool("export_page",
		mcp.WithDescription("Render a page with its annotations composited over the background. Returns a PNG image, or writes it to a file when path is given"),
		mcp.WithNumber("page",
			mcp.Description("Page index, starting at 0"),
			mcp.Required(),
		),
		mcp.WithString("path",
			mcp.Description("Optional file path to write the PNG to instead of returning it inline"),
		),
	), s.handleExportPage)

	s.mcp.AddTool(mcp.NewTool("save_annotations",
		mcp.WithDescription("Serialize all annotation history and persist it in the store"),
		mcp.WithString("document_id",
			mcp.Description("Document to save under (defaults to the configured document)"),
		),
	), s.handleSaveAnnotations)

	s.mcp.AddTool(mcp.NewTool("load_annotations",
		mcp.WithDescription("Load a persisted annotation payload into the workspace, replacing all current annotations and history"),
		mcp.WithString("document_id",
			mcp.Description("Document to load (defaults to the configured document)"),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			DestructiveHint: boolPtr(true),
		}),
	), s.handleLoadAnnotations)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List stored annotation documents with payload sizes and timestamps"),
	), s.handleListDocuments)
}

func (s *Server) handleExportPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	args := req.GetArguments()
	page, err := pageArg(args)
	if err != nil {
		return nil, err
	}
	img, err := s.annotator.ExportPage(page)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	if path, ok := args["path"].(string); ok && path != "" {
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("write png: %w", err)
		}
		return textResult(fmt.Sprintf("Exported page %d to %s (%d bytes)", page, path, buf.Len())), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *Server) handleSaveAnnotations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStore(); err != nil {
		return nil, err
	}
	id, err := s.resolveDocID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	payload, err := s.annotator.MarshalAnnotations()
	if err != nil {
		return nil, fmt.Errorf("serialize annotations: %w", err)
	}
	if err := s.store.Save(id, payload); err != nil {
		return nil, fmt.Errorf("save annotations: %w", err)
	}
	return textResult(fmt.Sprintf("Saved %d bytes of annotations for document %q", len(payload), id)), nil
}

func (s *Server) handleLoadAnnotations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStore(); err != nil {
		return nil, err
	}
	id, err := s.resolveDocID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	payload, err := s.store.Load(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no annotations stored for document %q", id)
		}
		return nil, fmt.Errorf("load annotations: %w", err)
	}
	if err := s.annotator.UnmarshalAnnotations(payload); err != nil {
		if errors.Is(err, ink.ErrMalformedPayload) {
			return nil, fmt.Errorf("payload for %q is malformed; workspace was reset to blank: %w", id, err)
		}
		return nil, fmt.Errorf("apply annotations: %w", err)
	}
	return textResult(fmt.Sprintf("Loaded annotations for document %q across %d page(s)", id, s.annotator.PageCount())), nil
}

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	infos, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(infos) == 0 {
		return textResult("No stored documents"), nil
	}
	return jsonResult(infos)
}
