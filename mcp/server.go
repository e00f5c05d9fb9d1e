// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package mcpserver exposes an annotation workspace over the Model
// Context Protocol. Connected agents get tools for drawing strokes,
// switching tools, walking per-page history, exporting rendered pages,
// and persisting annotation payloads through a store.
package mcpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/pagesource"
	"github.com/gogpu/ink/store"
)

// Server wires an annotator and an optional payload store into an MCP
// server. The annotator is not safe for concurrent use, so every tool
// handler serializes on an internal mutex.
type Server struct {
	mcp       *server.MCPServer
	annotator *ink.Annotator
	store     *store.Store
	docID     string

	mu sync.Mutex
}

// Deps holds everything a Server operates on.
type Deps struct {
	// Annotator is the workspace the drawing tools drive. Required.
	Annotator *ink.Annotator

	// Store persists annotation payloads. Optional; without it the
	// save/load/list tools report an error.
	Store *store.Store

	// DocumentID names the default document for save and load when a
	// tool call does not pass one.
	DocumentID string
}

// New creates an MCP server with the full annotation tool set
// registered. It panics if deps.Annotator is nil.
func New(deps Deps) *Server {
	if deps.Annotator == nil {
		panic("mcpserver: nil annotator")
	}
	s := &Server{
		annotator: deps.Annotator,
		store:     deps.Store,
		docID:     deps.DocumentID,
	}
	s.mcp = server.NewMCPServer(
		"ink-annotator",
		ink.Version,
		server.WithToolCapabilities(true),
	)
	s.registerWorkspaceTools()
	s.registerDrawingTools()
	s.registerDocumentTools()
	return s
}

// ServeStdio runs the server over stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	ink.Logger().Info("mcp server starting", "transport", "stdio", "version", ink.Version)
	return server.ServeStdio(s.mcp)
}

// ApplyDocument replaces the workspace pages under the server's lock.
// Directory watchers use this to push background reloads between tool
// calls.
func (s *Server) ApplyDocument(doc *pagesource.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return doc.Apply(s.annotator)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to indented JSON and wraps it in a text tool
// result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }

// pageArg extracts the required page index from tool arguments.
func pageArg(args map[string]any) (int, error) {
	v, ok := args["page"].(float64)
	if !ok {
		return 0, errors.New("page is required")
	}
	return int(v), nil
}

// resolveDocID picks the document ID from the arguments, falling back
// to the server default.
func (s *Server) resolveDocID(args map[string]any) (string, error) {
	if id, ok := args["document_id"].(string); ok && id != "" {
		return id, nil
	}
	if s.docID != "" {
		return s.docID, nil
	}
	return "", errors.New("no document_id given and no default document configured")
}

func (s *Server) requireStore() error {
	if s.store == nil {
		return errors.New("no annotation store configured")
	}
	return nil
}
