// Package ink provides a pointer-driven raster annotation engine for Go.
//
// # Overview
//
// ink layers freehand annotation on top of paginated raster imagery such as
// rendered PDF pages or blank canvases. It is part of the GoGPU ecosystem and
// draws with github.com/gogpu/gg. Each page owns a transparent drawing buffer,
// a linear undo history of pixel snapshots, and an optional background image.
//
// # Quick Start
//
//	import "github.com/gogpu/ink"
//
//	// Create an engine with a single blank page
//	a := ink.New()
//
//	// Draw a pen stroke with pointer events
//	a.PointerDown(0, 100, 100)
//	a.PointerMove(300, 120)
//	a.PointerUp(300, 120)
//
//	// Step backward and forward through page history
//	a.Undo(0)
//	a.Redo(0)
//
// # Pages and History
//
// Pages are created by SetPages (or SetPageSpecs) and indexed from zero.
// Every buffer-mutating operation ends by pushing a full snapshot of the
// page's pixels onto that page's history. Undo and redo move a cursor
// through the snapshot sequence and repaint the buffer; pushing after an
// undo discards the redoable entries, so the history stays linear.
//
// # Tools
//
// Five pointer tools are available: pen, eraser, and highlighter mutate the
// drawing buffer, while snapshot and note drag out rectangles and emit
// events without touching pixels. The highlighter replays its whole stroke
// against a pre-stroke snapshot on every sample, which keeps self-crossing
// strokes at a single uniform opacity.
//
// # Serialization
//
// MarshalAnnotations encodes all page histories and cursors into a versioned
// payload (JSON envelope, zlib-compressed base64 pixel data) and
// UnmarshalAnnotations restores them. Decoding is atomic: a malformed
// payload leaves the workspace blank and returns ErrMalformedPayload.
//
// # Concurrency
//
// An Annotator is NOT safe for concurrent use. Drive it from a single
// event-handling goroutine, or add external synchronization.
package ink

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
