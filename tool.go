package ink

import (
	"fmt"

	"github.com/gogpu/gg"
)

// Tool identifies the active pointer tool.
type Tool uint8

// Pointer tool constants. Pen, eraser, and highlighter mutate the drawing
// buffer; snapshot and note only select rectangles and emit events.
const (
	ToolPen Tool = iota
	ToolEraser
	ToolHighlighter
	ToolSnapshot
	ToolNote
)

// String returns a human-readable name for the tool.
func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolEraser:
		return "eraser"
	case ToolHighlighter:
		return "highlighter"
	case ToolSnapshot:
		return "snapshot"
	case ToolNote:
		return "note"
	default:
		return "unknown"
	}
}

// ParseTool maps a tool name (as produced by String) back to its Tool value.
func ParseTool(name string) (Tool, error) {
	switch name {
	case "pen":
		return ToolPen, nil
	case "eraser":
		return ToolEraser, nil
	case "highlighter":
		return ToolHighlighter, nil
	case "snapshot":
		return ToolSnapshot, nil
	case "note":
		return ToolNote, nil
	default:
		return ToolPen, fmt.Errorf("ink: unknown tool %q", name)
	}
}

// HighlighterOpacity is the fixed alpha applied to highlighter strokes.
// Self-crossing strokes stay at exactly this opacity because the whole
// stroke is replayed over a pre-stroke snapshot on every sample.
const HighlighterOpacity = 0.2

// Pen holds the pen tool settings. Width is in page units. Color's alpha
// component is ignored; pen strokes are always opaque.
type Pen struct {
	Color gg.RGBA
	Width float64
}

// Highlighter holds the highlighter tool settings. Width is in page units;
// Color's alpha component is ignored in favor of HighlighterOpacity.
type Highlighter struct {
	Color gg.RGBA
	Width float64
}

// defaultPen returns the pen settings a new Annotator starts with.
func defaultPen() Pen {
	return Pen{Color: gg.Red, Width: 3}
}

// defaultHighlighter returns the highlighter settings a new Annotator
// starts with.
func defaultHighlighter() Highlighter {
	return Highlighter{Color: gg.Yellow, Width: 18}
}

// defaultEraserSize is the initial eraser diameter in page units.
const defaultEraserSize = 24
