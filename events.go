package ink

import (
	"image"

	"github.com/google/uuid"
)

// Sink receives events emitted by an Annotator. Implementations are
// called synchronously on the event-handling goroutine and must return
// quickly.
type Sink interface {
	// SnapshotCaptured delivers the composite image of a snapshot-tool
	// selection.
	SnapshotCaptured(SnapshotEvent)

	// NoteRequested delivers the rectangle of a note-tool selection.
	// Creating and managing the note widget is the host's concern.
	NoteRequested(NoteEvent)

	// HistoryChanged reports undo/redo availability for a page after any
	// buffer-affecting operation.
	HistoryChanged(HistoryEvent)
}

// SnapshotEvent carries a region captured with the snapshot tool.
type SnapshotEvent struct {
	// ID is a generated identifier for downstream correlation.
	ID string

	// Page is the index of the page the region was selected on.
	Page int

	// Region is the normalized selection in page-local units.
	Region Rect

	// Image is the captured composite: background sub-region at native
	// resolution with the drawing layer over it.
	Image image.Image
}

// NoteEvent carries the placement rectangle of a note-tool selection.
type NoteEvent struct {
	// ID is a generated identifier for downstream correlation.
	ID string

	// Page is the index of the page the region was selected on.
	Page int

	// Region is the normalized selection in page-local units.
	Region Rect
}

// HistoryEvent reports a page's undo/redo availability.
type HistoryEvent struct {
	Page    int
	CanUndo bool
	CanRedo bool
}

// NopSink discards all events. It is the default sink of a new Annotator.
type NopSink struct{}

func (NopSink) SnapshotCaptured(SnapshotEvent) {}
func (NopSink) NoteRequested(NoteEvent)        {}
func (NopSink) HistoryChanged(HistoryEvent)    {}

// Recorder is a Sink that appends every event to exported slices.
// It is intended for tests and diagnostics.
type Recorder struct {
	Snapshots []SnapshotEvent
	Notes     []NoteEvent
	Histories []HistoryEvent
}

func (r *Recorder) SnapshotCaptured(e SnapshotEvent) { r.Snapshots = append(r.Snapshots, e) }
func (r *Recorder) NoteRequested(e NoteEvent)        { r.Notes = append(r.Notes, e) }
func (r *Recorder) HistoryChanged(e HistoryEvent)    { r.Histories = append(r.Histories, e) }

// LastHistory returns the most recent history event, or a zero event if
// none was recorded.
func (r *Recorder) LastHistory() HistoryEvent {
	if len(r.Histories) == 0 {
		return HistoryEvent{}
	}
	return r.Histories[len(r.Histories)-1]
}

// newEventID generates an identifier for an emitted event.
func newEventID() string {
	return uuid.NewString()
}
