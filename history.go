package ink

// History is the linear undo sequence of one page. Entries are buffer
// snapshots ordered oldest to newest; the cursor indexes the entry the
// buffer currently shows. Pushing after an undo discards the entries past
// the cursor, so the sequence never branches.
type History struct {
	entries []*Snapshot
	cursor  int
	max     int
}

// newHistory returns an empty history. max bounds the entry count;
// zero means unbounded.
func newHistory(max int) *History {
	return &History{cursor: -1, max: max}
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the current entry, or -1 before the first
// capture.
func (h *History) Cursor() int { return h.cursor }

// Current returns the entry at the cursor, or nil if the history is empty.
func (h *History) Current() *Snapshot {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		return nil
	}
	return h.entries[h.cursor]
}

// CanUndo reports whether an older entry exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a newer entry exists.
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

// Push discards any entries past the cursor, appends s, and moves the
// cursor to it.
func (h *History) Push(s *Snapshot) {
	h.entries = append(h.entries[:h.cursor+1], s)
	h.cursor = len(h.entries) - 1
	if h.max > 0 && len(h.entries) > h.max {
		drop := len(h.entries) - h.max
		h.entries = append([]*Snapshot(nil), h.entries[drop:]...)
		h.cursor -= drop
	}
}

// Undo moves the cursor one entry back and returns the new current entry.
// It returns nil when the cursor is already at the oldest entry.
func (h *History) Undo() *Snapshot {
	if !h.CanUndo() {
		return nil
	}
	h.cursor--
	return h.entries[h.cursor]
}

// Redo moves the cursor one entry forward and returns the new current
// entry. It returns nil when the cursor is already at the newest entry.
func (h *History) Redo() *Snapshot {
	if !h.CanRedo() {
		return nil
	}
	h.cursor++
	return h.entries[h.cursor]
}

// Reset drops all entries and returns the history to its initial state.
func (h *History) Reset() {
	h.entries = nil
	h.cursor = -1
}

// replace installs a decoded entry sequence and cursor, discarding any
// existing entries. The caller must have validated the cursor range.
func (h *History) replace(entries []*Snapshot, cursor int) {
	h.entries = entries
	h.cursor = cursor
}
