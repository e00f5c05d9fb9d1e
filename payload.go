package ink

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Annotation payload wire format constants.
const (
	payloadFormat  = "ink-annotations"
	payloadVersion = 1

	// maxSnapshotDim bounds decoded snapshot dimensions so a corrupt or
	// hostile payload cannot request an absurd allocation.
	maxSnapshotDim = 8192
)

// Wire structures of the annotation payload. The history and cursor
// lists are parallel and sparse: pages with empty histories are omitted
// and decoding never assumes an entry exists for every page.
type payloadEnvelope struct {
	Format  string          `json:"format"`
	Version int             `json:"version"`
	History []payloadPage   `json:"history"`
	Cursors []payloadCursor `json:"cursors"`
}

type payloadPage struct {
	Page    int            `json:"page"`
	Entries []payloadEntry `json:"entries"`
}

type payloadEntry struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   string `json:"data"`
}

type payloadCursor struct {
	Page   int `json:"page"`
	Cursor int `json:"cursor"`
}

// MarshalAnnotations encodes every page's snapshot history and cursor
// into the versioned annotation payload. Pages with empty histories are
// omitted. The result round-trips through UnmarshalAnnotations.
func (a *Annotator) MarshalAnnotations() ([]byte, error) {
	env := payloadEnvelope{Format: payloadFormat, Version: payloadVersion}
	for _, p := range a.pages {
		if p.history.Len() == 0 {
			continue
		}
		pp := payloadPage{Page: p.index, Entries: make([]payloadEntry, 0, p.history.Len())}
		for _, s := range p.history.entries {
			data, err := encodeSnapshot(s)
			if err != nil {
				return nil, fmt.Errorf("ink: page %d: %w", p.index, err)
			}
			pp.Entries = append(pp.Entries, payloadEntry{Width: s.width, Height: s.height, Data: data})
		}
		env.History = append(env.History, pp)
		env.Cursors = append(env.Cursors, payloadCursor{Page: p.index, Cursor: p.history.Cursor()})
	}
	return json.Marshal(env)
}

// UnmarshalAnnotations decodes a payload produced by MarshalAnnotations
// and installs it: each recorded page's history and cursor replace the
// page's current ones and the buffer is repainted from the entry at the
// cursor. Pages without recorded history are left blank with empty
// histories.
//
// Decoding is atomic. Every entry is validated and decoded before any
// page is touched; a malformed payload leaves the whole workspace blank
// and returns an error wrapping ErrMalformedPayload. Recorded pages
// beyond the current workspace are skipped with a warning, since the
// document may have lost pages after the payload was saved.
func (a *Annotator) UnmarshalAnnotations(data []byte) error {
	staged, err := decodePayload(data)
	if err != nil {
		a.blankAll()
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	a.cancelSessions()
	for _, p := range a.pages {
		p.history.Reset()
		if !p.broken {
			p.buf.clear()
		}
	}
	installed := 0
	for _, st := range staged {
		if st.page >= len(a.pages) {
			Logger().Warn("payload page beyond workspace skipped", "page", st.page, "pages", len(a.pages))
			continue
		}
		p := a.pages[st.page]
		if p.broken {
			Logger().Warn("payload page skipped: page unavailable", "page", st.page)
			continue
		}
		p.history.replace(st.entries, st.cursor)
		p.buf.Restore(st.entries[st.cursor])
		installed++
	}
	for _, p := range a.pages {
		a.emitHistory(p)
	}
	Logger().Info("annotation payload installed", "pages", installed)
	return nil
}

// blankAll resets every page to an empty history and a clear buffer.
func (a *Annotator) blankAll() {
	a.cancelSessions()
	for _, p := range a.pages {
		p.history.Reset()
		if !p.broken {
			p.buf.clear()
		}
		a.emitHistory(p)
	}
}

// stagedHistory is one page's fully decoded history, held until the
// whole payload has validated.
type stagedHistory struct {
	page    int
	entries []*Snapshot
	cursor  int
}

// decodePayload validates the envelope and decodes every entry. Nothing
// is installed here; the caller owns that step.
func decodePayload(data []byte) ([]stagedHistory, error) {
	var env payloadEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}
	if env.Format != payloadFormat {
		return nil, fmt.Errorf("unexpected format %q", env.Format)
	}
	if env.Version < 1 || env.Version > payloadVersion {
		return nil, fmt.Errorf("unsupported version %d", env.Version)
	}
	cursors := make(map[int]int, len(env.Cursors))
	for _, c := range env.Cursors {
		if _, dup := cursors[c.Page]; dup {
			return nil, fmt.Errorf("duplicate cursor for page %d", c.Page)
		}
		cursors[c.Page] = c.Cursor
	}
	seen := make(map[int]bool, len(env.History))
	staged := make([]stagedHistory, 0, len(env.History))
	for _, pp := range env.History {
		if pp.Page < 0 {
			return nil, fmt.Errorf("negative page index %d", pp.Page)
		}
		if seen[pp.Page] {
			return nil, fmt.Errorf("duplicate history for page %d", pp.Page)
		}
		seen[pp.Page] = true
		if len(pp.Entries) == 0 {
			return nil, fmt.Errorf("page %d has no entries", pp.Page)
		}
		entries := make([]*Snapshot, 0, len(pp.Entries))
		for i, e := range pp.Entries {
			s, err := decodeSnapshot(e)
			if err != nil {
				return nil, fmt.Errorf("page %d entry %d: %w", pp.Page, i, err)
			}
			entries = append(entries, s)
		}
		cur, ok := cursors[pp.Page]
		if !ok {
			return nil, fmt.Errorf("page %d has no cursor", pp.Page)
		}
		if cur < 0 || cur >= len(entries) {
			return nil, fmt.Errorf("page %d cursor %d out of range", pp.Page, cur)
		}
		staged = append(staged, stagedHistory{page: pp.Page, entries: entries, cursor: cur})
	}
	for pg := range cursors {
		if !seen[pg] {
			return nil, fmt.Errorf("cursor for page %d without history", pg)
		}
	}
	return staged, nil
}

// encodeSnapshot transforms a snapshot's pixels to text: zlib
// compression streamed through a base64 encoder, so no intermediate
// full-size buffer is built.
func encodeSnapshot(s *Snapshot) (string, error) {
	var buf bytes.Buffer
	b64 := base64.NewEncoder(base64.StdEncoding, &buf)
	zw := zlib.NewWriter(b64)
	if _, err := zw.Write(s.pix); err != nil {
		return "", fmt.Errorf("compress pixels: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress pixels: %w", err)
	}
	if err := b64.Close(); err != nil {
		return "", fmt.Errorf("encode pixels: %w", err)
	}
	return buf.String(), nil
}

// decodeSnapshot decodes one payload entry, checking that the declared
// dimensions are sane and that the pixel data length matches them
// exactly.
func decodeSnapshot(e payloadEntry) (*Snapshot, error) {
	if e.Width <= 0 || e.Height <= 0 || e.Width > maxSnapshotDim || e.Height > maxSnapshotDim {
		return nil, fmt.Errorf("dimensions %dx%d out of range", e.Width, e.Height)
	}
	zr, err := zlib.NewReader(base64.NewDecoder(base64.StdEncoding, strings.NewReader(e.Data)))
	if err != nil {
		return nil, fmt.Errorf("open pixel data: %w", err)
	}
	defer zr.Close()
	pix := make([]uint8, e.Width*e.Height*4)
	if _, err := io.ReadFull(zr, pix); err != nil {
		return nil, fmt.Errorf("pixel data shorter than %dx%dx4: %w", e.Width, e.Height, err)
	}
	var probe [1]byte
	if n, _ := zr.Read(probe[:]); n != 0 {
		return nil, fmt.Errorf("pixel data longer than %dx%dx4", e.Width, e.Height)
	}
	return &Snapshot{width: e.Width, height: e.Height, pix: pix}, nil
}
