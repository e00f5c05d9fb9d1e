// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pagesource

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/ink"
)

// ErrNoPages reports a directory with no decodable page images.
var ErrNoPages = errors.New("pagesource: no page images found")

// debounceDelay coalesces bursts of filesystem events into one reload.
const debounceDelay = 200 * time.Millisecond

// imageExts are the background formats LoadDir accepts.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// LoadDir builds a document from every image file directly inside dir,
// one page per file in lexical filename order. Files that fail to decode
// are skipped with a warning.
func LoadDir(dir string) (*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pagesource: read dir: %w", err)
	}
	doc := &Document{}
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		img, err := loadImageFile(filepath.Join(dir, e.Name()))
		if err != nil {
			ink.Logger().Warn("page image skipped", "file", e.Name(), "error", err)
			continue
		}
		b := img.Bounds()
		doc.Pages = append(doc.Pages, Page{Image: img, Width: b.Dx(), Height: b.Dy()})
	}
	if len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}
	return doc, nil
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// DirWatcher reloads a page directory when its contents change. The
// onChange callback runs on the watcher's goroutine; hand the document
// off to your own event loop before touching an annotator with it.
type DirWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	onChange func(*Document, error)

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// WatchDir starts watching dir for added, changed, or removed page
// images. The initial load is still the caller's job via LoadDir.
func WatchDir(dir string, onChange func(*Document, error)) (*DirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("pagesource: watch dir: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("pagesource: watch dir: %w", err)
	}
	w := &DirWatcher{dir: dir, watcher: watcher, onChange: onChange}
	go w.loop()
	return w, nil
}

func (w *DirWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !imageExts[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			ink.Logger().Warn("page directory watch error", "dir", w.dir, "error", err)
		}
	}
}

// scheduleReload arms the debounce timer, restarting it while a burst of
// events is still in progress.
func (w *DirWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.reload)
}

func (w *DirWatcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	doc, err := LoadDir(w.dir)
	w.onChange(doc, err)
}

// Close stops watching and cancels any pending reload. A reload already
// in flight may still call onChange once after Close returns.
func (w *DirWatcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
