// Package samplewatch feeds sample diagrams into the style library.
//
// A Watcher monitors directories for .drawio files and runs a full
// pattern extraction on each file once its writes have settled, so
// dropping a sample into a watched directory teaches the library
// without any explicit command.
package samplewatch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flexigpt/drawioagent-go/spec"
)

const diagramSuffix = ".drawio"

// Extractor is the slice of the runtime the watcher needs.
type Extractor interface {
	ExtractPattern(ctx context.Context, args spec.ExtractPatternArgs) (spec.ExtractPatternResult, error)
}

// Stats counts watcher activity.
type Stats struct {
	Events      int
	Extractions int
	StylesSaved int
	Errors      int
	LastPath    string
}

type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	extractor   Extractor
	logger      *slog.Logger
	dirs        []string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stats       Stats
}

type Option func(*Watcher)

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce sets how long a file must be quiet before extraction.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDur = d
		}
	}
}

// New creates a watcher over dirs. Start must be called before any
// events are observed.
func New(extractor Extractor, dirs []string, opts ...Option) (*Watcher, error) {
	if extractor == nil {
		return nil, errors.New("nil extractor")
	}
	if len(dirs) == 0 {
		return nil, errors.New("no directories to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:         fsw,
		extractor:   extractor,
		logger:      slog.Default(),
		dirs:        dirs,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start registers the watch directories, creating them when absent,
// and launches the event loop. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	added := 0
	for _, dir := range w.dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.logger.Warn("cannot create watch dir", "dir", dir, "error", err)
		}
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn("cannot watch dir", "dir", dir, "error", err)
			continue
		}
		w.logger.Info("watching for samples", "dir", dir)
		added++
	}
	if added == 0 {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.fsw.Close()
		return errors.New("no watchable directories")
	}

	go w.run(ctx)
	return nil
}

// Stop shuts the event loop down and closes the underlying watcher.
// Calling Stop more than once, or before Start, is safe.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("closing watcher", "error", err)
	}
}

// Scan extracts from every .drawio file already present in the watch
// directories. Useful at startup so pre-existing samples are not
// missed.
func (w *Watcher) Scan(ctx context.Context) error {
	for _, dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), diagramSuffix) {
				continue
			}
			w.extract(ctx, filepath.Join(dir, entry.Name()))
		}
	}
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	sweep := time.NewTicker(100 * time.Millisecond)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-sweep.C:
			w.processSettled(ctx)
		}
	}
}

// handleEvent records a .drawio change for debounced extraction.
// Editors fire bursts of writes while saving; the file is only read
// once it has been quiet for the debounce window.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, diagramSuffix) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stats.Events++
	w.stats.LastPath = event.Name

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.debounceMap[event.Name] = time.Now()
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(w.debounceMap, event.Name)
	}
}

func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, last := range w.debounceMap {
		if now.Sub(last) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.extract(ctx, path)
	}
}

func (w *Watcher) extract(ctx context.Context, path string) {
	res, err := w.extractor.ExtractPattern(ctx, spec.ExtractPatternArgs{
		Path:    path,
		Pattern: spec.PatternAll,
	})
	if err != nil {
		w.logger.Warn("sample extraction failed", "path", path, "error", err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.Extractions++
	w.stats.StylesSaved += res.Saved
	w.mu.Unlock()

	if res.Note != "" {
		w.logger.Info("sample held no styles", "path", path, "note", res.Note)
		return
	}
	w.logger.Info("library updated from sample", "path", path, "saved", res.Saved, "keys", res.Keys)
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
