// Package watcher runs a check for every spreadsheet dropped into an inbox
// directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nomadcxx/neischeck/internal/logging"
	"github.com/Nomadcxx/neischeck/internal/sheet"
	"github.com/fsnotify/fsnotify"
)

type EventType string

const (
	EventCreate EventType = "create"
	EventWrite  EventType = "write"
)

type FileEvent struct {
	Type EventType
	Path string
}

// Handler processes one settled spreadsheet. Errors are logged and do not
// stop the watcher.
type Handler interface {
	HandleFileEvent(ctx context.Context, event FileEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event FileEvent) error

func (f HandlerFunc) HandleFileEvent(ctx context.Context, event FileEvent) error {
	return f(ctx, event)
}

// DefaultSettle is how long a file must stay quiet before it is handled.
const DefaultSettle = 500 * time.Millisecond

type Watcher struct {
	fsWatcher *fsnotify.Watcher
	handler   Handler
	logger    *logging.Logger
	settle    time.Duration
}

type Option func(*Watcher)

// WithSettle sets the quiet period that coalesces bursts of writes.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

func NewWatcher(handler Handler, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		handler:   handler,
		logger:    logging.Nop(),
		settle:    DefaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.settle <= 0 {
		w.settle = time.Millisecond
	}

	return w, nil
}

// Watch adds an inbox directory. Subdirectories are not watched.
func (w *Watcher) Watch(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("unable to watch %s: not a directory", dir)
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	w.logger.Info("watch", "Watching inbox", logging.F("dir", dir))
	return nil
}

// Start dispatches settled events until ctx is cancelled. Files are handled
// one at a time in the order they settled.
func (w *Watcher) Start(ctx context.Context) error {
	pending := make(map[string]FileEvent)
	lastSeen := make(map[string]time.Time)

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fe, ok := toFileEvent(event)
			if !ok {
				continue
			}
			if prev, seen := pending[fe.Path]; seen && prev.Type == EventCreate {
				fe.Type = EventCreate
			}
			pending[fe.Path] = fe
			lastSeen[fe.Path] = time.Now()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watch", "Watcher error", err)

		case now := <-ticker.C:
			for _, path := range settled(lastSeen, now, w.settle) {
				fe := pending[path]
				delete(pending, path)
				delete(lastSeen, path)
				w.dispatch(ctx, fe)
			}
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, fe FileEvent) {
	w.logger.Info("watch", "Processing spreadsheet",
		logging.F("event", fe.Type), logging.F("file", filepath.Base(fe.Path)))
	if err := w.handler.HandleFileEvent(ctx, fe); err != nil {
		w.logger.Error("watch", "Unable to process spreadsheet", err, logging.F("file", fe.Path))
	}
}

func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// settled returns the paths quiet for at least d, oldest first.
func settled(lastSeen map[string]time.Time, now time.Time, d time.Duration) []string {
	var out []string
	for path, t := range lastSeen {
		if now.Sub(t) >= d {
			out = append(out, path)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && lastSeen[out[j]].Before(lastSeen[out[j-1]]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func toFileEvent(event fsnotify.Event) (FileEvent, bool) {
	var t EventType
	switch {
	case event.Has(fsnotify.Create):
		t = EventCreate
	case event.Has(fsnotify.Write):
		t = EventWrite
	default:
		return FileEvent{}, false
	}
	if !IsSpreadsheet(event.Name) {
		return FileEvent{}, false
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return FileEvent{}, false
	}
	return FileEvent{Type: t, Path: event.Name}, true
}

// IsSpreadsheet reports whether path is a readable upload, skipping Office
// lock files (~$name.xlsx) and hidden files.
func IsSpreadsheet(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	return sheet.IsSupported(base)
}
