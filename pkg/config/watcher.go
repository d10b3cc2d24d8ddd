package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval coalesces the burst of events editors and atomic
// writes produce into one reload.
const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher watches the credential file and invokes a rebuild callback when
// it changes. The pool itself is immutable; the callback is expected to
// construct a fresh pool from the new file and swap the handle at the
// owner.
//
// The parent directory is watched rather than the file, because most
// editors and secret managers replace files via rename, which drops a
// watch placed on the file itself.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *slog.Logger

	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for the given credential file path.
func NewWatcher(path string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:     path,
		debounce: DefaultDebounceInterval,
		log:      log,
		watcher:  fsw,
	}, nil
}

// Watch blocks until the context ends, invoking onChange (debounced) every
// time the credential file is written, created, or replaced. Callback
// errors are logged, not fatal: a malformed intermediate write should not
// kill the watcher before the final good write lands.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	defer w.watcher.Close()

	w.log.Info("watching credential file", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.schedule(onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("credential file watcher error", "error", err)
		}
	}
}

// relevant filters directory events down to mutations of the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

// schedule (re)arms the debounce timer around the callback.
func (w *Watcher) schedule(onChange func() error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.log.Info("credential file changed, rebuilding pool", "path", w.path)
		if err := onChange(); err != nil {
			w.log.Error("credential reload failed", "path", w.path, "error", err)
		}
	})
}
