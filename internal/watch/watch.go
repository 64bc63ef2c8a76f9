// Package watch re-runs a callback when any of a set of input paths changes.
// Events are debounced so that an editor save, which often produces a burst
// of write, chmod and rename events, triggers a single run.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a run.
const DefaultDebounce = 300 * time.Millisecond

// Watcher tracks input files and directories.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	mu       sync.Mutex
	closed   bool
}

// New watches paths. Files are watched through their parent directory so
// atomic renames by editors are still seen. Paths that do not exist yet are
// watched the same way.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: debounce,
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	target := abs
	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		w.dirs[abs] = true
	} else {
		w.files[abs] = true
		target = filepath.Dir(abs)
	}

	if err := w.watcher.Add(target); err != nil {
		return fmt.Errorf("watching %s: %w", target, err)
	}
	return nil
}

// Len returns the number of watched inputs.
func (w *Watcher) Len() int {
	return len(w.files) + len(w.dirs)
}

// relevant reports whether an event touches a watched input.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if w.files[name] {
		return true
	}
	for dir := range w.dirs {
		if name == dir || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run calls fn after each debounced batch of changes until ctx is cancelled.
// Errors from fn are handed to onErr and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func() error, onErr func(error)) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			if err := fn(); err != nil && onErr != nil {
				onErr(err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if onErr != nil {
				onErr(fmt.Errorf("watcher error: %w", err))
			}
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
