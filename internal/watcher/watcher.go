// # internal/watcher/watcher.go
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"golang.org/x/time/rate"

	"symgraph/internal/observability"
)

// Watcher re-triggers graph builds when any of the tracked input binaries
// changes on disk. fsnotify watches the parent directories; events for
// paths outside the tracked set are dropped. Change bursts are debounced
// and the rebuild frequency is capped with a token bucket so a linker
// rewriting dozens of objects does not cause a rebuild storm.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	limiter   *rate.Limiter
	excludes  []glob.Glob
	tracked   map[string]bool
	onChange  func([]string)

	pending   map[string]bool
	pendingMu sync.Mutex
	timer     *time.Timer

	done chan struct{}
}

func NewWatcher(debounce time.Duration, rescanPerSec float64, excludePatterns []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	excludes := make([]glob.Glob, 0, len(excludePatterns))
	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		excludes = append(excludes, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if rescanPerSec <= 0 {
		rescanPerSec = 2.0
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		limiter:   rate.NewLimiter(rate.Limit(rescanPerSec), 1),
		excludes:  excludes,
		tracked:   make(map[string]bool),
		onChange:  onChange,
		pending:   make(map[string]bool),
		done:      make(chan struct{}),
	}, nil
}

// Watch registers the given input files and starts the event loop. The
// parent directory of every file is watched once.
func (w *Watcher) Watch(paths []string) error {
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		w.tracked[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.tracked[abs] {
		return
	}
	base := filepath.Base(abs)
	for _, g := range w.excludes {
		if g.Match(base) {
			return
		}
	}

	observability.WatcherEventsTotal.Inc()

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[abs] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = make(map[string]bool)
	w.pendingMu.Unlock()

	if len(changed) == 0 {
		return
	}
	if !w.limiter.Allow() {
		// Over the rebuild budget; requeue so the batch fires later
		// instead of being lost.
		w.pendingMu.Lock()
		for _, path := range changed {
			w.pending[path] = true
		}
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timer = time.AfterFunc(w.debounce, w.flush)
		w.pendingMu.Unlock()
		return
	}

	w.onChange(changed)
}
