// # internal/watcher/watcher.go
package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher watches the registry source files and reports debounced change
// batches. Editors rewrite files with temp-and-rename dances, so the parent
// directories are watched and events are matched back to the registered
// files; exclude patterns drop editor droppings like swap files.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	exclude    []glob.Glob
	watched    map[string]bool
	onChange   func([]string)
	callbackMu sync.Mutex

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
}

func NewWatcher(debounce time.Duration, excludePatterns []string, onChange func([]string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		watched:   make(map[string]bool),
		onChange:  onChange,
		pending:   make(map[string]time.Time),
	}

	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		w.exclude = append(w.exclude, g)
	}

	return w, nil
}

// Watch registers the registry files and starts the event loop.
func (w *Watcher) Watch(paths []string) error {
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		w.watched[abs] = true
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

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if w.shouldExclude(event.Name) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.watched[abs] {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.scheduleChange(abs)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.flushChanges()
	})
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

func (w *Watcher) shouldExclude(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.exclude {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) Close() error {
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fsWatcher.Close()
}
