package audio

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Invalidator drops cached copies of changed files.
type Invalidator interface {
	InvalidateCache(path string)
}

// Watcher invalidates cached sounds when their files change on disk.
// It watches parent directories so that editors replacing files atomically
// are noticed too.
type Watcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	target  Invalidator
	paths   map[string]bool
	dirs    map[string]bool
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a new sound file watcher.
func NewWatcher(target Invalidator, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		target: target,
		paths:  make(map[string]bool),
		dirs:   make(map[string]bool),
	}
}

// Watch adds a sound file to the watch list.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.paths[path] = true
	w.addDirLocked(filepath.Dir(path))
}

// Reset forgets every watched file.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths = make(map[string]bool)
}

// Start begins delivering change events.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	w.running = true
	w.doneCh = make(chan struct{})

	for dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			w.logger.Debug("cannot watch sound directory", "dir", dir, "error", err)
		}
	}

	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx, fsw, w.doneCh)

	w.logger.Debug("audio watcher started", "dirs", len(w.dirs))
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	done := w.doneCh
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	<-done
	_ = fsw.Close()
	w.logger.Debug("audio watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) addDirLocked(dir string) {
	if w.dirs[dir] {
		return
	}
	w.dirs[dir] = true
	if w.fsw != nil {
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Debug("cannot watch sound directory", "dir", dir, "error", err)
		}
	}
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("audio watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	watched := w.paths[path]
	w.mu.Unlock()

	if watched && w.target != nil {
		w.logger.Debug("sound file changed, invalidating cache", "path", path)
		w.target.InvalidateCache(path)
	}
}
