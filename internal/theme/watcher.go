package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the burst of events editors emit on save.
const debounce = 100 * time.Millisecond

// Watcher watches a theme file and its directory for changes and
// triggers hot-reload. Partials in the same directory count as changes to
// the theme since they may be imported.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	theme            *Theme
	onChangeCallback func(css string)

	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a new theme watcher.
func NewWatcher(theme *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger: logger,
		theme:  theme,
	}
}

// SetChangeCallback sets the callback to invoke when the theme changes.
// The callback receives the new CSS content.
func (w *Watcher) SetChangeCallback(callback func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
}

// Start begins watching the theme file for changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	// Embedded themes cannot change.
	if w.theme == nil || w.theme.IsDefault || w.theme.Path == "" {
		w.logger.Debug("not watching embedded theme")
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.theme.Path)); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.running = true
	w.doneCh = make(chan struct{})
	ctx, w.cancel = context.WithCancel(ctx)

	go w.watchLoop(ctx, fsw, w.doneCh)

	w.logger.Debug("theme watcher started", "path", w.theme.Path)
	return nil
}

// Stop stops watching the theme file.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	done, fsw := w.doneCh, w.fsw
	w.fsw = nil
	w.mu.Unlock()

	<-done
	_ = fsw.Close()
	w.logger.Debug("theme watcher stopped")
}

func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".css" || ev.Has(fsnotify.Chmod) {
				continue
			}
			pending = time.After(debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		case <-pending:
			pending = nil
			w.checkForChanges()
		}
	}
}

func (w *Watcher) checkForChanges() {
	w.mu.RLock()
	theme := w.theme
	callback := w.onChangeCallback
	w.mu.RUnlock()

	if theme == nil || theme.IsDefault {
		return
	}

	changed, err := theme.Refresh()
	if err != nil {
		w.logger.Warn("failed to reload theme", "path", theme.Path, "error", err)
		return
	}

	if changed {
		w.logger.Info("theme file changed, reloading", "path", theme.Path)
		if callback != nil {
			callback(theme.CSS)
		}
	}
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
