package daemon

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/metrics"
)

// reloadDebounce coalesces the burst of events editors emit on save.
const reloadDebounce = 150 * time.Millisecond

// ConfigWatcher watches the config file and reloads it when it changes.
// Only configurations that load and validate are passed on.
type ConfigWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	path    string
	current *config.Config
	metrics *metrics.Metrics

	onReloadCallback func(newConfig *config.Config)
	onErrorCallback  func(err error)

	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	doneCh  chan struct{}
	running bool
}

// NewConfigWatcher creates a ConfigWatcher for path, or for the default
// config path when path is empty.
func NewConfigWatcher(path string, logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = config.ConfigPath()
	}
	if path == "" {
		return nil, errors.New("cannot determine config path")
	}

	return &ConfigWatcher{
		logger: logger,
		path:   filepath.Clean(path),
	}, nil
}

// Path returns the watched file.
func (w *ConfigWatcher) Path() string {
	return w.path
}

// SetMetrics records reload outcomes.
func (w *ConfigWatcher) SetMetrics(m *metrics.Metrics) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.metrics = m
}

// SetReloadCallback sets the callback to invoke when config is successfully reloaded.
func (w *ConfigWatcher) SetReloadCallback(callback func(newConfig *config.Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReloadCallback = callback
}

// SetErrorCallback sets the callback to invoke when config reload fails validation.
func (w *ConfigWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onErrorCallback = callback
}

// Start begins watching the config file for changes. The directory is
// created if needed so a config written later is still picked up.
func (w *ConfigWatcher) Start(ctx context.Context, initialConfig *config.Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	w.current = initialConfig

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.running = true
	w.doneCh = make(chan struct{})
	ctx, w.cancel = context.WithCancel(ctx)

	go w.watchLoop(ctx, fsw, w.doneCh)

	w.logger.Debug("config watcher started", "path", w.path)
	return nil
}

// Stop stops watching the config file.
func (w *ConfigWatcher) Stop() {
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
	w.logger.Debug("config watcher stopped")
}

// Current returns the last configuration that loaded successfully.
func (w *ConfigWatcher) Current() *config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Reload loads the config file now and runs the callbacks.
func (w *ConfigWatcher) Reload() (*config.Config, error) {
	w.mu.RLock()
	reloadCallback := w.onReloadCallback
	errorCallback := w.onErrorCallback
	m := w.metrics
	w.mu.RUnlock()

	newConfig, err := config.LoadConfig(w.path)
	m.RecordConfigReload(err)
	if err != nil {
		w.logger.Warn("config file changed but validation failed", "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return nil, err
	}

	w.mu.Lock()
	w.current = newConfig
	w.mu.Unlock()

	w.logger.Info("config reloaded successfully", "path", w.path)
	if reloadCallback != nil {
		reloadCallback(newConfig)
	}
	return newConfig, nil
}

func (w *ConfigWatcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
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
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				pending = time.After(reloadDebounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-pending:
			pending = nil
			_, _ = w.Reload()
		}
	}
}
