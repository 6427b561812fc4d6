package audio

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"sync"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
)

// Sink plays decoded sound files. *Player is the production implementation.
type Sink interface {
	Play(path string) error
	Preload(path string) error
	SetVolume(volume float64)
	Volume() float64
	InvalidateCache(path string)
	ClearCache()
	Close()
}

// Manager plays the sound configured for a notification kind.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	sink    Sink
	watcher *Watcher
	cfg     config.AudioConfig

	sounds map[model.Kind]string
}

// NewManager creates an audio manager backed by a beep Player.
func NewManager(cfg config.AudioConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return NewManagerWithSink(cfg, NewPlayer(logger), logger)
}

// NewManagerWithSink creates an audio manager that plays through sink.
func NewManagerWithSink(cfg config.AudioConfig, sink Sink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger:  logger,
		sink:    sink,
		watcher: NewWatcher(sink, logger),
		cfg:     cfg,
		sounds:  make(map[model.Kind]string),
	}
	m.loadSounds()
	return m
}

func (m *Manager) loadSounds() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sink.SetVolume(float64(m.cfg.Volume) / 100.0)

	sounds := make(map[model.Kind]string)
	for _, kind := range model.ValidKinds() {
		path := m.cfg.SoundForKind(kind)
		if path == "" {
			continue
		}
		if !Supported(path) {
			m.logger.Warn("unsupported sound format", "kind", kind, "path", path)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "kind", kind, "path", path)
			continue
		}
		sounds[kind] = path
		m.logger.Debug("loaded sound", "kind", kind, "path", path)
	}
	m.sounds = sounds
}

// Start preloads configured sounds and starts the file watcher.
func (m *Manager) Start(ctx context.Context) error {
	for _, path := range m.Sounds() {
		if err := m.sink.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
		m.watcher.Watch(path)
	}

	if err := m.watcher.Start(ctx); err != nil {
		return err
	}

	m.logger.Info("audio manager started", "sounds", len(m.Sounds()))
	return nil
}

// Stop shuts down the watcher and the sink.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.sink.Close()
	m.logger.Debug("audio manager stopped")
}

// Enabled reports whether playback is switched on.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Enabled
}

// Sounds returns a copy of the resolved kind to file mapping.
func (m *Manager) Sounds() map[model.Kind]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.Kind]string, len(m.sounds))
	maps.Copy(out, m.sounds)
	return out
}

// PlayForKind plays the sound configured for kind. A kind with no sound is
// not an error.
func (m *Manager) PlayForKind(kind model.Kind) error {
	m.mu.RLock()
	enabled := m.cfg.Enabled
	path, ok := m.sounds[kind]
	m.mu.RUnlock()

	if !enabled {
		return nil
	}
	if !ok {
		m.logger.Debug("no sound configured for kind", "kind", kind)
		return nil
	}
	return m.sink.Play(path)
}

// Volume returns the current volume (0.0 to 1.0).
func (m *Manager) Volume() float64 {
	return m.sink.Volume()
}

// UpdateConfig swaps in a new audio section and reloads sounds.
// This is called when the config file is hot-reloaded.
func (m *Manager) UpdateConfig(cfg config.AudioConfig) {
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	m.sink.ClearCache()
	m.watcher.Reset()
	m.loadSounds()

	for _, path := range m.Sounds() {
		if err := m.sink.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound on reload", "path", path, "error", err)
		}
		m.watcher.Watch(path)
	}

	m.logger.Debug("audio config updated", "enabled", cfg.Enabled, "volume", cfg.Volume)
}
