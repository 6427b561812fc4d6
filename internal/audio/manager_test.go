package audio

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
)

type fakeSink struct {
	mu          sync.Mutex
	played      []string
	preloaded   []string
	invalidated []string
	volume      float64
	cleared     int
	closed      bool
}

func (s *fakeSink) Play(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, path)
	return nil
}

func (s *fakeSink) Preload(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preloaded = append(s.preloaded, path)
	return nil
}

func (s *fakeSink) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
}

func (s *fakeSink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *fakeSink) InvalidateCache(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, path)
}

func (s *fakeSink) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
}

func (s *fakeSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSink) playedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.played...)
}

func writeSound(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func TestManager_LoadsSoundsPerKind(t *testing.T) {
	dir := t.TempDir()
	ok := writeSound(t, dir, "ok.wav")
	bad := writeSound(t, dir, "bad.ogg")

	cfg := config.AudioConfig{
		Enabled: true,
		Volume:  50,
		Sounds: map[string]string{
			"success": ok,
			"error":   bad,
			"warning": filepath.Join(dir, "missing.wav"),
			"info":    writeSound(t, dir, "notes.txt"),
		},
	}
	sink := &fakeSink{}
	m := NewManagerWithSink(cfg, sink, nil)

	assert.Equal(t, map[model.Kind]string{
		model.KindSuccess: ok,
		model.KindError:   bad,
	}, m.Sounds())
	assert.InDelta(t, 0.5, m.Volume(), 0.0001)
}

func TestManager_PlayForKind(t *testing.T) {
	dir := t.TempDir()
	ok := writeSound(t, dir, "ok.wav")

	tests := []struct {
		name    string
		enabled bool
		kind    model.Kind
		want    []string
	}{
		{"enabled with sound", true, model.KindSuccess, []string{ok}},
		{"enabled without sound", true, model.KindDark, nil},
		{"disabled", false, model.KindSuccess, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			m := NewManagerWithSink(config.AudioConfig{
				Enabled: tt.enabled,
				Volume:  100,
				Sounds:  map[string]string{"success": ok},
			}, sink, nil)

			require.NoError(t, m.PlayForKind(tt.kind))
			assert.Equal(t, tt.want, sink.playedPaths())
		})
	}
}

func TestManager_UpdateConfig(t *testing.T) {
	dir := t.TempDir()
	first := writeSound(t, dir, "first.wav")
	second := writeSound(t, dir, "second.mp3")

	sink := &fakeSink{}
	m := NewManagerWithSink(config.AudioConfig{
		Enabled: false,
		Volume:  100,
		Sounds:  map[string]string{"info": first},
	}, sink, nil)
	assert.False(t, m.Enabled())

	m.UpdateConfig(config.AudioConfig{
		Enabled: true,
		Volume:  25,
		Sounds:  map[string]string{"info": second},
	})

	assert.True(t, m.Enabled())
	assert.InDelta(t, 0.25, m.Volume(), 0.0001)
	assert.Equal(t, 1, sink.cleared)
	assert.Contains(t, sink.preloaded, second)

	require.NoError(t, m.PlayForKind(model.KindInfo))
	assert.Equal(t, []string{second}, sink.playedPaths())
}

func TestManager_StartStop(t *testing.T) {
	dir := t.TempDir()
	path := writeSound(t, dir, "ok.wav")

	sink := &fakeSink{}
	m := NewManagerWithSink(config.AudioConfig{
		Enabled: true,
		Volume:  100,
		Sounds:  map[string]string{"success": path},
	}, sink, nil)

	require.NoError(t, m.Start(context.Background()))
	assert.True(t, m.watcher.IsRunning())
	assert.Equal(t, []string{path}, sink.preloaded)

	m.Stop()
	assert.False(t, m.watcher.IsRunning())
	assert.True(t, sink.closed)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("/a/b.WAV"))
	assert.True(t, Supported("b.ogg"))
	assert.True(t, Supported("b.mp3"))
	assert.False(t, Supported("b.flac"))
	assert.False(t, Supported("noext"))
}

func TestVolumeToExponent(t *testing.T) {
	assert.InDelta(t, 0, volumeToExponent(1), 0.0001)
	assert.InDelta(t, -1, volumeToExponent(0.5), 0.0001)
	assert.Equal(t, -10.0, volumeToExponent(0))
}
