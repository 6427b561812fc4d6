// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/toastui/internal/model"
)

// Default configuration values.
const (
	DefaultPosition      = PositionTopRight
	DefaultTimeout       = 5 * time.Second
	DefaultMaxLength     = 100
	DefaultMaxVisible    = 5
	DefaultConfirmLabel  = "Confirm"
	DefaultCancelLabel   = "Cancel"
	DefaultMetricsListen = "127.0.0.1:9465"
	DefaultVolume        = 80

	DefaultEntranceDuration  = 300 * time.Millisecond
	DefaultExitDuration      = 300 * time.Millisecond
	DefaultAttentionDuration = 400 * time.Millisecond
)

// Config represents the toastui configuration.
type Config struct {
	Toast     ToastConfig     `toml:"toast" yaml:"toast"`
	Confirm   ConfirmConfig   `toml:"confirm" yaml:"confirm"`
	Animation AnimationConfig `toml:"animation" yaml:"animation"`
	Audio     AudioConfig     `toml:"audio" yaml:"audio"`
	Theme     ThemeConfig     `toml:"theme" yaml:"theme"`
	Metrics   MetricsConfig   `toml:"metrics" yaml:"metrics"`
}

// ToastConfig holds the instance defaults every toast inherits.
type ToastConfig struct {
	Position     string   `toml:"position" yaml:"position"`
	Timeout      Duration `toml:"timeout" yaml:"timeout"` // 0 = never auto-dismiss
	AllowClose   bool     `toml:"allow_close" yaml:"allow_close"`
	MaxLength    int      `toml:"max_length" yaml:"max_length"`
	PauseOnHover bool     `toml:"pause_on_hover" yaml:"pause_on_hover"`
	MaxVisible   int      `toml:"max_visible" yaml:"max_visible"` // 0 = unbounded
	NewestOnTop  bool     `toml:"newest_on_top" yaml:"newest_on_top"`
	LiveRegion   string   `toml:"live_region" yaml:"live_region"` // polite, assertive
}

// ConfirmConfig holds defaults for confirmation dialogs.
type ConfirmConfig struct {
	ConfirmLabel string `toml:"confirm_label" yaml:"confirm_label"`
	CancelLabel  string `toml:"cancel_label" yaml:"cancel_label"`
	Theme        string `toml:"theme" yaml:"theme"` // dark, light
	Position     string `toml:"position" yaml:"position"`
}

// AnimationConfig holds the fixed animation durations.
type AnimationConfig struct {
	Entrance  Duration `toml:"entrance" yaml:"entrance"`
	Exit      Duration `toml:"exit" yaml:"exit"`
	Attention Duration `toml:"attention" yaml:"attention"`
}

// AudioConfig holds audio cue settings.
type AudioConfig struct {
	Enabled bool              `toml:"enabled" yaml:"enabled"`
	Volume  int               `toml:"volume" yaml:"volume"` // 0-100
	Sounds  map[string]string `toml:"sounds" yaml:"sounds"` // kind -> sound file
}

// ThemeConfig holds theme settings.
type ThemeConfig struct {
	Name        string `toml:"name" yaml:"name"`                 // Theme name or path to CSS file
	ColorScheme string `toml:"color_scheme" yaml:"color_scheme"` // system, light, dark
}

// MetricsConfig holds Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Listen  string `toml:"listen" yaml:"listen"`
}

// ToastDefaults is the normalized form of ToastConfig used at runtime.
type ToastDefaults struct {
	Position     Position
	Timeout      time.Duration
	AllowClose   bool
	MaxLength    int
	PauseOnHover bool
	MaxVisible   int
	NewestOnTop  bool
	LiveRegion   LiveRegion
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Toast: ToastConfig{
			Position:     string(DefaultPosition),
			Timeout:      Duration(DefaultTimeout),
			AllowClose:   true,
			MaxLength:    DefaultMaxLength,
			PauseOnHover: true,
			MaxVisible:   DefaultMaxVisible,
			NewestOnTop:  true,
			LiveRegion:   string(LiveRegionPolite),
		},
		Confirm: ConfirmConfig{
			ConfirmLabel: DefaultConfirmLabel,
			CancelLabel:  DefaultCancelLabel,
			Theme:        string(model.ThemeDark),
			Position:     string(PositionCenter),
		},
		Animation: AnimationConfig{
			Entrance:  Duration(DefaultEntranceDuration),
			Exit:      Duration(DefaultExitDuration),
			Attention: Duration(DefaultAttentionDuration),
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  DefaultVolume,
			Sounds:  make(map[string]string),
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  DefaultMetricsListen,
		},
	}
}

// DefaultToastDefaults returns the normalized defaults of DefaultConfig.
func DefaultToastDefaults() ToastDefaults {
	return DefaultConfig().Toast.Defaults()
}

// ConfigDir returns the toastui configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toastui")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "toastui.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed. The write is atomic.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, ok := ParsePosition(c.Toast.Position); !ok {
		return fmt.Errorf("invalid toast position %q, must be one of: %v", c.Toast.Position, ValidPositions())
	}
	if c.Toast.Timeout < 0 {
		return fmt.Errorf("toast timeout must not be negative, got %s", c.Toast.Timeout.Duration())
	}
	if c.Toast.MaxLength < 1 {
		return fmt.Errorf("max_length must be greater than 0, got %d", c.Toast.MaxLength)
	}
	if c.Toast.MaxVisible < 0 {
		return fmt.Errorf("max_visible must not be negative, got %d", c.Toast.MaxVisible)
	}
	switch LiveRegion(strings.ToLower(c.Toast.LiveRegion)) {
	case LiveRegionPolite, LiveRegionAssertive:
	default:
		return fmt.Errorf("invalid live_region %q, must be polite or assertive", c.Toast.LiveRegion)
	}

	switch strings.ToLower(c.Confirm.Theme) {
	case string(model.ThemeDark), string(model.ThemeLight):
	default:
		return fmt.Errorf("invalid confirm theme %q, must be dark or light", c.Confirm.Theme)
	}
	if _, ok := ParsePosition(c.Confirm.Position); !ok {
		return fmt.Errorf("invalid confirm position %q, must be one of: %v", c.Confirm.Position, ValidPositions())
	}

	for name, d := range map[string]Duration{
		"entrance":  c.Animation.Entrance,
		"exit":      c.Animation.Exit,
		"attention": c.Animation.Attention,
	} {
		if d < 0 {
			return fmt.Errorf("animation %s duration must not be negative", name)
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	for kind := range c.Audio.Sounds {
		if _, ok := model.ParseKind(kind); !ok {
			return fmt.Errorf("invalid sound kind %q, must be one of: %v", kind, model.ValidKinds())
		}
	}

	validScheme := false
	for _, s := range ValidColorSchemes() {
		if c.Theme.ColorScheme == string(s) {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return errors.New("metrics listen address must be set when metrics are enabled")
	}

	return nil
}

// Defaults normalizes the toast section into runtime defaults.
// Invalid values are replaced by the built-in defaults.
func (t ToastConfig) Defaults() ToastDefaults {
	d := ToastDefaults{
		Position:     NormalizePosition(t.Position, DefaultPosition),
		Timeout:      NormalizeTimeout(t.Timeout.Duration(), DefaultTimeout),
		AllowClose:   t.AllowClose,
		MaxLength:    NormalizeMaxLength(t.MaxLength),
		PauseOnHover: t.PauseOnHover,
		MaxVisible:   t.MaxVisible,
		NewestOnTop:  t.NewestOnTop,
		LiveRegion:   NormalizeLiveRegion(t.LiveRegion),
	}
	if d.MaxVisible < 0 {
		d.MaxVisible = 0
	}
	return d
}

// NormalizeTimeout returns d, or fallback when d is negative.
func NormalizeTimeout(d, fallback time.Duration) time.Duration {
	if d < 0 {
		return fallback
	}
	return d
}

// NormalizeMaxLength returns n, or DefaultMaxLength when n is not positive.
func NormalizeMaxLength(n int) int {
	if n < 1 {
		return DefaultMaxLength
	}
	return n
}

// NormalizeLiveRegion maps anything but "assertive" to polite.
func NormalizeLiveRegion(name string) LiveRegion {
	if LiveRegion(strings.ToLower(strings.TrimSpace(name))) == LiveRegionAssertive {
		return LiveRegionAssertive
	}
	return LiveRegionPolite
}

// SoundForKind returns the sound file configured for kind.
// Expands ~ to home directory.
func (c *AudioConfig) SoundForKind(kind model.Kind) string {
	return expandPath(c.Sounds[string(kind)])
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
