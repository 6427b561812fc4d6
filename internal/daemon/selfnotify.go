package daemon

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Level indicates the severity of a toastd status message.
type Level int

const (
	// LevelInfo is for informational messages.
	LevelInfo Level = iota
	// LevelWarning is for warning messages.
	LevelWarning
	// LevelError is for error messages.
	LevelError
)

// Kind returns the toast kind used for level.
func (l Level) Kind() model.Kind {
	switch l {
	case LevelWarning:
		return model.KindWarning
	case LevelError:
		return model.KindError
	default:
		return model.KindInfo
	}
}

const selfNotifyTimeout = 5 * time.Second

// SelfNotifier posts toastd's own status messages as toasts.
// Each message key is rate limited so a flapping config file cannot flood
// the screen.
type SelfNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	toasts Toaster

	limiters    map[string]*rate.Limiter
	minInterval time.Duration
	now         func() time.Time

	enabled bool
}

// NewSelfNotifier creates a SelfNotifier showing through toasts.
func NewSelfNotifier(toasts Toaster, logger *slog.Logger) *SelfNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SelfNotifier{
		logger:      logger,
		toasts:      toasts,
		limiters:    make(map[string]*rate.Limiter),
		minInterval: 5 * time.Second,
		now:         time.Now,
		enabled:     true,
	}
}

// SetEnabled enables or disables status messages.
func (n *SelfNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between messages with the same key.
func (n *SelfNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
	n.limiters = make(map[string]*rate.Limiter)
}

// Notify shows a status message unless the key is rate limited.
// Reports whether a toast was shown.
func (n *SelfNotifier) Notify(key, summary, body string, level Level) bool {
	n.mu.Lock()
	if !n.enabled || n.toasts == nil {
		n.mu.Unlock()
		return false
	}
	lim, ok := n.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(n.minInterval), 1)
		n.limiters[key] = lim
	}
	allowed := lim.AllowN(n.now(), 1)
	toasts := n.toasts
	n.mu.Unlock()

	if !allowed {
		n.logger.Debug("status message rate-limited", "key", key, "summary", summary)
		return false
	}

	n.logger.Debug("showing status message", "key", key, "summary", summary, "level", level.Kind())
	h := toasts.Show(summary, level.Kind(),
		toast.WithDescription(body),
		toast.WithTimeout(selfNotifyTimeout),
	)
	return !h.Inert()
}

// NotifyConfigReloaded reports a successful configuration reload.
func (n *SelfNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration Reloaded",
		"toastd configuration has been successfully reloaded.", LevelInfo)
}

// NotifyConfigError reports a configuration file that failed to load.
func (n *SelfNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration Error",
		"Failed to reload configuration: "+err.Error(), LevelWarning)
}

// NotifyThemeReloaded reports a theme change.
func (n *SelfNotifier) NotifyThemeReloaded(themeName string) {
	n.Notify("theme-reload", "Theme Reloaded",
		"Theme '"+themeName+"' has been reloaded.", LevelInfo)
}

// NotifyStartup reports that the daemon is running.
func (n *SelfNotifier) NotifyStartup(version string) {
	n.Notify("startup", "toastd Started",
		"Notification daemon v"+version+" is now running.", LevelInfo)
}

// NotifyAudioError reports a sound that could not be played.
func (n *SelfNotifier) NotifyAudioError(err error) {
	n.Notify("audio-error", "Audio Error",
		"Failed to play notification sound: "+err.Error(), LevelError)
}
