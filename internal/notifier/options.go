package notifier

import (
	"log/slog"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/confirm"
	"github.com/jmylchreest/toastui/internal/metrics"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/queue"
	"github.com/jmylchreest/toastui/internal/timer"
	"github.com/jmylchreest/toastui/internal/toast"
)

// SoundPlayer plays the cue for a notification kind. *audio.Manager
// satisfies it.
type SoundPlayer interface {
	PlayForKind(kind model.Kind) error
	UpdateConfig(cfg config.AudioConfig)
}

// Option configures a Notifier.
type Option func(*settings)

type settings struct {
	logger    *slog.Logger
	cfg       *config.Config
	clock     timer.Clock
	queues    *queue.Set
	registry  *confirm.Registry
	metrics   *metrics.Metrics
	sound     SoundPlayer
	onShown   []func(toast.Record)
	onRemoved []func(toast.Record, toast.Reason)
	onClosed  []func(confirm.Request, confirm.Outcome)
}

// WithLogger sets the logger used by every controller.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig sets the initial configuration. Defaults are used otherwise.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock timer.Clock) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithQueues uses a private queue set instead of the process-wide one.
func WithQueues(set *queue.Set) Option {
	return func(s *settings) {
		if set != nil {
			s.queues = set
		}
	}
}

// WithRegistry uses a private confirmation registry instead of the
// process-wide one.
func WithRegistry(r *confirm.Registry) Option {
	return func(s *settings) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithMetrics records toast and confirmation activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithSound plays a cue whenever a notification is shown.
func WithSound(p SoundPlayer) Option {
	return func(s *settings) {
		s.sound = p
	}
}

// OnShown registers a hook called after a notification is admitted.
func OnShown(fn func(toast.Record)) Option {
	return func(s *settings) {
		if fn != nil {
			s.onShown = append(s.onShown, fn)
		}
	}
}

// OnRemoved registers a hook called after a notification is torn down.
func OnRemoved(fn func(toast.Record, toast.Reason)) Option {
	return func(s *settings) {
		if fn != nil {
			s.onRemoved = append(s.onRemoved, fn)
		}
	}
}

// OnConfirmClosed registers a hook called after a confirmation is torn down.
func OnConfirmClosed(fn func(confirm.Request, confirm.Outcome)) Option {
	return func(s *settings) {
		if fn != nil {
			s.onClosed = append(s.onClosed, fn)
		}
	}
}
