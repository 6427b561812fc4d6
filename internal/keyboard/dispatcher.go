// Package keyboard routes global key presses to the open confirmation or the
// most recent notification.
package keyboard

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastui/internal/confirm"
	"github.com/jmylchreest/toastui/internal/queue"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Dispatcher handles Escape and Tab for every controller in the process.
type Dispatcher struct {
	logger   *slog.Logger
	registry *confirm.Registry
	queues   *queue.Set
}

// New creates a Dispatcher over registry and queues.
func New(registry *confirm.Registry, queues *queue.Set, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = confirm.DefaultRegistry()
	}
	if queues == nil {
		queues = queue.Default()
	}
	return &Dispatcher{
		logger:   logger,
		registry: registry,
		queues:   queues,
	}
}

var (
	shared     *Dispatcher
	sharedOnce sync.Once
)

// Shared returns the process-wide Dispatcher, installing it on first use.
// Arguments of later calls are ignored.
func Shared(registry *confirm.Registry, queues *queue.Set, logger *slog.Logger) *Dispatcher {
	sharedOnce.Do(func() {
		shared = New(registry, queues, logger)
		shared.logger.Debug("keyboard dispatcher installed")
	})
	return shared
}

// Key handles one key press and reports whether it was consumed.
//
// Escape cancels an open confirmation that is not loading; otherwise it
// dismisses the most recently admitted notification. Tab and Shift+Tab cycle
// focus inside an open confirmation and are not consumed otherwise.
func (d *Dispatcher) Key(ev render.KeyEvent) bool {
	switch ev.Key {
	case render.KeyEscape:
		return d.escape()
	case render.KeyTab:
		return d.tab(ev.Shift)
	default:
		return false
	}
}

func (d *Dispatcher) escape() bool {
	if h := d.registry.Active(); h != nil && !h.Loading() {
		d.logger.Debug("escape cancels confirmation", "element", h.Element())
		h.Cancel()
		return true
	}

	h, ok := toast.Latest(d.queues)
	if !ok {
		return false
	}
	d.logger.Debug("escape dismisses notification", "id", h.ID())
	h.Dismiss()
	return true
}

func (d *Dispatcher) tab(reverse bool) bool {
	h := d.registry.Active()
	if h == nil {
		return false
	}
	h.FocusNext(reverse)
	return true
}
