// Package notifier is the caller-facing API of toastui. A Notifier owns a
// toast manager and a confirmation controller drawing through one renderer,
// routes renderer events back to them, and applies configuration changes.
package notifier

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/confirm"
	"github.com/jmylchreest/toastui/internal/keyboard"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/queue"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/timer"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Notifier shows notifications and confirmation dialogs.
type Notifier struct {
	logger   *slog.Logger
	renderer render.Renderer
	toasts   *toast.Manager
	confirms *confirm.Controller
	keys     *keyboard.Dispatcher
	clock    timer.Clock
	s        settings

	mu     sync.RWMutex
	cfg    *config.Config
	closed bool
}

var _ render.EventSink = (*Notifier)(nil)

// New creates a Notifier drawing through r.
// Returns render.ErrNoRenderer when r is nil.
func New(r render.Renderer, opts ...Option) (*Notifier, error) {
	if r == nil {
		return nil, render.ErrNoRenderer
	}

	s := settings{
		logger: slog.Default(),
		cfg:    config.DefaultConfig(),
		clock:  timer.RealClock(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	n := &Notifier{
		logger:   s.logger,
		renderer: r,
		clock:    s.clock,
		cfg:      s.cfg,
		s:        s,
	}

	// The process-wide dispatcher only makes sense over the process-wide
	// queues and registry.
	if s.queues == nil && s.registry == nil {
		n.keys = keyboard.Shared(confirm.DefaultRegistry(), queue.Default(), s.logger)
	} else {
		n.keys = keyboard.New(s.registry, s.queues, s.logger)
	}

	timing := animation.TimingFrom(s.cfg.Animation)

	toastOpts := []toast.ManagerOption{
		toast.WithLogger(s.logger),
		toast.WithClock(s.clock),
		toast.WithTiming(timing),
		toast.WithDefaults(s.cfg.Toast.Defaults()),
		toast.OnShown(n.shown),
		toast.OnRemoved(n.removed),
	}
	if s.queues != nil {
		toastOpts = append(toastOpts, toast.WithQueues(s.queues))
	}
	toasts, err := toast.New(r, toastOpts...)
	if err != nil {
		return nil, err
	}

	confirmOpts := []confirm.Option{
		confirm.WithLogger(s.logger),
		confirm.WithClock(s.clock),
		confirm.WithTiming(timing),
		confirm.WithDefaults(confirm.DefaultsFrom(s.cfg.Confirm)),
		confirm.OnOpened(n.opened),
		confirm.OnClosed(n.confirmClosed),
	}
	if s.registry != nil {
		confirmOpts = append(confirmOpts, confirm.WithRegistry(s.registry))
	}
	confirms, err := confirm.New(r, confirmOpts...)
	if err != nil {
		return nil, err
	}

	n.toasts = toasts
	n.confirms = confirms
	return n, nil
}

// Toasts returns the underlying toast manager.
func (n *Notifier) Toasts() *toast.Manager { return n.toasts }

// Confirms returns the underlying confirmation controller.
func (n *Notifier) Confirms() *confirm.Controller { return n.confirms }

// Config returns the configuration currently in effect.
func (n *Notifier) Config() *config.Config {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cfg
}

// Show displays a notification of kind.
func (n *Notifier) Show(message any, kind model.Kind, opts ...toast.Option) *toast.Handle {
	if n.isClosed() {
		return &toast.Handle{}
	}
	return n.toasts.Show(message, kind, opts...)
}

// Success shows a success notification.
func (n *Notifier) Success(message any, opts ...toast.Option) *toast.Handle {
	return n.Show(message, model.KindSuccess, opts...)
}

// Error shows an error notification.
func (n *Notifier) Error(message any, opts ...toast.Option) *toast.Handle {
	return n.Show(message, model.KindError, opts...)
}

// Info shows an informational notification.
func (n *Notifier) Info(message any, opts ...toast.Option) *toast.Handle {
	return n.Show(message, model.KindInfo, opts...)
}

// Warning shows a warning notification.
func (n *Notifier) Warning(message any, opts ...toast.Option) *toast.Handle {
	return n.Show(message, model.KindWarning, opts...)
}

// Dark shows a notification with the dark variant.
func (n *Notifier) Dark(message any, opts ...toast.Option) *toast.Handle {
	return n.Show(message, model.KindDark, opts...)
}

// Light shows a notification with the light variant.
func (n *Notifier) Light(message any, opts ...toast.Option) *toast.Handle {
	return n.Show(message, model.KindLight, opts...)
}

// Custom shows a notification painted with a gradient of primary and secondary.
func (n *Notifier) Custom(message any, primary, secondary string, opts ...toast.Option) *toast.Handle {
	opts = append([]toast.Option{toast.WithColors(primary, secondary)}, opts...)
	return n.Show(message, model.KindCustom, opts...)
}

// Update changes a live notification in place.
func (n *Notifier) Update(id string, message any, opts ...toast.Option) bool {
	return n.toasts.Update(id, message, opts...)
}

// Dismiss starts the exit of the notification with id.
func (n *Notifier) Dismiss(id string) bool {
	return n.toasts.Dismiss(id)
}

// DismissAll dismisses every notification, or only those of kinds.
func (n *Notifier) DismissAll(kinds ...model.Kind) int {
	return n.toasts.DismissAll(kinds...)
}

// ActiveCount returns the number of notifications not yet exiting.
func (n *Notifier) ActiveCount() int {
	return n.toasts.ActiveCount()
}

// Confirm opens the confirmation dialog. See confirm.Parse for the accepted
// argument shapes. Returns nil when the request is rejected.
func (n *Notifier) Confirm(message any, args ...any) *confirm.Handle {
	if n.isClosed() {
		return nil
	}
	return n.confirms.Confirm(message, args...)
}

// Conf is an alias of Confirm.
func (n *Notifier) Conf(message any, args ...any) *confirm.Handle {
	return n.Confirm(message, args...)
}

// Key routes a key press through the keyboard dispatcher.
func (n *Notifier) Key(ev render.KeyEvent) bool {
	return n.keys.Key(ev)
}

// PointerEnter forwards a hover start from the renderer.
func (n *Notifier) PointerEnter(element render.ElementID) {
	n.toasts.PointerEnter(element)
}

// PointerLeave forwards a hover end from the renderer.
func (n *Notifier) PointerLeave(element render.ElementID) {
	n.toasts.PointerLeave(element)
}

// Activate forwards a control click to whichever controller owns element.
func (n *Notifier) Activate(element render.ElementID, control render.Control) {
	if n.toasts.Activate(element, control) {
		return
	}
	if !n.confirms.Activate(element, control) {
		n.logger.Debug("activation for unknown element", "element", element, "control", control)
	}
}

// ApplyConfig swaps in a new configuration. Live notifications keep the
// options they were created with.
func (n *Notifier) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	n.mu.Lock()
	n.cfg = cfg
	n.mu.Unlock()

	timing := animation.TimingFrom(cfg.Animation)
	n.toasts.SetDefaults(cfg.Toast.Defaults())
	n.toasts.SetTiming(timing)
	n.confirms.SetDefaults(confirm.DefaultsFrom(cfg.Confirm))
	n.confirms.SetTiming(timing)
	if n.s.sound != nil {
		n.s.sound.UpdateConfig(cfg.Audio)
	}

	n.logger.Debug("configuration applied", "position", cfg.Toast.Position, "timeout", cfg.Toast.Timeout.Duration())
}

// Close dismisses every notification and closes an open confirmation.
// Later Show and Confirm calls are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	n.toasts.DismissAll()
	if h := n.confirms.Active(); h != nil && h.Open() {
		h.Close()
	}
}

func (n *Notifier) isClosed() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.closed
}

func (n *Notifier) shown(rec toast.Record) {
	n.s.metrics.RecordToastShown(string(rec.Kind), string(rec.Position))

	if n.s.sound != nil {
		if err := n.s.sound.PlayForKind(rec.Kind); err != nil {
			n.logger.Warn("failed to play sound", "kind", rec.Kind, "error", err)
		}
	}
	for _, fn := range n.s.onShown {
		fn(rec)
	}
}

func (n *Notifier) removed(rec toast.Record, reason toast.Reason) {
	n.s.metrics.RecordToastRemoved(reason.String(), n.clock.Now().Sub(rec.CreatedAt))

	for _, fn := range n.s.onRemoved {
		fn(rec, reason)
	}
}

func (n *Notifier) opened(confirm.Request) {
	n.s.metrics.RecordConfirmOpened()
}

func (n *Notifier) confirmClosed(req confirm.Request, outcome confirm.Outcome) {
	n.s.metrics.RecordConfirmClosed(outcome.String())

	for _, fn := range n.s.onClosed {
		fn(req, outcome)
	}
}
