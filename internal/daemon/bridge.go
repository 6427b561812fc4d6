package daemon

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Toaster is the part of notifier.Notifier the daemon drives.
type Toaster interface {
	Show(message any, kind model.Kind, opts ...toast.Option) *toast.Handle
	Update(id string, message any, opts ...toast.Option) bool
	Dismiss(id string) bool
}

// Signaler emits D-Bus signals. *dbus.NotificationServer satisfies it.
type Signaler interface {
	CloseWithReason(id uint32, reason dbus.CloseReason) error
	InvokeAction(id uint32, actionKey string, resident bool) error
}

// Bridge turns D-Bus calls into toasts and toast removals into D-Bus signals.
type Bridge struct {
	logger  *slog.Logger
	state   *State
	signals Signaler

	mu     sync.RWMutex
	toasts Toaster
}

// NewBridge creates a Bridge emitting through signals.
func NewBridge(signals Signaler, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		logger:  logger,
		state:   NewState(),
		signals: signals,
	}
}

// Attach sets the toaster. The notifier needs Removed as a hook before it
// exists, so the two are wired in this order.
func (b *Bridge) Attach(t Toaster) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toasts = t
}

// State returns the id mapping.
func (b *Bridge) State() *State {
	return b.state
}

func (b *Bridge) toaster() Toaster {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.toasts
}

// HandleNotify shows a D-Bus notification as a toast. A notification
// replacing one that is still visible updates it in place.
func (b *Bridge) HandleNotify(n *dbus.DBusNotification, id uint32) {
	t := b.toaster()
	if t == nil {
		b.logger.Warn("notification received before toaster attached", "id", id)
		return
	}

	if n.ReplacesID != 0 {
		if toastID, ok := b.state.ToastID(id); ok {
			opts := append(n.Options(), toast.WithKind(n.Kind()))
			if t.Update(toastID, n.Summary, opts...) {
				b.state.Register(toastID, id, n.HasDefaultAction(), n.Resident())
				b.logger.Debug("notification replaced", "id", id, "toast_id", toastID)
				return
			}
		}
	}

	h := t.Show(n.Summary, n.Kind(), n.Options()...)
	if h.Inert() {
		b.logger.Debug("notification rejected", "id", id, "app_name", n.AppName)
		b.emitClosed(id, dbus.CloseReasonUndefined)
		return
	}

	b.state.Register(h.ID(), id, n.HasDefaultAction(), n.Resident())
	b.logger.Debug("notification shown", "id", id, "toast_id", h.ID(), "app_name", n.AppName)
}

// HandleClose dismisses the toast for a CloseNotification call. The signal
// follows from Removed once the exit animation has finished.
func (b *Bridge) HandleClose(id uint32) {
	toastID, ok := b.state.ToastID(id)
	if !ok {
		b.emitClosed(id, dbus.CloseReasonClosed)
		return
	}
	b.state.SetStatus(id, StatusClosing)

	if t := b.toaster(); t == nil || !t.Dismiss(toastID) {
		b.logger.Debug("close requested for toast already exiting", "id", id, "toast_id", toastID)
	}
}

// Removed is the notifier's OnRemoved hook.
func (b *Bridge) Removed(rec toast.Record, reason toast.Reason) {
	e, ok := b.state.Remove(rec.ID)
	if !ok {
		return
	}

	cr := dbus.CloseReasonFor(reason)
	if e.Status == StatusClosing {
		cr = dbus.CloseReasonClosed
	}

	if reason == toast.ReasonClosed && e.DefaultAction {
		if err := b.signals.InvokeAction(e.DBusID, "default", true); err != nil && !errors.Is(err, dbus.ErrNotConnected) {
			b.logger.Warn("failed to emit action signal", "id", e.DBusID, "error", err)
		}
	}

	b.emitClosed(e.DBusID, cr)
}

func (b *Bridge) emitClosed(id uint32, reason dbus.CloseReason) {
	if err := b.signals.CloseWithReason(id, reason); err != nil && !errors.Is(err, dbus.ErrNotConnected) {
		b.logger.Warn("failed to emit close signal", "id", id, "reason", reason, "error", err)
	}
}
