package toast

import (
	"github.com/jmylchreest/toastui/internal/queue"
)

// Handle refers to a notification returned by Show. A handle for a rejected
// request is inert: every method is a no-op.
type Handle struct {
	manager *Manager
	id      string
}

// ID returns the notification id, or "" for an inert handle.
func (h *Handle) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

// Inert reports whether the handle refers to nothing.
func (h *Handle) Inert() bool {
	return h == nil || h.manager == nil
}

// Dismiss starts the exit of the notification. Repeated calls are no-ops.
func (h *Handle) Dismiss() {
	if h.Inert() {
		return
	}
	h.manager.Dismiss(h.id)
}

// Update changes the message and, through options, the description or kind.
func (h *Handle) Update(message any, opts ...Option) {
	if h.Inert() {
		return
	}
	h.manager.Update(h.id, message, opts...)
}

// Active reports whether the notification is visible and not exiting.
func (h *Handle) Active() bool {
	if h.Inert() {
		return false
	}
	_, ok := h.manager.Get(h.id)
	return ok && !h.manager.Exiting(h.id)
}

// Latest returns a handle for the most recently admitted notification in set
// that is not already exiting, whichever manager owns it.
func Latest(set *queue.Set) (*Handle, bool) {
	e, ok := set.Latest(func(q queue.Entry) bool {
		e, ok := q.(*entry)
		return ok && !e.exiting.Load()
	})
	if !ok {
		return nil, false
	}
	te := e.(*entry)
	return &Handle{manager: te.manager, id: te.ID}, true
}
