package toast

import (
	"sync/atomic"
	"time"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/timer"
)

// Reason explains why a notification was removed.
type Reason int

const (
	ReasonExpired Reason = iota
	ReasonDismissed
	ReasonEvicted
	ReasonClosed
)

// String returns a human-readable reason.
func (r Reason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonEvicted:
		return "evicted"
	case ReasonClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Record is a snapshot of one visible notification.
type Record struct {
	ID           string
	Element      render.ElementID
	Position     config.Position
	Kind         model.Kind
	Message      string
	Description  string
	Timeout      time.Duration // 0 = no auto-dismiss
	AllowClose   bool
	PauseOnHover bool
	Primary      string
	Secondary    string
	CreatedAt    time.Time
}

// entry is the live, queue-admitted form of a Record.
// Record fields are guarded by the owning manager's mutex.
type entry struct {
	Record

	manager *Manager
	timer   *timer.Timer // nil when Timeout is 0
	exiting atomic.Bool
}

// EntryID implements queue.Entry.
func (e *entry) EntryID() string {
	return e.ID
}

// Leaving implements queue.Leaver: an exiting notification gives up its slot.
func (e *entry) Leaving() bool {
	return e.exiting.Load()
}

// hoverPauses reports whether pointer hover controls the countdown.
func (e *entry) hoverPauses() bool {
	return e.PauseOnHover && e.Timeout > 0 && e.timer != nil
}
