package dbus

import (
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// CloseReason represents the reason for closing a notification.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is the freedesktop catch-all reason.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// CloseReasonFor maps a toast removal reason onto the freedesktop value.
// Evicted notifications were pushed out by newer ones, which the
// freedesktop protocol has no reason for.
func CloseReasonFor(r toast.Reason) CloseReason {
	switch r {
	case toast.ReasonExpired:
		return CloseReasonExpired
	case toast.ReasonDismissed, toast.ReasonClosed:
		return CloseReasonDismissed
	default:
		return CloseReasonUndefined
	}
}

// Urgency levels of the urgency hint.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// Hint keys understood in addition to the standard ones.
const (
	HintKind        = "x-toast-kind"
	HintPosition    = "x-toast-position"
	HintDescription = "x-toast-description"
	HintPrimary     = "x-toast-primary"
	HintSecondary   = "x-toast-secondary"
)

// DBusNotification represents an incoming D-Bus Notify call.
// It contains the raw parameters from the org.freedesktop.Notifications.Notify method.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Action represents a notification action with key and label.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ParsedActions converts the D-Bus action array to structured form.
// D-Bus actions are passed as alternating key/label pairs.
func (n *DBusNotification) ParsedActions() []Action {
	actions := make([]Action, 0, len(n.Actions)/2)
	for i := 0; i+1 < len(n.Actions); i += 2 {
		actions = append(actions, Action{
			Key:   n.Actions[i],
			Label: n.Actions[i+1],
		})
	}
	return actions
}

// HasDefaultAction reports whether the sender registered a "default" action.
func (n *DBusNotification) HasDefaultAction() bool {
	for _, a := range n.ParsedActions() {
		if a.Key == "default" {
			return true
		}
	}
	return false
}

// Urgency extracts the urgency hint from the notification.
// Returns UrgencyNormal if not specified.
func (n *DBusNotification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		switch u := v.Value().(type) {
		case byte:
			return int(u)
		case int32:
			return int(u)
		case uint32:
			return int(u)
		}
	}
	return UrgencyNormal
}

// Kind returns the toast kind for the notification. The x-toast-kind hint
// wins; otherwise critical urgency maps to error and anything else to info.
func (n *DBusNotification) Kind() model.Kind {
	if s := n.stringHint(HintKind); s != "" {
		if k, ok := model.ParseKind(s); ok {
			return k
		}
	}
	if n.Urgency() == UrgencyCritical {
		return model.KindError
	}
	return model.KindInfo
}

// Position returns the x-toast-position hint, or "" for the configured default.
func (n *DBusNotification) Position() string {
	return n.stringHint(HintPosition)
}

// Description returns the x-toast-description hint, falling back to the body.
func (n *DBusNotification) Description() string {
	if s := n.stringHint(HintDescription); s != "" {
		return s
	}
	return strings.TrimSpace(n.Body)
}

// Colors returns the custom colors from the x-toast-primary and
// x-toast-secondary hints, falling back to dunst's bgcolor and hlcolor.
func (n *DBusNotification) Colors() (primary, secondary string) {
	primary = n.stringHint(HintPrimary)
	if primary == "" {
		primary = n.stringHint("bgcolor")
	}
	secondary = n.stringHint(HintSecondary)
	if secondary == "" {
		secondary = n.stringHint("hlcolor")
	}
	return primary, secondary
}

// Timeout converts expire_timeout. The bool is false when the configured
// default should be used (-1 or any other negative value); 0 never expires.
func (n *DBusNotification) Timeout() (time.Duration, bool) {
	if n.ExpireTimeout < 0 {
		return 0, false
	}
	return time.Duration(n.ExpireTimeout) * time.Millisecond, true
}

// Transient returns true if the transient hint is set.
func (n *DBusNotification) Transient() bool {
	return n.boolHint("transient")
}

// Resident returns true if the resident hint is set.
// Resident notifications should not be auto-removed after an action is invoked.
func (n *DBusNotification) Resident() bool {
	return n.boolHint("resident")
}

// Category extracts the category hint from the notification.
func (n *DBusNotification) Category() string {
	return n.stringHint("category")
}

// Options converts the notification into toast options.
func (n *DBusNotification) Options() []toast.Option {
	var opts []toast.Option
	if d := n.Description(); d != "" {
		opts = append(opts, toast.WithDescription(d))
	}
	if p := n.Position(); p != "" {
		opts = append(opts, toast.WithPosition(p))
	}
	if d, ok := n.Timeout(); ok {
		opts = append(opts, toast.WithTimeout(d))
	}
	if p, s := n.Colors(); p != "" || s != "" {
		opts = append(opts, toast.WithColors(p, s))
	}
	return opts
}

func (n *DBusNotification) stringHint(key string) string {
	if v, ok := n.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func (n *DBusNotification) boolHint(key string) bool {
	if v, ok := n.Hints[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// ServerCapabilities lists the capabilities advertised by toastd.
var ServerCapabilities = []string{
	"actions",      // The "default" action is invoked by clicking close
	"body",         // Body becomes the toast description
	"x-toast-kind", // Kind and position hints
	"x-toast-position",
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string // "toastd"
	Vendor      string // "toastui"
	Version     string // Build version
	SpecVersion string // "1.2"
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "toastd",
		Vendor:      "toastui",
		Version:     "0.0.1", // Will be replaced by build-time version
		SpecVersion: "1.2",
	}
}
