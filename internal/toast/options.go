package toast

import (
	"time"

	"github.com/jmylchreest/toastui/internal/model"
)

// Option customizes a single notification. Unset options fall back to the
// manager's defaults.
type Option func(*options)

type options struct {
	description  *string
	position     *string
	timeout      *time.Duration
	allowClose   *bool
	pauseOnHover *bool
	kind         *model.Kind
	primary      string
	secondary    string
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithDescription sets the secondary line of text.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = &description
	}
}

// WithPosition places the notification. Unknown names fall back to the default position.
func WithPosition(position string) Option {
	return func(o *options) {
		o.position = &position
	}
}

// WithTimeout sets the auto-dismiss delay. Zero disables auto-dismiss.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = &d
	}
}

// WithAllowClose controls whether a close control is shown.
func WithAllowClose(allow bool) Option {
	return func(o *options) {
		o.allowClose = &allow
	}
}

// WithPauseOnHover controls whether hovering pauses the countdown.
func WithPauseOnHover(pause bool) Option {
	return func(o *options) {
		o.pauseOnHover = &pause
	}
}

// WithKind changes the kind of an existing notification on Update.
func WithKind(kind model.Kind) Option {
	return func(o *options) {
		o.kind = &kind
	}
}

// WithColors sets the custom gradient colors used by KindCustom.
func WithColors(primary, secondary string) Option {
	return func(o *options) {
		o.primary = primary
		o.secondary = secondary
	}
}
