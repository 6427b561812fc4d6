package display

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/render"
)

// ErrStopped is returned by Render after Stop.
var ErrStopped = errors.New("display renderer stopped")

// Renderer performs render intents with GTK. It is safe to call from any
// goroutine: every intent is queued onto the GTK main loop in order.
type Renderer struct {
	app    *gtk.Application
	logger *slog.Logger

	mu      sync.RWMutex
	sink    render.EventSink
	scheme  config.ColorScheme
	focused render.FocusToken
	started bool
	stopped bool

	// Owned by the main loop.
	display *gdk.Display
	stacks  map[config.Position]*stack
	toasts  map[render.ElementID]*toastView
	dialog  *dialogView
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithColorScheme sets the light/dark preference.
func WithColorScheme(scheme config.ColorScheme) Option {
	return func(r *Renderer) {
		r.scheme = scheme
	}
}

// NewRenderer creates a Renderer for app. Call Start once the application
// has been activated.
func NewRenderer(app *gtk.Application, opts ...Option) *Renderer {
	r := &Renderer{
		app:    app,
		logger: slog.Default(),
		scheme: config.ColorSchemeSystem,
		stacks: make(map[config.Position]*stack),
		toasts: make(map[render.ElementID]*toastView),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start binds the renderer to the default display. Must run on the main loop.
func (r *Renderer) Start() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return &DisplayError{Message: "no display available"}
	}

	r.mu.Lock()
	r.display = display
	r.started = true
	r.mu.Unlock()

	r.logger.Info("display renderer started")
	return nil
}

// Stop releases every element. Later intents are rejected.
func (r *Renderer) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	glib.IdleAdd(func() {
		for id, v := range r.toasts {
			v.destroy()
			delete(r.toasts, id)
		}
		for pos, s := range r.stacks {
			s.window.Destroy()
			delete(r.stacks, pos)
		}
		if r.dialog != nil {
			r.dialog.destroy()
			r.dialog = nil
		}
	})
	r.logger.Info("display renderer stopped")
}

// SetSink sets the receiver of pointer, click and key events.
func (r *Renderer) SetSink(sink render.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = sink
}

// SetColorScheme changes the light/dark preference for new elements.
func (r *Renderer) SetColorScheme(scheme config.ColorScheme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheme = scheme
}

func (r *Renderer) eventSink() render.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sink
}

// Render queues in onto the main loop.
func (r *Renderer) Render(in render.Intent) error {
	r.mu.RLock()
	started, stopped := r.started, r.stopped
	r.mu.RUnlock()

	if stopped {
		return ErrStopped
	}
	if !started {
		return &DisplayError{Message: "renderer not started"}
	}

	glib.IdleAdd(func() {
		r.mu.RLock()
		stopped := r.stopped
		r.mu.RUnlock()
		if stopped {
			return
		}
		if err := r.apply(in); err != nil {
			r.logger.Warn("failed to apply intent", "intent", fmt.Sprintf("%T", in), "element", in.Target(), "error", err)
		}
	})
	return nil
}

// Focused returns the title of the toastui window that was active when the
// last intent ran. Focus held by other clients comes back from the
// compositor once the dialog's exclusive surface is gone.
func (r *Renderer) Focused() render.FocusToken {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.focused
}

func (r *Renderer) apply(in render.Intent) error {
	defer r.sampleFocus()

	switch in := in.(type) {
	case render.CreateToast:
		s := r.stackFor(in.Position)
		v := newToastView(in, r.schemeClass(), r.display, r.eventSink)
		v.stack = s
		s.add(v, in.NewestOnTop)
		r.toasts[in.Element] = v
		s.window.Present()

	case render.UpdateToast:
		v, ok := r.toasts[in.Element]
		if !ok {
			return errUnknownElement
		}
		v.setContent(in.Variant, in.Background, in.Message, in.Description)

	case render.CreateDialog:
		if r.dialog != nil {
			r.dialog.destroy()
		}
		r.dialog = newDialogView(r.app, in, r.display, r.eventSink)
		r.dialog.present()

	case render.UpdateDialog:
		if r.dialog == nil || r.dialog.element != in.Element {
			return errUnknownElement
		}
		r.dialog.setLoading(in.Loading, in.Disabled)

	case render.Animate:
		if v, ok := r.toasts[in.Element]; ok {
			v.animate(in.Animation, in.Duration)
			return nil
		}
		if r.dialog != nil && r.dialog.element == in.Element {
			r.dialog.animate(in.Animation, in.Duration)
			return nil
		}
		return errUnknownElement

	case render.Countdown:
		v, ok := r.toasts[in.Element]
		if !ok {
			return errUnknownElement
		}
		v.setCountdown(in.Remaining, in.Running)

	case render.Focus:
		if r.dialog == nil || r.dialog.element != in.Element {
			return errUnknownElement
		}
		r.dialog.focus(in.Control)

	case render.RestoreFocus:
		r.restoreFocus(in.Token)

	case render.Destroy:
		if v, ok := r.toasts[in.Element]; ok {
			v.destroy()
			v.stack.remove(v)
			delete(r.toasts, in.Element)
			return nil
		}
		if r.dialog != nil && r.dialog.element == in.Element {
			r.dialog.destroy()
			r.dialog = nil
			return nil
		}
		return errUnknownElement

	default:
		return fmt.Errorf("unsupported intent %T", in)
	}
	return nil
}

var errUnknownElement = errors.New("unknown element")

func (r *Renderer) stackFor(pos config.Position) *stack {
	s, ok := r.stacks[pos]
	if !ok {
		s = newStack(r.app, pos)
		r.stacks[pos] = s
	}
	return s
}

func (r *Renderer) sampleFocus() {
	var tok render.FocusToken
	if w := r.app.ActiveWindow(); w != nil {
		tok = render.FocusToken(w.Title())
	}
	r.mu.Lock()
	r.focused = tok
	r.mu.Unlock()
}

func (r *Renderer) restoreFocus(tok render.FocusToken) {
	if tok == "" {
		return
	}
	if r.dialog != nil && string(r.dialog.element) == string(tok) {
		r.dialog.present()
		return
	}
	r.logger.Debug("focus owner no longer exists", "token", tok)
}

// schemeClass returns "light" or "dark" from the preference or the system.
func (r *Renderer) schemeClass() string {
	r.mu.RLock()
	scheme := r.scheme
	r.mu.RUnlock()

	switch scheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		return detectSystemColorScheme()
	}
}

// detectSystemColorScheme checks libadwaita for system dark mode preference.
func detectSystemColorScheme() string {
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
