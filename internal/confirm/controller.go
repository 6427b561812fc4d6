// Package confirm implements the modal confirmation dialog: at most one open
// per Registry, with synchronous or awaitable handlers, a caller-controlled
// loading state and a fixed keyboard focus order.
package confirm

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/theme"
	"github.com/jmylchreest/toastui/internal/timer"
)

// Controller opens confirmation dialogs through a renderer.
type Controller struct {
	mu       sync.Mutex
	logger   *slog.Logger
	renderer render.Renderer
	registry *Registry
	clock    timer.Clock
	timing   animation.Timing
	defaults Defaults

	onOpened func(Request)
	onClosed func(Request, Outcome)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. A nil logger uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry replaces the process-wide registry.
func WithRegistry(r *Registry) Option {
	return func(c *Controller) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithClock replaces the real clock.
func WithClock(clock timer.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithTiming sets the animation durations.
func WithTiming(timing animation.Timing) Option {
	return func(c *Controller) {
		c.timing = timing
	}
}

// WithDefaults sets the request defaults.
func WithDefaults(d Defaults) Option {
	return func(c *Controller) {
		c.defaults = d
	}
}

// OnOpened registers a hook called when a dialog opens.
func OnOpened(fn func(Request)) Option {
	return func(c *Controller) {
		c.onOpened = fn
	}
}

// OnClosed registers a hook called when a dialog closes.
func OnClosed(fn func(Request, Outcome)) Option {
	return func(c *Controller) {
		c.onClosed = fn
	}
}

// New creates a Controller drawing through r.
func New(r render.Renderer, opts ...Option) (*Controller, error) {
	if r == nil {
		return nil, render.ErrNoRenderer
	}

	c := &Controller{
		logger:   slog.Default(),
		renderer: r,
		registry: DefaultRegistry(),
		clock:    timer.RealClock(),
		timing:   animation.DefaultTiming(),
		defaults: DefaultsFrom(config.DefaultConfig().Confirm),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Registry returns the registry this controller claims dialogs from.
func (c *Controller) Registry() *Registry {
	return c.registry
}

// Defaults returns the current request defaults.
func (c *Controller) Defaults() Defaults {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaults
}

// SetDefaults replaces the request defaults for future dialogs.
func (c *Controller) SetDefaults(d Defaults) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults = d
}

// SetTiming replaces the animation durations for future transitions.
func (c *Controller) SetTiming(timing animation.Timing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timing = timing
}

func (c *Controller) currentTiming() animation.Timing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timing
}

// Confirm parses one of the supported call shapes and opens the dialog.
// See Parse for the accepted arguments.
func (c *Controller) Confirm(message any, args ...any) *Handle {
	b, err := Parse(message, args...)
	if err != nil {
		c.logger.Warn("confirmation arguments ignored", "error", err)
	}
	return c.OpenBuilder(b)
}

// OpenBuilder builds the request against the controller defaults and opens it.
func (c *Controller) OpenBuilder(b *RequestBuilder) *Handle {
	req, err := b.Build(c.Defaults())
	if err != nil {
		c.logger.Warn("confirmation request normalized", "error", err)
	}
	return c.Open(req)
}

// Open shows req. If a dialog is already open in the registry, it plays the
// attention animation and returns the open dialog's handle unchanged, even
// for a request that would otherwise be rejected. Open returns nil when the
// request is rejected or the dialog cannot be drawn.
func (c *Controller) Open(req Request) *Handle {
	if active := c.registry.Active(); active != nil {
		active.attention()
		return active
	}

	if model.IsBlank(req.Message) {
		c.logger.Warn("discarding confirmation with empty message")
		return nil
	}
	req = c.normalize(req)

	h := &Handle{
		ctrl:      c,
		req:       req,
		element:   render.ElementID("confirm-" + model.NewID()),
		state:     StateOpen,
		focusIdx:  initialFocus,
		prevFocus: render.SafeFocused(c.renderer),
		done:      make(chan struct{}),
	}
	if req.InitialLoading {
		h.loading = true
		h.manual = true
	}

	got, claimed := c.registry.claim(h)
	if !claimed {
		got.attention()
		return got
	}

	err := render.Safe(c.renderer, render.CreateDialog{
		Element:      h.element,
		Position:     req.Position,
		Theme:        req.Theme,
		Variant:      theme.DialogVariant(req.Theme, req.PrimaryColor, req.SecondaryColor),
		Background:   theme.Gradient(req.PrimaryColor, req.SecondaryColor),
		Message:      req.Message,
		Description:  req.Description,
		ConfirmLabel: req.ConfirmLabel,
		CancelLabel:  req.CancelLabel,
		Loading:      h.loading,
	})
	if err != nil {
		c.registry.release(h)
		c.logger.Error("failed to create confirmation dialog", "error", err)
		return nil
	}

	timing := c.currentTiming()
	intents := []render.Intent{
		render.Animate{Element: h.element, Animation: animation.Entrance(req.Position), Duration: timing.Entrance},
	}
	if h.loading {
		intents = append(intents, render.UpdateDialog{Element: h.element, Loading: true, Disabled: loadingDisabled()})
	}
	intents = append(intents, render.Focus{Element: h.element, Control: focusOrder[initialFocus]})
	render.Flush(c.logger, c.renderer, intents)

	c.logger.Debug("confirmation opened", "element", h.element, "position", req.Position, "theme", req.Theme)

	if c.onOpened != nil {
		c.onOpened(req)
	}
	return h
}

// Active returns the dialog open in this controller's registry, or nil.
func (c *Controller) Active() *Handle {
	return c.registry.Active()
}

// Activate routes a click on a dialog control. It reports whether element
// belongs to the open dialog.
func (c *Controller) Activate(element render.ElementID, control render.Control) bool {
	h := c.registry.Active()
	if h == nil || h.element != element {
		return false
	}
	switch control {
	case render.ControlConfirm:
		h.Confirm()
	case render.ControlCancel, render.ControlClose:
		h.Cancel()
	}
	return true
}

func (c *Controller) normalize(req Request) Request {
	d := c.Defaults()
	if req.ConfirmLabel == "" {
		req.ConfirmLabel = d.ConfirmLabel
	}
	if req.CancelLabel == "" {
		req.CancelLabel = d.CancelLabel
	}
	req.Theme = model.NormalizeTheme(string(req.Theme))
	if !req.Position.Valid() {
		if req.Position != "" {
			c.logger.Warn("unknown confirmation position, using default", "position", req.Position, "default", d.Position)
		}
		req.Position = d.Position
	}
	return req
}

func loadingDisabled() []render.Control {
	return []render.Control{render.ControlCancel, render.ControlClose}
}
