// Package toast manages the lifecycle of transient notifications: admission
// into a position queue, auto-dismiss countdown, hover pause and the two-phase
// exit.
package toast

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/queue"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/theme"
	"github.com/jmylchreest/toastui/internal/timer"
)

// Manager creates and tears down notifications.
type Manager struct {
	mu       sync.Mutex
	logger   *slog.Logger
	renderer render.Renderer
	queues   *queue.Set
	clock    timer.Clock
	timing   animation.Timing
	defaults config.ToastDefaults
	entries  map[string]*entry
	elements map[render.ElementID]string

	onShown   func(Record)
	onRemoved func(Record, Reason)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger. A nil logger uses slog.Default().
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithQueues replaces the process-wide queue set.
func WithQueues(set *queue.Set) ManagerOption {
	return func(m *Manager) {
		if set != nil {
			m.queues = set
		}
	}
}

// WithClock replaces the real clock.
func WithClock(clock timer.Clock) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithTiming sets the animation durations.
func WithTiming(timing animation.Timing) ManagerOption {
	return func(m *Manager) {
		m.timing = timing
	}
}

// WithDefaults sets the per-toast defaults.
func WithDefaults(defaults config.ToastDefaults) ManagerOption {
	return func(m *Manager) {
		m.defaults = defaults
	}
}

// OnShown registers a hook called after a notification becomes visible.
func OnShown(fn func(Record)) ManagerOption {
	return func(m *Manager) {
		m.onShown = fn
	}
}

// OnRemoved registers a hook called after a notification is torn down.
func OnRemoved(fn func(Record, Reason)) ManagerOption {
	return func(m *Manager) {
		m.onRemoved = fn
	}
}

// New creates a Manager drawing through r.
func New(r render.Renderer, opts ...ManagerOption) (*Manager, error) {
	if r == nil {
		return nil, render.ErrNoRenderer
	}

	m := &Manager{
		logger:   slog.Default(),
		renderer: r,
		queues:   queue.Default(),
		clock:    timer.RealClock(),
		timing:   animation.DefaultTiming(),
		defaults: config.DefaultToastDefaults(),
		entries:  make(map[string]*entry),
		elements: make(map[render.ElementID]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Defaults returns the current per-toast defaults.
func (m *Manager) Defaults() config.ToastDefaults {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaults
}

// SetDefaults replaces the per-toast defaults for future notifications.
func (m *Manager) SetDefaults(defaults config.ToastDefaults) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults = defaults
}

// SetTiming replaces the animation durations for future transitions.
func (m *Manager) SetTiming(timing animation.Timing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timing = timing
}

// Queues returns the queue set this manager admits into.
func (m *Manager) Queues() *queue.Set {
	return m.queues
}

// Show displays message as a notification of kind.
// Invalid input is logged and yields an inert handle; Show never fails.
func (m *Manager) Show(message any, kind model.Kind, opts ...Option) *Handle {
	text := strings.TrimSpace(model.Text(message))
	if text == "" {
		m.logger.Warn("discarding notification with empty message")
		return &Handle{}
	}
	if !kind.Valid() {
		m.logger.Warn("unknown notification kind, using default", "kind", kind, "default", model.DefaultKind)
		kind = model.DefaultKind
	}

	o := collect(opts)

	m.mu.Lock()
	d := m.defaults
	timing := m.timing
	m.mu.Unlock()

	rec := Record{
		ID:           model.NewID(),
		Position:     d.Position,
		Kind:         kind,
		Timeout:      d.Timeout,
		AllowClose:   d.AllowClose,
		PauseOnHover: d.PauseOnHover,
		Primary:      o.primary,
		Secondary:    o.secondary,
		CreatedAt:    m.clock.Now(),
	}
	rec.Element = render.ElementID("toast-" + rec.ID)

	if o.position != nil {
		pos, ok := config.ParsePosition(*o.position)
		if ok {
			rec.Position = pos
		} else {
			m.logger.Warn("unknown position, using default", "position", *o.position, "default", d.Position)
		}
	}
	if o.timeout != nil {
		if *o.timeout < 0 {
			m.logger.Warn("negative timeout, using default", "timeout", *o.timeout, "default", d.Timeout)
		} else {
			rec.Timeout = *o.timeout
		}
	}
	if o.allowClose != nil {
		rec.AllowClose = *o.allowClose
	}
	if o.pauseOnHover != nil {
		rec.PauseOnHover = *o.pauseOnHover
	}

	rec.Message = model.Truncate(text, d.MaxLength)
	if o.description != nil {
		rec.Description = model.Truncate(strings.TrimSpace(*o.description), 2*d.MaxLength)
	}

	err := render.Safe(m.renderer, render.CreateToast{
		Element:     rec.Element,
		Position:    rec.Position,
		Kind:        rec.Kind,
		Variant:     theme.Variant(rec.Kind, rec.Primary, rec.Secondary),
		Background:  background(rec.Kind, rec.Primary, rec.Secondary),
		Message:     rec.Message,
		Description: rec.Description,
		AllowClose:  rec.AllowClose,
		LiveRegion:  d.LiveRegion,
		NewestOnTop: d.NewestOnTop,
		CreatedAt:   rec.CreatedAt,
	})
	if err != nil {
		m.logger.Error("failed to create notification element", "id", rec.ID, "error", err)
		return &Handle{}
	}

	e := &entry{Record: rec, manager: m}
	if rec.Timeout > 0 {
		id := rec.ID
		e.timer = timer.New(m.clock, func() {
			m.dismiss(id, ReasonExpired)
		})
	}

	m.mu.Lock()
	m.entries[rec.ID] = e
	m.elements[rec.Element] = rec.ID
	m.mu.Unlock()

	m.queues.For(rec.Position).Admit(e, d.MaxVisible, d.NewestOnTop, func(evicted queue.Entry) {
		if other, ok := evicted.(*entry); ok {
			other.manager.dismiss(other.ID, ReasonEvicted)
		}
	})

	intents := []render.Intent{
		render.Animate{Element: rec.Element, Animation: animation.Entrance(rec.Position), Duration: timing.Entrance},
	}
	if e.timer != nil {
		e.timer.Start(rec.Timeout)
		intents = append(intents, render.Countdown{Element: rec.Element, Remaining: rec.Timeout, Running: true})
	}
	render.Flush(m.logger, m.renderer, intents)

	m.logger.Debug("notification shown",
		"id", rec.ID,
		"kind", rec.Kind,
		"position", rec.Position,
		"timeout", rec.Timeout,
	)

	if m.onShown != nil {
		m.onShown(rec)
	}

	return &Handle{manager: m, id: rec.ID}
}

// Success shows a success notification.
func (m *Manager) Success(message any, opts ...Option) *Handle {
	return m.Show(message, model.KindSuccess, opts...)
}

// Error shows an error notification.
func (m *Manager) Error(message any, opts ...Option) *Handle {
	return m.Show(message, model.KindError, opts...)
}

// Info shows an info notification.
func (m *Manager) Info(message any, opts ...Option) *Handle {
	return m.Show(message, model.KindInfo, opts...)
}

// Warning shows a warning notification.
func (m *Manager) Warning(message any, opts ...Option) *Handle {
	return m.Show(message, model.KindWarning, opts...)
}

// Dark shows a dark notification.
func (m *Manager) Dark(message any, opts ...Option) *Handle {
	return m.Show(message, model.KindDark, opts...)
}

// Light shows a light notification.
func (m *Manager) Light(message any, opts ...Option) *Handle {
	return m.Show(message, model.KindLight, opts...)
}

// Custom shows a notification styled with a gradient of primary and secondary.
func (m *Manager) Custom(message any, primary, secondary string, opts ...Option) *Handle {
	return m.Show(message, model.KindCustom, append(opts, WithColors(primary, secondary))...)
}

// Update changes the message, description or kind of a visible notification
// without touching its countdown or queue position. An empty message keeps
// the current one.
func (m *Manager) Update(id string, message any, opts ...Option) bool {
	o := collect(opts)

	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok || e.exiting.Load() {
		m.mu.Unlock()
		return false
	}
	maxLen := m.defaults.MaxLength
	if text := strings.TrimSpace(model.Text(message)); text != "" {
		e.Message = model.Truncate(text, maxLen)
	}
	if o.description != nil {
		e.Description = model.Truncate(strings.TrimSpace(*o.description), 2*maxLen)
	}
	if o.kind != nil {
		if o.kind.Valid() {
			e.Kind = *o.kind
		} else {
			m.logger.Warn("unknown notification kind on update, keeping current", "kind", *o.kind, "current", e.Kind)
		}
	}
	if o.primary != "" || o.secondary != "" {
		e.Primary, e.Secondary = o.primary, o.secondary
	}
	in := render.UpdateToast{
		Element:     e.Element,
		Kind:        e.Kind,
		Variant:     theme.Variant(e.Kind, e.Primary, e.Secondary),
		Background:  background(e.Kind, e.Primary, e.Secondary),
		Message:     e.Message,
		Description: e.Description,
	}
	m.mu.Unlock()

	render.Flush(m.logger, m.renderer, []render.Intent{in})
	return true
}

// Dismiss starts the exit of the notification with id.
// It reports false when the notification is unknown or already exiting.
func (m *Manager) Dismiss(id string) bool {
	return m.dismiss(id, ReasonDismissed)
}

// DismissAll dismisses every notification of this manager, or only those
// whose kind is listed.
func (m *Manager) DismissAll(kinds ...model.Kind) int {
	m.mu.Lock()
	var ids []string
	for id, e := range m.entries {
		if e.exiting.Load() {
			continue
		}
		if len(kinds) > 0 && !containsKind(kinds, e.Kind) {
			continue
		}
		ids = append(ids, id)
	}
	m.mu.Unlock()

	n := 0
	for _, id := range ids {
		if m.dismiss(id, ReasonDismissed) {
			n++
		}
	}
	return n
}

// ActiveCount returns the number of notifications that are visible and not exiting.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.entries {
		if !e.exiting.Load() {
			n++
		}
	}
	return n
}

// Get returns a snapshot of the notification with id.
func (m *Manager) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return Record{}, false
	}
	return e.Record, true
}

// Exiting reports whether the notification with id is playing its exit animation.
func (m *Manager) Exiting(id string) bool {
	m.mu.Lock()
	e, ok := m.entries[id]
	m.mu.Unlock()
	return ok && e.exiting.Load()
}

// PointerEnter pauses the countdown of a hover-pausable notification.
func (m *Manager) PointerEnter(element render.ElementID) bool {
	e := m.byElement(element)
	if e == nil || e.exiting.Load() || !e.hoverPauses() {
		return e != nil
	}
	e.timer.Pause()
	render.Flush(m.logger, m.renderer, []render.Intent{
		render.Countdown{Element: element, Remaining: e.timer.Remaining(), Running: false},
	})
	return true
}

// PointerLeave resumes a countdown paused by PointerEnter.
func (m *Manager) PointerLeave(element render.ElementID) bool {
	e := m.byElement(element)
	if e == nil || e.exiting.Load() || !e.hoverPauses() {
		return e != nil
	}
	remaining := e.timer.Remaining()
	e.timer.Resume()
	if e.timer.Fired() {
		return true
	}
	render.Flush(m.logger, m.renderer, []render.Intent{
		render.Countdown{Element: element, Remaining: remaining, Running: true},
	})
	return true
}

// Activate handles a click on a control of a notification element.
// Only the close control does anything, and only when closing is allowed.
func (m *Manager) Activate(element render.ElementID, control render.Control) bool {
	e := m.byElement(element)
	if e == nil {
		return false
	}
	if control != render.ControlClose {
		return true
	}
	m.mu.Lock()
	allow := e.AllowClose
	m.mu.Unlock()
	if allow {
		m.dismiss(e.ID, ReasonClosed)
	}
	return true
}

func (m *Manager) byElement(element render.ElementID) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.elements[element]
	if !ok {
		return nil
	}
	return m.entries[id]
}

// dismiss is phase one of the exit: mark the entry exiting, stop its
// countdown and play the exit animation. Teardown follows once the exit
// duration has elapsed.
func (m *Manager) dismiss(id string, reason Reason) bool {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok || !e.exiting.CompareAndSwap(false, true) {
		m.mu.Unlock()
		return false
	}
	exit := m.timing.Exit
	element, position := e.Element, e.Position
	m.mu.Unlock()

	if e.timer != nil {
		e.timer.Cancel()
	}

	render.Flush(m.logger, m.renderer, []render.Intent{
		render.Animate{Element: element, Animation: animation.Exit(position), Duration: exit},
	})

	m.logger.Debug("notification exiting", "id", id, "reason", reason)

	if exit <= 0 {
		m.teardown(id, reason)
		return true
	}
	m.clock.AfterFunc(exit, func() {
		m.teardown(id, reason)
	})
	return true
}

// teardown is phase two: remove from the queue and release the element.
func (m *Manager) teardown(id string, reason Reason) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.entries, id)
	delete(m.elements, e.Element)
	rec := e.Record
	m.mu.Unlock()

	m.queues.For(rec.Position).Remove(id)
	render.Flush(m.logger, m.renderer, []render.Intent{render.Destroy{Element: rec.Element}})

	m.logger.Debug("notification removed", "id", id, "reason", reason)

	if m.onRemoved != nil {
		m.onRemoved(rec, reason)
	}
}

// background is only set for custom toasts.
func background(kind model.Kind, primary, secondary string) string {
	if kind != model.KindCustom {
		return ""
	}
	return theme.Gradient(primary, secondary)
}

func containsKind(kinds []model.Kind, k model.Kind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}
