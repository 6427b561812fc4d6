package confirm

import (
	"sync"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/render"
)

// focusOrder is the circular keyboard order of dialog controls.
var focusOrder = []render.Control{render.ControlCancel, render.ControlConfirm, render.ControlClose}

const initialFocus = 1

// Handle is the open confirmation dialog.
type Handle struct {
	ctrl    *Controller
	req     Request
	element render.ElementID
	done    chan struct{}

	mu        sync.Mutex
	state     State
	loading   bool
	manual    bool
	focusIdx  int
	prevFocus render.FocusToken
}

// Request returns the canonical request the dialog was opened with.
func (h *Handle) Request() Request {
	if h == nil {
		return Request{}
	}
	return h.req
}

// Element returns the renderer element of the dialog.
func (h *Handle) Element() render.ElementID {
	if h == nil {
		return ""
	}
	return h.element
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	if h == nil {
		return StateIdle
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Loading reports whether the dialog is in the loading state.
func (h *Handle) Loading() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

// ManualLoading reports whether the caller has taken control of loading.
func (h *Handle) ManualLoading() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.manual
}

// Open reports whether the dialog is still showing and accepting input.
func (h *Handle) Open() bool {
	s := h.State()
	return s == StateOpen || s == StateConfirming || s == StateCancelling
}

// Done is closed when the dialog closes.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return h.done
}

// FocusedControl returns the control that currently holds focus.
func (h *Handle) FocusedControl() render.Control {
	if h == nil {
		return ""
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return focusOrder[h.focusIdx]
}

// SetLoading turns the loading state on or off. Calling it at any time hands
// auto-close decisions to the caller for the rest of the dialog's life.
// Setting the current value again has no visible effect.
func (h *Handle) SetLoading(loading bool) {
	if h == nil {
		return
	}
	h.mu.Lock()
	if !h.openLocked() {
		h.mu.Unlock()
		return
	}
	h.manual = true
	in, changed := h.setLoadingLocked(loading)
	h.mu.Unlock()

	if changed {
		render.Flush(h.ctrl.logger, h.ctrl.renderer, []render.Intent{in})
	}
}

// Close closes the dialog immediately without invoking any handler.
func (h *Handle) Close() {
	h.close(OutcomeClosed)
}

// Confirm activates the confirm control. It is ignored while loading.
func (h *Handle) Confirm() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.state != StateOpen || h.loading {
		h.mu.Unlock()
		return
	}
	h.state = StateConfirming
	h.mu.Unlock()

	logger := h.ctrl.logger
	aw, err := h.invokeConfirm()
	if err != nil {
		logger.Error("confirm handler failed", "error", err)
		h.fail()
		return
	}

	if aw == nil {
		h.mu.Lock()
		manual := h.manual
		if manual && h.state == StateConfirming {
			h.state = StateOpen
		}
		h.mu.Unlock()
		if !manual {
			h.close(OutcomeConfirmed)
		}
		return
	}

	h.mu.Lock()
	var (
		in      render.Intent
		changed bool
	)
	if !h.manual && h.state == StateConfirming {
		in, changed = h.setLoadingLocked(true)
	}
	h.mu.Unlock()
	if changed {
		render.Flush(logger, h.ctrl.renderer, []render.Intent{in})
	}

	go h.await(aw)
}

// Cancel activates the cancel control. It is ignored while loading.
// A dialog whose caller controls loading can be cancelled while its confirm
// handler is still pending, once the caller has turned loading off.
// The cancel handler runs synchronously and its failure never blocks closing.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if !h.cancellableLocked() {
		h.mu.Unlock()
		return
	}
	h.state = StateCancelling
	h.mu.Unlock()

	if err := h.invokeCancel(); err != nil {
		h.ctrl.logger.Warn("cancel handler failed", "error", err)
	}
	h.close(OutcomeCancelled)
}

func (h *Handle) cancellableLocked() bool {
	if h.loading {
		return false
	}
	return h.state == StateOpen || (h.state == StateConfirming && h.manual)
}

// FocusNext moves focus to the next control, or the previous one when
// reverse is set, wrapping around.
func (h *Handle) FocusNext(reverse bool) render.Control {
	if h == nil {
		return ""
	}
	h.mu.Lock()
	if !h.openLocked() {
		h.mu.Unlock()
		return ""
	}
	step := 1
	if reverse {
		step = len(focusOrder) - 1
	}
	h.focusIdx = (h.focusIdx + step) % len(focusOrder)
	control := focusOrder[h.focusIdx]
	h.mu.Unlock()

	render.Flush(h.ctrl.logger, h.ctrl.renderer, []render.Intent{
		render.Focus{Element: h.element, Control: control},
	})
	return control
}

func (h *Handle) await(aw Awaitable) {
	var err error
	select {
	case err = <-aw:
	case <-h.done:
		return
	}

	if err != nil {
		h.ctrl.logger.Error("confirm handler rejected", "error", err)
		h.fail()
		return
	}

	h.mu.Lock()
	manual := h.manual
	if manual && h.state == StateConfirming {
		h.state = StateOpen
	}
	h.mu.Unlock()
	if !manual {
		h.close(OutcomeConfirmed)
	}
}

// fail forces loading off and closes the dialog.
func (h *Handle) fail() {
	h.mu.Lock()
	h.loading = false
	h.mu.Unlock()
	h.close(OutcomeFailed)
}

func (h *Handle) attention() {
	if !h.Open() {
		return
	}
	timing := h.ctrl.currentTiming()
	render.Flush(h.ctrl.logger, h.ctrl.renderer, []render.Intent{
		render.Animate{Element: h.element, Animation: animation.Attention(), Duration: timing.Attention},
	})
}

// close releases the registry slot at once, plays the exit animation and,
// once it has settled, destroys the element and restores focus.
func (h *Handle) close(outcome Outcome) {
	if h == nil {
		return
	}
	h.mu.Lock()
	if !h.openLocked() {
		h.mu.Unlock()
		return
	}
	h.state = StateClosed
	h.loading = false
	prev := h.prevFocus
	close(h.done)
	h.mu.Unlock()

	c := h.ctrl
	c.registry.release(h)

	timing := c.currentTiming()
	render.Flush(c.logger, c.renderer, []render.Intent{
		render.Animate{Element: h.element, Animation: animation.Exit(h.req.Position), Duration: timing.Exit},
	})

	c.logger.Debug("confirmation closed", "element", h.element, "outcome", outcome)

	settle := func() {
		render.Flush(c.logger, c.renderer, []render.Intent{
			render.Destroy{Element: h.element},
			render.RestoreFocus{Token: prev},
		})
		h.mu.Lock()
		h.state = StateIdle
		h.mu.Unlock()
	}
	if timing.Exit <= 0 {
		settle()
	} else {
		c.clock.AfterFunc(timing.Exit, settle)
	}

	if c.onClosed != nil {
		c.onClosed(h.req, outcome)
	}
}

func (h *Handle) openLocked() bool {
	return h.state == StateOpen || h.state == StateConfirming || h.state == StateCancelling
}

func (h *Handle) setLoadingLocked(loading bool) (render.Intent, bool) {
	if h.loading == loading {
		return nil, false
	}
	h.loading = loading
	in := render.UpdateDialog{Element: h.element, Loading: loading}
	if loading {
		in.Disabled = loadingDisabled()
	}
	return in, true
}
