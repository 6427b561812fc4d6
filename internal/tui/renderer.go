package tui

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastui/internal/render"
)

// ErrStopped is returned by Render after Stop.
var ErrStopped = errors.New("tui renderer stopped")

// mainFocus is the focus token of the toast list.
const mainFocus render.FocusToken = "main"

// intentsMsg carries the intents queued since the last delivery.
type intentsMsg []render.Intent

// Renderer queues intents for the Bubble Tea model. Render never blocks, so
// controllers may be called from the model's Update without deadlocking.
type Renderer struct {
	mu      sync.Mutex
	pending []render.Intent
	focused render.FocusToken
	stopped bool

	notify chan struct{}
	done   chan struct{}
}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		focused: mainFocus,
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Render queues in.
func (r *Renderer) Render(in render.Intent) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	r.pending = append(r.pending, in)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
	return nil
}

// Focused returns the element holding focus in the model.
func (r *Renderer) Focused() render.FocusToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused
}

func (r *Renderer) setFocused(tok render.FocusToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused = tok
}

// Stop rejects further intents and releases a waiting model.
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.done)
}

func (r *Renderer) drain() []render.Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// wait blocks until intents are queued and delivers them as one message.
func (r *Renderer) wait() tea.Msg {
	for {
		if out := r.drain(); len(out) > 0 {
			return intentsMsg(out)
		}
		select {
		case <-r.notify:
		case <-r.done:
			return nil
		}
	}
}
