package render

import (
	"sync"
)

// Recorder is a headless Renderer that keeps every intent it receives.
type Recorder struct {
	mu      sync.Mutex
	intents []Intent
	focus   FocusToken

	// Fail, when set, is consulted before recording; a non-nil error is
	// returned to the caller and the intent is not recorded.
	Fail func(Intent) error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Render implements Renderer.
func (r *Recorder) Render(in Intent) error {
	r.mu.Lock()
	fail := r.Fail
	r.mu.Unlock()

	if fail != nil {
		if err := fail(in); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, in)
	if f, ok := in.(Focus); ok {
		r.focus = FocusToken(string(f.Element) + "/" + string(f.Control))
	}
	if rf, ok := in.(RestoreFocus); ok {
		r.focus = rf.Token
	}
	return nil
}

// Focused implements Renderer.
func (r *Recorder) Focused() FocusToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focus
}

// SetFocused sets the token returned by Focused.
func (r *Recorder) SetFocused(tok FocusToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focus = tok
}

// SetFail replaces the failure hook.
func (r *Recorder) SetFail(fail func(Intent) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Fail = fail
}

// Intents returns a copy of everything recorded so far.
func (r *Recorder) Intents() []Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Intent, len(r.intents))
	copy(out, r.intents)
	return out
}

// For returns the recorded intents targeting element.
func (r *Recorder) For(element ElementID) []Intent {
	var out []Intent
	for _, in := range r.Intents() {
		if in.Target() == element {
			out = append(out, in)
		}
	}
	return out
}

// Reset drops all recorded intents.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = nil
}

// OfType filters intents down to those of type T.
func OfType[T Intent](intents []Intent) []T {
	var out []T
	for _, in := range intents {
		if v, ok := in.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
