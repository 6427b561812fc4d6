package timer

import (
	"sync"
	"time"
)

// Timer tracks the remaining time of one dismissible item.
//
// The countdown can be paused and resumed any number of times; the remaining
// time is recomputed from the clock on every pause so that total
// elapsed-to-fire equals the original duration regardless of how long the
// pauses lasted. The completion callback runs at most once and never after
// Cancel.
type Timer struct {
	mu        sync.Mutex
	clock     Clock
	onFire    func()
	remaining time.Duration
	startedAt time.Time
	running   bool
	paused    bool
	fired     bool
	cancelled bool
	pending   Stopper
	gen       uint64
}

// New creates an idle Timer. onFire is invoked on its own goroutine (or the
// clock's) when the countdown reaches zero.
func New(clock Clock, onFire func()) *Timer {
	if clock == nil {
		clock = RealClock()
	}
	return &Timer{
		clock:  clock,
		onFire: onFire,
	}
}

// Start begins a countdown of d. Starting a timer that already fired or was
// cancelled is a no-op. A non-positive d fires immediately.
func (t *Timer) Start(d time.Duration) {
	t.mu.Lock()
	if t.fired || t.cancelled {
		t.mu.Unlock()
		return
	}
	t.stopPendingLocked()
	t.remaining = max(d, 0)
	t.paused = false
	if t.remaining == 0 {
		t.fireLocked()
		return
	}
	t.scheduleLocked()
	t.mu.Unlock()
}

// Pause freezes the countdown. Pausing a timer that is not running is a no-op,
// so a second Pause never subtracts elapsed time twice.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	elapsed := t.clock.Now().Sub(t.startedAt)
	t.remaining = max(t.remaining-elapsed, 0)
	t.stopPendingLocked()
	t.running = false
	t.startedAt = time.Time{}
	t.paused = true
}

// Resume restarts a paused countdown from its remaining time.
// If nothing remains the completion callback fires immediately.
func (t *Timer) Resume() {
	t.mu.Lock()
	if !t.paused || t.fired || t.cancelled {
		t.mu.Unlock()
		return
	}
	t.paused = false
	if t.remaining <= 0 {
		t.fireLocked()
		return
	}
	t.scheduleLocked()
	t.mu.Unlock()
}

// Cancel clears any pending expiry. It is safe to call in any state.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fired || t.cancelled {
		return
	}
	t.stopPendingLocked()
	t.cancelled = true
	t.running = false
	t.paused = false
	t.startedAt = time.Time{}
}

// Remaining returns the time left on the countdown.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return max(t.remaining-t.clock.Now().Sub(t.startedAt), 0)
	}
	return t.remaining
}

// Running reports whether a countdown is in progress.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Paused reports whether the countdown is paused.
func (t *Timer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Fired reports whether the completion callback has been invoked.
func (t *Timer) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

func (t *Timer) scheduleLocked() {
	t.gen++
	gen := t.gen
	t.running = true
	t.startedAt = t.clock.Now()
	t.pending = t.clock.AfterFunc(t.remaining, func() {
		t.expire(gen)
	})
}

func (t *Timer) stopPendingLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	// Invalidate callbacks that already left the clock.
	t.gen++
}

func (t *Timer) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.running || t.fired || t.cancelled {
		t.mu.Unlock()
		return
	}
	t.remaining = 0
	t.fireLocked()
}

// fireLocked marks the timer fired, releases the lock and runs the callback.
func (t *Timer) fireLocked() {
	t.fired = true
	t.running = false
	t.paused = false
	t.startedAt = time.Time{}
	t.pending = nil
	onFire := t.onFire
	t.mu.Unlock()

	if onFire != nil {
		onFire()
	}
}
