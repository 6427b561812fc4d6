// Package timertest provides a manually advanced timer.Clock for tests.
package timertest

import (
	"sort"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/timer"
)

// Clock is a timer.Clock whose time only moves when Advance is called.
// Callbacks due at or before the new time run synchronously inside Advance,
// in deadline order.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	waiters []*waiter
}

type waiter struct {
	clock   *Clock
	at      time.Time
	seq     int
	fn      func()
	stopped bool
}

// NewClock returns a Clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *Clock) AfterFunc(d time.Duration, f func()) timer.Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	w := &waiter{clock: c, at: c.now.Add(d), seq: c.seq, fn: f}
	c.waiters = append(c.waiters, w)
	return w
}

// Advance moves the clock forward by d, running every callback that becomes due.
// Callbacks scheduled by other callbacks also run if they fall within d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.stopped = true
		c.removeLocked(next)
		c.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of scheduled callbacks that have not run or been stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *Clock) nextDueLocked(target time.Time) *waiter {
	sort.SliceStable(c.waiters, func(i, j int) bool {
		if c.waiters[i].at.Equal(c.waiters[j].at) {
			return c.waiters[i].seq < c.waiters[j].seq
		}
		return c.waiters[i].at.Before(c.waiters[j].at)
	})
	if len(c.waiters) == 0 || c.waiters[0].at.After(target) {
		return nil
	}
	return c.waiters[0]
}

func (c *Clock) removeLocked(w *waiter) {
	for i, cand := range c.waiters {
		if cand == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

// Stop implements timer.Stopper.
func (w *waiter) Stop() bool {
	c := w.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if w.stopped {
		return false
	}
	w.stopped = true
	c.removeLocked(w)
	return true
}
