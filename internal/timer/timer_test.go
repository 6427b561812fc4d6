package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jmylchreest/toastui/internal/timer"
	"github.com/jmylchreest/toastui/internal/timer/timertest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTimer(t *testing.T) (*timer.Timer, *timertest.Clock, *atomic.Int32) {
	t.Helper()
	clock := timertest.NewClock()
	var fired atomic.Int32
	tm := timer.New(clock, func() { fired.Add(1) })
	return tm, clock, &fired
}

func TestTimer_FiresOnce(t *testing.T) {
	tm, clock, fired := newTimer(t)

	tm.Start(time.Second)
	assert.True(t, tm.Running())

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, time.Millisecond, tm.Remaining())

	clock.Advance(time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
	assert.True(t, tm.Fired())
	assert.False(t, tm.Running())

	clock.Advance(time.Hour)
	tm.Cancel()
	assert.Equal(t, int32(1), fired.Load())
}

func TestTimer_PauseResumePreservesRemaining(t *testing.T) {
	tests := []struct {
		name        string
		beforePause time.Duration
		pauseFor    time.Duration
	}{
		{"short pause", 300 * time.Millisecond, 10 * time.Millisecond},
		{"long pause", 300 * time.Millisecond, time.Hour},
		{"immediate pause", 0, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, clock, fired := newTimer(t)
			tm.Start(time.Second)

			clock.Advance(tt.beforePause)
			tm.Pause()
			require.True(t, tm.Paused())
			assert.False(t, tm.Running())

			clock.Advance(tt.pauseFor)
			assert.Equal(t, int32(0), fired.Load())

			tm.Resume()
			assert.Equal(t, time.Second-tt.beforePause, tm.Remaining())

			clock.Advance(time.Second - tt.beforePause - time.Millisecond)
			assert.Equal(t, int32(0), fired.Load())
			clock.Advance(time.Millisecond)
			assert.Equal(t, int32(1), fired.Load())
		})
	}
}

func TestTimer_DoublePauseDoesNotDoubleSubtract(t *testing.T) {
	tm, clock, _ := newTimer(t)
	tm.Start(time.Second)

	clock.Advance(400 * time.Millisecond)
	tm.Pause()
	clock.Advance(400 * time.Millisecond)
	tm.Pause()

	assert.Equal(t, 600*time.Millisecond, tm.Remaining())
}

func TestTimer_ResumeWhileRunningIsNoop(t *testing.T) {
	tm, clock, fired := newTimer(t)
	tm.Start(time.Second)

	clock.Advance(500 * time.Millisecond)
	tm.Resume()
	clock.Advance(500 * time.Millisecond)

	assert.Equal(t, int32(1), fired.Load())
}

// stalledClock never delivers callbacks, simulating an expiry that is still
// queued when the countdown is paused.
type stalledClock struct {
	now time.Time
}

type noopStopper struct{}

func (noopStopper) Stop() bool { return true }

func (c *stalledClock) Now() time.Time { return c.now }

func (c *stalledClock) AfterFunc(time.Duration, func()) timer.Stopper { return noopStopper{} }

func TestTimer_ResumeWithNothingRemainingFiresImmediately(t *testing.T) {
	clock := &stalledClock{now: time.Unix(0, 0)}
	var fired atomic.Int32
	tm := timer.New(clock, func() { fired.Add(1) })

	tm.Start(time.Second)
	clock.now = clock.now.Add(2 * time.Second)
	tm.Pause()
	assert.Equal(t, time.Duration(0), tm.Remaining())
	assert.Equal(t, int32(0), fired.Load())

	tm.Resume()
	assert.Equal(t, int32(1), fired.Load())
	assert.True(t, tm.Fired())
}

func TestTimer_CancelPreventsFire(t *testing.T) {
	tm, clock, fired := newTimer(t)
	tm.Start(time.Second)
	clock.Advance(500 * time.Millisecond)

	tm.Cancel()
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(time.Hour)
	assert.Equal(t, int32(0), fired.Load())
	assert.False(t, tm.Running())

	tm.Start(time.Second)
	assert.False(t, tm.Running(), "a cancelled timer cannot be restarted")
}

func TestTimer_CancelWhilePaused(t *testing.T) {
	tm, clock, fired := newTimer(t)
	tm.Start(time.Second)
	tm.Pause()
	tm.Cancel()
	tm.Resume()

	clock.Advance(time.Hour)
	assert.Equal(t, int32(0), fired.Load())
	assert.False(t, tm.Paused())
}

func TestTimer_ZeroDurationFiresImmediately(t *testing.T) {
	tm, _, fired := newTimer(t)
	tm.Start(0)

	assert.Equal(t, int32(1), fired.Load())
	assert.True(t, tm.Fired())
}

func TestTimer_RealClockPauseResume(t *testing.T) {
	const tolerance = 25 * time.Millisecond

	done := make(chan time.Time, 1)
	tm := timer.New(timer.RealClock(), func() { done <- time.Now() })

	start := time.Now()
	tm.Start(100 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	tm.Pause()
	pausedAt := time.Now()
	time.Sleep(50 * time.Millisecond)
	tm.Resume()
	pausedFor := time.Since(pausedAt)

	assert.InDelta(t, float64(70*time.Millisecond), float64(tm.Remaining()), float64(tolerance))

	select {
	case at := <-done:
		active := at.Sub(start) - pausedFor
		assert.InDelta(t, float64(100*time.Millisecond), float64(active), float64(tolerance))
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
