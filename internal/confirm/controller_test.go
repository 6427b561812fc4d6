package confirm

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/timer/timertest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	c        *Controller
	rec      *render.Recorder
	clock    *timertest.Clock
	registry *Registry

	mu       sync.Mutex
	outcomes []Outcome
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		rec:      render.NewRecorder(),
		clock:    timertest.NewClock(),
		registry: NewRegistry(),
	}
	f.rec.SetFocused("editor")
	f.c = f.controller(t, f.rec)
	return f
}

func (f *fixture) controller(t *testing.T, r render.Renderer) *Controller {
	t.Helper()
	c, err := New(r,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRegistry(f.registry),
		WithClock(f.clock),
		OnClosed(func(_ Request, o Outcome) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.outcomes = append(f.outcomes, o)
		}),
	)
	require.NoError(t, err)
	return c
}

func (f *fixture) closedWith() []Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Outcome(nil), f.outcomes...)
}

func waitClosed(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("dialog did not close")
	}
}

func TestNew_NilRenderer(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, render.ErrNoRenderer)
}

func TestOpen_EmitsDialogIntents(t *testing.T) {
	f := newFixture(t)

	h := f.c.Confirm("Delete file?", "This cannot be undone")
	require.NotNil(t, h)
	assert.Equal(t, StateOpen, h.State())
	assert.Same(t, h, f.registry.Active())

	intents := f.rec.For(h.Element())
	require.Len(t, intents, 3)

	create := intents[0].(render.CreateDialog)
	assert.Equal(t, "Delete file?", create.Message)
	assert.Equal(t, "This cannot be undone", create.Description)
	assert.Equal(t, "Confirm", create.ConfirmLabel)
	assert.Equal(t, "Cancel", create.CancelLabel)
	assert.Equal(t, model.ThemeDark, create.Theme)
	assert.Equal(t, config.PositionCenter, create.Position)
	assert.Equal(t, "confirm-dark", create.Variant)

	assert.Equal(t, animation.ScaleIn, intents[1].(render.Animate).Animation)
	assert.Equal(t, render.Focus{Element: h.Element(), Control: render.ControlConfirm}, intents[2])
	assert.Equal(t, render.ControlConfirm, h.FocusedControl())
}

func TestOpen_EmptyMessageRejected(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.c.Confirm("  "))
	assert.Nil(t, f.registry.Active())
	assert.Empty(t, f.rec.Intents())
}

func TestOpen_BlankRequestWhileOpenPlaysAttention(t *testing.T) {
	f := newFixture(t)
	first := f.c.Confirm("First?")
	require.NotNil(t, first)

	for _, msg := range []any{"", "   ", nil} {
		assert.Same(t, first, f.c.Confirm(msg))
	}

	shakes := 0
	for _, a := range render.OfType[render.Animate](f.rec.For(first.Element())) {
		if a.Animation == animation.Attention() {
			shakes++
		}
	}
	assert.Equal(t, 3, shakes)
	assert.Len(t, render.OfType[render.CreateDialog](f.rec.Intents()), 1)
}

func TestOpen_SingleFlight(t *testing.T) {
	f := newFixture(t)
	otherRec := render.NewRecorder()
	other := f.controller(t, otherRec)

	first := f.c.Confirm("First?")
	second := f.c.Confirm("Second?")
	third := other.Confirm("Third?")

	assert.Same(t, first, second)
	assert.Same(t, first, third)
	assert.Equal(t, "First?", third.Request().Message)

	assert.Len(t, render.OfType[render.CreateDialog](f.rec.Intents()), 1)
	assert.Empty(t, render.OfType[render.CreateDialog](otherRec.Intents()))

	shakes := 0
	for _, a := range render.OfType[render.Animate](f.rec.Intents()) {
		if a.Animation == animation.Shake {
			shakes++
			assert.Equal(t, 400*time.Millisecond, a.Duration)
		}
	}
	assert.Equal(t, 2, shakes, "attention plays on the dialog's own renderer")
}

func TestOpen_ConcurrentRequests(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	handles := make([]*Handle, 20)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = f.c.Confirm("Race?")
		}(i)
	}
	wg.Wait()

	assert.Len(t, render.OfType[render.CreateDialog](f.rec.Intents()), 1)
	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
}

func TestOpen_RendererFailure(t *testing.T) {
	f := newFixture(t)
	f.rec.SetFail(func(in render.Intent) error {
		if _, ok := in.(render.CreateDialog); ok {
			return errors.New("no display")
		}
		return nil
	})

	assert.Nil(t, f.c.Confirm("Anyone?"))
	assert.Nil(t, f.registry.Active(), "the slot must be released")

	f.rec.SetFail(nil)
	assert.NotNil(t, f.c.Confirm("Now?"))
}

func TestConfirm_SyncHandlerCloses(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32

	h := f.c.Confirm("Proceed?", Options{
		OnConfirm: func(*Handle) (Awaitable, error) {
			calls.Add(1)
			return nil, nil
		},
	})
	h.Confirm()
	h.Confirm()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateClosed, h.State())
	assert.False(t, h.Loading())
	assert.Nil(t, f.registry.Active(), "slot is released before the exit animation finishes")
	assert.Equal(t, []Outcome{OutcomeConfirmed}, f.closedWith())

	assert.Empty(t, render.OfType[render.Destroy](f.rec.Intents()))
	f.clock.Advance(300 * time.Millisecond)

	destroys := render.OfType[render.Destroy](f.rec.Intents())
	require.Len(t, destroys, 1)
	restores := render.OfType[render.RestoreFocus](f.rec.Intents())
	require.Len(t, restores, 1)
	assert.Equal(t, render.FocusToken("editor"), restores[0].Token)
	assert.Equal(t, StateIdle, h.State())
}

func TestConfirm_AwaitableEnablesLoading(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})

	h := f.c.Confirm("Proceed?", Options{
		OnConfirm: func(*Handle) (Awaitable, error) {
			return Async(func() error {
				<-release
				return nil
			}), nil
		},
	})
	h.Confirm()

	assert.True(t, h.Loading())
	assert.False(t, h.ManualLoading())
	assert.Equal(t, StateConfirming, h.State())

	updates := render.OfType[render.UpdateDialog](f.rec.Intents())
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Loading)
	assert.ElementsMatch(t, []render.Control{render.ControlCancel, render.ControlClose}, updates[0].Disabled)

	h.Cancel()
	assert.True(t, h.Open(), "cancel is blocked while loading")

	close(release)
	waitClosed(t, h)
	assert.False(t, h.Loading())
	assert.Equal(t, []Outcome{OutcomeConfirmed}, f.closedWith())
}

func TestConfirm_SleepingHandler(t *testing.T) {
	f := newFixture(t)

	h := f.c.Confirm("Proceed?", Options{
		OnConfirm: func(*Handle) (Awaitable, error) {
			return Async(func() error {
				time.Sleep(50 * time.Millisecond)
				return nil
			}), nil
		},
	})
	start := time.Now()
	h.Confirm()
	assert.True(t, h.Loading())

	waitClosed(t, h)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.False(t, h.Loading())
	assert.Equal(t, StateClosed, h.State())
}

func TestConfirm_FailuresForceClose(t *testing.T) {
	tests := []struct {
		name    string
		handler ConfirmFunc
	}{
		{"rejected awaitable", func(*Handle) (Awaitable, error) {
			return Async(func() error { return errors.New("server said no") }), nil
		}},
		{"panicking awaitable", func(*Handle) (Awaitable, error) {
			return Async(func() error { panic("boom") }), nil
		}},
		{"returned error", func(*Handle) (Awaitable, error) {
			return nil, errors.New("invalid")
		}},
		{"panic", func(*Handle) (Awaitable, error) {
			panic("handler bug")
		}},
		{"manual loading then rejection", func(h *Handle) (Awaitable, error) {
			h.SetLoading(true)
			return Resolved(errors.New("late failure")), nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			h := f.c.Confirm("Proceed?", Options{OnConfirm: tt.handler})
			require.NotPanics(t, h.Confirm)

			waitClosed(t, h)
			assert.False(t, h.Loading())
			assert.Equal(t, StateClosed, h.State())
			assert.Nil(t, f.registry.Active())
			assert.Equal(t, []Outcome{OutcomeFailed}, f.closedWith())
		})
	}
}

func TestConfirm_ManualLoadingSync(t *testing.T) {
	f := newFixture(t)

	h := f.c.Confirm("Upload?", Options{
		OnConfirm: func(h *Handle) (Awaitable, error) {
			h.SetLoading(true)
			h.SetLoading(true)
			return nil, nil
		},
	})
	h.Confirm()

	assert.True(t, h.Open(), "manual loading defers closing to the caller")
	assert.True(t, h.Loading())
	assert.True(t, h.ManualLoading())
	assert.Len(t, render.OfType[render.UpdateDialog](f.rec.Intents()), 1, "repeated SetLoading is idempotent")

	h.SetLoading(false)
	assert.False(t, h.Loading())
	assert.True(t, h.Open())

	h.Close()
	assert.Equal(t, StateClosed, h.State())
	assert.Equal(t, []Outcome{OutcomeClosed}, f.closedWith())
}

func TestConfirm_ManualLoadingAwaitableStaysOpen(t *testing.T) {
	f := newFixture(t)

	h := f.c.Confirm("Upload?", Options{
		OnConfirm: func(h *Handle) (Awaitable, error) {
			h.SetLoading(true)
			return Resolved(nil), nil
		},
	})
	h.Confirm()

	require.Eventually(t, func() bool { return h.State() == StateOpen }, time.Second, 5*time.Millisecond)
	assert.True(t, h.Loading())

	h.SetLoading(false)
	h.Cancel()
	assert.Equal(t, StateClosed, h.State())
	assert.Equal(t, []Outcome{OutcomeCancelled}, f.closedWith())
}

func TestCancel_ManualLoadingOffWhilePending(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	defer close(release)

	var cancelled atomic.Bool
	h := f.c.Confirm("Upload?", Options{
		OnConfirm: func(h *Handle) (Awaitable, error) {
			h.SetLoading(true)
			return Async(func() error {
				<-release
				return nil
			}), nil
		},
		OnCancel: func(*Handle) error {
			cancelled.Store(true)
			return nil
		},
	})
	h.Confirm()
	require.Equal(t, StateConfirming, h.State())

	h.Cancel()
	assert.Equal(t, StateConfirming, h.State(), "cancel is ignored while loading")

	h.SetLoading(false)
	h.Cancel()
	assert.True(t, cancelled.Load())
	assert.Equal(t, StateClosed, h.State())
	assert.Equal(t, []Outcome{OutcomeCancelled}, f.closedWith())
}

func TestConfirm_CallerClosesDuringAwait(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	defer close(release)

	h := f.c.Confirm("Proceed?", Options{
		OnConfirm: func(*Handle) (Awaitable, error) {
			return Async(func() error {
				<-release
				return nil
			}), nil
		},
	})
	h.Confirm()
	h.Close()

	assert.Equal(t, StateClosed, h.State())
	assert.Equal(t, []Outcome{OutcomeClosed}, f.closedWith())
}

func TestCancel(t *testing.T) {
	t.Run("split handler", func(t *testing.T) {
		f := newFixture(t)
		var cancelled atomic.Bool
		h := f.c.Confirm("Leave?", Options{
			OnCancel: func(*Handle) error {
				cancelled.Store(true)
				return nil
			},
		})
		h.Cancel()
		assert.True(t, cancelled.Load())
		assert.Equal(t, []Outcome{OutcomeCancelled}, f.closedWith())
	})

	t.Run("failing handler still closes", func(t *testing.T) {
		f := newFixture(t)
		h := f.c.Confirm("Leave?", Options{
			OnCancel: func(*Handle) error { return errors.New("cleanup failed") },
		})
		h.Cancel()
		assert.Equal(t, StateClosed, h.State())
	})

	t.Run("panicking handler still closes", func(t *testing.T) {
		f := newFixture(t)
		h := f.c.Confirm("Leave?", Options{
			OnCancel: func(*Handle) error { panic("oops") },
		})
		require.NotPanics(t, h.Cancel)
		assert.Equal(t, StateClosed, h.State())
	})

	t.Run("no handler", func(t *testing.T) {
		f := newFixture(t)
		h := f.c.Confirm("Leave?")
		h.Cancel()
		assert.Equal(t, StateClosed, h.State())
	})
}

func TestUnifiedCallback(t *testing.T) {
	for _, confirmed := range []bool{true, false} {
		f := newFixture(t)
		var got []bool
		h := f.c.Confirm("Sure?", func(ok bool) { got = append(got, ok) })
		if confirmed {
			h.Confirm()
		} else {
			h.Cancel()
		}
		assert.Equal(t, []bool{confirmed}, got)
		assert.Equal(t, StateClosed, h.State())
	}
}

func TestInitialLoading(t *testing.T) {
	f := newFixture(t)
	h := f.c.Confirm("Working...", Options{InitialLoading: true})

	assert.True(t, h.Loading())
	assert.True(t, h.ManualLoading())
	assert.True(t, render.OfType[render.CreateDialog](f.rec.Intents())[0].Loading)

	h.Cancel()
	h.Confirm()
	assert.True(t, h.Open())

	h.Close()
	assert.False(t, h.Open())
}

func TestFocusNext(t *testing.T) {
	f := newFixture(t)
	h := f.c.Confirm("Tab?")

	assert.Equal(t, render.ControlClose, h.FocusNext(false))
	assert.Equal(t, render.ControlCancel, h.FocusNext(false))
	assert.Equal(t, render.ControlConfirm, h.FocusNext(false))
	assert.Equal(t, render.ControlCancel, h.FocusNext(true))
	assert.Equal(t, render.ControlClose, h.FocusNext(true))
	assert.Equal(t, render.FocusToken(string(h.Element())+"/close"), f.rec.Focused())

	h.Close()
	assert.Equal(t, render.Control(""), h.FocusNext(false))
}

func TestActivate(t *testing.T) {
	f := newFixture(t)
	var confirmed atomic.Bool
	h := f.c.Confirm("Click?", Options{
		OnConfirm: func(*Handle) (Awaitable, error) {
			confirmed.Store(true)
			return nil, nil
		},
	})

	assert.False(t, f.c.Activate("confirm-other", render.ControlConfirm))
	assert.True(t, f.c.Activate(h.Element(), render.ControlConfirm))
	assert.True(t, confirmed.Load())

	h2 := f.c.Confirm("Close?")
	assert.True(t, f.c.Activate(h2.Element(), render.ControlClose))
	assert.Equal(t, []Outcome{OutcomeConfirmed, OutcomeCancelled}, f.closedWith())
}

func TestClose_Idempotent(t *testing.T) {
	f := newFixture(t)
	h := f.c.Confirm("Close twice?")
	h.Close()
	h.Close()
	h.Cancel()

	assert.Equal(t, []Outcome{OutcomeClosed}, f.closedWith())
	f.clock.Advance(time.Second)
	assert.Len(t, render.OfType[render.Destroy](f.rec.Intents()), 1)
}

func TestNilHandle(t *testing.T) {
	var h *Handle
	assert.NotPanics(t, func() {
		h.Confirm()
		h.Cancel()
		h.Close()
		h.SetLoading(true)
		h.FocusNext(false)
		<-h.Done()
	})
	assert.Equal(t, StateIdle, h.State())
	assert.False(t, h.Open())
}

func TestRegistry_ReleaseOnlyActive(t *testing.T) {
	f := newFixture(t)
	h := f.c.Confirm("Stuck?")

	assert.False(t, f.registry.release(&Handle{}), "a stale handle must not free the slot")
	assert.Same(t, h, f.registry.Active())
	assert.True(t, f.registry.release(h))
	assert.Nil(t, f.registry.Active())
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestParse(t *testing.T) {
	noop := func(bool) {}
	onConfirm := func(*Handle) (Awaitable, error) { return nil, nil }
	var nilBuilder *strings.Builder

	tests := []struct {
		name        string
		message     any
		args        []any
		wantMessage string
		wantDesc    string
		wantResult  string // "", "unified" or "split"
		wantErr     bool
	}{
		{name: "message only", message: "Sure?", wantMessage: "Sure?"},
		{name: "message and callback", message: "Sure?", args: []any{noop}, wantMessage: "Sure?", wantResult: "unified"},
		{
			name: "message description callback", message: "Sure?",
			args:        []any{"really", noop},
			wantMessage: "Sure?", wantDesc: "really", wantResult: "unified",
		},
		{
			name: "options description beats positional", message: "Sure?",
			args:        []any{"positional", Options{Description: "from options"}},
			wantMessage: "Sure?", wantDesc: "from options",
		},
		{
			name: "options before positional still win", message: "Sure?",
			args:        []any{&Options{Description: "from options"}, "positional"},
			wantMessage: "Sure?", wantDesc: "from options",
		},
		{
			name: "split handlers suppress unified callback", message: "Sure?",
			args:        []any{Options{OnConfirm: onConfirm}, noop},
			wantMessage: "Sure?", wantResult: "split",
		},
		{
			name: "options callback is unified", message: "Sure?",
			args:        []any{Options{Callback: func(bool, *Handle) (Awaitable, error) { return nil, nil }}},
			wantMessage: "Sure?", wantResult: "unified",
		},
		{
			name: "bare confirm func is split", message: "Sure?",
			args:        []any{onConfirm},
			wantMessage: "Sure?", wantResult: "split",
		},
		{name: "error message is coerced", message: errors.New("disk full"), wantMessage: "disk full"},
		{name: "nil stringer message is blank", message: nilBuilder},
		{name: "nil stringer description is blank", message: "Sure?", args: []any{nilBuilder}, wantMessage: "Sure?"},
		{name: "nil options are skipped", message: "Sure?", args: []any{nil, (*Options)(nil)}, wantMessage: "Sure?"},
		{name: "unsupported argument is reported", message: "Sure?", args: []any{42}, wantMessage: "Sure?", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				b   *RequestBuilder
				err error
			)
			require.NotPanics(t, func() { b, err = Parse(tt.message, tt.args...) })
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			req, err := b.Build(DefaultsFrom(config.ConfirmConfig{}))
			require.NoError(t, err)
			assert.Equal(t, tt.wantMessage, req.Message)
			assert.Equal(t, tt.wantDesc, req.Description)

			switch tt.wantResult {
			case "":
				assert.Nil(t, req.Result)
			case "unified":
				assert.IsType(t, Unified{}, req.Result)
			case "split":
				assert.IsType(t, Split{}, req.Result)
			}
		})
	}
}

func TestBuild_ReportsReplacedValues(t *testing.T) {
	d := DefaultsFrom(config.ConfirmConfig{})

	tests := []struct {
		name         string
		builder      *RequestBuilder
		wantTheme    model.Theme
		wantPosition config.Position
		wantErr      string
	}{
		{
			name:         "known values",
			builder:      NewRequest("m").Theme("Light").Position("top-left"),
			wantTheme:    model.ThemeLight,
			wantPosition: config.PositionTopLeft,
		},
		{
			name:         "unknown theme",
			builder:      NewRequest("m").Theme("neon"),
			wantTheme:    model.ThemeDark,
			wantPosition: config.PositionCenter,
			wantErr:      `unknown theme "neon"`,
		},
		{
			name:         "unknown position",
			builder:      NewRequest("m").Position("middle-earth"),
			wantTheme:    model.ThemeDark,
			wantPosition: config.PositionCenter,
			wantErr:      `unknown position "middle-earth"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.builder.Build(d)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantTheme, req.Theme)
			assert.Equal(t, tt.wantPosition, req.Position)
			assert.Equal(t, config.DefaultConfirmLabel, req.ConfirmLabel)
		})
	}
}

func TestOpen_NilStringerMessageDoesNotPanic(t *testing.T) {
	f := newFixture(t)
	var sb *strings.Builder

	assert.NotPanics(t, func() {
		assert.Nil(t, f.c.Confirm(sb))
		h := f.c.Confirm("Sure?", sb)
		require.NotNil(t, h)
		assert.Empty(t, h.Request().Description)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "confirming", StateConfirming.String())
	assert.Equal(t, "cancelling", StateCancelling.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
