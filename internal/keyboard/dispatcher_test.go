package keyboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/confirm"
	"github.com/jmylchreest/toastui/internal/queue"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/timer/timertest"
	"github.com/jmylchreest/toastui/internal/toast"
)

var (
	escape   = render.KeyEvent{Key: render.KeyEscape}
	tab      = render.KeyEvent{Key: render.KeyTab}
	shiftTab = render.KeyEvent{Key: render.KeyTab, Shift: true}
)

type fixture struct {
	d      *Dispatcher
	toasts *toast.Manager
	dialog *confirm.Controller
	clock  *timertest.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rec := render.NewRecorder()
	clock := timertest.NewClock()
	registry := confirm.NewRegistry()
	set := queue.NewSet()

	toasts, err := toast.New(rec, toast.WithQueues(set), toast.WithClock(clock))
	require.NoError(t, err)
	dialog, err := confirm.New(rec, confirm.WithRegistry(registry), confirm.WithClock(clock))
	require.NoError(t, err)

	return &fixture{
		d:      New(registry, set, nil),
		toasts: toasts,
		dialog: dialog,
		clock:  clock,
	}
}

func TestEscape_DismissesMostRecentToast(t *testing.T) {
	f := newFixture(t)

	older := f.toasts.Info("older", toast.WithPosition("bottom-left"))
	newer := f.toasts.Info("newer", toast.WithPosition("top-right"))

	assert.True(t, f.d.Key(escape))
	assert.True(t, older.Active())
	assert.False(t, newer.Active())

	assert.True(t, f.d.Key(escape))
	assert.False(t, older.Active())

	assert.False(t, f.d.Key(escape), "nothing left to dismiss")
}

func TestEscape_ConfirmationTakesPriority(t *testing.T) {
	f := newFixture(t)
	n := f.toasts.Info("behind the dialog")
	h := f.dialog.Confirm("Quit?")

	assert.True(t, f.d.Key(escape))
	assert.Equal(t, confirm.StateClosed, h.State())
	assert.True(t, n.Active())
}

func TestEscape_LoadingConfirmationFallsThrough(t *testing.T) {
	f := newFixture(t)
	n := f.toasts.Info("background")
	h := f.dialog.Confirm("Saving...", confirm.Options{InitialLoading: true})

	assert.True(t, f.d.Key(escape))
	assert.True(t, h.Open(), "a loading confirmation cannot be cancelled")
	assert.False(t, n.Active())
}

func TestEscape_CancelsPendingConfirmationOnceLoadingIsOff(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	defer close(release)

	h := f.dialog.Confirm("Upload?", confirm.Options{
		OnConfirm: func(h *confirm.Handle) (confirm.Awaitable, error) {
			h.SetLoading(true)
			return confirm.Async(func() error {
				<-release
				return nil
			}), nil
		},
	})
	h.Confirm()
	h.SetLoading(false)
	require.Equal(t, confirm.StateConfirming, h.State())

	assert.True(t, f.d.Key(escape))
	assert.Equal(t, confirm.StateClosed, h.State())
}

func TestTab_CyclesConfirmationFocus(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.d.Key(tab), "tab is not consumed without a dialog")

	h := f.dialog.Confirm("Choose")
	require.Equal(t, render.ControlConfirm, h.FocusedControl())

	assert.True(t, f.d.Key(tab))
	assert.Equal(t, render.ControlClose, h.FocusedControl())
	assert.True(t, f.d.Key(tab))
	assert.Equal(t, render.ControlCancel, h.FocusedControl())
	assert.True(t, f.d.Key(shiftTab))
	assert.Equal(t, render.ControlClose, h.FocusedControl())
}

func TestKey_IgnoresOtherKeys(t *testing.T) {
	f := newFixture(t)
	f.toasts.Info("stay")
	assert.False(t, f.d.Key(render.KeyEvent{Key: "Return"}))
	assert.Equal(t, 1, f.toasts.ActiveCount())
}

func TestEscape_AfterExitSettles(t *testing.T) {
	f := newFixture(t)
	f.toasts.Info("one")
	assert.True(t, f.d.Key(escape))
	f.clock.Advance(time.Second)
	assert.False(t, f.d.Key(escape))
}

func TestShared_InstallsOnce(t *testing.T) {
	a := Shared(confirm.NewRegistry(), queue.NewSet(), nil)
	b := Shared(confirm.NewRegistry(), queue.NewSet(), nil)
	assert.Same(t, a, b)
}
