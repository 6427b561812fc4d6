package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicRenderer struct{}

func (panicRenderer) Render(Intent) error { panic("boom") }
func (panicRenderer) Focused() FocusToken { panic("boom") }

func TestSafe_RecoversPanics(t *testing.T) {
	err := Safe(panicRenderer{}, Destroy{Element: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, FocusToken(""), SafeFocused(panicRenderer{}))
}

func TestFlush_ContinuesAfterFailure(t *testing.T) {
	rec := NewRecorder()
	rec.SetFail(func(in Intent) error {
		if in.Target() == "bad" {
			return errors.New("nope")
		}
		return nil
	})

	Flush(nil, rec, []Intent{
		Destroy{Element: "bad"},
		Destroy{Element: "good"},
		RestoreFocus{Token: "prev"},
	})

	got := rec.Intents()
	require.Len(t, got, 2)
	assert.Equal(t, Destroy{Element: "good"}, got[0])
	assert.Equal(t, FocusToken("prev"), rec.Focused())
}

func TestRecorder_FilterHelpers(t *testing.T) {
	rec := NewRecorder()
	_ = rec.Render(CreateToast{Element: "a", Message: "hi"})
	_ = rec.Render(Animate{Element: "a", Animation: "slide-in-down"})
	_ = rec.Render(Focus{Element: "d", Control: ControlConfirm})

	assert.Len(t, rec.For("a"), 2)
	assert.Len(t, OfType[Animate](rec.Intents()), 1)
	assert.Equal(t, FocusToken("d/confirm"), rec.Focused())

	rec.Reset()
	assert.Empty(t, rec.Intents())
}
