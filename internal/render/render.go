// Package render defines the contract between the notification core and the
// front ends that draw it. The core never draws; it emits Intents.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
)

// ErrNoRenderer is returned by constructors when no rendering environment is available.
var ErrNoRenderer = errors.New("no renderer available")

// ElementID is an opaque handle to a visual element owned by the renderer.
type ElementID string

// FocusToken identifies whatever had keyboard focus before a dialog opened.
// The zero value means nothing was focused.
type FocusToken string

// Control is an interactive control inside an element.
type Control string

const (
	ControlCancel  Control = "cancel"
	ControlConfirm Control = "confirm"
	ControlClose   Control = "close"
)

// Key names understood by the keyboard dispatcher.
const (
	KeyEscape = "Escape"
	KeyTab    = "Tab"
)

// KeyEvent is a key press delivered by a front end.
type KeyEvent struct {
	Key   string
	Shift bool
}

// Intent describes one visual side effect requested by the core.
type Intent interface {
	// Target returns the element the intent applies to, if any.
	Target() ElementID
}

// CreateToast asks for a new notification element.
type CreateToast struct {
	Element     ElementID
	Position    config.Position
	Kind        model.Kind
	Variant     string
	Background  string // CSS gradient for custom colors, or ""
	Message     string
	Description string
	AllowClose  bool
	LiveRegion  config.LiveRegion
	NewestOnTop bool
	CreatedAt   time.Time
}

// UpdateToast replaces the content of an existing notification element.
type UpdateToast struct {
	Element     ElementID
	Kind        model.Kind
	Variant     string
	Background  string
	Message     string
	Description string
}

// CreateDialog asks for the confirmation dialog element.
type CreateDialog struct {
	Element      ElementID
	Position     config.Position
	Theme        model.Theme
	Variant      string
	Background   string
	Message      string
	Description  string
	ConfirmLabel string
	CancelLabel  string
	Loading      bool
}

// UpdateDialog reflects the loading state of the dialog.
// Disabled lists the controls that must not accept activation.
type UpdateDialog struct {
	Element  ElementID
	Loading  bool
	Disabled []Control
}

// Animate plays a named animation lasting Duration.
type Animate struct {
	Element   ElementID
	Animation animation.Name
	Duration  time.Duration
}

// Countdown carries the remaining-duration hint of a notification.
type Countdown struct {
	Element   ElementID
	Remaining time.Duration
	Running   bool
}

// Focus moves keyboard focus to a control of an element.
type Focus struct {
	Element ElementID
	Control Control
}

// RestoreFocus returns focus to whatever held it before a dialog opened.
type RestoreFocus struct {
	Token FocusToken
}

// Destroy releases an element.
type Destroy struct {
	Element ElementID
}

func (i CreateToast) Target() ElementID  { return i.Element }
func (i UpdateToast) Target() ElementID  { return i.Element }
func (i CreateDialog) Target() ElementID { return i.Element }
func (i UpdateDialog) Target() ElementID { return i.Element }
func (i Animate) Target() ElementID      { return i.Element }
func (i Countdown) Target() ElementID    { return i.Element }
func (i Focus) Target() ElementID        { return i.Element }
func (i RestoreFocus) Target() ElementID { return "" }
func (i Destroy) Target() ElementID      { return i.Element }

// Renderer performs intents.
type Renderer interface {
	Render(Intent) error
	// Focused returns a token for the currently focused element.
	Focused() FocusToken
}

// EventSink receives user input from a renderer.
type EventSink interface {
	PointerEnter(ElementID)
	PointerLeave(ElementID)
	Activate(ElementID, Control)
	Key(KeyEvent) bool
}

// Safe performs a single intent, converting a panic into an error.
func Safe(r Renderer, in Intent) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("renderer panic on %T: %v", in, rec)
		}
	}()
	return r.Render(in)
}

// SafeFocused asks the renderer for the focus token, tolerating panics.
func SafeFocused(r Renderer) (tok FocusToken) {
	defer func() {
		if recover() != nil {
			tok = ""
		}
	}()
	return r.Focused()
}

// Flush performs intents in order. Failures are logged and never stop the
// remaining intents.
func Flush(logger *slog.Logger, r Renderer, intents []Intent) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, in := range intents {
		if err := Safe(r, in); err != nil {
			logger.Warn("render failed", "intent", fmt.Sprintf("%T", in), "element", in.Target(), "error", err)
		}
	}
}
