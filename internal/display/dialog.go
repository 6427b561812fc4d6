package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/theme"
)

// dialogView is the confirmation dialog window. It takes the keyboard
// exclusively while open.
type dialogView struct {
	element render.ElementID
	window  *gtk.Window
	box     *gtk.Box
	spinner *gtk.Spinner

	buttons map[render.Control]*gtk.Button

	background *gtk.CSSProvider
	display    *gdk.Display

	animation animation.Name
	animTimer glib.SourceHandle
}

func newDialogView(app *gtk.Application, in render.CreateDialog, display *gdk.Display, sink func() render.EventSink) *dialogView {
	d := &dialogView{
		element: in.Element,
		display: display,
		buttons: make(map[render.Control]*gtk.Button, 3),
	}

	d.window = gtk.NewWindow()
	d.window.SetApplication(app)
	d.window.SetDecorated(false)
	d.window.SetResizable(false)
	d.window.SetDefaultSize(dialogWidth, -1)
	d.window.SetTitle(string(in.Element))

	initLayer(d.window, layershell.LayerShellLayerOverlay, layershell.LayerShellKeyboardModeExclusive, "toastui-confirm")
	anchor(d.window, in.Position)

	d.box = gtk.NewBox(gtk.OrientationVertical, 8)
	d.box.SetName(string(in.Element))
	d.box.AddCSSClass("confirm-dialog")
	d.box.AddCSSClass(in.Variant)
	d.box.AddCSSClass(string(in.Theme))

	header := gtk.NewBox(gtk.OrientationHorizontal, 8)
	message := gtk.NewLabel(in.Message)
	message.AddCSSClass("confirm-message")
	message.SetXAlign(0)
	message.SetWrap(true)
	message.SetHExpand(true)
	header.Append(message)

	closeBtn := gtk.NewButtonFromIconName("window-close-symbolic")
	closeBtn.AddCSSClass("confirm-close")
	closeBtn.SetVAlign(gtk.AlignStart)
	header.Append(closeBtn)
	d.box.Append(header)

	if in.Description != "" {
		description := gtk.NewLabel(in.Description)
		description.AddCSSClass("confirm-description")
		description.SetXAlign(0)
		description.SetWrap(true)
		d.box.Append(description)
	}

	actions := gtk.NewBox(gtk.OrientationHorizontal, 6)
	actions.SetHAlign(gtk.AlignEnd)

	d.spinner = gtk.NewSpinner()
	d.spinner.AddCSSClass("confirm-spinner")
	d.spinner.SetVisible(false)
	actions.Append(d.spinner)

	cancelBtn := gtk.NewButtonWithLabel(in.CancelLabel)
	cancelBtn.AddCSSClass("confirm-button")
	cancelBtn.AddCSSClass("confirm-cancel")
	actions.Append(cancelBtn)

	confirmBtn := gtk.NewButtonWithLabel(in.ConfirmLabel)
	confirmBtn.AddCSSClass("confirm-button")
	confirmBtn.AddCSSClass("confirm-accept")
	actions.Append(confirmBtn)
	d.box.Append(actions)

	d.buttons[render.ControlCancel] = cancelBtn
	d.buttons[render.ControlConfirm] = confirmBtn
	d.buttons[render.ControlClose] = closeBtn
	for control, btn := range d.buttons {
		btn.ConnectClicked(func() {
			if s := sink(); s != nil {
				s.Activate(d.element, control)
			}
		})
	}

	keys := gtk.NewEventControllerKey()
	keys.ConnectKeyPressed(func(keyval, keycode uint, state gdk.ModifierType) bool {
		ev, ok := keyEvent(keyval, state)
		if !ok {
			return false
		}
		if s := sink(); s != nil {
			return s.Key(ev)
		}
		return false
	})
	d.window.AddController(keys)

	// The close request from the compositor goes through the controller
	// like a click on the close control.
	d.window.ConnectCloseRequest(func() bool {
		if s := sink(); s != nil {
			s.Activate(d.element, render.ControlClose)
		}
		return true
	})

	if in.Background != "" && display != nil {
		d.background = gtk.NewCSSProvider()
		d.background.LoadFromString(theme.BackgroundCSS(string(in.Element), in.Background))
		gtk.StyleContextAddProviderForDisplay(display, d.background, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION+1)
	}

	d.window.SetChild(d.box)
	d.setLoading(in.Loading, nil)
	return d
}

// keyEvent translates a GDK key press into the keys the dispatcher routes.
func keyEvent(keyval uint, state gdk.ModifierType) (render.KeyEvent, bool) {
	switch keyval {
	case gdk.KEY_Escape:
		return render.KeyEvent{Key: render.KeyEscape}, true
	case gdk.KEY_Tab:
		return render.KeyEvent{Key: render.KeyTab, Shift: state&gdk.ShiftMask != 0}, true
	case gdk.KEY_ISO_Left_Tab:
		return render.KeyEvent{Key: render.KeyTab, Shift: true}, true
	}
	return render.KeyEvent{}, false
}

func (d *dialogView) present() {
	d.window.Present()
}

// setLoading shows the spinner and makes the disabled controls insensitive.
func (d *dialogView) setLoading(loading bool, disabled []render.Control) {
	if loading {
		d.box.AddCSSClass("loading")
		d.spinner.SetVisible(true)
		d.spinner.Start()
	} else {
		d.box.RemoveCSSClass("loading")
		d.spinner.Stop()
		d.spinner.SetVisible(false)
	}

	for _, btn := range d.buttons {
		btn.SetSensitive(true)
	}
	for _, control := range disabled {
		if btn, ok := d.buttons[control]; ok {
			btn.SetSensitive(false)
		}
	}
}

func (d *dialogView) focus(control render.Control) {
	if btn, ok := d.buttons[control]; ok {
		btn.GrabFocus()
	}
}

func (d *dialogView) animate(name animation.Name, dur time.Duration) {
	playAnimation(&d.box.Widget, &d.animation, &d.animTimer, name, dur)
}

func (d *dialogView) destroy() {
	if d.animTimer != 0 {
		glib.SourceRemove(d.animTimer)
		d.animTimer = 0
	}
	if d.background != nil {
		gtk.StyleContextRemoveProviderForDisplay(d.display, d.background)
		d.background = nil
	}
	d.window.Destroy()
}
