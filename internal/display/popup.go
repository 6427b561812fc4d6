package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/theme"
)

const countdownTick = 100 * time.Millisecond

// stack is the layer-shell window holding every toast at one position.
// It is hidden while empty so it never takes pointer input.
type stack struct {
	position config.Position
	window   *gtk.Window
	box      *gtk.Box
	count    int
}

func newStack(app *gtk.Application, pos config.Position) *stack {
	s := &stack{position: pos}

	s.window = gtk.NewWindow()
	s.window.SetApplication(app)
	s.window.SetDecorated(false)
	s.window.SetResizable(false)
	s.window.SetDefaultSize(toastWidth, -1)
	s.window.AddCSSClass("toast-stack")

	initLayer(s.window, layershell.LayerShellLayerTop, layershell.LayerShellKeyboardModeNone, "toastui-toast")
	anchor(s.window, pos)

	s.box = gtk.NewBox(gtk.OrientationVertical, stackGap)
	s.window.SetChild(s.box)
	return s
}

func (s *stack) add(v *toastView, newestOnTop bool) {
	if newestOnTop {
		s.box.Prepend(v.box)
	} else {
		s.box.Append(v.box)
	}
	s.count++
	s.window.SetVisible(true)
}

func (s *stack) remove(v *toastView) {
	s.box.Remove(v.box)
	s.count--
	if s.count <= 0 {
		s.count = 0
		s.window.SetVisible(false)
	}
}

// toastView is the widget tree of one toast.
type toastView struct {
	element render.ElementID
	stack   *stack

	box         *gtk.Box
	message     *gtk.Label
	description *gtk.Label
	closeBtn    *gtk.Button
	countdown   *gtk.ProgressBar

	variant    string
	background *gtk.CSSProvider
	display    *gdk.Display

	animation animation.Name
	animTimer glib.SourceHandle

	total    time.Duration
	deadline time.Time
	tick     glib.SourceHandle
}

func newToastView(in render.CreateToast, scheme string, display *gdk.Display, sink func() render.EventSink) *toastView {
	v := &toastView{element: in.Element, display: display}

	v.box = gtk.NewBox(gtk.OrientationVertical, 4)
	v.box.SetName(string(in.Element))
	v.box.AddCSSClass("toast")
	v.box.AddCSSClass(scheme)
	if in.LiveRegion == config.LiveRegionAssertive {
		v.box.AddCSSClass("assertive")
	}

	header := gtk.NewBox(gtk.OrientationHorizontal, 8)
	v.message = gtk.NewLabel(in.Message)
	v.message.AddCSSClass("toast-message")
	v.message.SetXAlign(0)
	v.message.SetWrap(true)
	v.message.SetMaxWidthChars(40)
	v.message.SetHExpand(true)
	header.Append(v.message)

	if in.AllowClose {
		v.closeBtn = gtk.NewButtonFromIconName("window-close-symbolic")
		v.closeBtn.AddCSSClass("toast-close")
		v.closeBtn.SetVAlign(gtk.AlignStart)
		v.closeBtn.ConnectClicked(func() {
			if s := sink(); s != nil {
				s.Activate(v.element, render.ControlClose)
			}
		})
		header.Append(v.closeBtn)
	}
	v.box.Append(header)

	v.description = gtk.NewLabel("")
	v.description.AddCSSClass("toast-description")
	v.description.SetXAlign(0)
	v.description.SetWrap(true)
	v.description.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	v.description.SetMaxWidthChars(50)
	v.box.Append(v.description)

	v.countdown = gtk.NewProgressBar()
	v.countdown.AddCSSClass("toast-countdown")
	v.countdown.SetVisible(false)
	v.box.Append(v.countdown)

	v.setContent(in.Variant, in.Background, in.Message, in.Description)

	motion := gtk.NewEventControllerMotion()
	motion.ConnectEnter(func(x, y float64) {
		if s := sink(); s != nil {
			s.PointerEnter(v.element)
		}
	})
	motion.ConnectLeave(func() {
		if s := sink(); s != nil {
			s.PointerLeave(v.element)
		}
	})
	v.box.AddController(motion)

	return v
}

// setContent applies text and styling. An empty message keeps the current one.
func (v *toastView) setContent(variant, background, message, description string) {
	if message != "" {
		v.message.SetText(message)
	}
	v.description.SetText(description)
	v.description.SetVisible(description != "")

	if v.variant != variant {
		if v.variant != "" {
			v.box.RemoveCSSClass(v.variant)
		}
		v.box.AddCSSClass(variant)
		v.variant = variant
	}
	v.setBackground(background)
}

// setBackground installs a display-wide rule for this element's name.
func (v *toastView) setBackground(background string) {
	if v.background != nil {
		gtk.StyleContextRemoveProviderForDisplay(v.display, v.background)
		v.background = nil
	}
	if background == "" || v.display == nil {
		return
	}
	v.background = gtk.NewCSSProvider()
	v.background.LoadFromString(theme.BackgroundCSS(string(v.element), background))
	gtk.StyleContextAddProviderForDisplay(v.display, v.background, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION+1)
}

// animate plays name by adding it as a CSS class. Exit animations keep the
// class so the element stays hidden until it is destroyed.
func (v *toastView) animate(name animation.Name, d time.Duration) {
	playAnimation(&v.box.Widget, &v.animation, &v.animTimer, name, d)
}

// setCountdown shows the remaining time as a draining progress bar.
func (v *toastView) setCountdown(remaining time.Duration, running bool) {
	if remaining > v.total {
		v.total = remaining
	}
	if v.total <= 0 {
		return
	}
	v.countdown.SetVisible(true)
	v.stopTick()

	v.countdown.SetFraction(float64(remaining) / float64(v.total))
	if !running {
		v.box.AddCSSClass("paused")
		return
	}
	v.box.RemoveCSSClass("paused")

	v.deadline = time.Now().Add(remaining)
	v.tick = glib.TimeoutAdd(uint(countdownTick.Milliseconds()), func() bool {
		left := time.Until(v.deadline)
		if left <= 0 {
			v.countdown.SetFraction(0)
			v.tick = 0
			return false
		}
		v.countdown.SetFraction(float64(left) / float64(v.total))
		return true
	})
}

func (v *toastView) stopTick() {
	if v.tick != 0 {
		glib.SourceRemove(v.tick)
		v.tick = 0
	}
}

// destroy releases timers and the background provider.
func (v *toastView) destroy() {
	v.stopTick()
	if v.animTimer != 0 {
		glib.SourceRemove(v.animTimer)
		v.animTimer = 0
	}
	v.setBackground("")
}

// playAnimation swaps the animation class on w. Non-exit animations are
// removed again after d so they can be replayed.
func playAnimation(w *gtk.Widget, current *animation.Name, timer *glib.SourceHandle, name animation.Name, d time.Duration) {
	if *timer != 0 {
		glib.SourceRemove(*timer)
		*timer = 0
	}
	if *current != "" {
		w.RemoveCSSClass(string(*current))
	}
	w.AddCSSClass(string(name))
	*current = name

	if name.IsExit() || d <= 0 {
		return
	}
	*timer = glib.TimeoutAdd(uint(d.Milliseconds()), func() bool {
		w.RemoveCSSClass(string(name))
		*current = ""
		*timer = 0
		return false
	})
}
