// Package tui provides the Bubble Tea terminal front end: a playground that
// renders toasts and the confirmation dialog in the terminal and drives them
// from the keyboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastui/internal/animation"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/confirm"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/render"
	"github.com/jmylchreest/toastui/internal/toast"
)

const (
	tickInterval = 250 * time.Millisecond
	confirmDelay = 1500 * time.Millisecond
)

// Notifier is the part of notifier.Notifier the playground drives.
type Notifier interface {
	render.EventSink
	Show(message any, kind model.Kind, opts ...toast.Option) *toast.Handle
	Custom(message any, primary, secondary string, opts ...toast.Option) *toast.Handle
	DismissAll(kinds ...model.Kind) int
	Confirm(message any, args ...any) *confirm.Handle
}

type toastItem struct {
	create      render.CreateToast
	kind        model.Kind
	background  string
	message     string
	description string

	countdown bool
	remaining time.Duration
	running   bool
	deadline  time.Time

	animation animation.Name
	hovered   bool
}

type dialogItem struct {
	create    render.CreateDialog
	loading   bool
	disabled  map[render.Control]bool
	focus     render.Control
	animation animation.Name
}

type tickMsg time.Time

// Model is the main TUI model.
type Model struct {
	notifier Notifier
	renderer *Renderer
	keys     KeyMap
	help     help.Model
	now      func() time.Time

	toasts   map[render.ElementID]*toastItem
	order    map[config.Position][]render.ElementID
	dialog   *dialogItem
	selected render.ElementID
	samples  int

	width     int
	height    int
	showHelp  bool
	statusMsg string
}

// New creates a TUI model rendering what r receives and sending input to n.
func New(n Notifier, r *Renderer) Model {
	return Model{
		notifier: n,
		renderer: r,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		now:      time.Now,
		toasts:   make(map[render.ElementID]*toastItem),
		order:    make(map[config.Position][]render.ElementID),
	}
}

// Init starts listening for intents and the countdown tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.renderer.wait, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case intentsMsg:
		for _, in := range msg {
			m.apply(in)
		}
		return m, m.renderer.wait

	case tickMsg:
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// apply performs one intent on the model state.
func (m *Model) apply(in render.Intent) {
	switch in := in.(type) {
	case render.CreateToast:
		m.toasts[in.Element] = &toastItem{
			create:      in,
			kind:        in.Kind,
			background:  in.Background,
			message:     in.Message,
			description: in.Description,
		}
		ids := m.order[in.Position]
		if in.NewestOnTop {
			ids = append([]render.ElementID{in.Element}, ids...)
		} else {
			ids = append(ids, in.Element)
		}
		m.order[in.Position] = ids
		m.selected = in.Element

	case render.UpdateToast:
		if t, ok := m.toasts[in.Element]; ok {
			t.kind = in.Kind
			t.background = in.Background
			if in.Message != "" {
				t.message = in.Message
			}
			t.description = in.Description
		}

	case render.CreateDialog:
		m.dialog = &dialogItem{
			create:   in,
			loading:  in.Loading,
			disabled: make(map[render.Control]bool),
		}

	case render.UpdateDialog:
		if m.dialog != nil && m.dialog.create.Element == in.Element {
			m.dialog.loading = in.Loading
			m.dialog.disabled = make(map[render.Control]bool, len(in.Disabled))
			for _, c := range in.Disabled {
				m.dialog.disabled[c] = true
			}
		}

	case render.Animate:
		if t, ok := m.toasts[in.Element]; ok {
			t.animation = in.Animation
		} else if m.dialog != nil && m.dialog.create.Element == in.Element {
			m.dialog.animation = in.Animation
		}

	case render.Countdown:
		if t, ok := m.toasts[in.Element]; ok {
			t.countdown = true
			t.remaining = in.Remaining
			t.running = in.Running
			t.deadline = m.now().Add(in.Remaining)
		}

	case render.Focus:
		if m.dialog != nil && m.dialog.create.Element == in.Element {
			m.dialog.focus = in.Control
			m.renderer.setFocused(render.FocusToken(in.Element))
		}

	case render.RestoreFocus:
		tok := in.Token
		if tok == "" {
			tok = mainFocus
		}
		m.renderer.setFocused(tok)

	case render.Destroy:
		if t, ok := m.toasts[in.Element]; ok {
			delete(m.toasts, in.Element)
			pos := t.create.Position
			ids := m.order[pos]
			for i, id := range ids {
				if id == in.Element {
					m.order[pos] = append(ids[:i:i], ids[i+1:]...)
					break
				}
			}
			if m.selected == in.Element {
				m.selected = m.newest()
			}
		} else if m.dialog != nil && m.dialog.create.Element == in.Element {
			m.dialog = nil
		}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.dialog != nil {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.notifier.Key(render.KeyEvent{Key: render.KeyEscape})
		case key.Matches(msg, m.keys.Next):
			m.notifier.Key(render.KeyEvent{Key: render.KeyTab})
		case key.Matches(msg, m.keys.Prev):
			m.notifier.Key(render.KeyEvent{Key: render.KeyTab, Shift: true})
		case key.Matches(msg, m.keys.Activate):
			if m.dialog.focus != "" {
				m.notifier.Activate(m.dialog.create.Element, m.dialog.focus)
			}
		}
		return m, nil
	}

	m.statusMsg = ""
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.notifier.Key(render.KeyEvent{Key: render.KeyEscape})
	case key.Matches(msg, m.keys.Success):
		m.showSample(model.KindSuccess)
	case key.Matches(msg, m.keys.Error):
		m.showSample(model.KindError)
	case key.Matches(msg, m.keys.Info):
		m.showSample(model.KindInfo)
	case key.Matches(msg, m.keys.Warning):
		m.showSample(model.KindWarning)
	case key.Matches(msg, m.keys.Dark):
		m.showSample(model.KindDark)
	case key.Matches(msg, m.keys.Light):
		m.showSample(model.KindLight)
	case key.Matches(msg, m.keys.Custom):
		m.showSample(model.KindCustom)
	case key.Matches(msg, m.keys.Confirm):
		m.openConfirm()
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Hover):
		if t, ok := m.toasts[m.selected]; ok {
			t.hovered = !t.hovered
			if t.hovered {
				m.notifier.PointerEnter(m.selected)
			} else {
				m.notifier.PointerLeave(m.selected)
			}
		}
	case key.Matches(msg, m.keys.Close):
		if m.selected != "" {
			m.notifier.Activate(m.selected, render.ControlClose)
		}
	case key.Matches(msg, m.keys.DismissAll):
		n := m.notifier.DismissAll()
		m.statusMsg = fmt.Sprintf("dismissed %d", n)
	}
	return m, nil
}

var sampleMessages = map[model.Kind][2]string{
	model.KindSuccess: {"Changes saved", "All 12 files were written."},
	model.KindError:   {"Upload failed", "The server closed the connection."},
	model.KindInfo:    {"New version available", ""},
	model.KindWarning: {"Disk almost full", "Less than 1 GB left on /home."},
	model.KindDark:    {"Focus mode on", ""},
	model.KindLight:   {"Focus mode off", ""},
	model.KindCustom:  {"Build #42 passed", "Deployed to staging."},
}

func (m *Model) showSample(kind model.Kind) {
	m.samples++
	sample := sampleMessages[kind]
	msg := fmt.Sprintf("%s (%d)", sample[0], m.samples)

	var opts []toast.Option
	if sample[1] != "" {
		opts = append(opts, toast.WithDescription(sample[1]))
	}

	var h *toast.Handle
	if kind == model.KindCustom {
		h = m.notifier.Custom(msg, "#7c3aed", "#db2777", opts...)
	} else {
		h = m.notifier.Show(msg, kind, opts...)
	}
	if h == nil || h.Inert() {
		m.statusMsg = "notification rejected"
	}
}

func (m *Model) openConfirm() {
	h := m.notifier.Confirm("Delete 3 files?", confirm.Options{
		Description: "This cannot be undone.",
		OnConfirm: func(*confirm.Handle) (confirm.Awaitable, error) {
			return confirm.Async(func() error {
				time.Sleep(confirmDelay)
				return nil
			}), nil
		},
	})
	if h == nil {
		m.statusMsg = "confirmation rejected"
	}
}

// visible returns toast ids in display order: positions top to bottom.
func (m Model) visible() []render.ElementID {
	var ids []render.ElementID
	for _, pos := range config.ValidPositions() {
		ids = append(ids, m.order[pos]...)
	}
	return ids
}

func (m Model) newest() render.ElementID {
	var newest render.ElementID
	var at time.Time
	for id, t := range m.toasts {
		if newest == "" || t.create.CreatedAt.After(at) {
			newest, at = id, t.create.CreatedAt
		}
	}
	return newest
}

func (m *Model) moveSelection(delta int) {
	ids := m.visible()
	if len(ids) == 0 {
		m.selected = ""
		return
	}
	idx := 0
	for i, id := range ids {
		if id == m.selected {
			idx = i + delta
			break
		}
	}
	idx = (idx%len(ids) + len(ids)) % len(ids)
	m.selected = ids[idx]
}

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("toastui"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d on screen", len(m.toasts))))
	b.WriteString("\n\n")

	b.WriteString(m.row(config.PositionTopLeft, config.PositionTopCenter, config.PositionTopRight))
	b.WriteString("\n")

	middle := m.column(config.PositionCenter)
	if m.dialog != nil {
		middle = m.viewDialog()
	}
	if middle != "" {
		b.WriteString(lipgloss.PlaceHorizontal(max(m.width, lipgloss.Width(middle)), lipgloss.Center, middle))
		b.WriteString("\n")
	}

	b.WriteString(m.row(config.PositionBottomLeft, config.PositionBottomCenter, config.PositionBottomRight))
	b.WriteString("\n")

	if m.statusMsg != "" {
		b.WriteString(mutedStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m Model) row(left, center, right config.Position) string {
	colWidth := toastWidth + 4
	if m.width > 3*colWidth {
		colWidth = m.width / 3
	}
	cell := lipgloss.NewStyle().Width(colWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell.Render(m.column(left)),
		cell.Align(lipgloss.Center).Render(m.column(center)),
		cell.Align(lipgloss.Right).Render(m.column(right)),
	)
}

func (m Model) column(pos config.Position) string {
	ids := m.order[pos]
	views := make([]string, 0, len(ids))
	for _, id := range ids {
		views = append(views, m.viewToast(id, m.toasts[id]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

func (m Model) viewToast(id render.ElementID, t *toastItem) string {
	if t == nil {
		return ""
	}
	lines := []string{messageStyle.Render(t.message)}
	if t.description != "" {
		lines = append(lines, t.description)
	}

	footer := []string{humanize.RelTime(t.create.CreatedAt, m.now(), "ago", "from now")}
	if t.countdown {
		footer = append(footer, m.countdownLabel(t))
	}
	if t.animation.IsExit() {
		footer = append(footer, "closing")
	}
	if t.hovered {
		footer = append(footer, "hover")
	}
	if t.create.AllowClose {
		footer = append(footer, "[x]")
	}
	lines = append(lines, mutedStyle.Render(strings.Join(footer, " · ")))

	return toastStyle(t.kind, t.background, id == m.selected).Render(strings.Join(lines, "\n"))
}

func (m Model) countdownLabel(t *toastItem) string {
	if !t.running {
		return "paused " + formatRemaining(t.remaining)
	}
	left := t.deadline.Sub(m.now())
	if left < 0 {
		left = 0
	}
	return formatRemaining(left) + " left"
}

// formatRemaining rounds up to whole seconds.
func formatRemaining(d time.Duration) string {
	secs := int64((d + time.Second - 1) / time.Second)
	return humanize.Comma(secs) + "s"
}

func (m Model) viewDialog() string {
	d := m.dialog
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			messageStyle.Render(d.create.Message),
			"  ",
			m.button(render.ControlClose, "x"),
		),
	}
	if d.create.Description != "" {
		lines = append(lines, d.create.Description)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		m.button(render.ControlCancel, d.create.CancelLabel),
		" ",
		m.button(render.ControlConfirm, d.create.ConfirmLabel),
	)
	if d.loading {
		buttons = lipgloss.JoinHorizontal(lipgloss.Center, mutedStyle.Render("working… "), buttons)
	}
	lines = append(lines, "", buttons)
	return dialogStyle(d.create.Theme, d.create.Background).Render(strings.Join(lines, "\n"))
}

func (m Model) button(control render.Control, label string) string {
	switch {
	case m.dialog.disabled[control]:
		return disableStyle.Render(label)
	case m.dialog.focus == control:
		return focusStyle.Render(label)
	default:
		return buttonStyle.Render(label)
	}
}
