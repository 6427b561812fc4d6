package tui

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toastui/internal/model"
)

const toastWidth = 36

var hexColor = regexp.MustCompile(`#[0-9a-fA-F]{3,8}`)

var kindColors = map[model.Kind]lipgloss.Color{
	model.KindSuccess: lipgloss.Color("10"),
	model.KindError:   lipgloss.Color("9"),
	model.KindInfo:    lipgloss.Color("12"),
	model.KindWarning: lipgloss.Color("11"),
	model.KindDark:    lipgloss.Color("8"),
	model.KindLight:   lipgloss.Color("15"),
	model.KindCustom:  lipgloss.Color("13"),
}

var (
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	messageStyle = lipgloss.NewStyle().Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	focusStyle   = buttonStyle.BorderForeground(lipgloss.Color("12")).Bold(true)
	disableStyle = buttonStyle.Foreground(lipgloss.Color("8")).BorderForeground(lipgloss.Color("8"))
)

// toastStyle returns the box style of a toast. Custom toasts take the first
// color of their gradient.
func toastStyle(kind model.Kind, background string, selected bool) lipgloss.Style {
	color, ok := kindColors[kind]
	if !ok {
		color = kindColors[model.DefaultKind]
	}
	if c := hexColor.FindString(background); c != "" {
		color = lipgloss.Color(c)
	}

	border := lipgloss.RoundedBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}
	return lipgloss.NewStyle().
		Width(toastWidth).
		Padding(0, 1).
		Border(border).
		BorderForeground(color)
}

// dialogStyle returns the box style of the confirmation dialog.
func dialogStyle(theme model.Theme, background string) lipgloss.Style {
	s := lipgloss.NewStyle().
		Width(toastWidth+8).
		Padding(1, 2).
		Border(lipgloss.DoubleBorder())
	if theme == model.ThemeLight {
		s = s.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15"))
	}
	if c := hexColor.FindString(background); c != "" {
		s = s.BorderForeground(lipgloss.Color(c))
	}
	return s
}
