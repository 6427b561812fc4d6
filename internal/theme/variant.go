package theme

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jmylchreest/toastui/internal/model"
)

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Variant returns the CSS class used to style a toast of kind.
// Custom toasts with at least one valid color get their own class so the
// renderer can apply Gradient.
func Variant(kind model.Kind, primary, secondary string) string {
	if !kind.Valid() {
		kind = model.DefaultKind
	}
	if kind == model.KindCustom && !IsColor(primary) && !IsColor(secondary) {
		return "toast-" + string(model.DefaultKind)
	}
	return "toast-" + string(kind)
}

// DialogVariant returns the CSS class for a confirmation dialog.
func DialogVariant(t model.Theme, primary, secondary string) string {
	if IsColor(primary) || IsColor(secondary) {
		return "confirm-custom"
	}
	return "confirm-" + string(model.NormalizeTheme(string(t)))
}

// IsColor reports whether s is a #rgb, #rrggbb or #rrggbbaa color.
func IsColor(s string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(s))
}

// Gradient returns a CSS background for custom colors. A missing color
// reuses the other one; with no valid colors it returns "".
func Gradient(primary, secondary string) string {
	primary, secondary = strings.TrimSpace(primary), strings.TrimSpace(secondary)
	switch {
	case !IsColor(primary) && !IsColor(secondary):
		return ""
	case !IsColor(primary):
		primary = secondary
	case !IsColor(secondary):
		secondary = primary
	}
	return fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", primary, secondary)
}

// BackgroundCSS returns a rule painting background on the element with the
// given CSS name, or "" when background is empty.
func BackgroundCSS(name, background string) string {
	if background == "" {
		return ""
	}
	return fmt.Sprintf("#%s { background-image: %s; }", name, background)
}
