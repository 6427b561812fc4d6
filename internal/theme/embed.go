// Package theme resolves the CSS used to style toasts and confirmation
// dialogs. It maps kinds and colors to CSS classes, bundles a few themes,
// lets users override them from their config directory, and watches user
// themes for changes. It has no GTK dependency; the display package loads
// the resulting CSS into a provider.
package theme

import (
	"embed"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/jmylchreest/toastui/internal/model"
)

//go:embed themes/*.css
var bundled embed.FS

// DefaultThemeName is the bundled theme used when nothing else resolves.
const DefaultThemeName = "default"

// structuralClasses are set on widgets regardless of kind or theme.
var structuralClasses = []string{
	"toast",
	"toast-message",
	"toast-description",
	"toast-close",
	"confirm-dialog",
	"confirm-accept",
	"confirm-cancel",
	"confirm-close",
	"loading",
}

// Classes returns every CSS class the renderers can put on a toast or a
// confirmation dialog, including each variant Variant and DialogVariant
// produce.
func Classes() []string {
	classes := append([]string(nil), structuralClasses...)
	for _, k := range model.ValidKinds() {
		// A color is needed for the custom variant to survive.
		classes = append(classes, Variant(k, "#000", ""))
	}
	for _, t := range []model.Theme{model.ThemeDark, model.ThemeLight} {
		classes = append(classes, DialogVariant(t, "", ""))
	}
	return append(classes, DialogVariant(model.ThemeDark, "#000", ""))
}

// MissingClasses returns the classes from Classes that css never selects.
// A theme missing some of them still loads, but those widgets fall back to
// the GTK defaults.
func MissingClasses(css string) []string {
	var missing []string
	for _, class := range Classes() {
		re := regexp.MustCompile(`\.` + regexp.QuoteMeta(class) + `(?:[^\w-]|$)`)
		if !re.MatchString(css) {
			missing = append(missing, class)
		}
	}
	return missing
}

// BundledNames returns the names of the bundled themes in lexical order.
// Partials, whose file names start with an underscore, are not themes.
func BundledNames() []string {
	entries, err := fs.ReadDir(bundled, "themes")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || path.Ext(name) != ".css" {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".css"))
	}
	return names
}

// bundledCSS returns the raw CSS of a bundled theme. Imports are left as
// they are; Resolve inlines them.
func bundledCSS(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, "_") {
		return "", false
	}
	data, err := bundled.ReadFile("themes/" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// bundledPartial returns a bundled partial. The leading underscore and the
// .css suffix are optional.
func bundledPartial(name string) (string, bool) {
	name = strings.TrimSuffix(strings.TrimPrefix(name, "_"), ".css")
	data, err := bundled.ReadFile("themes/_" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}
