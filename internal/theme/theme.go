package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/toastui/internal/config"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme represents a CSS theme with metadata.
type Theme struct {
	Name      string    // Theme name (without .css extension)
	Path      string    // Full path to the CSS file (empty for default)
	CSS       string    // The CSS content
	ModTime   time.Time // Last modification time
	IsDefault bool      // True if this is the embedded default theme
}

// NewTheme creates a new Theme by loading a CSS file.
// CSS @import statements are resolved and inlined.
func NewTheme(name, path string) (*Theme, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	// Process @import statements
	baseDir := filepath.Dir(path)
	processedCSS := ProcessImports(string(css), baseDir, nil)

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     processedCSS,
		ModTime: info.ModTime(),
	}, nil
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir.
// The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		// Extract the file path from the @import statement
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match // Keep original if parsing fails
		}

		importPath := submatch[1]

		// Resolve the path
		var fullPath string
		if filepath.IsAbs(importPath) {
			fullPath = importPath
		} else {
			fullPath = filepath.Join(baseDir, importPath)
		}

		// Prevent circular imports
		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		// Try to read the imported file
		importedCSS, err := os.ReadFile(fullPath)
		if err != nil {
			// Check if it's an embedded partial (files starting with underscore)
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				// Try embedded partials
				if embeddedCSS, found := bundledPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
				}
			}
			// Also try as a regular embedded theme
			themeName := strings.TrimSuffix(baseName, ".css")
			if embeddedCSS, found := bundledCSS(themeName); found {
				return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		// Recursively process imports in the imported file
		importedBaseDir := filepath.Dir(fullPath)
		processedImport := ProcessImports(string(importedCSS), importedBaseDir, seen)

		return "/* imported: " + importPath + " */\n" + processedImport
	})
}

// NewDefaultTheme creates the embedded default theme.
func NewDefaultTheme() *Theme {
	css, _ := bundledCSS(DefaultThemeName)
	return &Theme{
		Name:      DefaultThemeName,
		Path:      "",
		CSS:       ProcessImports(css, "", nil),
		ModTime:   time.Time{},
		IsDefault: true,
	}
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	dir := config.ConfigDir()
	if dir == "" {
		return "", os.ErrNotExist
	}
	return filepath.Join(dir, "themes"), nil
}

// Resolve loads a theme by name.
// Resolution order:
//  0. name itself when it is a path to a .css file
//  1. dir/<name>.css, so users can override bundled themes
//  2. the bundled theme of the same name
//  3. the bundled default theme
//
// The returned bool is false when the fallback default was used.
func Resolve(name, dir string) (*Theme, bool) {
	if name == "" {
		name = DefaultThemeName
	}

	if filepath.Ext(name) == ".css" {
		if t, err := NewTheme(strings.TrimSuffix(filepath.Base(name), ".css"), name); err == nil {
			return t, true
		}
		name = strings.TrimSuffix(filepath.Base(name), ".css")
	}

	if dir != "" {
		path := filepath.Join(dir, name+".css")
		if _, err := os.Stat(path); err == nil {
			if t, err := NewTheme(name, path); err == nil {
				return t, true
			}
		}
	}

	if css, found := bundledCSS(name); found {
		return &Theme{
			Name:      name,
			CSS:       ProcessImports(css, "", nil),
			IsDefault: name == DefaultThemeName,
		}, true
	}

	t := NewDefaultTheme()
	return t, false
}

// Reload reloads the theme from disk.
// Returns true if the content changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsDefault {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	// Check if modification time changed
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	// Process @import statements
	baseDir := filepath.Dir(t.Path)
	processedCSS := ProcessImports(string(css), baseDir, nil)

	oldCSS := t.CSS
	t.CSS = processedCSS
	t.ModTime = info.ModTime()

	return oldCSS != t.CSS, nil
}

// Refresh re-reads the theme and its imports regardless of modification
// time. Returns true if the processed CSS changed.
func (t *Theme) Refresh() (bool, error) {
	if t.IsDefault || t.Path == "" {
		return false, nil
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	processed := ProcessImports(string(css), filepath.Dir(t.Path), nil)
	changed := processed != t.CSS
	t.CSS = processed
	t.ModTime = info.ModTime()
	return changed, nil
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool     // True if this is a bundled/embedded theme
	Missing   []string // Classes from Classes the theme never styles
}

// ListAvailableThemes lists all available themes (bundled + user).
func ListAvailableThemes() ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	// Add bundled themes first
	for _, name := range BundledNames() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, ThemeInfo{
				Name:      name,
				Path:      "",
				IsDefault: name == DefaultThemeName,
				IsBundled: true,
			})
		}
	}

	// Add user themes
	themesDir, err := ThemesDir()
	if err != nil {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".css" {
			themeName := name[:len(name)-4]
			if !seen[themeName] {
				seen[themeName] = true
				info := ThemeInfo{
					Name: themeName,
					Path: filepath.Join(themesDir, name),
				}
				if t, err := NewTheme(themeName, info.Path); err == nil {
					info.Missing = MissingClasses(t.CSS)
				}
				themes = append(themes, info)
			}
		}
	}

	return themes, nil
}

// CreateThemesDir creates the themes directory if it doesn't exist.
func CreateThemesDir() error {
	themesDir, err := ThemesDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(themesDir, 0755)
}
