package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessImports_NoImports(t *testing.T) {
	css := `.toast { color: red; }`
	result := ProcessImports(css, "", nil)
	assert.Equal(t, css, result)
}

func TestProcessImports_FileImport(t *testing.T) {
	// Create a temporary directory with test CSS files
	tmpDir := t.TempDir()

	// Create a partial file
	partialContent := `:root { --custom: #ff0000; }`
	partialPath := filepath.Join(tmpDir, "_custom.css")
	err := os.WriteFile(partialPath, []byte(partialContent), 0644)
	require.NoError(t, err)

	// Create main CSS that imports the partial
	mainCSS := `@import "_custom.css";
.toast { color: var(--custom); }`

	result := ProcessImports(mainCSS, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _custom.css */")
	assert.Contains(t, result, "--custom: #ff0000")
	assert.Contains(t, result, ".toast")
}

func TestProcessImports_NestedImports(t *testing.T) {
	tmpDir := t.TempDir()

	// Create nested structure: main imports child, child imports grandchild
	grandchildContent := `.grandchild { color: blue; }`
	grandchildPath := filepath.Join(tmpDir, "_grandchild.css")
	err := os.WriteFile(grandchildPath, []byte(grandchildContent), 0644)
	require.NoError(t, err)

	childContent := `@import "_grandchild.css";
.child { color: green; }`
	childPath := filepath.Join(tmpDir, "_child.css")
	err = os.WriteFile(childPath, []byte(childContent), 0644)
	require.NoError(t, err)

	mainCSS := `@import "_child.css";
.main { color: red; }`

	result := ProcessImports(mainCSS, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _child.css */")
	assert.Contains(t, result, "/* imported: _grandchild.css */")
	assert.Contains(t, result, ".grandchild")
	assert.Contains(t, result, ".child")
	assert.Contains(t, result, ".main")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	tmpDir := t.TempDir()

	// Create circular imports: a imports b, b imports a
	aContent := `@import "_b.css";
.a { color: red; }`
	aPath := filepath.Join(tmpDir, "_a.css")
	err := os.WriteFile(aPath, []byte(aContent), 0644)
	require.NoError(t, err)

	bContent := `@import "_a.css";
.b { color: blue; }`
	bPath := filepath.Join(tmpDir, "_b.css")
	err = os.WriteFile(bPath, []byte(bContent), 0644)
	require.NoError(t, err)

	// Start with a
	result := ProcessImports(`@import "_a.css";`, tmpDir, nil)

	// Should have both imports but one marked as circular
	assert.Contains(t, result, "/* imported: _a.css */")
	assert.Contains(t, result, "/* imported: _b.css */")
	assert.Contains(t, result, "/* circular import prevented: _a.css */")
}

func TestProcessImports_MissingFile(t *testing.T) {
	css := `@import "nonexistent.css";`

	result := ProcessImports(css, "/tmp", nil)

	assert.Contains(t, result, "/* import failed: nonexistent.css")
}

func TestProcessImports_FallbackToEmbeddedTheme(t *testing.T) {
	// When importing a non-existent file, it should try embedded themes
	css := `@import "default.css";`

	result := ProcessImports(css, "/nonexistent/path", nil)

	// Should fallback to embedded default theme
	assert.Contains(t, result, "/* imported (embedded): default.css */")
	assert.Contains(t, result, ".toast")
}

func TestProcessImports_EmbeddedPartial(t *testing.T) {
	result := ProcessImports(`@import "_animations.css";`, "/nonexistent/path", nil)

	assert.Contains(t, result, "/* imported (embedded): _animations.css */")
	assert.Contains(t, result, "@keyframes shake")
}

func TestImportRegex(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`@import "file.css";`, "file.css"},
		{`@import 'file.css';`, "file.css"},
		{`@import url("file.css");`, "file.css"},
		{`@import url('file.css');`, "file.css"},
		{`@import url( "file.css" );`, "file.css"},
		{`@import "_partial.css"`, "_partial.css"}, // Without semicolon
		{`@import   "spaced.css"  ;`, "spaced.css"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			matches := importRegex.FindStringSubmatch(tt.input)
			require.Len(t, matches, 2, "should match import statement")
			assert.Equal(t, tt.expected, matches[1])
		})
	}
}

func TestNewTheme_ProcessesImports(t *testing.T) {
	tmpDir := t.TempDir()

	// Create a partial
	partialContent := `:root { --custom: #ff0000; }`
	partialPath := filepath.Join(tmpDir, "_colors.css")
	err := os.WriteFile(partialPath, []byte(partialContent), 0644)
	require.NoError(t, err)

	// Create main theme that imports the partial
	themeContent := `@import "_colors.css";
.toast { color: var(--custom); }`
	themePath := filepath.Join(tmpDir, "custom.css")
	err = os.WriteFile(themePath, []byte(themeContent), 0644)
	require.NoError(t, err)

	theme, err := NewTheme("custom", themePath)
	require.NoError(t, err)

	// CSS should have processed imports
	assert.Contains(t, theme.CSS, "/* imported: _colors.css */")
	assert.Contains(t, theme.CSS, "--custom: #ff0000")
	assert.Contains(t, theme.CSS, ".toast")
}

func TestTheme_Reload_ProcessesImports(t *testing.T) {
	tmpDir := t.TempDir()

	// Create initial theme
	themeContent := `.toast { color: red; }`
	themePath := filepath.Join(tmpDir, "test.css")
	err := os.WriteFile(themePath, []byte(themeContent), 0644)
	require.NoError(t, err)

	theme, err := NewTheme("test", themePath)
	require.NoError(t, err)
	assert.Contains(t, theme.CSS, "color: red")

	// Create a partial
	partialContent := `:root { --new-color: blue; }`
	partialPath := filepath.Join(tmpDir, "_new.css")
	err = os.WriteFile(partialPath, []byte(partialContent), 0644)
	require.NoError(t, err)

	// Update theme to import the partial
	newContent := `@import "_new.css";
.toast { color: var(--new-color); }`
	err = os.WriteFile(themePath, []byte(newContent), 0644)
	require.NoError(t, err)

	// Reload should process imports
	changed, err := theme.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, theme.CSS, "/* imported: _new.css */")
	assert.Contains(t, theme.CSS, "--new-color: blue")
}

func TestTheme_Refresh_PicksUpPartialChanges(t *testing.T) {
	tmpDir := t.TempDir()

	partialPath := filepath.Join(tmpDir, "_colors.css")
	require.NoError(t, os.WriteFile(partialPath, []byte(`.toast { color: red; }`), 0o644))

	themePath := filepath.Join(tmpDir, "mine.css")
	require.NoError(t, os.WriteFile(themePath, []byte(`@import "_colors.css";`), 0o644))

	theme, err := NewTheme("mine", themePath)
	require.NoError(t, err)
	assert.Contains(t, theme.CSS, "color: red")

	require.NoError(t, os.WriteFile(partialPath, []byte(`.toast { color: blue; }`), 0o644))

	changed, err := theme.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, theme.CSS, "color: blue")

	changed, err = theme.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestResolve(t *testing.T) {
	userDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "minimal.css"), []byte(`.toast { color: pink; }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "mine.css"), []byte(`.toast { color: teal; }`), 0o644))

	tests := []struct {
		name      string
		theme     string
		dir       string
		wantName  string
		wantFound bool
		wantCSS   string
		wantPath  bool
	}{
		{"empty uses default", "", "", DefaultThemeName, true, "@keyframes", false},
		{"bundled", "catppuccin", "", "catppuccin", true, "--ctp-base", false},
		{"user theme", "mine", userDir, "mine", true, "color: teal", true},
		{"user overrides bundled", "minimal", userDir, "minimal", true, "color: pink", true},
		{"unknown falls back", "nope", userDir, DefaultThemeName, false, ".toast", false},
		{"path to css file", filepath.Join(userDir, "mine.css"), "", "mine", true, "color: teal", true},
		{"missing path uses bundled name", "/nowhere/catppuccin.css", "", "catppuccin", true, "--ctp-base", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, found := Resolve(tt.theme, tt.dir)
			require.NotNil(t, theme)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantName, theme.Name)
			assert.Contains(t, theme.CSS, tt.wantCSS)
			assert.Equal(t, tt.wantPath, theme.Path != "")
		})
	}
}

func TestThemesDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := ThemesDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/toastui/themes", dir)
}

func TestListAvailableThemes(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, CreateThemesDir())

	dir, err := ThemesDir()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "partial.css"), []byte(".toast { color: red; }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "full.css"), []byte(`@import "default.css";`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "minimal.css"), []byte(""), 0o644))

	themes, err := ListAvailableThemes()
	require.NoError(t, err)

	byName := make(map[string]ThemeInfo)
	for _, info := range themes {
		byName[info.Name] = info
	}
	require.Len(t, byName, 5, "a user theme shadowing a bundled name is listed once")

	assert.True(t, byName["default"].IsDefault)
	assert.True(t, byName["minimal"].IsBundled)
	assert.Empty(t, byName["full"].Missing, "imports count toward coverage")
	assert.Contains(t, byName["partial"].Missing, "confirm-dialog")
	assert.NotContains(t, byName["partial"].Missing, "toast")
}
