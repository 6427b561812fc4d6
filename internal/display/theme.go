package display

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/theme"
)

// ThemeLoader loads a theme into a GTK CSS provider and keeps it current
// while the user edits it.
type ThemeLoader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	provider  *gtk.CSSProvider
	themesDir string
	theme     *theme.Theme
	watcher   *theme.Watcher

	onReload func(name string)
}

// NewThemeLoader creates a ThemeLoader reading user themes from the
// toastui themes directory.
func NewThemeLoader(logger *slog.Logger) *ThemeLoader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := theme.ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	return &ThemeLoader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// SetReloadCallback is called on the main loop after a hot reload.
func (l *ThemeLoader) SetReloadCallback(fn func(name string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onReload = fn
}

// Load resolves name and loads its CSS. Unknown names fall back to the
// bundled default theme with a warning. Must run on the main loop.
func (l *ThemeLoader) Load(name string) {
	t, found := theme.Resolve(name, l.themesDir)
	if !found {
		l.logger.Warn("theme not found, using default", "theme", name)
	}

	l.mu.Lock()
	l.theme = t
	l.provider.LoadFromString(t.CSS)
	l.mu.Unlock()

	if t.Path != "" {
		l.logger.Info("loaded user theme", "name", t.Name, "path", t.Path)
		if missing := theme.MissingClasses(t.CSS); len(missing) > 0 {
			l.logger.Warn("theme does not style every class", "name", t.Name, "missing", missing)
		}
	} else {
		l.logger.Info("loaded bundled theme", "name", t.Name)
	}
}

// Theme returns the loaded theme.
func (l *ThemeLoader) Theme() *theme.Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// Apply installs the provider on display, or the default display when nil.
// Must run on the main loop.
func (l *ThemeLoader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	l.mu.RLock()
	name := ""
	if l.theme != nil {
		name = l.theme.Name
	}
	l.mu.RUnlock()

	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	l.logger.Debug("applied theme to display", "name", name)
}

// StartHotReload watches the loaded theme when it comes from a file.
// Bundled themes never change and are not watched.
func (l *ThemeLoader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
	if l.theme == nil || l.theme.Path == "" {
		l.logger.Debug("not starting hot-reload for bundled theme")
		return
	}

	name := l.theme.Name
	l.watcher = theme.NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			l.mu.Lock()
			l.provider.LoadFromString(css)
			fn := l.onReload
			l.mu.Unlock()

			l.logger.Info("hot-reloaded theme", "name", name)
			if fn != nil {
				fn(name)
			}
		})
	})

	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// StopHotReload stops watching the theme.
func (l *ThemeLoader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}
