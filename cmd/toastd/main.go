// Package main is the entry point for the toastd notification daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"golang.org/x/time/rate"

	"github.com/jmylchreest/toastui/internal/audio"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/daemon"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/display"
	"github.com/jmylchreest/toastui/internal/metrics"
	"github.com/jmylchreest/toastui/internal/notifier"
)

const (
	appID   = "io.github.jmylchreest.toastd"
	appName = "toastd"

	// Notify calls per second before the server starts rejecting them.
	notifyRate  = 20
	notifyBurst = 50
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/toastui/toastui.toml)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("toastd version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Error("failed to load config", "path", path, "error", err)
		os.Exit(1)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Listen = *metricsAddr
	}

	os.Exit(run(cfg, path, logger))
}

// run owns the GTK application and returns the process exit status.
func run(cfg *config.Config, configPath string, logger *slog.Logger) int {
	logger.Info("starting toastd", "version", version, "config", configPath)

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		renderer      *display.Renderer
		themeLoader   *display.ThemeLoader
		audioManager  *audio.Manager
		dbusServer    *dbus.NotificationServer
		toasts        *notifier.Notifier
		configWatcher *daemon.ConfigWatcher
		running       atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := func() {
		if audioManager != nil {
			audioManager.Stop()
		}
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if dbusServer != nil {
			if err := dbusServer.Stop(); err != nil {
				logger.Warn("error stopping D-Bus server", "error", err)
			}
		}
		if toasts != nil {
			toasts.Close()
		}
		if renderer != nil {
			renderer.Stop()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
			return
		}
		cancel()
		glib.IdleAdd(func() {
			app.Quit()
		})
	}()

	m, err := metrics.New(nil)
	if err != nil {
		logger.Warn("failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled && m != nil {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen, logger); err != nil {
				logger.Error("metrics endpoint stopped", "error", err)
			}
		}()
	}

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		renderer = display.NewRenderer(&app.Application,
			display.WithLogger(logger),
			display.WithColorScheme(config.ColorScheme(cfg.Theme.ColorScheme)),
		)
		if err := renderer.Start(); err != nil {
			logger.Error("failed to start display renderer", "error", err)
			app.Quit()
			return
		}

		themeLoader = display.NewThemeLoader(logger)
		themeLoader.Load(cfg.Theme.Name)
		themeLoader.Apply(nil)
		themeLoader.StartHotReload(ctx)

		audioManager = audio.NewManager(cfg.Audio, logger)
		audioErr := audioManager.Start(ctx)
		if audioErr != nil {
			logger.Warn("failed to start audio manager", "error", audioErr)
		}

		dbusServer = dbus.NewNotificationServer(logger)
		dbusServer.SetServerInfo(dbus.ServerInfo{
			Name:        appName,
			Vendor:      "toastui",
			Version:     version,
			SpecVersion: "1.2",
		})
		dbusServer.SetRateLimit(rate.Limit(notifyRate), notifyBurst)
		dbusServer.SetMetrics(m)

		bridge := daemon.NewBridge(dbusServer, logger)

		n, err := notifier.New(renderer,
			notifier.WithLogger(logger),
			notifier.WithConfig(cfg),
			notifier.WithMetrics(m),
			notifier.WithSound(audioManager),
			notifier.OnRemoved(bridge.Removed),
		)
		if err != nil {
			logger.Error("failed to create notifier", "error", err)
			renderer.Stop()
			app.Quit()
			return
		}
		toasts = n
		renderer.SetSink(toasts)
		bridge.Attach(toasts)

		dbusServer.SetNotifyHandler(bridge.HandleNotify)
		dbusServer.SetCloseHandler(bridge.HandleClose)
		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			shutdown()
			app.Quit()
			return
		}

		self := daemon.NewSelfNotifier(toasts, logger)
		if audioErr != nil {
			self.NotifyAudioError(audioErr)
		}

		themeLoader.SetReloadCallback(self.NotifyThemeReloaded)

		configWatcher, err = daemon.NewConfigWatcher(configPath, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			configWatcher.SetMetrics(m)
			configWatcher.SetReloadCallback(func(newConfig *config.Config) {
				glib.IdleAdd(func() {
					applyConfig(ctx, newConfig, cfg, toasts, renderer, themeLoader)
					cfg = newConfig
					self.NotifyConfigReloaded()
				})
			})
			configWatcher.SetErrorCallback(func(err error) {
				glib.IdleAdd(func() {
					self.NotifyConfigError(err)
				})
			})
			if err := configWatcher.Start(ctx, cfg); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			}
		}

		logger.Info("toastd ready", "dbus_interface", dbus.DBusInterface)

		// GTK apps quit when all windows are closed.
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		shutdown()
		running.Store(false)
	})

	status := app.Run(os.Args[:1])
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}
	logger.Info("toastd stopped")
	return 0
}

// applyConfig pushes a reloaded config into the running components.
// Must run on the GTK main loop.
func applyConfig(ctx context.Context, next, prev *config.Config, toasts *notifier.Notifier, renderer *display.Renderer, themes *display.ThemeLoader) {
	toasts.ApplyConfig(next)
	renderer.SetColorScheme(config.ColorScheme(next.Theme.ColorScheme))

	if next.Theme.Name != prev.Theme.Name {
		themes.Load(next.Theme.Name)
		themes.Apply(nil)
		themes.StartHotReload(ctx)
	}
}
