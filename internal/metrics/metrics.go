// Package metrics provides Prometheus metrics for notifications and confirmations.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPath = "/metrics"

// Metrics contains all toastui collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	ToastsShownTotal   *prometheus.CounterVec // by kind, position
	ToastsRemovedTotal *prometheus.CounterVec // by reason
	ToastsActive       prometheus.Gauge
	ToastLifetime      prometheus.Histogram

	ConfirmationsOpenedTotal prometheus.Counter
	ConfirmationsClosedTotal *prometheus.CounterVec // by outcome
	ConfirmationOpen         prometheus.Gauge

	DBusNotifyTotal    *prometheus.CounterVec // by status: accepted, rate_limited, rejected
	ConfigReloadsTotal *prometheus.CounterVec // by status: success, error

	registry *prometheus.Registry
}

// New creates the collectors and registers them with registry.
// A nil registry creates a private one.
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register toastui metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.ToastsShownTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toastui_toasts_shown_total",
			Help: "Total number of notifications shown by kind and position",
		},
		[]string{"kind", "position"},
	)
	m.ToastsRemovedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toastui_toasts_removed_total",
			Help: "Total number of notifications removed by reason",
		},
		[]string{"reason"}, // expired, dismissed, evicted, closed
	)
	m.ToastsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "toastui_toasts_active",
		Help: "Number of notifications currently on screen",
	})
	m.ToastLifetime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "toastui_toast_lifetime_seconds",
		Help:    "Time a notification spent on screen",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 300},
	})

	m.ConfirmationsOpenedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toastui_confirmations_opened_total",
		Help: "Total number of confirmation dialogs opened",
	})
	m.ConfirmationsClosedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toastui_confirmations_closed_total",
			Help: "Total number of confirmation dialogs closed by outcome",
		},
		[]string{"outcome"}, // confirmed, cancelled, closed, failed
	)
	m.ConfirmationOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "toastui_confirmation_open",
		Help: "1 while a confirmation dialog is open",
	})

	m.DBusNotifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toastui_dbus_notify_total",
			Help: "Total number of D-Bus Notify calls by status",
		},
		[]string{"status"},
	)
	m.ConfigReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toastui_config_reloads_total",
			Help: "Total number of configuration reloads by status",
		},
		[]string{"status"},
	)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.ToastsShownTotal.Describe(ch)
	m.ToastsRemovedTotal.Describe(ch)
	m.ToastsActive.Describe(ch)
	m.ToastLifetime.Describe(ch)
	m.ConfirmationsOpenedTotal.Describe(ch)
	m.ConfirmationsClosedTotal.Describe(ch)
	m.ConfirmationOpen.Describe(ch)
	m.DBusNotifyTotal.Describe(ch)
	m.ConfigReloadsTotal.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.ToastsShownTotal.Collect(ch)
	m.ToastsRemovedTotal.Collect(ch)
	m.ToastsActive.Collect(ch)
	m.ToastLifetime.Collect(ch)
	m.ConfirmationsOpenedTotal.Collect(ch)
	m.ConfirmationsClosedTotal.Collect(ch)
	m.ConfirmationOpen.Collect(ch)
	m.DBusNotifyTotal.Collect(ch)
	m.ConfigReloadsTotal.Collect(ch)
}

// RecordToastShown counts a shown notification.
func (m *Metrics) RecordToastShown(kind, position string) {
	if m == nil {
		return
	}
	m.ToastsShownTotal.WithLabelValues(kind, position).Inc()
	m.ToastsActive.Inc()
}

// RecordToastRemoved counts a removed notification and its time on screen.
func (m *Metrics) RecordToastRemoved(reason string, lifetime time.Duration) {
	if m == nil {
		return
	}
	m.ToastsRemovedTotal.WithLabelValues(reason).Inc()
	m.ToastsActive.Dec()
	if lifetime > 0 {
		m.ToastLifetime.Observe(lifetime.Seconds())
	}
}

// RecordConfirmOpened counts an opened confirmation dialog.
func (m *Metrics) RecordConfirmOpened() {
	if m == nil {
		return
	}
	m.ConfirmationsOpenedTotal.Inc()
	m.ConfirmationOpen.Set(1)
}

// RecordConfirmClosed counts a closed confirmation dialog.
func (m *Metrics) RecordConfirmClosed(outcome string) {
	if m == nil {
		return
	}
	m.ConfirmationsClosedTotal.WithLabelValues(outcome).Inc()
	m.ConfirmationOpen.Set(0)
}

// RecordDBusNotify counts a D-Bus Notify call.
func (m *Metrics) RecordDBusNotify(status string) {
	if m == nil {
		return
	}
	m.DBusNotifyTotal.WithLabelValues(status).Inc()
}

// RecordConfigReload counts a configuration reload.
func (m *Metrics) RecordConfigReload(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ConfigReloadsTotal.WithLabelValues(status).Inc()
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", "addr", addr, "path", metricsPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	}
}
