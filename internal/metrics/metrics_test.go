package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordToastLifecycle(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := New(registry)
	require.NoError(t, err)

	m.RecordToastShown("success", "top-right")
	m.RecordToastShown("success", "top-right")
	m.RecordToastShown("error", "center")
	m.RecordToastRemoved("expired", 5*time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ToastsShownTotal.WithLabelValues("success", "top-right")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ToastsRemovedTotal.WithLabelValues("expired")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ToastsActive))
}

func TestRecordConfirmations(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.RecordConfirmOpened()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfirmationOpen))

	m.RecordConfirmClosed("cancelled")
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ConfirmationOpen))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfirmationsOpenedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfirmationsClosedTotal.WithLabelValues("cancelled")))
}

func TestRecordDaemonEvents(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.RecordDBusNotify("accepted")
	m.RecordDBusNotify("rate_limited")
	m.RecordConfigReload(nil)
	m.RecordConfigReload(errors.New("bad toml"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBusNotifyTotal.WithLabelValues("rate_limited")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfigReloadsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfigReloadsTotal.WithLabelValues("error")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordToastShown("info", "top-left")
		m.RecordToastRemoved("dismissed", time.Second)
		m.RecordConfirmOpened()
		m.RecordConfirmClosed("confirmed")
		m.RecordDBusNotify("accepted")
		m.RecordConfigReload(nil)
	})
}

func TestDoubleRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := New(registry)
	require.NoError(t, err)

	_, err = New(registry)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	m.RecordToastShown("warning", "bottom-left")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, metricsPath, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `toastui_toasts_shown_total{kind="warning",position="bottom-left"} 1`))
}
