package dbus

import (
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jmylchreest/toastui/internal/metrics"
)

func quietServer() *NotificationServer {
	return NewNotificationServer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNotify_AssignsIDs(t *testing.T) {
	s := quietServer()

	var got []uint32
	s.SetNotifyHandler(func(n *DBusNotification, id uint32) {
		got = append(got, id)
	})

	id1, derr := s.Notify("app", 0, "", "one", "", nil, nil, -1)
	require.Nil(t, derr)
	id2, derr := s.Notify("app", 0, "", "two", "", nil, nil, -1)
	require.Nil(t, derr)
	id3, derr := s.Notify("app", id1, "", "one again", "", nil, nil, -1)
	require.Nil(t, derr)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, id1, id3)
	assert.Equal(t, []uint32{id1, id2, id1}, got)
	assert.True(t, s.IsActive(id1))
	assert.True(t, s.IsActive(id2))
}

func TestNotify_RateLimited(t *testing.T) {
	m, err := metrics.New(nil)
	require.NoError(t, err)

	s := quietServer()
	s.SetMetrics(m)
	s.SetRateLimit(rate.Every(1<<40), 2)

	calls := 0
	s.SetNotifyHandler(func(*DBusNotification, uint32) { calls++ })

	for range 2 {
		_, derr := s.Notify("app", 0, "", "ok", "", nil, nil, -1)
		require.Nil(t, derr)
	}
	_, derr := s.Notify("app", 0, "", "flood", "", nil, nil, -1)
	require.NotNil(t, derr)
	assert.Equal(t, 2, calls)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.DBusNotifyTotal.WithLabelValues("accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBusNotifyTotal.WithLabelValues("rate_limited")))

	s.SetRateLimit(rate.Inf, 0)
	_, derr = s.Notify("app", 0, "", "unlimited", "", nil, nil, -1)
	assert.Nil(t, derr)
}

func TestCloseNotification(t *testing.T) {
	s := quietServer()

	var closed []uint32
	s.SetCloseHandler(func(id uint32) { closed = append(closed, id) })

	id, derr := s.Notify("app", 0, "", "close me", "", nil, nil, -1)
	require.Nil(t, derr)

	assert.Nil(t, s.CloseNotification(id))
	assert.Nil(t, s.CloseNotification(999))
	assert.Equal(t, []uint32{id}, closed)

	// The handler owns the signal, so the id stays active until it reports back.
	assert.True(t, s.IsActive(id))
	assert.ErrorIs(t, s.CloseWithReason(id, CloseReasonClosed), ErrNotConnected)
	assert.False(t, s.IsActive(id))

	// A second close is a no-op.
	assert.NoError(t, s.CloseWithReason(id, CloseReasonClosed))
}

func TestCloseNotification_NoHandler(t *testing.T) {
	s := quietServer()

	id, derr := s.Notify("app", 0, "", "close me", "", nil, nil, -1)
	require.Nil(t, derr)

	assert.Nil(t, s.CloseNotification(id))
	assert.False(t, s.IsActive(id))
}

func TestCapabilitiesAndInfo(t *testing.T) {
	s := quietServer()
	s.SetServerInfo(ServerInfo{Name: "toastd", Vendor: "toastui", Version: "1.0.0", SpecVersion: "1.2"})

	caps, derr := s.GetCapabilities()
	require.Nil(t, derr)
	assert.Contains(t, caps, "body")
	assert.Contains(t, caps, "x-toast-kind")

	name, vendor, version, spec, derr := s.GetServerInformation()
	require.Nil(t, derr)
	assert.Equal(t, []string{"toastd", "toastui", "1.0.0", "1.2"}, []string{name, vendor, version, spec})
}

func TestStop_NotRunning(t *testing.T) {
	assert.NoError(t, quietServer().Stop())
}
