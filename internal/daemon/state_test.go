package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "closing", StatusClosing.String())
	assert.Equal(t, "unknown", Status(9).String())
}

func TestState_RegisterAndLookup(t *testing.T) {
	s := NewState()
	s.Register("toast-a", 1, true, false)
	s.Register("toast-b", 2, false, true)

	id, ok := s.ToastID(1)
	require.True(t, ok)
	assert.Equal(t, "toast-a", id)

	e, ok := s.ByToastID("toast-b")
	require.True(t, ok)
	assert.Equal(t, uint32(2), e.DBusID)
	assert.True(t, e.Resident)
	assert.Equal(t, StatusActive, e.Status)
	assert.Equal(t, 2, s.Count())

	_, ok = s.ToastID(3)
	assert.False(t, ok)
}

func TestState_Reregister(t *testing.T) {
	s := NewState()
	s.Register("toast-a", 1, false, false)

	// Same D-Bus id now shown by another toast.
	s.Register("toast-b", 1, false, false)
	_, ok := s.ByToastID("toast-a")
	assert.False(t, ok)
	id, _ := s.ToastID(1)
	assert.Equal(t, "toast-b", id)

	// Same toast re-pointed at another D-Bus id.
	s.Register("toast-b", 7, true, false)
	_, ok = s.ToastID(1)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Count())
}

func TestState_StatusAndRemove(t *testing.T) {
	s := NewState()
	s.Register("toast-a", 1, false, false)

	assert.True(t, s.SetStatus(1, StatusClosing))
	assert.False(t, s.SetStatus(2, StatusClosing))

	e, ok := s.Remove("toast-a")
	require.True(t, ok)
	assert.Equal(t, StatusClosing, e.Status)

	_, ok = s.Remove("toast-a")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Count())
}
