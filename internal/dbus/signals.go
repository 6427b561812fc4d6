package dbus

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a signal is emitted before Start.
var ErrNotConnected = errors.New("not connected to D-Bus")

// EmitNotificationClosed emits the NotificationClosed signal.
// This signal is emitted when a notification is closed, either by timeout,
// user dismissal, or explicit close request.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason CloseReason) error {
	if s.conn == nil {
		return ErrNotConnected
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".NotificationClosed", id, uint32(reason))
	if err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// EmitActionInvoked emits the ActionInvoked signal.
func (s *NotificationServer) EmitActionInvoked(id uint32, actionKey string) error {
	if s.conn == nil {
		return ErrNotConnected
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".ActionInvoked", id, actionKey)
	if err != nil {
		return fmt.Errorf("failed to emit ActionInvoked signal: %w", err)
	}

	s.logger.Debug("emitted ActionInvoked signal", "id", id, "action_key", actionKey)
	return nil
}

// CloseWithReason closes a notification and emits the appropriate signal.
// Notifications that are no longer active are ignored so the signal is
// emitted at most once per id.
func (s *NotificationServer) CloseWithReason(id uint32, reason CloseReason) error {
	s.mu.Lock()
	active := s.activeIDs[id]
	delete(s.activeIDs, id)
	s.mu.Unlock()

	if !active {
		return nil
	}
	return s.EmitNotificationClosed(id, reason)
}

// InvokeAction invokes an action on a notification and emits the signal.
// If the notification is not resident, it is also closed after the action.
func (s *NotificationServer) InvokeAction(id uint32, actionKey string, resident bool) error {
	if err := s.EmitActionInvoked(id, actionKey); err != nil {
		return err
	}

	if !resident {
		return s.CloseWithReason(id, CloseReasonDismissed)
	}

	return nil
}

