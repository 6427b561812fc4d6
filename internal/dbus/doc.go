// Package dbus implements the org.freedesktop.Notifications D-Bus interface
// on top of toastui notifications. The server receives Notify and
// CloseNotification calls, maps their hints to toast options, and emits
// NotificationClosed and ActionInvoked signals. A small client is provided
// for the toastui CLI.
package dbus
