package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// Message is a notification sent by Client.Notify.
type Message struct {
	AppName     string
	ReplacesID  uint32
	Summary     string
	Body        string
	Kind        string
	Position    string
	Description string
	// Timeout below zero uses the server default; zero never expires.
	Timeout time.Duration
}

// Hints returns the hint map for m.
func (m Message) Hints() map[string]dbus.Variant {
	hints := make(map[string]dbus.Variant)
	if m.Kind != "" {
		hints[HintKind] = dbus.MakeVariant(m.Kind)
	}
	if m.Position != "" {
		hints[HintPosition] = dbus.MakeVariant(m.Position)
	}
	if m.Description != "" {
		hints[HintDescription] = dbus.MakeVariant(m.Description)
	}
	return hints
}

// ExpireTimeout converts Timeout to the wire value.
func (m Message) ExpireTimeout() int32 {
	if m.Timeout < 0 {
		return -1
	}
	return int32(m.Timeout / time.Millisecond)
}

// Client talks to whichever daemon owns org.freedesktop.Notifications.
type Client struct {
	conn *dbus.Conn
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Notify sends m and returns the id assigned by the server.
func (c *Client) Notify(ctx context.Context, m Message) (uint32, error) {
	appName := m.AppName
	if appName == "" {
		appName = "toastui"
	}

	var id uint32
	err := c.object().CallWithContext(ctx, DBusInterface+".Notify", 0,
		appName, m.ReplacesID, "", m.Summary, m.Body, []string{}, m.Hints(), m.ExpireTimeout(),
	).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	return id, nil
}

// CloseNotification asks the server to close id.
func (c *Client) CloseNotification(ctx context.Context, id uint32) error {
	if err := c.object().CallWithContext(ctx, DBusInterface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("close notification: %w", err)
	}
	return nil
}

// ServerInformation returns the server's name, vendor and version.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	err := c.object().CallWithContext(ctx, DBusInterface+".GetServerInformation", 0).
		Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion)
	if err != nil {
		return ServerInfo{}, fmt.Errorf("server information: %w", err)
	}
	return info, nil
}

func (c *Client) object() dbus.BusObject {
	return c.conn.Object(DBusBusName, DBusPath)
}
