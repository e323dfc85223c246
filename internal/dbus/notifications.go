package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	// NotificationsDest is the notification service bus name.
	NotificationsDest = "org.freedesktop.Notifications"
	// NotificationsPath is the notification object path.
	NotificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	// NotifyMethod is the fully qualified Notify method.
	NotifyMethod = "org.freedesktop.Notifications.Notify"
)

// Urgency levels from the freedesktop notification spec.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// Notification holds the arguments of an org.freedesktop.Notifications.Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// SetHint sets a hint, allocating the map on first use.
func (n *Notification) SetHint(name string, value any) {
	if n.Hints == nil {
		n.Hints = make(map[string]dbus.Variant)
	}
	n.Hints[name] = dbus.MakeVariant(value)
}

// Notify sends n and returns the server-assigned notification id.
func Notify(ctx context.Context, c Caller, n *Notification) (uint32, error) {
	actions := n.Actions
	if actions == nil {
		actions = []string{}
	}
	hints := n.Hints
	if hints == nil {
		hints = map[string]dbus.Variant{}
	}

	body, err := c.Call(ctx, NotificationsDest, NotificationsPath, NotifyMethod,
		n.AppName, n.ReplacesID, n.AppIcon, n.Summary, n.Body, actions, hints, n.ExpireTimeout)
	if err != nil {
		return 0, err
	}
	if len(body) == 0 {
		return 0, fmt.Errorf("%w: empty Notify reply", ErrUnexpectedReply)
	}

	id, ok := body[0].(uint32)
	if !ok {
		return 0, fmt.Errorf("%w: Notify returned %T", ErrUnexpectedReply, body[0])
	}
	return id, nil
}
