// Package dbus is a small session-bus client for the two desktop services
// localdrop talks to: the freedesktop settings portal (to learn whether the
// user prefers a dark appearance) and org.freedesktop.Notifications (to
// announce incoming transfer requests while the app is in the background).
package dbus
