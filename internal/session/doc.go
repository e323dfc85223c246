// Package session wires the backend event stream to the state container.
// It coordinates sound effects, desktop notifications, transfer history,
// device pruning and configuration hot-reload for a running client.
package session
