package dbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Caller performs a method call and returns the reply body.
// Session implements it over the real bus; tests supply fakes.
type Caller interface {
	Call(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...any) ([]any, error)
}

// Session is a lazily-connected session bus Caller.
type Session struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewSession creates a Session. No connection is made until the first call.
func NewSession() *Session {
	return &Session{}
}

// Call invokes method ("interface.Member") on dest at path.
func (s *Session) Call(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...any) ([]any, error) {
	conn, err := s.connect()
	if err != nil {
		return nil, err
	}

	call := conn.Object(dest, path).CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return nil, fmt.Errorf("%s: %w", method, call.Err)
	}
	return call.Body, nil
}

// connect returns the shared connection, dialing on first use.
func (s *Session) connect() (*dbus.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil && s.conn.Connected() {
		return s.conn, nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn
	return conn, nil
}

// Close closes the underlying connection if one was opened.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// unwrapVariant strips any number of nested variants.
// Portal Settings.Read wraps the value twice on older implementations.
func unwrapVariant(v any) any {
	for {
		variant, ok := v.(dbus.Variant)
		if !ok {
			return v
		}
		v = variant.Value()
	}
}
