// Package store holds the reactive UI state of the localdrop front end:
// discovered devices, the single-slot incoming transfer request, files
// selected for sending, popup flags and the local device identity.
// Every mutation notifies subscribers so views can redraw.
package store

import (
	"errors"
	"slices"
	"sync"

	"github.com/localdrop/localdrop/internal/model"
)

// Errors returned by Store operations.
var (
	ErrStoreClosed      = errors.New("store is closed")
	ErrQueueFull        = errors.New("a transfer request is already pending")
	ErrNoPendingRequest = errors.New("no pending transfer request")
	ErrNoSelectedFiles  = errors.New("no files selected")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrFileNotFound     = errors.New("selected file not found")
)

// ChangeType indicates which part of the state changed.
type ChangeType int

const (
	// ChangeTypeDevices indicates the device list or its refresh flag changed.
	ChangeTypeDevices ChangeType = iota
	// ChangeTypeRequest indicates the incoming request slot changed.
	ChangeTypeRequest
	// ChangeTypeTransfer indicates waiting/progress state changed.
	ChangeTypeTransfer
	// ChangeTypeFiles indicates the selected files changed.
	ChangeTypeFiles
	// ChangeTypePopup indicates the generic popup changed.
	ChangeTypePopup
	// ChangeTypeFocus indicates the window focus changed.
	ChangeTypeFocus
	// ChangeTypeDeviceInfo indicates the local identity changed.
	ChangeTypeDeviceInfo
)

// String returns the name of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeTypeDevices:
		return "devices"
	case ChangeTypeRequest:
		return "request"
	case ChangeTypeTransfer:
		return "transfer"
	case ChangeTypeFiles:
		return "files"
	case ChangeTypePopup:
		return "popup"
	case ChangeTypeFocus:
		return "focus"
	case ChangeTypeDeviceInfo:
		return "device_info"
	default:
		return "unknown"
	}
}

// ChangeEvent signals a state change.
type ChangeEvent struct {
	Type   ChangeType
	Count  int    // Items affected, where meaningful
	Source string // Device, request or file id, where meaningful
}

// Store is the UI state container. The zero value is not usable; call New.
type Store struct {
	mu sync.RWMutex

	isFocused                      bool
	areDevicesRefreshing           bool
	devices                        []model.Device
	showFileTransferRequestPopup   bool
	showTransferProgressPopup      bool
	showPopup                      bool
	popupMessage                   string
	fileTransferRequestQueue       *model.TransferRequest
	waitingToAcceptTransferRequest bool
	selectedFiles                  []model.SelectedFile
	deviceInfo                     model.DeviceInfo

	subscribers []chan ChangeEvent
	closed      bool
}

// New creates a Store with every flag off and every collection empty.
func New() *Store {
	return &Store{
		devices:       make([]model.Device, 0),
		selectedFiles: make([]model.SelectedFile, 0),
	}
}

// Subscribe returns a channel that receives change events.
// Delivery is best effort: events are dropped for subscribers that fall behind.
func (s *Store) Subscribe() <-chan ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan ChangeEvent, 16)
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (s *Store) Unsubscribe(ch <-chan ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.subscribers, func(sub chan ChangeEvent) bool { return sub == ch })
	if i < 0 {
		return
	}
	close(s.subscribers[i])
	s.subscribers = slices.Delete(s.subscribers, i, i+1)
}

// Close closes all subscriber channels. Later mutations return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	return nil
}

// notifyChange sends an event to all subscribers without blocking.
// Callers hold s.mu.
func (s *Store) notifyChange(event ChangeEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// mutate runs fn under the write lock and publishes its event if fn
// reports a change.
func (s *Store) mutate(fn func() (ChangeEvent, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	event, changed, err := fn()
	if err != nil {
		return err
	}
	if changed {
		s.notifyChange(event)
	}
	return nil
}
