package model

import (
	"errors"
	"fmt"
	"time"
)

// EventType identifies an inbound backend event.
type EventType string

// Backend event types.
const (
	EventDeviceDiscovered  EventType = "device_discovered"
	EventDeviceLost        EventType = "device_lost"
	EventDevicesRefreshing EventType = "devices_refreshing"
	EventTransferRequest   EventType = "transfer_request"
	EventTransferProgress  EventType = "transfer_progress"
	EventTransferComplete  EventType = "transfer_complete"
	EventTransferFailed    EventType = "transfer_failed"
	EventSysInfo           EventType = "sys_info"
)

// ValidEventTypes lists every event type the client understands.
var ValidEventTypes = []EventType{
	EventDeviceDiscovered,
	EventDeviceLost,
	EventDevicesRefreshing,
	EventTransferRequest,
	EventTransferProgress,
	EventTransferComplete,
	EventTransferFailed,
	EventSysInfo,
}

// ErrUnknownEventType is returned for events with an unrecognised type.
var ErrUnknownEventType = errors.New("unknown event type")

// Event is one message from the transfer backend.
// Which payload fields are set depends on Type.
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"` // Unix seconds

	Device     *Device          `json:"device,omitempty"`      // device_discovered
	DeviceID   string           `json:"device_id,omitempty"`   // device_lost
	Refreshing bool             `json:"refreshing,omitempty"`  // devices_refreshing
	Request    *TransferRequest `json:"request,omitempty"`     // transfer_request
	TransferID string           `json:"transfer_id,omitempty"` // transfer_progress/complete/failed
	FileUUID   string           `json:"file_uuid,omitempty"`   // transfer_progress
	Progress   int              `json:"progress,omitempty"`    // transfer_progress, percent
	Error      string           `json:"error,omitempty"`       // transfer_failed
	DeviceInfo *DeviceInfo      `json:"device_info,omitempty"` // sys_info
}

// Validate checks that the payload required by Type is present.
func (e *Event) Validate() error {
	switch e.Type {
	case EventDeviceDiscovered:
		if e.Device == nil {
			return fmt.Errorf("%s: missing device", e.Type)
		}
		return e.Device.Validate()
	case EventDeviceLost:
		if e.DeviceID == "" {
			return fmt.Errorf("%s: %w", e.Type, ErrEmptyDeviceID)
		}
	case EventDevicesRefreshing, EventTransferComplete, EventTransferFailed:
	case EventTransferRequest:
		if e.Request == nil {
			return fmt.Errorf("%s: missing request", e.Type)
		}
		return e.Request.Validate()
	case EventTransferProgress:
		if e.FileUUID == "" {
			return fmt.Errorf("%s: missing file_uuid", e.Type)
		}
	case EventSysInfo:
		if e.DeviceInfo == nil {
			return fmt.Errorf("%s: missing device_info", e.Type)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	}
	return nil
}

// Time returns the event timestamp, or the zero time if unset.
func (e *Event) Time() time.Time {
	if e.Timestamp == 0 {
		return time.Time{}
	}
	return time.Unix(e.Timestamp, 0)
}

// EnsureID assigns a ULID and timestamp to events that arrived without them.
func (e *Event) EnsureID() error {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().Unix()
	}
	if e.ID != "" {
		return nil
	}
	id, err := NewRequestID()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}
