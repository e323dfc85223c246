package model

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"
)

// ServiceType is the DNS-SD service type peers advertise.
const ServiceType = "_localdrop._tcp"

// Validation errors.
var (
	ErrEmptyDeviceID   = errors.New("device id cannot be empty")
	ErrEmptyDeviceIP   = errors.New("device ip cannot be empty")
	ErrInvalidPort     = errors.New("device port must be between 1 and 65535")
	ErrInvalidDeviceIP = errors.New("device ip is not a valid address")
)

// Device is a peer discovered on the local network.
type Device struct {
	Name        string `json:"name"`
	IP          string `json:"ip"`
	Port        int    `json:"port"`
	Hostname    string `json:"hostname"`
	ServiceType string `json:"service_type" yaml:"service_type"`
	OS          string `json:"os"`
	ID          string `json:"id"`

	// LastSeen is set locally when a discovery event arrives.
	LastSeen int64 `json:"last_seen,omitempty" yaml:"last_seen,omitempty"`
}

// DeviceInfo identifies a device (local or remote) to the user.
type DeviceInfo struct {
	Hostname string `json:"hostname"`
	OSType   string `json:"os_type" yaml:"os_type"`
	ID       string `json:"id"`
}

// Validate checks that the device can be addressed.
func (d *Device) Validate() error {
	if d.ID == "" {
		return ErrEmptyDeviceID
	}
	if d.IP == "" {
		return ErrEmptyDeviceIP
	}
	if net.ParseIP(d.IP) == nil {
		return ErrInvalidDeviceIP
	}
	if d.Port < 1 || d.Port > 65535 {
		return ErrInvalidPort
	}
	return nil
}

// Address returns the host:port the backend would dial.
func (d *Device) Address() string {
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// DisplayName returns the best available human label.
func (d *Device) DisplayName() string {
	switch {
	case d.Hostname != "":
		return d.Hostname
	case d.Name != "":
		return d.Name
	default:
		return d.IP
	}
}

// ShortID returns the first 8 characters of the device id.
func (d *Device) ShortID() string {
	if len(d.ID) <= 8 {
		return d.ID
	}
	return d.ID[:8]
}

// Touch records the device as seen now.
func (d *Device) Touch() {
	d.LastSeen = time.Now().Unix()
}

// LastSeenTime returns LastSeen as a time.Time (zero if never seen).
func (d *Device) LastSeenTime() time.Time {
	if d.LastSeen == 0 {
		return time.Time{}
	}
	return time.Unix(d.LastSeen, 0)
}

// IsStale reports whether the device has not been seen within maxAge.
// Devices never touched are not considered stale.
func (d *Device) IsStale(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 || d.LastSeen == 0 {
		return false
	}
	return now.Sub(d.LastSeenTime()) > maxAge
}

// Info returns the DeviceInfo view of the device.
func (d *Device) Info() DeviceInfo {
	return DeviceInfo{
		Hostname: d.Hostname,
		OSType:   d.OS,
		ID:       d.ID,
	}
}

// OSFamily maps a long OS description to a short family name
// ("linux", "windows", "macos", "android", "ios" or "unknown").
func OSFamily(os string) string {
	s := strings.ToLower(os)
	switch {
	case strings.Contains(s, "android"):
		return "android"
	case strings.Contains(s, "ios"), strings.Contains(s, "iphone"), strings.Contains(s, "ipad"):
		return "ios"
	case strings.Contains(s, "mac"), strings.Contains(s, "darwin"):
		return "macos"
	case strings.Contains(s, "windows"):
		return "windows"
	case strings.Contains(s, "linux"), strings.Contains(s, "ubuntu"),
		strings.Contains(s, "fedora"), strings.Contains(s, "debian"),
		strings.Contains(s, "arch"):
		return "linux"
	default:
		return "unknown"
	}
}
