package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Validation errors.
var (
	ErrEmptyRequestID = errors.New("transfer request id cannot be empty")
	ErrNoFiles        = errors.New("transfer request has no files")
	ErrEmptyFileName  = errors.New("file name cannot be empty")
	ErrNegativeSize   = errors.New("file size cannot be negative")
)

// FileInfo describes one file offered in a transfer request.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// TransferData is the payload of an incoming transfer request.
type TransferData struct {
	FilesInfo    []FileInfo `json:"files_info" yaml:"files_info"`
	DeviceInfo   DeviceInfo `json:"device_info" yaml:"device_info"`
	ReceiverInfo string     `json:"receiver_info" yaml:"receiver_info"`
}

// TransferRequest is a file offer from a peer awaiting accept/reject.
type TransferRequest struct {
	ID   string       `json:"id"`
	Data TransferData `json:"data"`
}

// NewRequestID generates a sortable request identifier.
func NewRequestID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id.String(), nil
}

// Validate checks that the request can be shown to the user.
func (r *TransferRequest) Validate() error {
	if r.ID == "" {
		return ErrEmptyRequestID
	}
	if len(r.Data.FilesInfo) == 0 {
		return ErrNoFiles
	}
	for _, f := range r.Data.FilesInfo {
		if f.Name == "" {
			return ErrEmptyFileName
		}
		if f.Size < 0 {
			return ErrNegativeSize
		}
	}
	return nil
}

// TotalSize returns the summed size of all offered files.
func (r *TransferRequest) TotalSize() int64 {
	var total int64
	for _, f := range r.Data.FilesInfo {
		total += f.Size
	}
	return total
}

// FileCount returns the number of offered files.
func (r *TransferRequest) FileCount() int {
	return len(r.Data.FilesInfo)
}

// Sender returns a label for the offering device.
func (r *TransferRequest) Sender() string {
	if r.Data.DeviceInfo.Hostname != "" {
		return r.Data.DeviceInfo.Hostname
	}
	if r.Data.DeviceInfo.ID != "" {
		return r.Data.DeviceInfo.ID
	}
	return "unknown device"
}

// Clone returns a deep copy of the request.
func (r *TransferRequest) Clone() *TransferRequest {
	clone := *r
	clone.Data.FilesInfo = append([]FileInfo(nil), r.Data.FilesInfo...)
	return &clone
}

// SelectedFile is a local file chosen for sending.
type SelectedFile struct {
	FileUUID      string  `json:"file_uuid" yaml:"file_uuid"`
	FilePath      string  `json:"file_path" yaml:"file_path"`
	Name          string  `json:"name"`
	Size          int64   `json:"size"`
	PreviewBase64 *string `json:"preview_base64,omitempty" yaml:"preview_base64,omitempty"`
	MimeType      string  `json:"mime_type" yaml:"mime_type"`
	Progress      *int    `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// HasPreview reports whether a thumbnail is attached.
func (f *SelectedFile) HasPreview() bool {
	return f.PreviewBase64 != nil && *f.PreviewBase64 != ""
}

// ProgressValue returns the progress percentage, 0 when unset.
func (f *SelectedFile) ProgressValue() int {
	if f.Progress == nil {
		return 0
	}
	return *f.Progress
}

// SetProgress stores a percentage clamped to 0-100.
func (f *SelectedFile) SetProgress(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	f.Progress = &percent
}

// Clone returns a deep copy of the file.
func (f *SelectedFile) Clone() SelectedFile {
	clone := *f
	if f.PreviewBase64 != nil {
		p := *f.PreviewBase64
		clone.PreviewBase64 = &p
	}
	if f.Progress != nil {
		p := *f.Progress
		clone.Progress = &p
	}
	return clone
}
