package store

import (
	"slices"

	"github.com/localdrop/localdrop/internal/model"
)

// Snapshot is a point-in-time copy of the whole state.
// Field names and JSON tags mirror the front-end state shape.
type Snapshot struct {
	IsFocused                      bool                   `json:"isFocused" yaml:"isFocused"`
	AreDevicesRefreshing           bool                   `json:"areDevicesRefreshing" yaml:"areDevicesRefreshing"`
	Devices                        []model.Device         `json:"devices" yaml:"devices"`
	ShowFileTransferRequestPopup   bool                   `json:"showFileTransferRequestPopup" yaml:"showFileTransferRequestPopup"`
	ShowTransferProgressPopup      bool                   `json:"showTransferProgressPopup" yaml:"showTransferProgressPopup"`
	ShowPopup                      bool                   `json:"showPopup" yaml:"showPopup"`
	PopupMessage                   string                 `json:"popupMessage" yaml:"popupMessage"`
	FileTransferRequestQueue       *model.TransferRequest `json:"fileTransferRequestQueue" yaml:"fileTransferRequestQueue"`
	WaitingToAcceptTransferRequest bool                   `json:"waitingToAcceptTransferRequest" yaml:"waitingToAcceptTransferRequest"`
	SelectedFiles                  []model.SelectedFile   `json:"selectedFiles" yaml:"selectedFiles"`
	DeviceInfo                     model.DeviceInfo       `json:"deviceInfo" yaml:"deviceInfo"`
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		IsFocused:                      s.isFocused,
		AreDevicesRefreshing:           s.areDevicesRefreshing,
		Devices:                        slices.Clone(s.devices),
		ShowFileTransferRequestPopup:   s.showFileTransferRequestPopup,
		ShowTransferProgressPopup:      s.showTransferProgressPopup,
		ShowPopup:                      s.showPopup,
		PopupMessage:                   s.popupMessage,
		WaitingToAcceptTransferRequest: s.waitingToAcceptTransferRequest,
		SelectedFiles:                  cloneFiles(s.selectedFiles),
		DeviceInfo:                     s.deviceInfo,
	}
	if s.fileTransferRequestQueue != nil {
		snap.FileTransferRequestQueue = s.fileTransferRequestQueue.Clone()
	}
	return snap
}

// TotalSelectedSize returns the summed size of the selected files.
func (snap *Snapshot) TotalSelectedSize() int64 {
	var total int64
	for _, f := range snap.SelectedFiles {
		total += f.Size
	}
	return total
}

// OverallProgress returns the size-weighted progress of the selected files.
func (snap *Snapshot) OverallProgress() int {
	total := snap.TotalSelectedSize()
	if total == 0 {
		return 0
	}
	var done int64
	for _, f := range snap.SelectedFiles {
		done += f.Size * int64(f.ProgressValue()) / 100
	}
	return int(done * 100 / total)
}
