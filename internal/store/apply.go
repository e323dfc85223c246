package store

import (
	"errors"
	"fmt"

	"github.com/localdrop/localdrop/internal/model"
)

// Popup messages shown when a transfer finishes.
const (
	MessageTransferComplete = "Transfer complete."
	MessageTransferFailed   = "Transfer failed"
)

// Apply folds a backend event into the state.
func (s *Store) Apply(e model.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	switch e.Type {
	case model.EventDeviceDiscovered:
		return s.UpsertDevice(*e.Device)

	case model.EventDeviceLost:
		err := s.RemoveDevice(e.DeviceID)
		if errors.Is(err, ErrDeviceNotFound) {
			return nil
		}
		return err

	case model.EventDevicesRefreshing:
		return s.SetDevicesRefreshing(e.Refreshing)

	case model.EventTransferRequest:
		return s.OfferTransfer(*e.Request)

	case model.EventTransferProgress:
		return s.UpdateProgress(e.FileUUID, e.Progress)

	case model.EventTransferComplete:
		return s.finishTransfer(MessageTransferComplete, e.TransferID, true)

	case model.EventTransferFailed:
		msg := MessageTransferFailed + "."
		if e.Error != "" {
			msg = fmt.Sprintf("%s: %s", MessageTransferFailed, e.Error)
		}
		return s.finishTransfer(msg, e.TransferID, false)

	case model.EventSysInfo:
		return s.SetDeviceInfo(*e.DeviceInfo)
	}
	return nil
}

// finishTransfer ends the transfer in flight and shows msg. A successful
// transfer also empties the selection; a failed one keeps it for a retry.
func (s *Store) finishTransfer(msg, id string, clearFiles bool) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		s.endTransfer()
		if clearFiles && len(s.selectedFiles) > 0 {
			s.selectedFiles = make([]model.SelectedFile, 0)
			s.notifyChange(ChangeEvent{Type: ChangeTypeFiles, Source: id})
		}
		s.showPopup = true
		s.popupMessage = msg
		s.notifyChange(ChangeEvent{Type: ChangeTypeTransfer, Source: id})
		return ChangeEvent{Type: ChangeTypePopup}, true, nil
	})
}
