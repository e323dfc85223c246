package store

import (
	"github.com/localdrop/localdrop/internal/model"
)

// OfferTransfer fills the request slot and shows the request popup.
// Returns ErrQueueFull if a request is already pending; the pending
// request is left untouched.
func (s *Store) OfferTransfer(req model.TransferRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return s.mutate(func() (ChangeEvent, bool, error) {
		if s.fileTransferRequestQueue != nil {
			return ChangeEvent{}, false, ErrQueueFull
		}
		s.fileTransferRequestQueue = req.Clone()
		s.showFileTransferRequestPopup = true
		return ChangeEvent{Type: ChangeTypeRequest, Count: req.FileCount(), Source: req.ID}, true, nil
	})
}

// AcceptTransfer empties the request slot, hides the request popup, shows
// the progress popup and returns the accept command for the backend.
func (s *Store) AcceptTransfer() (model.Command, error) {
	return s.answer(model.ActionAccept)
}

// RejectTransfer empties the request slot, hides the request popup and
// returns the reject command for the backend.
func (s *Store) RejectTransfer() (model.Command, error) {
	return s.answer(model.ActionReject)
}

func (s *Store) answer(action model.Action) (model.Command, error) {
	var cmd model.Command
	err := s.mutate(func() (ChangeEvent, bool, error) {
		req := s.fileTransferRequestQueue
		if req == nil {
			return ChangeEvent{}, false, ErrNoPendingRequest
		}

		cmd = model.NewCommand(action, req.ID, req.Data.DeviceInfo.ID)
		s.fileTransferRequestQueue = nil
		s.showFileTransferRequestPopup = false
		if action == model.ActionAccept {
			s.showTransferProgressPopup = true
		}
		return ChangeEvent{Type: ChangeTypeRequest, Source: req.ID}, true, nil
	})
	return cmd, err
}

// PendingRequest returns a copy of the request in the slot.
func (s *Store) PendingRequest() (*model.TransferRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fileTransferRequestQueue == nil {
		return nil, false
	}
	return s.fileTransferRequestQueue.Clone(), true
}

// BeginSend marks an outgoing request to receiverID as waiting for the
// peer to accept. At least one file must be selected.
func (s *Store) BeginSend(receiverID string) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		if len(s.selectedFiles) == 0 {
			return ChangeEvent{}, false, ErrNoSelectedFiles
		}
		if s.deviceIndex(receiverID) < 0 {
			return ChangeEvent{}, false, ErrDeviceNotFound
		}
		s.waitingToAcceptTransferRequest = true
		return ChangeEvent{Type: ChangeTypeTransfer, Count: len(s.selectedFiles), Source: receiverID}, true, nil
	})
}

// CancelTransfer stops waiting for acceptance, hides the progress popup,
// resets per-file progress and returns the cancel command. id names the
// transfer for the backend and may be empty for "the current one".
func (s *Store) CancelTransfer(id string) (model.Command, error) {
	cmd := model.NewCommand(model.ActionCancel, id, "")
	err := s.mutate(func() (ChangeEvent, bool, error) {
		s.endTransfer()
		return ChangeEvent{Type: ChangeTypeTransfer, Source: id}, true, nil
	})
	return cmd, err
}

// endTransfer clears the in-flight transfer flags. Callers hold s.mu.
func (s *Store) endTransfer() {
	s.waitingToAcceptTransferRequest = false
	s.showTransferProgressPopup = false
	for i := range s.selectedFiles {
		s.selectedFiles[i].Progress = nil
	}
}
