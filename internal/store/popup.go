package store

import "github.com/localdrop/localdrop/internal/model"

// ShowMessage opens the generic popup with msg.
func (s *Store) ShowMessage(msg string) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		s.showPopup = true
		s.popupMessage = msg
		return ChangeEvent{Type: ChangeTypePopup}, true, nil
	})
}

// DismissMessage closes the generic popup and clears its message.
func (s *Store) DismissMessage() error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		if !s.showPopup && s.popupMessage == "" {
			return ChangeEvent{}, false, nil
		}
		s.showPopup = false
		s.popupMessage = ""
		return ChangeEvent{Type: ChangeTypePopup}, true, nil
	})
}

// SetFocused records whether the main window has focus.
func (s *Store) SetFocused(focused bool) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		if s.isFocused == focused {
			return ChangeEvent{}, false, nil
		}
		s.isFocused = focused
		return ChangeEvent{Type: ChangeTypeFocus}, true, nil
	})
}

// IsFocused reports whether the main window has focus.
func (s *Store) IsFocused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isFocused
}

// SetDeviceInfo sets the local device identity.
func (s *Store) SetDeviceInfo(info model.DeviceInfo) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		s.deviceInfo = info
		return ChangeEvent{Type: ChangeTypeDeviceInfo, Source: info.ID}, true, nil
	})
}

// DeviceInfo returns the local device identity.
func (s *Store) DeviceInfo() model.DeviceInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceInfo
}
