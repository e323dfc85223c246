package store

import (
	"slices"
	"time"

	"github.com/localdrop/localdrop/internal/model"
)

// UpsertDevice adds d or replaces the device with the same ID, keeping
// its position in the list. A zero LastSeen is set to now.
func (s *Store) UpsertDevice(d model.Device) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.LastSeen == 0 {
		d.Touch()
	}

	return s.mutate(func() (ChangeEvent, bool, error) {
		if i := s.deviceIndex(d.ID); i >= 0 {
			s.devices[i] = d
		} else {
			s.devices = append(s.devices, d)
		}
		return ChangeEvent{Type: ChangeTypeDevices, Count: 1, Source: d.ID}, true, nil
	})
}

// RemoveDevice drops the device with id.
func (s *Store) RemoveDevice(id string) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		i := s.deviceIndex(id)
		if i < 0 {
			return ChangeEvent{}, false, ErrDeviceNotFound
		}
		s.devices = slices.Delete(s.devices, i, i+1)
		return ChangeEvent{Type: ChangeTypeDevices, Count: 1, Source: id}, true, nil
	})
}

// SetDevices replaces the whole device list. Invalid devices are skipped;
// later duplicates of an ID win.
func (s *Store) SetDevices(devices []model.Device) error {
	list := make([]model.Device, 0, len(devices))
	seen := make(map[string]int, len(devices))
	for _, d := range devices {
		if d.Validate() != nil {
			continue
		}
		if d.LastSeen == 0 {
			d.Touch()
		}
		if i, ok := seen[d.ID]; ok {
			list[i] = d
			continue
		}
		seen[d.ID] = len(list)
		list = append(list, d)
	}

	return s.mutate(func() (ChangeEvent, bool, error) {
		s.devices = list
		return ChangeEvent{Type: ChangeTypeDevices, Count: len(list)}, true, nil
	})
}

// SetDevicesRefreshing sets the refresh-in-progress flag.
func (s *Store) SetDevicesRefreshing(refreshing bool) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		if s.areDevicesRefreshing == refreshing {
			return ChangeEvent{}, false, nil
		}
		s.areDevicesRefreshing = refreshing
		return ChangeEvent{Type: ChangeTypeDevices}, true, nil
	})
}

// PruneDevices removes devices not seen within maxAge of now and returns
// how many were removed. A non-positive maxAge disables pruning.
func (s *Store) PruneDevices(now time.Time, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	var removed int
	err := s.mutate(func() (ChangeEvent, bool, error) {
		before := len(s.devices)
		s.devices = slices.DeleteFunc(s.devices, func(d model.Device) bool {
			return d.IsStale(now, maxAge)
		})
		removed = before - len(s.devices)
		return ChangeEvent{Type: ChangeTypeDevices, Count: removed}, removed > 0, nil
	})
	return removed, err
}

// Devices returns a copy of the device list.
func (s *Store) Devices() []model.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.devices)
}

// Device returns the device with id.
func (s *Store) Device(id string) (model.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.deviceIndex(id); i >= 0 {
		return s.devices[i], true
	}
	return model.Device{}, false
}

// deviceIndex returns the index of id in s.devices or -1. Callers hold s.mu.
func (s *Store) deviceIndex(id string) int {
	return slices.IndexFunc(s.devices, func(d model.Device) bool { return d.ID == id })
}
