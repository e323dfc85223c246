package store

import (
	"slices"

	"github.com/localdrop/localdrop/internal/model"
)

// AddSelectedFiles appends files, replacing any with the same FileUUID.
// Returns the number of files added or replaced.
func (s *Store) AddSelectedFiles(files ...model.SelectedFile) (int, error) {
	var n int
	err := s.mutate(func() (ChangeEvent, bool, error) {
		for _, f := range files {
			if f.FileUUID == "" {
				continue
			}
			f = f.Clone()
			if i := s.fileIndex(f.FileUUID); i >= 0 {
				s.selectedFiles[i] = f
			} else {
				s.selectedFiles = append(s.selectedFiles, f)
			}
			n++
		}
		return ChangeEvent{Type: ChangeTypeFiles, Count: n}, n > 0, nil
	})
	return n, err
}

// RemoveSelectedFile drops the file with uuid.
func (s *Store) RemoveSelectedFile(uuid string) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		i := s.fileIndex(uuid)
		if i < 0 {
			return ChangeEvent{}, false, ErrFileNotFound
		}
		s.selectedFiles = slices.Delete(s.selectedFiles, i, i+1)
		return ChangeEvent{Type: ChangeTypeFiles, Count: 1, Source: uuid}, true, nil
	})
}

// ClearSelectedFiles empties the selection.
func (s *Store) ClearSelectedFiles() error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		n := len(s.selectedFiles)
		s.selectedFiles = make([]model.SelectedFile, 0)
		return ChangeEvent{Type: ChangeTypeFiles, Count: n}, n > 0, nil
	})
}

// UpdateProgress sets a file's progress, clamped to 0-100. Receiving
// progress also means the peer accepted, so waiting ends and the progress
// popup is shown.
func (s *Store) UpdateProgress(uuid string, percent int) error {
	return s.mutate(func() (ChangeEvent, bool, error) {
		i := s.fileIndex(uuid)
		if i < 0 {
			return ChangeEvent{}, false, ErrFileNotFound
		}
		s.selectedFiles[i].SetProgress(percent)
		s.waitingToAcceptTransferRequest = false
		s.showTransferProgressPopup = true
		return ChangeEvent{Type: ChangeTypeTransfer, Count: s.selectedFiles[i].ProgressValue(), Source: uuid}, true, nil
	})
}

// SelectedFiles returns a deep copy of the selection.
func (s *Store) SelectedFiles() []model.SelectedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneFiles(s.selectedFiles)
}

// fileIndex returns the index of uuid in s.selectedFiles or -1. Callers hold s.mu.
func (s *Store) fileIndex(uuid string) int {
	return slices.IndexFunc(s.selectedFiles, func(f model.SelectedFile) bool { return f.FileUUID == uuid })
}

func cloneFiles(files []model.SelectedFile) []model.SelectedFile {
	out := make([]model.SelectedFile, len(files))
	for i := range files {
		out[i] = files[i].Clone()
	}
	return out
}
