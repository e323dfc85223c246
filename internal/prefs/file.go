package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CurrentSchemaVersion is the version written to the preferences file.
const CurrentSchemaVersion = 1

// fileDocument is the on-disk layout of the preferences file.
type fileDocument struct {
	SchemaVersion int               `json:"schema_version"`
	UpdatedAt     int64             `json:"updated_at,omitempty"`
	Values        map[string]string `json:"values"`
}

// FileStore is a Store persisted as a JSON file.
// Every Set/Delete rewrites the file atomically via a temp file.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
	logger *slog.Logger
	closed bool
}

// OpenFileStore loads the preferences file at path.
// A missing file yields an empty store; a corrupted file is logged
// and treated as empty so defaults can be re-applied.
func OpenFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &FileStore{
		path:   path,
		values: make(map[string]string),
		logger: logger,
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Reload re-reads the file from disk, replacing in-memory values.
func (s *FileStore) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.mu.Lock()
			s.values = make(map[string]string)
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read preferences %s: %w", s.path, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("preferences file is corrupted, starting empty", "path", s.path, "error", err)
		doc.Values = nil
	}

	if doc.SchemaVersion > CurrentSchemaVersion {
		return fmt.Errorf("unsupported preferences schema version %d (max: %d)",
			doc.SchemaVersion, CurrentSchemaVersion)
	}

	values := make(map[string]string, len(doc.Values))
	maps.Copy(values, doc.Values)

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Get returns the stored value and whether the key was present.
func (s *FileStore) Get(key Key) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores and persists a value.
func (s *FileStore) Set(key Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.writeLocked(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// Delete removes and persists the removal of a key.
func (s *FileStore) Delete(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.writeLocked()
}

// All returns a copy of every stored pair.
func (s *FileStore) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Close marks the store closed; later writes fail with ErrStoreClosed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// writeLocked persists values. Caller must hold s.mu.
func (s *FileStore) writeLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	doc := fileDocument{
		SchemaVersion: CurrentSchemaVersion,
		UpdatedAt:     time.Now().Unix(),
		Values:        s.values,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}

	return os.Rename(tmpPath, s.path)
}
