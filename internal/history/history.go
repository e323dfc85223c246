// Package history keeps a JSONL log of finished transfers so the user can
// see what was sent and received after the popups are gone.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/localdrop/localdrop/internal/model"
)

// SchemaVersion is the current history file schema version.
const SchemaVersion = 1

// ErrLogClosed is returned by operations on a closed Log.
var ErrLogClosed = errors.New("history log is closed")

// schemaHeader is the first line of a history file.
type schemaHeader struct {
	SchemaVersion int   `json:"localdrop_history_version"`
	CreatedAt     int64 `json:"created_at"`
}

// Log is an append-only JSONL transfer log.
type Log struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

// Open opens or creates the log at path, writing a header to new files.
func Open(path string) (*Log, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	l := &Log{path: path, file: file}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := l.writeHeader(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}
	return l, nil
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

func (l *Log) writeHeader() error {
	data, err := json.Marshal(schemaHeader{
		SchemaVersion: SchemaVersion,
		CreatedAt:     time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = l.file.Write(append(data, '\n'))
	return err
}

// Load reads every record, oldest first. Malformed lines are skipped.
func (l *Log) Load() ([]model.TransferRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrLogClosed
	}
	return readRecords(l.path)
}

func readRecords(path string) ([]model.TransferRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []model.TransferRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if first {
			first = false
			var header schemaHeader
			if json.Unmarshal(line, &header) == nil && header.SchemaVersion > 0 {
				if header.SchemaVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported history schema version %d (max: %d)",
						header.SchemaVersion, SchemaVersion)
				}
				continue
			}
		}

		var r model.TransferRecord
		if err := json.Unmarshal(line, &r); err != nil || r.ID == "" {
			continue
		}
		records = append(records, r)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("error reading %s: %w", path, err)
	}
	return records, nil
}

// Append writes one record and syncs the file.
func (l *Log) Append(r model.TransferRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLogClosed
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return err
	}
	return l.file.Sync()
}

// Trim keeps only the newest max records. A non-positive max keeps everything.
func (l *Log) Trim(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, ErrLogClosed
	}

	records, err := readRecords(l.path)
	if err != nil {
		return 0, err
	}
	if len(records) <= max {
		return 0, nil
	}

	dropped := len(records) - max
	return dropped, l.rewrite(records[dropped:])
}

// Clear removes every record.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLogClosed
	}
	return l.rewrite(nil)
}

// rewrite replaces the file contents with records, keeping a backup until
// the new file is synced. Callers hold l.mu.
func (l *Log) rewrite(records []model.TransferRecord) error {
	if err := l.file.Close(); err != nil {
		return err
	}
	l.file = nil

	backupPath := l.path + ".bak"
	if err := os.Rename(l.path, backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND, 0600)
	if err != nil {
		_ = os.Rename(backupPath, l.path)
		return fmt.Errorf("failed to create new file: %w", err)
	}
	l.file = file

	if err := l.writeHeader(); err != nil {
		return err
	}
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := l.file.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	if err := l.file.Sync(); err != nil {
		return err
	}

	_ = os.Remove(backupPath)
	return nil
}

// Close closes the file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
