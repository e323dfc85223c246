package input

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/localdrop/localdrop/internal/model"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB, previews are inlined as base64

// Reader decodes newline-delimited JSON events. A whole input holding a
// single JSON array of events is accepted by Import as well.
type Reader struct {
	reader io.Reader
	name   string
	logger *slog.Logger

	closer    io.Closer
	closeOnce sync.Once
	closeErr  error
}

// NewStdinReader creates a Reader on os.Stdin.
func NewStdinReader() *Reader {
	return NewReader(os.Stdin, "stdin")
}

// NewReader creates a Reader on r. name identifies the source in errors.
func NewReader(r io.Reader, name string) *Reader {
	return &Reader{reader: r, name: name, logger: slog.Default()}
}

// newFileReader creates a Reader that owns f.
func newFileReader(f *os.File, name string) *Reader {
	r := NewReader(f, name)
	r.closer = f
	return r
}

// Close closes the file the Reader owns. Readers on stdin or a caller's
// io.Reader have nothing to close. Repeated calls return the first result.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	r.closeOnce.Do(func() {
		r.closeErr = r.closer.Close()
	})
	return r.closeErr
}

// SetLogger replaces the logger used for skipped lines.
func (r *Reader) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Name returns the adapter identifier.
func (r *Reader) Name() string {
	return r.name
}

// Import reads all events. Malformed or invalid events are skipped and
// logged; only read failures are returned.
func (r *Reader) Import(ctx context.Context) ([]model.Event, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, &AdapterError{Source: r.name, Message: "failed to read events", Err: err}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return r.parseArray(trimmed)
	}

	var events []model.Event
	scanner := newScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return events, err
		}
		e, ok := r.parseLine(scanner.Bytes(), line)
		if ok {
			events = append(events, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return events, &AdapterError{Source: r.name, Line: line + 1, Message: "failed to read events", Err: err}
	}
	return events, nil
}

// Stream decodes events line by line as they arrive. Cancelling ctx closes
// an owned file so a read blocked on a FIFO returns.
func (r *Reader) Stream(ctx context.Context) (<-chan model.Event, <-chan error) {
	events := make(chan model.Event)
	errs := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			_ = r.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(done)
		defer close(errs)
		defer close(events)

		scanner := newScanner(r.reader)
		line := 0
		for scanner.Scan() {
			line++
			e, ok := r.parseLine(scanner.Bytes(), line)
			if !ok {
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			errs <- &AdapterError{Source: r.name, Line: line + 1, Message: "failed to read events", Err: err}
		}
	}()

	return events, errs
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return scanner
}

// parseLine decodes one line. Blank lines and # comments are ignored.
func (r *Reader) parseLine(raw []byte, line int) (model.Event, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '#' {
		return model.Event{}, false
	}

	var e model.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		r.logger.Warn("skipping malformed event",
			"error", &AdapterError{Source: r.name, Line: line, Message: "invalid JSON", Err: err})
		return model.Event{}, false
	}
	if err := r.prepare(&e); err != nil {
		r.logger.Warn("skipping invalid event",
			"error", &AdapterError{Source: r.name, Line: line, Message: "invalid event", Err: err})
		return model.Event{}, false
	}
	return e, true
}

func (r *Reader) parseArray(data []byte) ([]model.Event, error) {
	var entries []model.Event
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &AdapterError{Source: r.name, Message: "failed to parse JSON input", Err: err}
	}

	events := make([]model.Event, 0, len(entries))
	for i := range entries {
		if err := r.prepare(&entries[i]); err != nil {
			r.logger.Warn("skipping invalid event", "index", i, "error", err)
			continue
		}
		events = append(events, entries[i])
	}
	return events, nil
}

// prepare sanitizes display strings, assigns missing ids and validates.
func (r *Reader) prepare(e *model.Event) error {
	if e.Device != nil {
		e.Device.Name = sanitizeString(e.Device.Name)
		e.Device.Hostname = sanitizeString(e.Device.Hostname)
		e.Device.OS = sanitizeString(e.Device.OS)
	}
	if e.Request != nil {
		e.Request.Data.DeviceInfo.Hostname = sanitizeString(e.Request.Data.DeviceInfo.Hostname)
		for i := range e.Request.Data.FilesInfo {
			e.Request.Data.FilesInfo[i].Name = sanitizeString(e.Request.Data.FilesInfo[i].Name)
		}
	}
	if e.DeviceInfo != nil {
		e.DeviceInfo.Hostname = sanitizeString(e.DeviceInfo.Hostname)
		e.DeviceInfo.OSType = sanitizeString(e.DeviceInfo.OSType)
	}
	e.Error = sanitizeString(e.Error)

	if err := e.EnsureID(); err != nil {
		return err
	}
	return e.Validate()
}

// sanitizeString removes control characters from peer-supplied text.
func sanitizeString(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r < 32 || r == 127 {
			result.WriteRune(' ')
		} else {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
