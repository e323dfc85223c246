// Package input provides input adapters for backend event sources.
package input

import (
	"context"
	"os"
	"strconv"

	"github.com/localdrop/localdrop/internal/model"
)

// EventSource yields events from the transfer backend.
type EventSource interface {
	// Name returns the source identifier (e.g., "stdin", "file").
	Name() string

	// Import reads every event until the source is exhausted.
	Import(ctx context.Context) ([]model.Event, error)

	// Stream delivers events as they arrive. Both channels are closed when
	// the source ends; at most one error is sent.
	Stream(ctx context.Context) (<-chan model.Event, <-chan error)

	// Close releases the underlying file. Cancelling a Stream closes it too.
	Close() error
}

// NewSource creates an EventSource for the named source. "" and "-" mean
// standard input, anything else is opened as a file path.
func NewSource(source string) (EventSource, error) {
	switch source {
	case "", "-", "stdin":
		return NewStdinReader(), nil
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, &AdapterError{
				Source:  source,
				Message: "failed to open event source",
				Err:     err,
			}
		}
		return newFileReader(f, "file"), nil
	}
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Line    int // 1-based input line, 0 when not line specific
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	msg := e.Message
	if e.Line > 0 {
		msg = e.Source + ":" + strconv.Itoa(e.Line) + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
