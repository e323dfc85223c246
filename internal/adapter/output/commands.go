package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/localdrop/localdrop/internal/model"
)

// CommandWriter emits newline-delimited JSON commands for the backend.
// It is safe for concurrent use.
type CommandWriter struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewCommandWriter creates a CommandWriter on w.
func NewCommandWriter(w io.Writer) *CommandWriter {
	return &CommandWriter{encoder: json.NewEncoder(w)}
}

// WriteCommand writes one command as a single line.
func (c *CommandWriter) WriteCommand(cmd model.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.encoder.Encode(cmd); err != nil {
		return fmt.Errorf("failed to write %s command: %w", cmd.Action, err)
	}
	return nil
}
