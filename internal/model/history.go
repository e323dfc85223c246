package model

import "time"

// Direction of a finished transfer.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Outcome of a finished transfer.
type Outcome string

const (
	OutcomeComplete  Outcome = "complete"
	OutcomeFailed    Outcome = "failed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeCancelled Outcome = "cancelled"
)

// TransferRecord is one entry in the transfer history log.
type TransferRecord struct {
	ID        string     `json:"id"`
	Direction Direction  `json:"direction"`
	Outcome   Outcome    `json:"outcome"`
	Peer      string     `json:"peer"`
	Files     []FileInfo `json:"files,omitempty"`
	TotalSize int64      `json:"total_size"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp int64      `json:"timestamp"`
}

// Time returns the record time.
func (r *TransferRecord) Time() time.Time {
	return time.Unix(r.Timestamp, 0)
}

// FileCount returns the number of files in the record.
func (r *TransferRecord) FileCount() int {
	return len(r.Files)
}
