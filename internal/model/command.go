package model

import "time"

// Action is an outbound command verb.
type Action string

const (
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionSend    Action = "send"
	ActionRefresh Action = "refresh"
)

// Command is sent to the transfer backend in response to user input.
type Command struct {
	Action    Action         `json:"action"`
	RequestID string         `json:"request_id,omitempty"`
	DeviceID  string         `json:"device_id,omitempty"`
	Files     []SelectedFile `json:"files,omitempty"` // send only
	Timestamp int64          `json:"timestamp"`
}

// NewCommand builds a command stamped with the current time.
func NewCommand(action Action, requestID, deviceID string) Command {
	return Command{
		Action:    action,
		RequestID: requestID,
		DeviceID:  deviceID,
		Timestamp: time.Now().Unix(),
	}
}

// NewSendCommand builds a request to offer files to the device with deviceID.
// Previews and progress stay local.
func NewSendCommand(requestID, deviceID string, files []SelectedFile) Command {
	cmd := NewCommand(ActionSend, requestID, deviceID)
	cmd.Files = make([]SelectedFile, len(files))
	for i := range files {
		cmd.Files[i] = files[i].Clone()
		cmd.Files[i].Progress = nil
		cmd.Files[i].PreviewBase64 = nil
	}
	return cmd
}
