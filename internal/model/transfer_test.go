package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() TransferRequest {
	return TransferRequest{
		ID: "req-1",
		Data: TransferData{
			FilesInfo: []FileInfo{
				{Name: "a.txt", Size: 1500},
				{Name: "b.png", Size: 2500},
			},
			DeviceInfo:   DeviceInfo{Hostname: "phone", OSType: "Android 14", ID: "dev-1"},
			ReceiverInfo: "laptop",
		},
	}
}

func TestNewRequestID(t *testing.T) {
	a, err := NewRequestID()
	require.NoError(t, err)
	b, err := NewRequestID()
	require.NoError(t, err)

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}

func TestTransferRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*TransferRequest)
		wantErr error
	}{
		{"valid", func(r *TransferRequest) {}, nil},
		{"empty id", func(r *TransferRequest) { r.ID = "" }, ErrEmptyRequestID},
		{"no files", func(r *TransferRequest) { r.Data.FilesInfo = nil }, ErrNoFiles},
		{"empty name", func(r *TransferRequest) { r.Data.FilesInfo[0].Name = "" }, ErrEmptyFileName},
		{"negative size", func(r *TransferRequest) { r.Data.FilesInfo[1].Size = -1 }, ErrNegativeSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRequest()
			tt.modify(&r)
			assert.ErrorIs(t, r.Validate(), tt.wantErr)
		})
	}
}

func TestTransferRequest_Totals(t *testing.T) {
	r := testRequest()
	assert.Equal(t, int64(4000), r.TotalSize())
	assert.Equal(t, 2, r.FileCount())
	assert.Equal(t, "phone", r.Sender())

	r.Data.DeviceInfo.Hostname = ""
	assert.Equal(t, "dev-1", r.Sender())

	r.Data.DeviceInfo.ID = ""
	assert.Equal(t, "unknown device", r.Sender())
}

func TestTransferRequest_CloneIsDeep(t *testing.T) {
	r := testRequest()
	c := r.Clone()
	c.Data.FilesInfo[0].Name = "changed"

	assert.Equal(t, "a.txt", r.Data.FilesInfo[0].Name)
}

func TestTransferRequest_WireFormat(t *testing.T) {
	raw := `{"id":"r","data":{"files_info":[{"name":"x","size":3}],"device_info":{"hostname":"h","os_type":"Linux","id":"d"},"receiver_info":"me"}}`

	var r TransferRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "r", r.ID)
	assert.Equal(t, int64(3), r.Data.FilesInfo[0].Size)
	assert.Equal(t, "Linux", r.Data.DeviceInfo.OSType)
	assert.Equal(t, "me", r.Data.ReceiverInfo)
}

func TestSelectedFile_Progress(t *testing.T) {
	f := SelectedFile{FileUUID: "u", Name: "a"}
	assert.Equal(t, 0, f.ProgressValue())

	f.SetProgress(42)
	assert.Equal(t, 42, f.ProgressValue())

	f.SetProgress(150)
	assert.Equal(t, 100, f.ProgressValue())

	f.SetProgress(-5)
	assert.Equal(t, 0, f.ProgressValue())
}

func TestSelectedFile_CloneIsDeep(t *testing.T) {
	preview := "aGVsbG8="
	f := SelectedFile{FileUUID: "u", PreviewBase64: &preview}
	f.SetProgress(10)

	c := f.Clone()
	c.SetProgress(90)
	*c.PreviewBase64 = "changed"

	assert.Equal(t, 10, f.ProgressValue())
	assert.Equal(t, "aGVsbG8=", *f.PreviewBase64)
	assert.True(t, f.HasPreview())
}

func TestSelectedFile_OmitsEmptyOptionalFields(t *testing.T) {
	f := SelectedFile{FileUUID: "u", FilePath: "/tmp/a", Name: "a", Size: 1, MimeType: "text/plain"}

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "preview_base64")
	assert.NotContains(t, string(data), "progress")
}

func TestNewSendCommand_StripsLocalFields(t *testing.T) {
	preview := "aGVsbG8="
	f := SelectedFile{FileUUID: "u", FilePath: "/tmp/a.png", Name: "a.png", Size: 5, PreviewBase64: &preview}
	f.SetProgress(50)

	cmd := NewSendCommand("req-1", "dev-1", []SelectedFile{f})

	require.Len(t, cmd.Files, 1)
	assert.Equal(t, ActionSend, cmd.Action)
	assert.Equal(t, "/tmp/a.png", cmd.Files[0].FilePath)
	assert.Nil(t, cmd.Files[0].PreviewBase64)
	assert.Nil(t, cmd.Files[0].Progress)
	assert.True(t, f.HasPreview(), "caller's file keeps its preview")
}
