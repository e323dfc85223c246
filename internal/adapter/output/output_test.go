package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevices() []model.Device {
	now := time.Now()
	return []model.Device{
		{
			Name:        "desk",
			IP:          "192.168.1.20",
			Port:        4455,
			Hostname:    "desk.local",
			ServiceType: model.ServiceType,
			OS:          "Fedora Linux 41",
			ID:          "dev-1",
			LastSeen:    now.Add(-5 * time.Minute).Unix(),
		},
		{
			Name:     "phone",
			IP:       "192.168.1.31",
			Port:     4455,
			Hostname: "pixel",
			OS:       "Android 15",
			ID:       "dev-2",
			LastSeen: now.Add(-2 * time.Hour).Unix(),
		},
	}
}

func testRecords() []model.TransferRecord {
	return []model.TransferRecord{
		{
			ID:        "rec-1",
			Direction: model.DirectionIncoming,
			Outcome:   model.OutcomeComplete,
			Peer:      "desk.local",
			Files:     []model.FileInfo{{Name: "a.txt", Size: 1500}},
			TotalSize: 1500,
			Timestamp: time.Now().Add(-time.Minute).Unix(),
		},
		{
			ID:        "rec-2",
			Direction: model.DirectionOutgoing,
			Outcome:   model.OutcomeFailed,
			Peer:      "pixel",
			Error:     "connection reset",
			Timestamp: time.Now().Unix(),
		},
	}
}

func testSnapshot() *store.Snapshot {
	progress := 50
	return &store.Snapshot{
		Devices:              testDevices(),
		AreDevicesRefreshing: true,
		SelectedFiles: []model.SelectedFile{
			{FileUUID: "f-1", Name: "photo.jpg", Size: 2000, MimeType: "image/jpeg", Progress: &progress},
		},
		ShowTransferProgressPopup: true,
		ShowPopup:                 true,
		PopupMessage:              store.MessageTransferComplete,
		DeviceInfo:                model.DeviceInfo{Hostname: "laptop", OSType: "Arch Linux", ID: "self"},
	}
}

func TestDmenuFormatter_Devices(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewDmenuFormatter(DefaultFormatterOptions())
	require.NoError(t, formatter.FormatDevices(&buf, testDevices()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "1 | 5m | desk.local | 192.168.1.20:4455 | linux", lines[0])
	assert.Equal(t, "2 | 2h | pixel | 192.168.1.31:4455 | android", lines[1])
}

func TestDmenuFormatter_NoIndex(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowIndex = false
	opts.ShowTime = false
	require.NoError(t, NewDmenuFormatter(opts).FormatDevices(&buf, testDevices()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "desk.local"))
}

func TestDmenuFormatter_CustomTemplate(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Template = "{{.Index}}: {{.Device.Hostname}} ({{osFamily .Device.OS}})"
	require.NoError(t, NewDmenuFormatter(opts).FormatDevices(&buf, testDevices()))

	assert.Equal(t, "1: desk.local (linux)\n2: pixel (android)\n", buf.String())
}

func TestDmenuFormatter_History(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowTime = false
	require.NoError(t, NewDmenuFormatter(opts).FormatHistory(&buf, testRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1 | incoming complete | desk.local | 1 files (1.5 KB)", lines[0])
	assert.Equal(t, "2 | outgoing failed | pixel | 0 files (0 B)", lines[1])
}

func TestJSONFormatter_Snapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(FormatterOptions{}).FormatSnapshot(&buf, testSnapshot()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["areDevicesRefreshing"])
	assert.Equal(t, store.MessageTransferComplete, decoded["popupMessage"])
	assert.Nil(t, decoded["fileTransferRequestQueue"])
	assert.Len(t, decoded["devices"], 2)
}

func TestJSONFormatter_EmptyLists(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatterOptions{})

	require.NoError(t, f.FormatDevices(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, f.FormatHistory(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter_History(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(FormatterOptions{}).FormatHistory(&buf, testRecords()))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "rec-1", decoded[0]["id"])
	assert.Equal(t, "connection reset", decoded[1]["error"])
	_, hasError := decoded[0]["error"]
	assert.False(t, hasError)
}

func TestYAMLFormatter_Snapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(FormatterOptions{}).FormatSnapshot(&buf, testSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "showTransferProgressPopup: true")
	assert.Contains(t, out, "file_uuid: f-1")
}

func TestPlainFormatter_Snapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(DefaultFormatterOptions()).FormatSnapshot(&buf, testSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "This device: laptop (Arch Linux) self")
	assert.Contains(t, out, "Devices (2) refreshing...")
	assert.Contains(t, out, "Selected files (1, 2.0 KB)")
	assert.Contains(t, out, "photo.jpg  2.0 KB  image/jpeg  50%")
	assert.Contains(t, out, "Transfer progress: 50%")
	assert.Contains(t, out, store.MessageTransferComplete)
}

func TestPlainFormatter_PendingRequest(t *testing.T) {
	snap := &store.Snapshot{
		FileTransferRequestQueue: &model.TransferRequest{
			ID: "req-1",
			Data: model.TransferData{
				FilesInfo:  []model.FileInfo{{Name: "a", Size: 1000}, {Name: "b", Size: 500}},
				DeviceInfo: model.DeviceInfo{Hostname: "desk"},
			},
		},
		WaitingToAcceptTransferRequest: true,
	}

	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(DefaultFormatterOptions()).FormatSnapshot(&buf, snap))

	out := buf.String()
	assert.Contains(t, out, "Incoming request from desk: 2 files (1.5 KB)")
	assert.Contains(t, out, "Waiting for the receiver to accept")
}

func TestPlainFormatter_History(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowTime = false
	require.NoError(t, NewPlainFormatter(opts).FormatHistory(&buf, testRecords()))

	out := buf.String()
	assert.Contains(t, out, "[1] incoming complete desk.local\n    1 files, 1.5 KB: a.txt\n")
	assert.Contains(t, out, "    error: connection reset\n")
}

func TestIDsFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewIDsFormatter()

	require.NoError(t, f.FormatSnapshot(&buf, testSnapshot()))
	assert.Equal(t, "dev-1\ndev-2\n", buf.String())

	buf.Reset()
	require.NoError(t, f.FormatHistory(&buf, testRecords()))
	assert.Equal(t, "rec-1\nrec-2\n", buf.String())
}

func TestNewFormatter(t *testing.T) {
	opts := DefaultFormatterOptions()

	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON, opts))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(FormatYAML, opts))
	assert.IsType(t, &DmenuFormatter{}, NewFormatter(FormatDmenu, opts))
	assert.IsType(t, &IDsFormatter{}, NewFormatter(FormatIDs, opts))
	assert.IsType(t, &PlainFormatter{}, NewFormatter(FormatPlain, opts))
	assert.IsType(t, &PlainFormatter{}, NewFormatter("unknown", opts))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel", truncate("hello", 3))
	assert.Equal(t, "he...", truncate("hello world", 5))
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "unknown", relativeTime(0))
	assert.Equal(t, "now", relativeTime(now.Unix()))
	assert.Equal(t, "10m", relativeTime(now.Add(-10*time.Minute).Unix()))
	assert.Equal(t, "3h", relativeTime(now.Add(-3*time.Hour).Unix()))
	assert.Equal(t, "2d", relativeTime(now.Add(-48*time.Hour).Unix()))
	assert.Equal(t, "2w", relativeTime(now.Add(-15*24*time.Hour).Unix()))
}

func TestCommandWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCommandWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.WriteCommand(model.NewCommand(model.ActionAccept, "req-1", "dev-1")))
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 10)
	for _, line := range lines {
		var cmd model.Command
		require.NoError(t, json.Unmarshal([]byte(line), &cmd))
		assert.Equal(t, model.ActionAccept, cmd.Action)
		assert.Equal(t, "req-1", cmd.RequestID)
	}
}

func TestCommandWriter_SendCarriesFiles(t *testing.T) {
	var buf bytes.Buffer
	progress := 30
	preview := "aGVsbG8="
	files := []model.SelectedFile{{FileUUID: "f-1", FilePath: "/tmp/a", Name: "a", Size: 3, PreviewBase64: &preview, Progress: &progress}}

	require.NoError(t, NewCommandWriter(&buf).WriteCommand(model.NewSendCommand("req-9", "dev-1", files)))

	var cmd model.Command
	require.NoError(t, json.Unmarshal(buf.Bytes(), &cmd))
	assert.Equal(t, model.ActionSend, cmd.Action)
	require.Len(t, cmd.Files, 1)
	assert.Equal(t, "/tmp/a", cmd.Files[0].FilePath)
	assert.Nil(t, cmd.Files[0].Progress)
	assert.Nil(t, cmd.Files[0].PreviewBase64)
	assert.NotContains(t, buf.String(), preview)
}
