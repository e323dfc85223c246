package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localdrop/localdrop/internal/model"
)

func record(id string) model.TransferRecord {
	return model.TransferRecord{
		ID:        id,
		Direction: model.DirectionIncoming,
		Outcome:   model.OutcomeComplete,
		Peer:      "laptop",
		Files:     []model.FileInfo{{Name: "a.txt", Size: 5}},
		TotalSize: 5,
	}
}

func TestLog_AppendLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.jsonl")

	l, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())

	require.NoError(t, l.Append(record("1")))
	require.NoError(t, l.Append(record("2")))

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.NotZero(t, records[0].Timestamp)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"localdrop_history_version":1`)

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	records, err = reopened.Load()
	require.NoError(t, err)
	assert.Len(t, records, 2, "no second header on reopen")
}

func TestLog_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"localdrop_history_version":1,"created_at":1}
not json
{"id":"","outcome":"complete"}
{"id":"ok","direction":"outgoing","outcome":"failed","peer":"p","total_size":0,"timestamp":1}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.OutcomeFailed, records[0].Outcome)
}

func TestLog_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"localdrop_history_version":99,"created_at":1}`+"\n"), 0600))

	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Load()
	assert.Error(t, err)
}

func TestLog_TrimAndClear(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)
	defer l.Close()

	for _, id := range []string{"1", "2", "3", "4"} {
		require.NoError(t, l.Append(record(id)))
	}

	n, err := l.Trim(0)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = l.Trim(2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "3", records[0].ID)

	require.NoError(t, l.Append(record("5")), "log is still writable after a rewrite")
	records, err = l.Load()
	require.NoError(t, err)
	assert.Len(t, records, 3)

	require.NoError(t, l.Clear())
	records, err = l.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLog_Closed(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	assert.ErrorIs(t, l.Append(record("1")), ErrLogClosed)
	_, err = l.Load()
	assert.ErrorIs(t, err, ErrLogClosed)
	assert.ErrorIs(t, l.Clear(), ErrLogClosed)
	_, err = l.Trim(1)
	assert.ErrorIs(t, err, ErrLogClosed)
}

func TestRecordBuilders(t *testing.T) {
	req := &model.TransferRequest{
		ID: "r1",
		Data: model.TransferData{
			FilesInfo:  []model.FileInfo{{Name: "a", Size: 2}, {Name: "b", Size: 3}},
			DeviceInfo: model.DeviceInfo{Hostname: "laptop"},
		},
	}
	in := Incoming(req, model.OutcomeRejected, "")
	assert.Equal(t, model.DirectionIncoming, in.Direction)
	assert.Equal(t, "laptop", in.Peer)
	assert.Equal(t, int64(5), in.TotalSize)
	assert.Equal(t, 2, in.FileCount())

	out := Outgoing("t1", "phone", []model.SelectedFile{{Name: "x", Size: 7}}, model.OutcomeFailed, "reset")
	assert.Equal(t, model.DirectionOutgoing, out.Direction)
	assert.Equal(t, int64(7), out.TotalSize)
	assert.Equal(t, "reset", out.Error)
}
