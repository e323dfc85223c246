package prefs

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	s, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, s.All())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "opening must not create the file")
}

func TestFileStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")

	s, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyTheme, "light"))
	require.NoError(t, s.Set(KeySfxEnabled, "true"))

	reopened, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	v, ok := reopened.Get(KeyTheme)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
	assert.True(t, SfxEnabled(reopened))

	// No temp file left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_WritesSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	s, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyColorScheme, "solarized"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc fileDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, CurrentSchemaVersion, doc.SchemaVersion)
	assert.Equal(t, "solarized", doc.Values[KeyColorScheme])
}

func TestFileStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	s, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyTheme, "light"))
	require.NoError(t, s.Delete(KeyTheme))
	require.NoError(t, s.Delete("never-set"))

	reopened, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	_, ok := reopened.Get(KeyTheme)
	assert.False(t, ok)
}

func TestFileStore_CorruptedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, s.All())

	// Validation then repairs the file
	_, err = ValidateAll(s, DefaultRules(), quietLogger())
	require.NoError(t, err)

	reopened, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	assert.Len(t, reopened.All(), 3)
}

func TestFileStore_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version": 99, "values": {}}`), 0600))

	_, err := OpenFileStore(path, quietLogger())
	assert.Error(t, err)
}

func TestFileStore_Closed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	s, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Set(KeyTheme, "dark"), ErrStoreClosed)
	assert.ErrorIs(t, s.Delete(KeyTheme), ErrStoreClosed)
}

func TestWatcher_ReloadsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	s, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyTheme, "dark"))

	changes := make(chan map[string]string, 4)
	w, err := NewWatcher(s, quietLogger(), func(values map[string]string) {
		changes <- values
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Another process edits the file
	other, err := OpenFileStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, other.Set(KeyTheme, "light"))

	select {
	case values := <-changes:
		assert.Equal(t, "light", values[KeyTheme])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for preference change")
	}

	v, _ := s.Get(KeyTheme)
	assert.Equal(t, "light", v)
}
