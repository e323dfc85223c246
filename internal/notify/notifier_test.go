package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	godbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localdrop/localdrop/internal/config"
	"github.com/localdrop/localdrop/internal/model"
)

type sentCall struct {
	method string
	args   []any
}

type fakeCaller struct {
	calls  []sentCall
	nextID uint32
	err    error
}

func (f *fakeCaller) Call(_ context.Context, _ string, _ godbus.ObjectPath, method string, args ...any) ([]any, error) {
	f.calls = append(f.calls, sentCall{method: method, args: args})
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	return []any{f.nextID}, nil
}

func testConfig() config.NotifyConfig {
	return config.NotifyConfig{
		Enabled: true,
		MinGap:  config.Duration(5 * time.Second),
		Timeout: config.Duration(3 * time.Second),
	}
}

func TestNotifier_RateLimitsPerKey(t *testing.T) {
	caller := &fakeCaller{}
	n := New(caller, testConfig(), nil)

	now := time.Unix(1000, 0)
	n.now = func() time.Time { return now }

	ctx := context.Background()
	assert.True(t, n.Notify(ctx, "a", "one", "", LevelInfo))
	assert.False(t, n.Notify(ctx, "a", "two", "", LevelInfo), "same key within gap")
	assert.True(t, n.Notify(ctx, "b", "three", "", LevelInfo), "different key")

	now = now.Add(6 * time.Second)
	assert.True(t, n.Notify(ctx, "a", "four", "", LevelInfo))
	require.Len(t, caller.calls, 3)

	// The repeat of key "a" replaces the first bubble.
	assert.Equal(t, uint32(1), caller.calls[2].args[1])
	assert.Equal(t, int32(3000), caller.calls[2].args[7])
}

func TestNotifier_Disabled(t *testing.T) {
	caller := &fakeCaller{}
	cfg := testConfig()
	cfg.Enabled = false
	n := New(caller, cfg, nil)

	assert.False(t, n.Notify(context.Background(), "a", "x", "", LevelInfo))

	n.SetEnabled(true)
	assert.True(t, n.Notify(context.Background(), "a", "x", "", LevelInfo))

	assert.False(t, New(nil, testConfig(), nil).Notify(context.Background(), "a", "x", "", LevelInfo))
}

func TestNotifier_CallFailure(t *testing.T) {
	n := New(&fakeCaller{err: errors.New("no notification daemon")}, testConfig(), nil)
	assert.False(t, n.Notify(context.Background(), "a", "x", "", LevelError))
}

func TestNotifier_TransferRequestBody(t *testing.T) {
	caller := &fakeCaller{}
	n := New(caller, testConfig(), nil)

	req := &model.TransferRequest{
		ID: "r1",
		Data: model.TransferData{
			FilesInfo:  []model.FileInfo{{Name: "a", Size: 1000}, {Name: "b", Size: 500}},
			DeviceInfo: model.DeviceInfo{Hostname: "laptop"},
		},
	}
	require.True(t, n.NotifyTransferRequest(context.Background(), req))

	args := caller.calls[0].args
	assert.Equal(t, "localdrop", args[0])
	assert.Equal(t, "Incoming transfer", args[3])
	assert.Equal(t, "laptop wants to send you 2 files (1.5 KB).", args[4])
	hints := args[6].(map[string]godbus.Variant)
	assert.Equal(t, byte(1), hints["urgency"].Value())
}

func TestNotifier_Helpers(t *testing.T) {
	caller := &fakeCaller{}
	n := New(caller, testConfig(), nil)
	ctx := context.Background()

	assert.True(t, n.NotifyTransferComplete(ctx))
	assert.False(t, n.NotifyTransferFailed(ctx, "x"), "shares the transfer-result key")
	assert.True(t, n.NotifyConfigError(ctx, errors.New("bad toml")))

	require.Len(t, caller.calls, 2)
	hints := caller.calls[0].args[6].(map[string]godbus.Variant)
	assert.Equal(t, true, hints["transient"].Value())
}

func TestNotifier_UpdateConfig(t *testing.T) {
	caller := &fakeCaller{}
	n := New(caller, testConfig(), nil)

	cfg := testConfig()
	cfg.MinGap = 0
	n.UpdateConfig(cfg)

	ctx := context.Background()
	assert.True(t, n.Notify(ctx, "a", "x", "", LevelInfo))
	assert.True(t, n.Notify(ctx, "a", "x", "", LevelInfo))
}
