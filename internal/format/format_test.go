package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		decimals int
		want     string
	}{
		{0, 1, "0 B"},
		{0, 3, "0 B"},
		{1, 1, "1.0 B"},
		{999, 1, "999.0 B"},
		{1000, 1, "1.0 KB"},
		{1500, 1, "1.5 KB"},
		{1500, 0, "2 KB"},
		{1234567, 2, "1.23 MB"},
		{5_000_000_000, 1, "5.0 GB"},
		{7_250_000_000_000, 1, "7.3 TB"},
		{2500, 0, "3 KB"},
		{3_000_000_000_000_000, 1, "3.0 PB"},
		{2_000_000_000_000_000_000, 1, "2000.0 PB"},
		{1500, -1, "2 KB"},
		{-1500, 1, "-1.5 KB"},
		{math.MinInt64, 1, "-9223.4 PB"},
		{math.MaxInt64, 1, "9223.4 PB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Size(tt.bytes, tt.decimals))
		})
	}
}

func TestSizeDefault(t *testing.T) {
	assert.Equal(t, "1.5 KB", SizeDefault(1500))
	assert.Equal(t, "0 B", SizeDefault(0))
}

func TestRelativeTime(t *testing.T) {
	assert.Equal(t, "never", RelativeTime(time.Time{}))
	assert.Equal(t, "now", RelativeTime(time.Now()))
	assert.Contains(t, RelativeTime(time.Now().Add(-3*time.Minute)), "minutes ago")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0%", Percent(-4))
	assert.Equal(t, "42%", Percent(42))
	assert.Equal(t, "100%", Percent(101))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "", ProgressBar(50, 0))
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "░░░░", ProgressBar(-1, 4))
	assert.Equal(t, "████", ProgressBar(200, 4))
}
