package core

import (
	"testing"
	"time"

	"github.com/localdrop/localdrop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []model.TransferRecord {
	now := time.Now()
	return []model.TransferRecord{
		{
			ID: "1", Direction: model.DirectionIncoming, Outcome: model.OutcomeComplete, Peer: "desk",
			Files:     []model.FileInfo{{Name: "report.pdf", Size: 2_000_000}},
			TotalSize: 2_000_000, Timestamp: now.Add(-30 * time.Minute).Unix(),
		},
		{
			ID: "2", Direction: model.DirectionOutgoing, Outcome: model.OutcomeFailed, Peer: "pixel",
			Files:     []model.FileInfo{{Name: "a.jpg", Size: 500}, {Name: "b.jpg", Size: 700}},
			TotalSize: 1200, Error: "connection reset", Timestamp: now.Add(-2 * time.Hour).Unix(),
		},
		{
			ID: "3", Direction: model.DirectionIncoming, Outcome: model.OutcomeRejected, Peer: "Desk",
			Files:     []model.FileInfo{{Name: "movie.mkv", Size: 40_000_000}},
			TotalSize: 40_000_000, Timestamp: now.Add(-72 * time.Hour).Unix(),
		},
	}
}

func ids(records []model.TransferRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter_Empty(t *testing.T) {
	assert.Len(t, Filter(nil, FilterOptions{}), 0)
}

func TestFilter_NoFilters(t *testing.T) {
	assert.Len(t, Filter(testRecords(), FilterOptions{}), 3)
}

func TestFilter_Options(t *testing.T) {
	records := testRecords()

	tests := []struct {
		name     string
		opts     FilterOptions
		expected []string
	}{
		{"since", FilterOptions{Since: time.Hour}, []string{"1"}},
		{"direction", FilterOptions{Direction: model.DirectionIncoming}, []string{"1", "3"}},
		{"outcome", FilterOptions{Outcome: model.OutcomeFailed}, []string{"2"}},
		{"peer ignores case", FilterOptions{Peer: "DESK"}, []string{"1", "3"}},
		{"limit", FilterOptions{Limit: 2}, []string{"1", "2"}},
		{"combined", FilterOptions{Direction: model.DirectionIncoming, Since: 24 * time.Hour}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Filter(records, tt.opts)))
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"0", 0, false},
		{"", 0, false},
		{"48h", 48 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestParseDirectionAndOutcome(t *testing.T) {
	d, err := ParseDirection("in")
	require.NoError(t, err)
	assert.Equal(t, model.DirectionIncoming, d)

	d, err = ParseDirection("sent")
	require.NoError(t, err)
	assert.Equal(t, model.DirectionOutgoing, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)

	o, err := ParseOutcome("canceled")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCancelled, o)

	o, err = ParseOutcome("FAILED")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailed, o)

	_, err = ParseOutcome("maybe")
	assert.Error(t, err)
}

func TestParseFilter_Errors(t *testing.T) {
	for _, expr := range []string{
		"nonsense",
		"colour=red",
		"size>lots",
		"files=many",
		"peer~=(",
		"direction=up",
		"timestamp>soon",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseFilter(expr)
			assert.Error(t, err)
		})
	}
}

func TestFilterWithExpr(t *testing.T) {
	records := testRecords()

	tests := []struct {
		expr     string
		expected []string
	}{
		{"", []string{"1", "2", "3"}},
		{"peer=desk", []string{"1", "3"}},
		{"peer!=desk", []string{"2"}},
		{"file~.jpg", []string{"2"}},
		{"file!=a.jpg", []string{"1", "3"}},
		{"file~=^movie", []string{"3"}},
		{"size>10MB", []string{"3"}},
		{"size<=2MB", []string{"1", "2"}},
		{"files>=2", []string{"2"}},
		{"error~reset", []string{"2"}},
		{"direction=in,outcome=complete", []string{"1"}},
		{"dir=out", []string{"2"}},
		{"timestamp>1h", []string{"1"}},
		{"timestamp<24h", []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expr, err := ParseFilter(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(FilterWithExpr(records, expr)))
		})
	}
}

func TestFilterWithExpr_Nil(t *testing.T) {
	records := testRecords()
	assert.Len(t, FilterWithExpr(records, nil), 3)
}
