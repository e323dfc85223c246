package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localdrop/localdrop/internal/model"
)

func TestParseDmenuSelection(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"01J9Z3ABCDEF", "01J9Z3ABCDEF"},
		{"  7  ", "7"},
		{"3 | 5m | incoming complete | laptop | 2 files (1.5 KB)", "3"},
		{"x | not an index", "x | not an index"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDmenuSelection(tt.input))
		})
	}
}

func TestApplyHistoryFilters(t *testing.T) {
	records := []model.TransferRecord{
		{ID: "1", Direction: model.DirectionIncoming, Outcome: model.OutcomeComplete, Peer: "laptop"},
		{ID: "2", Direction: model.DirectionOutgoing, Outcome: model.OutcomeFailed, Peer: "desk"},
		{ID: "3", Direction: model.DirectionOutgoing, Outcome: model.OutcomeComplete, Peer: "desk"},
	}

	t.Cleanup(func() {
		historyOpts.direction, historyOpts.filter, historyOpts.limit = "", "", 0
	})

	historyOpts.direction = "outgoing"
	got, err := applyHistoryFilters(records)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	historyOpts.filter = "outcome=complete"
	got, err = applyHistoryFilters(records)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	historyOpts.filter = "nonsense"
	_, err = applyHistoryFilters(records)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	ft, err := parseFormat("yaml")
	require.NoError(t, err)
	assert.EqualValues(t, "yaml", ft)

	_, err = parseFormat("xml")
	assert.Error(t, err)
}
