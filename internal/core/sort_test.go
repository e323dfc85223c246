package core

import (
	"testing"

	"github.com/localdrop/localdrop/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSort_Default(t *testing.T) {
	records := testRecords()
	Sort(records, DefaultSortOptions())
	assert.Equal(t, []string{"1", "2", "3"}, ids(records), "newest first")
}

func TestSort_Fields(t *testing.T) {
	tests := []struct {
		name     string
		opts     SortOptions
		expected []string
	}{
		{"timestamp asc", SortOptions{Field: SortByTimestamp, Order: SortAsc}, []string{"3", "2", "1"}},
		{"size desc", SortOptions{Field: SortBySize, Order: SortDesc}, []string{"3", "1", "2"}},
		{"size asc", SortOptions{Field: SortBySize, Order: SortAsc}, []string{"2", "1", "3"}},
		{"peer asc is stable", SortOptions{Field: SortByPeer, Order: SortAsc}, []string{"1", "3", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := testRecords()
			Sort(records, tt.opts)
			assert.Equal(t, tt.expected, ids(records))
		})
	}
}

func TestSort_Empty(t *testing.T) {
	Sort(nil, DefaultSortOptions())
}

func TestSortDevices(t *testing.T) {
	devices := []model.Device{
		{ID: "b", Hostname: "zeta", LastSeen: 10},
		{ID: "a", Hostname: "Alpha", LastSeen: 30},
		{ID: "c", Name: "mid", LastSeen: 20},
	}

	SortDevices(devices, SortOptions{Field: SortByName, Order: SortAsc})
	assert.Equal(t, "a", devices[0].ID)
	assert.Equal(t, "c", devices[1].ID)
	assert.Equal(t, "b", devices[2].ID)

	SortDevices(devices, SortOptions{Field: SortByTimestamp, Order: SortDesc})
	assert.Equal(t, "a", devices[0].ID)
	assert.Equal(t, "c", devices[1].ID)
	assert.Equal(t, "b", devices[2].ID)
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		input    string
		expected SortField
	}{
		{"timestamp", SortByTimestamp},
		{"seen", SortByTimestamp},
		{"peer", SortByPeer},
		{"S", SortBySize},
		{"hostname", SortByName},
		{"unknown", SortByTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseSortField(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected SortOrder
	}{
		{"asc", SortAsc},
		{"ascending", SortAsc},
		{"desc", SortDesc},
		{"d", SortDesc},
		{"", SortDesc},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			o, err := ParseSortOrder(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, o)
		})
	}
}
