package core

import (
	"cmp"
	"slices"
	"strings"

	"github.com/localdrop/localdrop/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortByPeer      SortField = "peer"
	SortBySize      SortField = "size"
	SortByName      SortField = "name" // devices only
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField // Field to sort by
	Order SortOrder // Sort order (asc/desc)
}

// DefaultSortOptions returns default sort options (newest first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByTimestamp,
		Order: SortDesc,
	}
}

// Sort sorts records in place based on the provided options.
func Sort(records []model.TransferRecord, opts SortOptions) {
	slices.SortStableFunc(records, func(a, b model.TransferRecord) int {
		var c int
		switch opts.Field {
		case SortByPeer:
			c = cmp.Compare(strings.ToLower(a.Peer), strings.ToLower(b.Peer))
		case SortBySize:
			c = cmp.Compare(a.TotalSize, b.TotalSize)
		default:
			c = cmp.Compare(a.Timestamp, b.Timestamp)
		}
		if opts.Order == SortDesc {
			return -c
		}
		return c
	})
}

// SortDevices sorts devices in place. SortByTimestamp orders by last seen,
// anything else by display name.
func SortDevices(devices []model.Device, opts SortOptions) {
	slices.SortStableFunc(devices, func(a, b model.Device) int {
		var c int
		if opts.Field == SortByTimestamp {
			c = cmp.Compare(a.LastSeen, b.LastSeen)
		} else {
			c = cmp.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
		}
		if opts.Order == SortDesc {
			return -c
		}
		return c
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "timestamp", "time", "t", "seen":
		return SortByTimestamp, nil
	case "peer", "p":
		return SortByPeer, nil
	case "size", "s":
		return SortBySize, nil
	case "name", "hostname", "n":
		return SortByName, nil
	default:
		return SortByTimestamp, nil
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return SortDesc, nil
	}
}
