package core

import (
	"slices"
	"strconv"
	"strings"

	"github.com/localdrop/localdrop/internal/model"
)

// LookupByID finds a record by its ID.
// Returns nil if not found.
func LookupByID(records []model.TransferRecord, id string) *model.TransferRecord {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}

// LookupByIndex returns the item at a 1-based index.
// Returns nil if index is out of bounds.
func LookupByIndex[T any](items []T, index int) *T {
	idx := index - 1
	if idx < 0 || idx >= len(items) {
		return nil
	}
	return &items[idx]
}

// LookupDevice resolves a user supplied device reference. The query is
// tried as an exact id, a 1-based index, a case-insensitive hostname or
// name, and finally a unique id prefix. Returns nil if nothing matches
// or a prefix is ambiguous.
func LookupDevice(devices []model.Device, query string) *model.Device {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	for i := range devices {
		if devices[i].ID == query {
			return &devices[i]
		}
	}

	if n, err := strconv.Atoi(query); err == nil {
		if d := LookupByIndex(devices, n); d != nil {
			return d
		}
	}

	for i := range devices {
		if strings.EqualFold(devices[i].Hostname, query) || strings.EqualFold(devices[i].Name, query) {
			return &devices[i]
		}
	}

	var match *model.Device
	for i := range devices {
		if strings.HasPrefix(devices[i].ID, query) {
			if match != nil {
				return nil
			}
			match = &devices[i]
		}
	}
	return match
}

// SearchDevices finds devices whose name, hostname, address or OS contains
// term. Case-insensitive substring match.
func SearchDevices(devices []model.Device, term string) []model.Device {
	if term == "" {
		return devices
	}

	term = strings.ToLower(term)
	var result []model.Device

	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), term) ||
			strings.Contains(strings.ToLower(d.Hostname), term) ||
			strings.Contains(d.IP, term) ||
			strings.Contains(strings.ToLower(d.OS), term) {
			result = append(result, d)
		}
	}

	return result
}

// Search finds records whose peer, error or any file name contains term.
// Case-insensitive substring match.
func Search(records []model.TransferRecord, term string) []model.TransferRecord {
	if term == "" {
		return records
	}

	term = strings.ToLower(term)
	var result []model.TransferRecord

	for _, r := range records {
		if recordContains(r, term) {
			result = append(result, r)
		}
	}

	return result
}

func recordContains(r model.TransferRecord, term string) bool {
	if strings.Contains(strings.ToLower(r.Peer), term) ||
		strings.Contains(strings.ToLower(r.Error), term) {
		return true
	}
	for _, f := range r.Files {
		if strings.Contains(strings.ToLower(f.Name), term) {
			return true
		}
	}
	return false
}

// UniquePeers returns a sorted list of unique peer names from records.
func UniquePeers(records []model.TransferRecord) []string {
	seen := make(map[string]bool)
	var peers []string

	for _, r := range records {
		if r.Peer != "" && !seen[r.Peer] {
			seen[r.Peer] = true
			peers = append(peers, r.Peer)
		}
	}

	slices.SortStableFunc(peers, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return peers
}
