package tui

import (
	"strings"

	"github.com/localdrop/localdrop/internal/core"
)

// isFilterExpression reports whether a search query should be treated as a
// history filter (e.g. "outcome=failed,size>1MB") rather than free text.
func isFilterExpression(query string) bool {
	if !strings.ContainsAny(query, "=<>~") {
		return false
	}
	_, err := core.ParseFilter(query)
	return err == nil
}
