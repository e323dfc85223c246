// Package core provides filtering, sorting, and lookup logic for transfer
// history and discovered devices.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/localdrop/localdrop/internal/model"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // Field name: direction, outcome, peer, file, error, size, files, timestamp
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	// Cached parsed values for efficiency
	regex       *regexp.Regexp // Compiled regex for ~= operator
	intVal      int64          // Parsed size or file count
	timestampOp time.Time      // Parsed timestamp for comparison
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// FilterOptions specifies criteria for filtering history records.
type FilterOptions struct {
	Since     time.Duration   // Filter to records newer than now-since (0=all)
	Direction model.Direction // Exact match on direction ("" = any)
	Outcome   model.Outcome   // Exact match on outcome ("" = any)
	Peer      string          // Case-insensitive match on peer ("" = any)
	Limit     int             // Maximum results (0=unlimited)
}

// Filter filters records based on the provided options.
func Filter(records []model.TransferRecord, opts FilterOptions) []model.TransferRecord {
	now := time.Now()
	result := make([]model.TransferRecord, 0, len(records))

	for _, r := range records {
		if opts.Since > 0 && r.Time().Before(now.Add(-opts.Since)) {
			continue
		}
		if opts.Direction != "" && r.Direction != opts.Direction {
			continue
		}
		if opts.Outcome != "" && r.Outcome != opts.Outcome {
			continue
		}
		if opts.Peer != "" && !strings.EqualFold(r.Peer, opts.Peer) {
			continue
		}
		result = append(result, r)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Special case: 0 means no filter (all time)
	if s == "0" || s == "" {
		return 0, nil
	}

	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}

// ParseDirection parses "in"/"incoming" or "out"/"outgoing".
func ParseDirection(s string) (model.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "incoming", "received":
		return model.DirectionIncoming, nil
	case "out", "outgoing", "sent":
		return model.DirectionOutgoing, nil
	default:
		return "", fmt.Errorf("invalid direction: %s (use incoming or outgoing)", s)
	}
}

// ParseOutcome parses an outcome name.
func ParseOutcome(s string) (model.Outcome, error) {
	switch o := model.Outcome(strings.ToLower(strings.TrimSpace(s))); o {
	case model.OutcomeComplete, model.OutcomeFailed, model.OutcomeRejected, model.OutcomeCancelled:
		return o, nil
	case "completed", "done", "ok":
		return model.OutcomeComplete, nil
	case "canceled":
		return model.OutcomeCancelled, nil
	default:
		return "", fmt.Errorf("invalid outcome: %s (use complete, failed, rejected or cancelled)", s)
	}
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2,field3>value3"
// Multiple conditions are comma-separated and ANDed together.
//
// Supported fields: direction, outcome, peer, file, error, size, files, timestamp
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// Examples:
//   - "peer=desk" - exact peer match
//   - "file~.jpg" - any file name contains ".jpg"
//   - "size>10MB" - more than 10 megabytes in total
//   - "direction=in,outcome=failed" - failed incoming transfers
//   - "timestamp>1h" - transfers from the last hour
func ParseFilter(expr string) (*FilterExpr, error) {
	if expr == "" {
		return &FilterExpr{}, nil
	}

	filter := &FilterExpr{
		Conditions: make([]FilterCondition, 0),
	}

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// parseCondition parses a single condition like "peer=desk" or "file~report"
func parseCondition(s string) (FilterCondition, error) {
	// Try operators in order of specificity (longest first)
	operators := []FilterOp{
		FilterOpNotEqual,  // != (must be before =)
		FilterOpGreaterEq, // >= (must be before >)
		FilterOpLessEq,    // <= (must be before <)
		FilterOpRegex,     // ~= (must be before ~)
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			cond := FilterCondition{
				Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
				Operator: op,
				Value:    strings.TrimSpace(s[idx+len(op):]),
			}

			if err := cond.init(); err != nil {
				return FilterCondition{}, err
			}

			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init pre-parses and validates the condition value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "direction", "dir":
		c.Field = "direction"
		d, err := ParseDirection(c.Value)
		if err != nil {
			return err
		}
		c.Value = string(d)
	case "outcome", "status", "result":
		c.Field = "outcome"
		o, err := ParseOutcome(c.Value)
		if err != nil {
			return err
		}
		c.Value = string(o)
	case "peer", "device", "from", "to":
		c.Field = "peer"
	case "file", "name":
		c.Field = "file"
	case "error", "err":
		c.Field = "error"
	case "size", "bytes":
		c.Field = "size"
		n, err := humanize.ParseBytes(c.Value)
		if err != nil {
			return fmt.Errorf("invalid size value: %w", err)
		}
		c.intVal = int64(n)
	case "files", "count":
		c.Field = "files"
		n, err := strconv.ParseInt(c.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid file count: %s", c.Value)
		}
		c.intVal = n
	case "timestamp", "time", "ts":
		c.Field = "timestamp"
		dur, err := ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid timestamp value: %w", err)
		}
		c.timestampOp = time.Now().Add(-dur)
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// Match tests if a record matches the filter expression.
// All conditions must match (AND logic).
func (f *FilterExpr) Match(r model.TransferRecord) bool {
	for _, cond := range f.Conditions {
		if !cond.Match(r) {
			return false
		}
	}
	return true
}

// Match tests if a record matches this single condition.
func (c *FilterCondition) Match(r model.TransferRecord) bool {
	switch c.Field {
	case "direction":
		return c.matchString(string(r.Direction))
	case "outcome":
		return c.matchString(string(r.Outcome))
	case "peer":
		return c.matchString(r.Peer)
	case "error":
		return c.matchString(r.Error)
	case "file":
		// Negative operators must hold for every file, the rest for any.
		if c.Operator == FilterOpNotEqual {
			for _, f := range r.Files {
				if !c.matchString(f.Name) {
					return false
				}
			}
			return true
		}
		for _, f := range r.Files {
			if c.matchString(f.Name) {
				return true
			}
		}
		return false
	case "size":
		return c.matchInt(r.TotalSize)
	case "files":
		return c.matchInt(int64(r.FileCount()))
	case "timestamp":
		return c.matchTimestamp(r.Time())
	default:
		return false
	}
}

// matchString matches a string field.
func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return strings.EqualFold(fieldValue, c.Value)
	case FilterOpNotEqual:
		return !strings.EqualFold(fieldValue, c.Value)
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

// matchInt matches an integer field with numeric comparison.
func (c *FilterCondition) matchInt(fieldValue int64) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.intVal
	case FilterOpNotEqual:
		return fieldValue != c.intVal
	case FilterOpGreater:
		return fieldValue > c.intVal
	case FilterOpLess:
		return fieldValue < c.intVal
	case FilterOpGreaterEq:
		return fieldValue >= c.intVal
	case FilterOpLessEq:
		return fieldValue <= c.intVal
	default:
		return false
	}
}

// matchTimestamp matches a timestamp field.
func (c *FilterCondition) matchTimestamp(fieldValue time.Time) bool {
	switch c.Operator {
	case FilterOpGreater:
		return fieldValue.After(c.timestampOp)
	case FilterOpLess:
		return fieldValue.Before(c.timestampOp)
	case FilterOpGreaterEq:
		return !fieldValue.Before(c.timestampOp)
	case FilterOpLessEq:
		return !fieldValue.After(c.timestampOp)
	default:
		return false
	}
}

// FilterWithExpr filters records using a filter expression.
func FilterWithExpr(records []model.TransferRecord, expr *FilterExpr) []model.TransferRecord {
	if expr == nil || len(expr.Conditions) == 0 {
		return records
	}

	result := make([]model.TransferRecord, 0, len(records))
	for _, r := range records {
		if expr.Match(r) {
			result = append(result, r)
		}
	}
	return result
}
