// Package format renders sizes and times for display.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultDecimals is the number of fraction digits Size keeps by default.
const DefaultDecimals = 1

// sizeUnits are the decimal (SI) byte units, capped at petabytes.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// Size converts a byte count into a human readable string using base-1000
// units, e.g. 1500 -> "1.5 KB". Zero is always "0 B". Values past the
// petabyte range stay in PB. Negative decimals are treated as zero.
func Size(bytes int64, decimals int) string {
	if bytes == 0 {
		return "0 B"
	}
	if decimals < 0 {
		decimals = 0
	}

	// Negate in uint64 so math.MinInt64 keeps its magnitude.
	sign := ""
	magnitude := uint64(bytes)
	if bytes < 0 {
		sign = "-"
		magnitude = -magnitude
	}

	value, prefix := humanize.ComputeSI(float64(magnitude))
	idx := unitIndex(prefix)
	if idx >= len(sizeUnits) {
		// ComputeSI went past peta; fold back into PB.
		for ; idx >= len(sizeUnits); idx-- {
			value *= 1000
		}
	}

	// Ties round away from zero, so 2.5 KB at zero decimals is "3 KB".
	pow := math.Pow(10, float64(decimals))
	value = math.Round(value*pow) / pow

	return sign + strconv.FormatFloat(value, 'f', decimals, 64) + " " + sizeUnits[idx]
}

// unitIndex maps an SI prefix to its position in sizeUnits.
func unitIndex(prefix string) int {
	for i, p := range []string{"", "k", "M", "G", "T", "P", "E", "Z", "Y"} {
		if p == prefix {
			return i
		}
	}
	return 0
}

// SizeDefault formats with DefaultDecimals.
func SizeDefault(bytes int64) string {
	return Size(bytes, DefaultDecimals)
}

// RelativeTime returns a human relative time like "3 minutes ago".
// The zero time renders as "never".
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// Percent renders a 0-100 progress value, clamping out-of-range input.
func Percent(p int) string {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return strconv.Itoa(p) + "%"
}

// ProgressBar renders a fixed-width text bar for a 0-100 value.
func ProgressBar(p, width int) string {
	if width <= 0 {
		return ""
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	filled := p * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
