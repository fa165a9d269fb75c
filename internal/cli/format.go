// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCompact formats a value with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatCompact(v float64) string {
	abs := math.Abs(v)

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
}

// FormatUSD formats a dollar amount rounded to whole dollars.
// e.g., 1234567.8 -> "$1,234,568"
func FormatUSD(v float64) string {
	if v < 0 {
		return "-" + FormatUSD(-v)
	}
	return "$" + FormatNumber(int64(math.Round(v)))
}

// FormatCompactUSD formats a dollar amount with a suffix, e.g. "$1.2M".
func FormatCompactUSD(v float64) string {
	if v < 0 {
		return "-" + FormatCompactUSD(-v)
	}
	return "$" + FormatCompact(v)
}

// FormatMillions formats a dollar target in millions with one decimal.
// e.g., 1800000 -> "$1.8M"
func FormatMillions(v float64) string {
	return fmt.Sprintf("$%.1fM", v/1e6)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatCount formats a float count with comma separators.
func FormatCount(v float64) string {
	return FormatNumber(int64(math.Round(v)))
}

// FormatPercent formats a value already expressed in percent.
// e.g., 12.345 -> "12.3%"
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a dollar delta with its sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatUSD(delta)
	}
	return "-" + FormatUSD(-delta)
}
