package format

import (
	"fmt"
	"math"
)

// FormatDuration renders a number of seconds down to whole seconds, showing
// only the most significant non-zero unit and everything below it.
// Example: 45 → "45s", 125 → "2m5s", 3661 → "1h 1m1s", 90000 → "1d, 1h0m0s".
// Fractions are truncated; negative values render as "0s".
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	s := int64(seconds)

	days := s / 86400
	s %= 86400
	hours := s / 3600
	s %= 3600
	minutes := s / 60
	s %= 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd, %dh%dm%ds", days, hours, minutes, s)
	case hours > 0:
		return fmt.Sprintf("%dh %dm%ds", hours, minutes, s)
	case minutes > 0:
		return fmt.Sprintf("%dm%ds", minutes, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
