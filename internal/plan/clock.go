package plan

import (
	"fmt"
	"math"
)

// FormatClock renders seconds as zero-padded HH:MM:SS. Sub-second precision
// is truncated, so a start of 62.74s prints as 00:01:02. Negative values
// clamp to zero.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	whole := int64(math.Floor(seconds))
	hours := whole / 3600
	minutes := (whole / 60) % 60
	secs := whole % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
