// Package units provides display formatting for track quantities.
package units

import (
	"fmt"
	"math"
)

// FormatClock renders a second count as a zero-padded MM:SS string.
// Minutes are not wrapped at 60, so 3600s renders as "60:00".
// Fractional seconds are truncated.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Centimeters converts a pixel distance to physical centimeters using a
// track's length scale (units per pixel).
func Centimeters(pixels, lengthScale float64) float64 {
	return pixels * lengthScale
}
