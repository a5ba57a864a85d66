// Package format turns raw telemetry numbers into display strings.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	bytesInKilobyte = 1024
	bytesInMegabyte = 1024 * 1024
	bytesInGigabyte = 1024 * 1024 * 1024
)

// Size scales a byte count to the largest unit it exceeds, with two
// decimals. Counts of 1 KB or less are printed as plain bytes.
func Size(bytes float64) string {
	switch {
	case bytes/bytesInGigabyte > 1:
		return strconv.FormatFloat(bytes/bytesInGigabyte, 'f', 2, 64) + " GB"
	case bytes/bytesInMegabyte > 1:
		return strconv.FormatFloat(bytes/bytesInMegabyte, 'f', 2, 64) + " MB"
	case bytes/bytesInKilobyte > 1:
		return strconv.FormatFloat(bytes/bytesInKilobyte, 'f', 2, 64) + " KB"
	default:
		return strconv.FormatFloat(bytes, 'f', -1, 64) + " B"
	}
}

// Rate formats a bytes-per-second figure, e.g. "1.50 MB/s".
func Rate(bytesPerSecond float64) string {
	return Size(bytesPerSecond) + "/s"
}

// Default meter settings.
const (
	DefaultDeltaThreshold = 5.0
	DefaultMeterWidth     = 21

	// UnsetDelta is the magnitude above which a clock delta is treated as
	// an unset device clock.
	UnsetDelta = 100.0
)

// Meter draws a fixed-width bar with a single '|' marking value relative to
// ±threshold. Values beyond the threshold pin to the ends. Even widths are
// bumped to the next odd width so zero sits on the center cell.
func Meter(value, threshold float64, width int) string {
	if width < 1 {
		width = 1
	}
	if width%2 == 0 {
		width++
	}
	if threshold <= 0 {
		threshold = DefaultDeltaThreshold
	}

	normalized := math.Min(1, math.Max(-1, value/threshold))
	center := width / 2
	pos := int(float64(center) + normalized*float64(center))

	var b strings.Builder
	b.Grow(width)
	for i := 0; i < width; i++ {
		if i == pos {
			b.WriteByte('|')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Delta renders a clock delta in seconds as "{delta}s {meter}", or "Unset"
// when the magnitude is beyond UnsetDelta.
func Delta(seconds, threshold float64, width int) string {
	if math.Abs(seconds) > UnsetDelta {
		return "Unset"
	}
	return strconv.FormatFloat(seconds, 'f', 1, 64) + "s " + Meter(seconds, threshold, width)
}

// WifiSignal formats a signal magnitude. Wired links report 100 or more and
// display as "LAN"; wireless magnitudes are truncated, never rounded.
func WifiSignal(magnitude float64) string {
	magnitude = math.Abs(magnitude)
	if magnitude >= 100 {
		return "LAN"
	}
	return strconv.Itoa(int(magnitude)) + " dBm"
}

// Ratio formats a 0..1 ratio as a whole percentage.
func Ratio(r float64) string {
	return strconv.Itoa(int(math.Round(r*100))) + "%"
}

// FPS formats a frame rate with no decimals.
func FPS(fps float64) string {
	return strconv.FormatFloat(fps, 'f', 0, 64)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Since describes how long ago t was relative to now, e.g. "3 seconds ago".
// The zero time reads as "never".
func Since(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if now.Sub(t) < time.Second {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
