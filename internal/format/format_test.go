package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSize(t *testing.T) {
	tests := []struct {
		name   string
		bytes  float64
		expect string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"exactly one kilobyte stays bytes", 1024, "1024 B"},
		{"kilobytes", 1536, "1.50 KB"},
		{"megabytes", 5 * 1024 * 1024, "5.00 MB"},
		{"gigabytes", 2.5 * 1024 * 1024 * 1024, "2.50 GB"},
		{"fractional bytes", 1.5, "1.5 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Size(tt.bytes))
		})
	}
}

func TestRate(t *testing.T) {
	assert.Equal(t, "1.50 KB/s", Rate(1536))
	assert.Equal(t, "0 B/s", Rate(0))
}

func TestMeter(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		threshold float64
		width     int
		expect    string
	}{
		{"zero is centered", 0, 3, 5, "--|--"},
		{"positive max", 3, 3, 5, "----|"},
		{"negative max", -3, 3, 5, "|----"},
		{"clamped above", 50, 3, 5, "----|"},
		{"clamped below", -50, 3, 5, "|----"},
		{"half way truncates", 1.5, 3, 5, "---|-"},
		{"negative half truncates toward center", -1.5, 3, 5, "-|---"},
		{"even width bumped to odd", 0, 3, 4, "--|--"},
		{"web default", 0, DefaultDeltaThreshold, DefaultMeterWidth, "----------|----------"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Meter(tt.value, tt.threshold, tt.width))
		})
	}
}

func TestMeter_DegenerateArguments(t *testing.T) {
	assert.Equal(t, "|", Meter(0, 3, 0))
	assert.Len(t, Meter(1, 0, 5), 5)
}

func TestDelta(t *testing.T) {
	assert.Equal(t, "0.0s --|--", Delta(0, 3, 5))
	assert.Equal(t, "-1.5s -|---", Delta(-1.5, 3, 5))
	assert.Equal(t, "100.0s ----|", Delta(100, 3, 5))
	assert.Equal(t, "Unset", Delta(100.1, 3, 5))
	assert.Equal(t, "Unset", Delta(-150, 3, 5))
}

func TestWifiSignal(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		expect    string
	}{
		{"wired", 100, "LAN"},
		{"wired above", 120, "LAN"},
		{"truncated not rounded", 99.6, "99 dBm"},
		{"negative raw value", -67.9, "67 dBm"},
		{"strong", 42, "42 dBm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, WifiSignal(tt.magnitude))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, "50%", Ratio(0.5))
	assert.Equal(t, "86%", Ratio(0.857))
}

func TestFPS(t *testing.T) {
	assert.Equal(t, "30", FPS(29.7))
	assert.Equal(t, "0", FPS(0))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1,234,567", Count(1234567))
	assert.Equal(t, "12", Count(12))
}

func TestSince(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "never", Since(time.Time{}, now))
	assert.Equal(t, "just now", Since(now.Add(-200*time.Millisecond), now))
	assert.Equal(t, "3 seconds ago", Since(now.Add(-3*time.Second), now))
}
