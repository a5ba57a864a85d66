package rows

import (
	"testing"
	"time"

	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNow = 1_700_000_000.0

func intPtr(n int) *int { return &n }

func flashPtr(v string) *fleet.FlashVersion {
	f := fleet.FlashVersion(v)
	return &f
}

func testCanvas() *fleet.Canvas {
	return &fleet.Canvas{ID: 3, Name: "Mesmerizer", FPS: 30, CurrentEffectName: "Starfield"}
}

// connectedFeature returns a healthy connected feature.
func connectedFeature() *fleet.Feature {
	return &fleet.Feature{
		ID:             7,
		FriendlyName:   "Panel",
		HostName:       "192.168.1.40",
		Width:          64,
		Height:         32,
		IsConnected:    true,
		ReconnectCount: intPtr(1),
		QueueDepth:     4,
		QueueMaxSize:   25,
		BytesPerSecond: 2048,
		LastClientResponse: &fleet.ClientResponse{
			FPSDrawing:   29,
			BufferPos:    50,
			BufferSize:   100,
			WifiSignal:   -55,
			CurrentClock: testNow + 0.5,
			FlashVersion: flashPtr("42"),
		},
	}
}

func TestDerive_ConnectedRow(t *testing.T) {
	row := Derive(testCanvas(), connectedFeature(), testNow)

	assert.Equal(t, "3-7", row.ID)
	assert.Equal(t, 3, row.CanvasID)
	assert.Equal(t, 7, row.FeatureID)
	assert.Equal(t, "32x64", row.Size)
	assert.Equal(t, StatusConnected, row.Status)
	assert.Equal(t, HealthGood, row.ReconnectStatus)
	assert.Equal(t, "192.168.1.40;panel;mesmerizer;starfield", row.SearchIndex)

	require.NotNil(t, row.Telemetry)
	tel := row.Telemetry
	assert.Equal(t, 29.0, tel.FeatureFPS)
	assert.Equal(t, HealthGood, tel.FPSStatus)
	require.NotNil(t, tel.BufferRatio)
	assert.Equal(t, 0.5, *tel.BufferRatio)
	assert.Equal(t, HealthGood, tel.BufferStatus)
	assert.Equal(t, "55 dBm", tel.WifiSignal)
	assert.Equal(t, HealthGood, tel.WifiSignalStatus)
	assert.Equal(t, HealthGood, tel.QueueStatus)
	assert.Equal(t, 2048.0, tel.Bandwidth)
	assert.InDelta(t, 0.5, tel.Delta, 1e-9)
	assert.Equal(t, HealthGood, tel.DeltaStatus)
	require.NotNil(t, tel.FlashVersion)
	assert.Equal(t, "42", *tel.FlashVersion)
}

func TestDerive_DisconnectedHasNoTelemetry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fleet.Feature)
	}{
		{"not connected", func(f *fleet.Feature) { f.IsConnected = false }},
		{"no client response", func(f *fleet.Feature) { f.LastClientResponse = nil }},
		{"both", func(f *fleet.Feature) {
			f.IsConnected = false
			f.LastClientResponse = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := connectedFeature()
			tt.mutate(f)
			row := Derive(testCanvas(), f, testNow)

			assert.Equal(t, StatusDisconnected, row.Status)
			assert.Nil(t, row.Telemetry)
			// Non-telemetry fields are still populated.
			assert.Equal(t, HealthGood, row.ReconnectStatus)
			assert.Equal(t, "Panel", row.FeatureName)
		})
	}
}

func TestDerive_MissingNamesInSearchIndex(t *testing.T) {
	row := Derive(&fleet.Canvas{ID: 1}, &fleet.Feature{ID: 2, HostName: "HOST"}, testNow)
	assert.Equal(t, "host;;;", row.SearchIndex)
}

func TestDerive_NoReconnectCount(t *testing.T) {
	f := connectedFeature()
	f.ReconnectCount = nil
	row := Derive(testCanvas(), f, testNow)

	assert.Nil(t, row.ReconnectCount)
	assert.Equal(t, HealthNone, row.ReconnectStatus)
}

func TestDerive_NoFlashVersion(t *testing.T) {
	f := connectedFeature()
	f.LastClientResponse.FlashVersion = nil
	row := Derive(testCanvas(), f, testNow)

	require.NotNil(t, row.Telemetry)
	assert.Nil(t, row.Telemetry.FlashVersion)
}

func TestDerive_ZeroBufferSizeIsDanger(t *testing.T) {
	f := connectedFeature()
	f.LastClientResponse.BufferPos = 0
	f.LastClientResponse.BufferSize = 0
	row := Derive(testCanvas(), f, testNow)

	assert.Equal(t, HealthDanger, row.Telemetry.BufferStatus)
	assert.Nil(t, row.Telemetry.BufferRatio)
}

func TestDerive_ZeroBufferSizeWithPosition(t *testing.T) {
	f := connectedFeature()
	f.LastClientResponse.BufferPos = 12
	f.LastClientResponse.BufferSize = 0
	row := Derive(testCanvas(), f, testNow)

	assert.Nil(t, row.Telemetry.BufferRatio)
	assert.Equal(t, HealthWarning, row.Telemetry.BufferStatus, "an overflowing ratio reads as nearly full")
}

func TestReconnectHealth(t *testing.T) {
	tests := []struct {
		count  int
		expect Health
	}{
		{0, HealthNone},
		{1, HealthGood},
		{2, HealthGood},
		{3, HealthWarning},
		{9, HealthWarning},
		{10, HealthDanger},
		{500, HealthDanger},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, ReconnectHealth(tt.count), "count %d", tt.count)
	}
}

func TestFPSHealth(t *testing.T) {
	assert.Equal(t, HealthGood, FPSHealth(24, 30), "exactly 80% is good")
	assert.Equal(t, HealthWarning, FPSHealth(23.9, 30))
	assert.Equal(t, HealthGood, FPSHealth(0, 0))
}

func TestBufferHealth(t *testing.T) {
	tests := []struct {
		ratio  float64
		expect Health
	}{
		{0, HealthDanger},
		{0.2499, HealthDanger},
		{0.25, HealthGood},
		{0.5, HealthGood},
		{0.85, HealthGood},
		{0.86, HealthDanger},
		{0.95, HealthDanger},
		{0.951, HealthWarning},
		{1.0, HealthWarning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, BufferHealth(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestSignal(t *testing.T) {
	tests := []struct {
		name         string
		raw          float64
		expectText   string
		expectHealth Health
	}{
		{"wired", 100, "LAN", HealthNone},
		{"wired negative", -100, "LAN", HealthNone},
		{"truncated", -99.6, "99 dBm", HealthDanger},
		{"danger edge", -80, "80 dBm", HealthDanger},
		{"warning", -79.9, "79 dBm", HealthWarning},
		{"warning edge", -70, "70 dBm", HealthWarning},
		{"good", -69.9, "69 dBm", HealthGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := connectedFeature()
			f.LastClientResponse.WifiSignal = tt.raw
			row := Derive(testCanvas(), f, testNow)

			require.NotNil(t, row.Telemetry)
			assert.Equal(t, tt.expectText, row.Telemetry.WifiSignal)
			assert.Equal(t, tt.expectHealth, row.Telemetry.WifiSignalStatus)
		})
	}
}

func TestQueueHealth(t *testing.T) {
	assert.Equal(t, HealthGood, QueueHealth(0))
	assert.Equal(t, HealthGood, QueueHealth(99))
	assert.Equal(t, HealthWarning, QueueHealth(100))
	assert.Equal(t, HealthWarning, QueueHealth(249))
	assert.Equal(t, HealthDanger, QueueHealth(250))
}

func TestDeltaHealth(t *testing.T) {
	tests := []struct {
		delta  float64
		expect Health
	}{
		{150, HealthNone},
		{-150, HealthNone},
		{100.01, HealthNone},
		{100, HealthDanger},
		{10, HealthDanger},
		{3, HealthDanger},
		{2.5, HealthWarning},
		{-2.5, HealthWarning},
		{2, HealthWarning},
		{1.5, HealthGood},
		{-1.9, HealthGood},
		{0, HealthGood},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, DeltaHealth(tt.delta), "delta %v", tt.delta)
	}
}

func TestDerive_DeltaUsesDeviceClockMinusNow(t *testing.T) {
	f := connectedFeature()
	f.LastClientResponse.CurrentClock = testNow - 2.5
	row := Derive(testCanvas(), f, testNow)

	assert.InDelta(t, -2.5, row.Telemetry.Delta, 1e-9)
	assert.Equal(t, HealthWarning, row.Telemetry.DeltaStatus)
}

func TestExpand(t *testing.T) {
	canvases := []fleet.Canvas{
		{ID: 1, Name: "A", Features: []fleet.Feature{{ID: 1}, {ID: 2}}},
		{ID: 2, Name: "B"},
		{ID: 3, Name: "C", Features: []fleet.Feature{{ID: 1}}},
	}
	out := Expand(canvases, testNow)

	require.Len(t, out, 3)
	assert.Equal(t, "1-1", out[0].ID)
	assert.Equal(t, "1-2", out[1].ID)
	assert.Equal(t, "3-1", out[2].ID)
	assert.Equal(t, "C", out[2].CanvasName)

	assert.Empty(t, Expand(nil, testNow))
}

func TestExpand_IDsStableAcrossPolls(t *testing.T) {
	canvases := []fleet.Canvas{{ID: 5, Features: []fleet.Feature{*connectedFeature()}}}
	first := Expand(canvases, testNow)
	canvases[0].Features[0].QueueDepth = 300
	second := Expand(canvases, testNow+1)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, HealthDanger, second[0].Telemetry.QueueStatus)
}

func TestNow(t *testing.T) {
	ts := time.Unix(1_700_000_000, 500_000_000)
	assert.InDelta(t, 1_700_000_000.5, Now(ts), 1e-6)
}
