// Package rows flattens a fleet snapshot into one view row per feature and
// tags each row with health classifications.
package rows

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/nightdriver/ndsmon/internal/format"
)

// Health is a traffic-light classification. The empty value is a blank tag:
// the measurement exists but has nothing to report.
type Health string

const (
	HealthNone    Health = ""
	HealthGood    Health = "good"
	HealthWarning Health = "warning"
	HealthDanger  Health = "danger"
)

// Connection status values.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// Classification thresholds.
const (
	ReconnectWarnAt   = 3
	ReconnectDangerAt = 10

	FPSWarnRatio = 0.8

	BufferGoodMin   = 0.25
	BufferGoodMax   = 0.85
	BufferWarnAbove = 0.95

	SignalWired    = 100.0
	SignalWarnAt   = 70.0
	SignalDangerAt = 80.0

	QueueWarnAt   = 100
	QueueDangerAt = 250

	DeltaWarnAt   = 2.0
	DeltaDangerAt = 3.0
)

// Row is the flattened view of one feature. Identity (ID) is stable across
// polls for the same feature; everything else is recomputed each poll.
type Row struct {
	ID                string  `json:"id"`
	CanvasID          int     `json:"canvasId"`
	FeatureID         int     `json:"featureId"`
	IsConnected       bool    `json:"isConnected"`
	CanvasName        string  `json:"canvasName"`
	FeatureName       string  `json:"featureName"`
	HostName          string  `json:"hostName"`
	Size              string  `json:"size"`
	ReconnectCount    *int    `json:"reconnectCount"`
	ReconnectStatus   Health  `json:"reconnectStatus"`
	CanvasFPS         float64 `json:"canvasFps"`
	Status            string  `json:"status"`
	CurrentEffectName string  `json:"currentEffectName"`

	// Telemetry is nil unless the feature is connected and has reported a
	// client response.
	Telemetry *Telemetry `json:"telemetry"`

	// SearchIndex is the lower-cased host, feature, canvas and effect
	// names joined with ';'.
	SearchIndex string `json:"-"`
}

// Telemetry holds the fields derived from a feature's last client response.
type Telemetry struct {
	FeatureFPS       float64  `json:"featureFps"`
	FPSStatus        Health   `json:"fpsStatus"`
	QueueDepth       int      `json:"queueDepth"`
	QueueMaxSize     int      `json:"queueMaxSize"`
	QueueStatus      Health   `json:"queueStatus"`
	BufferSize       float64  `json:"bufferSize"`
	BufferPosition   float64  `json:"bufferPosition"`
	BufferRatio      *float64 `json:"bufferRatio"` // nil when the buffer size is zero
	BufferStatus     Health   `json:"bufferStatus"`
	WifiSignal       string   `json:"wifiSignal"`
	WifiSignalStatus Health   `json:"wifiSignalStatus"`
	Bandwidth        float64  `json:"bandwidth"`
	CurrentTime      float64  `json:"currentTime"`
	Delta            float64  `json:"delta"`
	DeltaStatus      Health   `json:"deltaStatus"`
	FlashVersion     *string  `json:"flashVersion"`
}

// RowID returns the identity of the row for a canvas/feature pair.
func RowID(canvasID, featureID int) string {
	return fmt.Sprintf("%d-%d", canvasID, featureID)
}

// Derive builds the row for one feature. now is the wall clock in Unix
// seconds, the same unit as the device clock. Derive never fails: missing
// optional data yields nil telemetry or blank tags.
func Derive(canvas *fleet.Canvas, feature *fleet.Feature, now float64) Row {
	row := Row{
		ID:                RowID(canvas.ID, feature.ID),
		CanvasID:          canvas.ID,
		FeatureID:         feature.ID,
		IsConnected:       feature.IsConnected,
		CanvasName:        canvas.Name,
		FeatureName:       feature.FriendlyName,
		HostName:          feature.HostName,
		Size:              fmt.Sprintf("%dx%d", feature.Height, feature.Width),
		ReconnectCount:    feature.ReconnectCount,
		CanvasFPS:         canvas.FPS,
		Status:            StatusDisconnected,
		CurrentEffectName: canvas.CurrentEffectName,
	}
	if feature.ReconnectCount != nil {
		row.ReconnectStatus = ReconnectHealth(*feature.ReconnectCount)
	}

	if resp := feature.LastClientResponse; feature.IsConnected && resp != nil {
		row.Status = StatusConnected
		row.Telemetry = deriveTelemetry(canvas, feature, resp, now)
	}

	row.SearchIndex = strings.Join([]string{
		strings.ToLower(row.HostName),
		strings.ToLower(row.FeatureName),
		strings.ToLower(row.CanvasName),
		strings.ToLower(row.CurrentEffectName),
	}, ";")
	return row
}

func deriveTelemetry(canvas *fleet.Canvas, feature *fleet.Feature, resp *fleet.ClientResponse, now float64) *Telemetry {
	signal := math.Abs(resp.WifiSignal)
	ratio := resp.BufferPos / resp.BufferSize
	delta := resp.CurrentClock - now

	t := &Telemetry{
		FeatureFPS:       resp.FPSDrawing,
		FPSStatus:        FPSHealth(resp.FPSDrawing, canvas.FPS),
		QueueDepth:       feature.QueueDepth,
		QueueMaxSize:     feature.QueueMaxSize,
		QueueStatus:      QueueHealth(feature.QueueDepth),
		BufferSize:       resp.BufferSize,
		BufferPosition:   resp.BufferPos,
		BufferRatio:      finiteRatio(ratio),
		BufferStatus:     BufferHealth(ratio),
		WifiSignal:       format.WifiSignal(signal),
		WifiSignalStatus: SignalHealth(signal),
		Bandwidth:        feature.BytesPerSecond,
		CurrentTime:      resp.CurrentClock,
		Delta:            delta,
		DeltaStatus:      DeltaHealth(delta),
	}
	if resp.FlashVersion != nil {
		v := resp.FlashVersion.String()
		t.FlashVersion = &v
	}
	return t
}

// finiteRatio drops the NaN or Inf a zero-sized buffer produces.
func finiteRatio(r float64) *float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}

// Expand derives every row of a snapshot in canvas then feature order.
func Expand(canvases []fleet.Canvas, now float64) []Row {
	n := 0
	for i := range canvases {
		n += len(canvases[i].Features)
	}
	out := make([]Row, 0, n)
	for i := range canvases {
		c := &canvases[i]
		for j := range c.Features {
			out = append(out, Derive(c, &c.Features[j], now))
		}
	}
	return out
}

// Now returns t as fractional Unix seconds.
func Now(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// ReconnectHealth classifies a reconnect count; zero is blank.
func ReconnectHealth(count int) Health {
	switch {
	case count == 0:
		return HealthNone
	case count < ReconnectWarnAt:
		return HealthGood
	case count < ReconnectDangerAt:
		return HealthWarning
	default:
		return HealthDanger
	}
}

// FPSHealth warns when a feature draws below 80% of the canvas rate.
func FPSHealth(featureFPS, canvasFPS float64) Health {
	if featureFPS < FPSWarnRatio*canvasFPS {
		return HealthWarning
	}
	return HealthGood
}

// BufferHealth classifies the ring-buffer fill ratio. Ratios between the
// good band and the warning threshold, and non-finite ratios, are danger.
func BufferHealth(ratio float64) Health {
	switch {
	case ratio >= BufferGoodMin && ratio <= BufferGoodMax:
		return HealthGood
	case ratio > BufferWarnAbove:
		return HealthWarning
	default:
		return HealthDanger
	}
}

// SignalHealth classifies a wifi signal magnitude; wired links are blank.
func SignalHealth(magnitude float64) Health {
	switch {
	case magnitude >= SignalWired:
		return HealthNone
	case magnitude < SignalWarnAt:
		return HealthGood
	case magnitude < SignalDangerAt:
		return HealthWarning
	default:
		return HealthDanger
	}
}

// QueueHealth classifies the server-side send queue depth.
func QueueHealth(depth int) Health {
	switch {
	case depth < QueueWarnAt:
		return HealthGood
	case depth < QueueDangerAt:
		return HealthWarning
	default:
		return HealthDanger
	}
}

// DeltaHealth classifies clock skew in seconds. Magnitudes beyond
// format.UnsetDelta mean the device clock is unset and are blank.
func DeltaHealth(delta float64) Health {
	d := math.Abs(delta)
	switch {
	case d > format.UnsetDelta:
		return HealthNone
	case d < DeltaWarnAt:
		return HealthGood
	case d < DeltaDangerAt:
		return HealthWarning
	default:
		return HealthDanger
	}
}
