package ui

import (
	"testing"

	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/nightdriver/ndsmon/internal/rows"
	"github.com/stretchr/testify/assert"
)

func connectedRow() rows.Row {
	reconnects := 4
	flash := "1.2"
	return rows.Row{
		ID:                "1-2",
		CanvasID:          1,
		FeatureID:         2,
		IsConnected:       true,
		CanvasName:        "Window",
		FeatureName:       "Left",
		HostName:          "192.168.1.10",
		Size:              "8x144",
		ReconnectCount:    &reconnects,
		ReconnectStatus:   rows.HealthWarning,
		CanvasFPS:         30,
		Status:            rows.StatusConnected,
		CurrentEffectName: "Rainbow",
		Telemetry: &rows.Telemetry{
			FeatureFPS:       29.6,
			FPSStatus:        rows.HealthGood,
			QueueDepth:       12,
			QueueMaxSize:     500,
			BufferSize:       500,
			BufferPosition:   250,
			BufferStatus:     rows.HealthGood,
			WifiSignal:       "72 dBm",
			WifiSignalStatus: rows.HealthWarning,
			Bandwidth:        2048,
			Delta:            1.5,
			DeltaStatus:      rows.HealthGood,
			FlashVersion:     &flash,
		},
	}
}

func TestRowCell_Connected(t *testing.T) {
	r := connectedRow()
	opts := CellOptions{DeltaThreshold: 3, DeltaWidth: 5}

	tests := []struct {
		key  string
		want Cell
	}{
		{query.ColCanvasName, Cell{Text: "Window"}},
		{query.ColFeatureName, Cell{Text: "Left"}},
		{query.ColHost, Cell{Text: "192.168.1.10"}},
		{query.ColSize, Cell{Text: "8x144"}},
		{query.ColReconnectCount, Cell{Text: "4", Health: rows.HealthWarning}},
		{query.ColFPS, Cell{Text: "30/30", Health: rows.HealthGood}},
		{query.ColQueueDepth, Cell{Text: "12/500"}},
		{query.ColBuffer, Cell{Text: "250/500", Health: rows.HealthGood}},
		{query.ColSignal, Cell{Text: "72 dBm", Health: rows.HealthWarning}},
		{query.ColDataRate, Cell{Text: "2.00 KB/s"}},
		{query.ColDelta, Cell{Text: "1.5s ---|-", Health: rows.HealthGood}},
		{query.ColFlash, Cell{Text: "1.2"}},
		{query.ColStatus, Cell{Text: SymbolConnected + " connected", Health: rows.HealthGood}},
		{query.ColEffect, Cell{Text: "Rainbow"}},
		{"unknown", Cell{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, RowCell(&r, tt.key, opts))
		})
	}
}

func TestRowCell_Disconnected(t *testing.T) {
	r := connectedRow()
	r.IsConnected = false
	r.Status = rows.StatusDisconnected
	r.Telemetry = nil
	r.ReconnectCount = nil
	r.ReconnectStatus = rows.HealthNone

	for _, key := range []string{query.ColFPS, query.ColQueueDepth, query.ColBuffer, query.ColSignal, query.ColDataRate, query.ColDelta, query.ColFlash, query.ColReconnectCount} {
		assert.Equal(t, Cell{}, RowCell(&r, key, CellOptions{}), key)
	}
	assert.Equal(t, Cell{Text: SymbolDisconnected + " disconnected", Health: rows.HealthDanger}, RowCell(&r, query.ColStatus, CellOptions{}))
	assert.Equal(t, "Window", RowCell(&r, query.ColCanvasName, CellOptions{}).Text)
}

func TestRowCell_UnsetDelta(t *testing.T) {
	r := connectedRow()
	r.Telemetry.Delta = 150
	r.Telemetry.DeltaStatus = rows.HealthNone

	assert.Equal(t, Cell{Text: "Unset"}, RowCell(&r, query.ColDelta, CellOptions{}))
}

func TestRowCells(t *testing.T) {
	r := connectedRow()
	cells := RowCells(&r, []string{query.ColHost, query.ColEffect}, CellOptions{})
	assert.Equal(t, []Cell{{Text: "192.168.1.10"}, {Text: "Rainbow"}}, cells)
}
