package ui

import (
	"fmt"
	"strconv"

	"github.com/nightdriver/ndsmon/internal/format"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/nightdriver/ndsmon/internal/rows"
)

// Cell is one rendered table cell and the health tag that colours it.
type Cell struct {
	Text   string
	Health rows.Health
}

// CellOptions sizes the delta meter.
type CellOptions struct {
	DeltaThreshold float64
	DeltaWidth     int
}

func (o CellOptions) withDefaults() CellOptions {
	if o.DeltaThreshold <= 0 {
		o.DeltaThreshold = format.DefaultDeltaThreshold
	}
	if o.DeltaWidth <= 0 {
		o.DeltaWidth = format.DefaultMeterWidth
	}
	return o
}

// RowCells renders the given data columns of a row.
func RowCells(r *rows.Row, keys []string, opts CellOptions) []Cell {
	out := make([]Cell, len(keys))
	for i, k := range keys {
		out[i] = RowCell(r, k, opts)
	}
	return out
}

// RowCell renders one data column of a row. Telemetry columns are blank for
// rows without telemetry.
func RowCell(r *rows.Row, key string, opts CellOptions) Cell {
	opts = opts.withDefaults()

	switch key {
	case query.ColCanvasName:
		return Cell{Text: r.CanvasName}
	case query.ColFeatureName:
		return Cell{Text: r.FeatureName}
	case query.ColHost:
		return Cell{Text: r.HostName}
	case query.ColSize:
		return Cell{Text: r.Size}
	case query.ColReconnectCount:
		if r.ReconnectCount == nil {
			return Cell{}
		}
		return Cell{Text: format.Count(*r.ReconnectCount), Health: r.ReconnectStatus}
	case query.ColStatus:
		if r.Status == rows.StatusConnected {
			return Cell{Text: SymbolConnected + " " + r.Status, Health: rows.HealthGood}
		}
		return Cell{Text: SymbolDisconnected + " " + r.Status, Health: rows.HealthDanger}
	case query.ColEffect:
		return Cell{Text: r.CurrentEffectName}
	}

	t := r.Telemetry
	if t == nil {
		return Cell{}
	}
	switch key {
	case query.ColFPS:
		return Cell{Text: format.FPS(t.FeatureFPS) + "/" + format.FPS(r.CanvasFPS), Health: t.FPSStatus}
	case query.ColQueueDepth:
		return Cell{Text: fmt.Sprintf("%d/%d", t.QueueDepth, t.QueueMaxSize), Health: t.QueueStatus}
	case query.ColBuffer:
		text := strconv.FormatFloat(t.BufferPosition, 'f', 0, 64) + "/" +
			strconv.FormatFloat(t.BufferSize, 'f', 0, 64)
		return Cell{Text: text, Health: t.BufferStatus}
	case query.ColSignal:
		return Cell{Text: t.WifiSignal, Health: t.WifiSignalStatus}
	case query.ColDataRate:
		return Cell{Text: format.Rate(t.Bandwidth)}
	case query.ColDelta:
		return Cell{Text: format.Delta(t.Delta, opts.DeltaThreshold, opts.DeltaWidth), Health: t.DeltaStatus}
	case query.ColFlash:
		if t.FlashVersion == nil {
			return Cell{}
		}
		return Cell{Text: *t.FlashVersion}
	}
	return Cell{}
}
