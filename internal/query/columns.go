package query

import (
	"strconv"

	"github.com/nightdriver/ndsmon/internal/rows"
)

// Column keys. SelectColumn and ActionsColumn are fixed slots that bracket
// the data columns; they are never part of the catalog.
const (
	SelectColumn  = "select"
	ActionsColumn = "actions"

	ColCanvasName     = "canvasName"
	ColFeatureName    = "featureName"
	ColHost           = "host"
	ColSize           = "size"
	ColReconnectCount = "reconnectCount"
	ColFPS            = "fps"
	ColQueueDepth     = "queueDepth"
	ColBuffer         = "buffer"
	ColSignal         = "signal"
	ColDataRate       = "dataRate"
	ColDelta          = "delta"
	ColFlash          = "flash"
	ColStatus         = "status"
	ColEffect         = "effect"
)

// Column describes one data column. The stored form names the label "key"
// and the column key "value".
type Column struct {
	Label string `json:"key"`
	Key   string `json:"value"`
}

var catalog = []Column{
	{Label: "Canvas", Key: ColCanvasName},
	{Label: "Feature", Key: ColFeatureName},
	{Label: "Host", Key: ColHost},
	{Label: "Size", Key: ColSize},
	{Label: "Cx", Key: ColReconnectCount},
	{Label: "FPS", Key: ColFPS},
	{Label: "Queue", Key: ColQueueDepth},
	{Label: "Buffer", Key: ColBuffer},
	{Label: "Signal", Key: ColSignal},
	{Label: "Data", Key: ColDataRate},
	{Label: "Delta", Key: ColDelta},
	{Label: "Flash", Key: ColFlash},
	{Label: "Status", Key: ColStatus},
	{Label: "Effect", Key: ColEffect},
}

// Catalog returns the known data columns in their default order.
func Catalog() []Column {
	out := make([]Column, len(catalog))
	copy(out, catalog)
	return out
}

// KnownColumn reports whether key is a catalog column.
func KnownColumn(key string) bool {
	_, ok := LookupColumn(key)
	return ok
}

// LookupColumn returns the catalog entry for key.
func LookupColumn(key string) (Column, bool) {
	for _, c := range catalog {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Value returns the row field a column sorts by, or nil when the field is
// null for this row.
func Value(r *rows.Row, key string) any {
	t := r.Telemetry
	switch key {
	case ColCanvasName:
		return r.CanvasName
	case ColFeatureName:
		return r.FeatureName
	case ColHost:
		return r.HostName
	case ColSize:
		return r.Size
	case ColReconnectCount:
		if r.ReconnectCount == nil {
			return nil
		}
		return *r.ReconnectCount
	case ColStatus:
		return r.Status
	case ColEffect:
		return r.CurrentEffectName
	}

	if t == nil {
		return nil
	}
	switch key {
	case ColFPS:
		return t.FeatureFPS
	case ColQueueDepth:
		return t.QueueDepth
	case ColBuffer:
		return t.BufferPosition
	case ColSignal:
		return t.WifiSignal
	case ColDataRate:
		return t.Bandwidth
	case ColDelta:
		return t.Delta
	case ColFlash:
		if t.FlashVersion == nil {
			return nil
		}
		return *t.FlashVersion
	}
	return nil
}

// sortText stringifies a sort value. Null, zero, false and empty values
// all read as the empty string.
func sortText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		if v == 0 {
			return ""
		}
		return strconv.Itoa(v)
	case float64:
		if v == 0 || v != v {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if !v {
			return ""
		}
		return "true"
	default:
		return ""
	}
}
