package query

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/nightdriver/ndsmon/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StorageKey is the preference key the config is saved under.
const StorageKey = "userOptions.v1"

// SortDirection is the direction of the active sort.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Config is the user's table configuration: filter, column order and
// visibility, and sort. SortColumn is empty when no sort is active.
type Config struct {
	Filter           string
	Columns          []Column
	DisplayedColumns []string
	SortColumn       string
	SortDirection    SortDirection
}

// wireConfig is the stored form; sortColumn is null when unset.
type wireConfig struct {
	Columns          []Column      `json:"columns"`
	DisplayedColumns []string      `json:"displayedColumns"`
	Filter           string        `json:"filter"`
	SortColumn       *string       `json:"sortColumn"`
	SortDirection    SortDirection `json:"sortDirection"`
}

// Default returns the initial config: no filter, catalog order, every
// column visible, no sort.
func Default() Config {
	cols := Catalog()
	return Config{
		Columns:          cols,
		DisplayedColumns: displayed(cols, nil),
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Columns = append([]Column(nil), c.Columns...)
	out.DisplayedColumns = append([]string(nil), c.DisplayedColumns...)
	return out
}

// DataColumns returns the visible data columns in display order, without
// the select and actions slots.
func (c Config) DataColumns() []Column {
	var out []Column
	for _, key := range c.DisplayedColumns {
		if key == SelectColumn || key == ActionsColumn {
			continue
		}
		if col, ok := c.column(key); ok {
			out = append(out, col)
		}
	}
	return out
}

// IsVisible reports whether a data column is displayed.
func (c Config) IsVisible(key string) bool {
	for _, k := range c.DisplayedColumns {
		if k == key {
			return true
		}
	}
	return false
}

func (c Config) column(key string) (Column, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// MarshalJSON encodes the stored form.
func (c Config) MarshalJSON() ([]byte, error) {
	w := wireConfig{
		Columns:          c.Columns,
		DisplayedColumns: c.DisplayedColumns,
		Filter:           c.Filter,
		SortDirection:    c.SortDirection,
	}
	if w.Columns == nil {
		w.Columns = []Column{}
	}
	if w.DisplayedColumns == nil {
		w.DisplayedColumns = []string{}
	}
	if c.SortColumn != "" {
		col := c.SortColumn
		w.SortColumn = &col
	}
	return json.Marshal(w)
}

// Decode parses a stored config and normalizes it against the catalog.
// Malformed data returns the default config and a VALIDATION error; the
// returned config is always usable.
func Decode(data []byte) (Config, error) {
	var w wireConfig
	if err := json.Unmarshal(data, &w); err != nil {
		return Default(), errors.WrapWithCode(err, errors.ErrValidation,
			"Stored table preferences are malformed", "")
	}
	return normalize(w), nil
}

// normalize applies stored values over the defaults. Unknown columns are
// dropped, stored columns move to the front in their stored order, and an
// empty visible set falls back to every column.
func normalize(w wireConfig) Config {
	cfg := Config{
		Filter:  strings.ToLower(w.Filter),
		Columns: reorderByStored(Catalog(), w.Columns),
	}
	cfg.DisplayedColumns = displayed(cfg.Columns, w.DisplayedColumns)

	if w.SortColumn != nil && KnownColumn(*w.SortColumn) {
		switch w.SortDirection {
		case SortAsc, SortDesc:
			cfg.SortColumn = *w.SortColumn
			cfg.SortDirection = w.SortDirection
		}
	}
	return cfg
}

// reorderByStored moves each known stored column to the front, walking the
// stored list backwards so the stored order wins.
func reorderByStored(cols []Column, stored []Column) []Column {
	for i := len(stored) - 1; i >= 0; i-- {
		idx := -1
		for j, c := range cols {
			if c.Key == stored[i].Key {
				idx = j
				break
			}
		}
		if idx != -1 {
			cols = move(cols, idx, 0)
		}
	}
	return cols
}

// displayed builds the visible key list: the select slot, the requested
// keys in column order, then the actions slot. A nil or unmatched request
// shows every column.
func displayed(cols []Column, requested []string) []string {
	want := make(map[string]bool, len(requested))
	for _, k := range requested {
		want[k] = true
	}

	keys := make([]string, 0, len(cols))
	for _, c := range cols {
		if want[c.Key] {
			keys = append(keys, c.Key)
		}
	}
	if len(keys) == 0 {
		for _, c := range cols {
			keys = append(keys, c.Key)
		}
	}

	out := make([]string, 0, len(keys)+2)
	out = append(out, SelectColumn)
	out = append(out, keys...)
	return append(out, ActionsColumn)
}

// move relocates the element at from to index to, shifting the others.
// Both indexes are clamped to the slice bounds.
func move[T any](s []T, from, to int) []T {
	if len(s) == 0 {
		return s
	}
	from = clamp(from, 0, len(s)-1)
	to = clamp(to, 0, len(s)-1)
	if from == to {
		return s
	}
	item := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = item
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
