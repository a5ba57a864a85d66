package query

import (
	"sort"
	"strings"

	"github.com/nightdriver/ndsmon/internal/rows"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Recompute filters and sorts rows under cfg. It is pure: the input slice
// is not modified and equal inputs always give equal output. Rows whose
// sort keys compare equal keep their input order.
func Recompute(in []rows.Row, cfg Config) []rows.Row {
	filter := strings.ToLower(cfg.Filter)

	out := make([]rows.Row, 0, len(in))
	for i := range in {
		if filter == "" || strings.Contains(in[i].SearchIndex, filter) {
			out = append(out, in[i])
		}
	}

	if cfg.SortColumn == "" || cfg.SortDirection == SortNone {
		return out
	}

	keys := make([]string, len(out))
	for i := range out {
		keys[i] = strings.ToLower(sortText(Value(&out[i], cfg.SortColumn)))
	}

	// Sort an index permutation so keys and rows stay paired.
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	col := collate.New(language.Und)
	desc := cfg.SortDirection == SortDesc
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka == kb {
			return false
		}
		if desc {
			return col.CompareString(kb, ka) < 0
		}
		return col.CompareString(ka, kb) < 0
	})

	sorted := make([]rows.Row, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// ToggleSort advances the sort for column: none, ascending, descending,
// then none again. Choosing a different column starts it ascending.
func ToggleSort(cfg Config, column string) Config {
	cfg = cfg.Clone()
	if cfg.SortColumn != column {
		cfg.SortColumn = column
		cfg.SortDirection = SortAsc
		return cfg
	}
	switch cfg.SortDirection {
	case SortAsc:
		cfg.SortDirection = SortDesc
	case SortDesc:
		cfg.SortColumn = ""
		cfg.SortDirection = SortNone
	default:
		cfg.SortDirection = SortAsc
	}
	return cfg
}

// SetFilter stores the lower-cased filter text.
func SetFilter(cfg Config, text string) Config {
	cfg = cfg.Clone()
	cfg.Filter = strings.ToLower(text)
	return cfg
}

// SetVisibleColumns shows exactly the requested data columns that exist,
// in column order, bracketed by the select and actions slots. An empty
// request shows every column.
func SetVisibleColumns(cfg Config, keys []string) Config {
	cfg = cfg.Clone()
	cfg.DisplayedColumns = displayed(cfg.Columns, keys)
	return cfg
}

// ReorderColumns moves one column descriptor, keeping the current visible
// subset in the new order.
func ReorderColumns(cfg Config, from, to int) Config {
	cfg = cfg.Clone()
	cfg.Columns = move(cfg.Columns, from, to)
	cfg.DisplayedColumns = displayed(cfg.Columns, cfg.DisplayedColumns)
	return cfg
}
