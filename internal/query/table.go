package query

import (
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/logger"
	"github.com/nightdriver/ndsmon/internal/prefs"
	"github.com/nightdriver/ndsmon/internal/rows"
)

// Load reads the stored config. A missing, unreadable or malformed entry
// yields the default config; the cause is only logged.
func Load(store prefs.Store, log logger.Logger) Config {
	if log == nil {
		log = logger.Noop()
	}
	if store == nil {
		return Default()
	}
	raw, ok, err := store.Get(StorageKey)
	if err != nil {
		log.Debug("read table preferences: %v", err)
		return Default()
	}
	if !ok || raw == "" {
		return Default()
	}
	cfg, err := Decode([]byte(raw))
	if err != nil {
		log.Debug("%s", errors.Message(err))
	}
	return cfg
}

// Save writes cfg under StorageKey.
func Save(store prefs.Store, cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return store.Set(StorageKey, string(data))
}

// Table holds the derived rows, the config and the selection for one
// dashboard. Every config mutation is persisted immediately. The stored
// config is loaded when the first rows arrive, or on the first mutation if
// that comes earlier.
type Table struct {
	store     prefs.Store
	log       logger.Logger
	cfg       Config
	loaded    bool
	rows      []rows.Row
	view      []rows.Row
	selection *Selection
}

// NewTable creates a table persisting to store. A nil store keeps the
// config in memory only.
func NewTable(store prefs.Store, log logger.Logger) *Table {
	if log == nil {
		log = logger.Noop()
	}
	return &Table{
		store:     store,
		log:       log,
		cfg:       Default(),
		selection: NewSelection(),
	}
}

// SetRows replaces the derived rows and recomputes the view.
func (t *Table) SetRows(rs []rows.Row) {
	t.ensureLoaded()
	t.rows = rs
	t.recompute()
}

// View returns the filtered and sorted rows.
func (t *Table) View() []rows.Row { return t.view }

// Rows returns every derived row, before filtering.
func (t *Table) Rows() []rows.Row { return t.rows }

// Config returns a copy of the current config.
func (t *Table) Config() Config { return t.cfg.Clone() }

// Selection returns the selection set.
func (t *Table) Selection() *Selection { return t.selection }

// Columns returns the visible data columns in display order.
func (t *Table) Columns() []Column { return t.cfg.DataColumns() }

// SetFilter stores new filter text.
func (t *Table) SetFilter(text string) {
	t.mutate(func(c Config) Config { return SetFilter(c, text) })
}

// ToggleSort cycles the sort on column.
func (t *Table) ToggleSort(column string) {
	if !KnownColumn(column) {
		return
	}
	t.mutate(func(c Config) Config { return ToggleSort(c, column) })
}

// SetVisibleColumns shows the given data columns.
func (t *Table) SetVisibleColumns(keys []string) {
	t.mutate(func(c Config) Config { return SetVisibleColumns(c, keys) })
}

// ToggleColumn shows or hides one data column. The last visible column
// cannot be hidden.
func (t *Table) ToggleColumn(key string) {
	if !KnownColumn(key) {
		return
	}
	t.ensureLoaded()
	var keys []string
	for _, c := range t.cfg.DataColumns() {
		if c.Key != key {
			keys = append(keys, c.Key)
		}
	}
	if !t.cfg.IsVisible(key) {
		keys = append(keys, key)
	} else if len(keys) == 0 {
		return
	}
	t.apply(SetVisibleColumns(t.cfg, keys))
}

// ReorderColumns moves one column descriptor.
func (t *Table) ReorderColumns(from, to int) {
	t.mutate(func(c Config) Config { return ReorderColumns(c, from, to) })
}

// ResetColumns restores catalog order with every column visible, keeping
// the filter and sort.
func (t *Table) ResetColumns() {
	t.mutate(func(c Config) Config {
		cfg := Default()
		cfg.Filter = c.Filter
		cfg.SortColumn = c.SortColumn
		cfg.SortDirection = c.SortDirection
		return cfg
	})
}

// SelectedCanvasIDs returns the distinct canvas ids of selected visible rows.
func (t *Table) SelectedCanvasIDs() []int {
	return t.selection.CanvasIDs(t.view)
}

// ensureLoaded reads the stored config once. A mutation made before the
// first rows arrive loads first so the change is applied on top of it.
func (t *Table) ensureLoaded() {
	if t.loaded {
		return
	}
	t.loaded = true
	t.cfg = Load(t.store, t.log)
}

func (t *Table) mutate(fn func(Config) Config) {
	t.ensureLoaded()
	t.apply(fn(t.cfg))
}

func (t *Table) apply(cfg Config) {
	t.cfg = cfg
	t.recompute()
	if t.store == nil {
		return
	}
	if err := Save(t.store, t.cfg); err != nil {
		t.log.Warn("save table preferences: %v", err)
	}
}

func (t *Table) recompute() {
	t.view = Recompute(t.rows, t.cfg)
}
