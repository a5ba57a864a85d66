package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nightdriver/ndsmon/internal/config"
	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/nightdriver/ndsmon/internal/prefs"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/nightdriver/ndsmon/internal/rows"
	"github.com/nightdriver/ndsmon/internal/ui"
	"gopkg.in/yaml.v3"
)

// listOutput is the JSON payload of "canvases list".
type listOutput struct {
	Columns []string   `json:"columns"`
	Rows    []rows.Row `json:"rows"`
}

// listCommand prints one derived, filtered and sorted snapshot.
func listCommand(cfg *config.Config, flags ListFlags, out io.Writer) error {
	format, err := ParseOutputFormat(flags.Output)
	if err != nil {
		return err
	}
	columns, err := ParseColumns(flags.Columns)
	if err != nil {
		return err
	}
	sortColumn, err := ParseSortColumn(flags.Sort)
	if err != nil {
		return err
	}

	s, err := newSession(cfg, nil, out)
	if err != nil {
		return err
	}
	canvases, err := s.fetch()
	if err != nil {
		return err
	}

	qc := listConfig(cfg, s, flags, columns, sortColumn)
	view := query.Recompute(rows.Expand(canvases, rows.Now(time.Now())), qc)
	cols := qc.DataColumns()
	cells := ui.CellOptions{DeltaThreshold: cfg.Delta.Threshold, DeltaWidth: cfg.Delta.Width}

	switch format {
	case OutputJSON:
		keys := make([]string, len(cols))
		for i, c := range cols {
			keys[i] = c.Key
		}
		if view == nil {
			view = []rows.Row{}
		}
		return WriteJSONSuccess(out, listOutput{Columns: keys, Rows: view})
	case OutputYAML:
		return writeRowsYAML(out, view, cols, cells)
	}
	return writeRowsTable(out, canvases, view, cols, cells, qc.Filter)
}

// listConfig starts from the saved dashboard layout and applies the flags.
// An unreadable preferences store (e.g. pebble held open by a running
// dashboard) falls back to the default layout.
func listConfig(cfg *config.Config, s *session, flags ListFlags, columns []string, sortColumn string) query.Config {
	qc := query.Default()
	if store, err := prefs.Open(cfg.Preferences.Backend, cfg.PreferencesPath()); err != nil {
		s.log.Debug("preferences unavailable, using default layout: %v", err)
	} else {
		qc = query.Load(store, s.log)
		store.Close()
	}

	// The saved filter belongs to the dashboard; the list shows everything
	// unless --filter is given.
	qc = query.SetFilter(qc, flags.Filter)
	if columns != nil {
		qc = query.SetVisibleColumns(qc, columns)
	}
	if sortColumn != "" {
		qc.SortColumn = sortColumn
		qc.SortDirection = query.SortAsc
		if flags.Desc {
			qc.SortDirection = query.SortDesc
		}
	}
	return qc
}

func writeRowsTable(out io.Writer, canvases []fleet.Canvas, view []rows.Row, cols []query.Column, opts ui.CellOptions, filter string) error {
	if len(view) == 0 {
		msg := "No features"
		switch {
		case len(canvases) == 0:
			msg = "No canvases"
		case filter != "":
			msg = "No rows match filter"
		}
		fmt.Fprintln(out, ui.MutedStyle().Render(msg))
		return nil
	}

	headers := make([]string, len(cols))
	keys := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Label
		keys[i] = c.Key
	}
	body := make([][]ui.Cell, len(view))
	for i := range view {
		body[i] = ui.RowCells(&view[i], keys, opts)
	}

	fmt.Fprintln(out, ui.RenderTable(headers, body, ui.TableOptions{
		Highlight: -1,
		Muted:     func(row int) bool { return !view[row].IsConnected },
	}))
	return nil
}

// writeRowsYAML writes one mapping per row: the row id, then each visible
// column as its rendered text, in display order.
func writeRowsYAML(out io.Writer, view []rows.Row, cols []query.Column, opts ui.CellOptions) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for i := range view {
		r := &view[i]
		m := &yaml.Node{Kind: yaml.MappingNode}
		addScalar(m, "id", r.ID, "!!str")
		addScalar(m, "canvasId", strconv.Itoa(r.CanvasID), "!!int")
		addScalar(m, "featureId", strconv.Itoa(r.FeatureID), "!!int")
		for _, c := range cols {
			addScalar(m, c.Key, ui.RowCell(r, c.Key, opts).Text, "!!str")
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(seq)
}

func addScalar(m *yaml.Node, key, value, tag string) {
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag},
	)
}
