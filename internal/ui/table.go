package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling. Cells must be
// plain text; use RenderTable for health-coloured cells.
func NewTable(columns []TableColumn, rows []table.Row, height int) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	if height < 1 {
		height = len(rows) + 1 // +1 for header
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorSecondary).
		Bold(false)

	t.SetStyles(s)
	return t
}

// TableOptions controls RenderTable.
type TableOptions struct {
	// Highlight is the body row drawn with the cursor style, or -1.
	Highlight int
	// Muted marks body rows drawn in the muted color where their cells
	// carry no health tag.
	Muted func(row int) bool
}

// RenderTable renders a non-interactive table string with a bold header
// underline and each cell coloured by its health tag.
func RenderTable(headers []string, body [][]Cell, opts TableOptions) string {
	data := make([][]string, len(body))
	for i, r := range body {
		data[i] = make([]string, len(r))
		for j, c := range r {
			data[i][j] = c.Text
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).PaddingRight(2)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			style := lipgloss.NewStyle().PaddingRight(2)
			if row < 0 || row >= len(body) || col >= len(body[row]) {
				return style
			}
			cell := body[row][col]
			switch {
			case cell.Health != "":
				style = style.Foreground(HealthColor(cell.Health))
			case opts.Muted != nil && opts.Muted(row):
				style = style.Foreground(ColorMuted)
			}
			if row == opts.Highlight {
				style = style.Inherit(cursorStyle)
			}
			return style
		})

	return t.String()
}

// RenderSimpleTable renders plain string rows. Returns "" for no rows.
func RenderSimpleTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	body := make([][]Cell, len(rows))
	for i, r := range rows {
		body[i] = make([]Cell, len(r))
		for j, text := range r {
			body[i][j] = Cell{Text: text}
		}
	}
	return RenderTable(headers, body, TableOptions{Highlight: -1})
}
