package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/format"
	"github.com/nightdriver/ndsmon/internal/notify"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/nightdriver/ndsmon/internal/rows"
	"github.com/nightdriver/ndsmon/internal/ui"
)

// Lines the list view spends outside the table body: header, blank line,
// table header and its rule, blank line and footer.
const listChromeLines = 6

// renderDashboard renders the fleet list view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if banner := m.renderConnectionBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	if line := m.renderFilterLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderFleetTable())
	b.WriteString("\n")
	if notes := m.renderNotifications(); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the top status line: server, fleet counts, last
// update and the poll indicator.
func (m Model) renderHeader() string {
	canvases := m.store.Canvases()
	all := m.table.Rows()
	connected, degraded := 0, 0
	for i := range all {
		if all[i].IsConnected {
			connected++
		}
		if rowHealth(&all[i]) == rows.HealthDanger {
			degraded++
		}
	}

	stats := fmt.Sprintf("%d canvases  %d features  %d connected", len(canvases), len(all), connected)
	if degraded > 0 {
		stats += "  " + lipgloss.NewStyle().Foreground(ColorCritical).Render(fmt.Sprintf("%d degraded", degraded))
	}
	updated := "updated " + format.Since(m.store.LastUpdate(), m.now())

	left := TitleStyle.Render("ndsmon") + "  " + LabelStyle.Render(m.server)
	right := LabelStyle.Render(stats) + "  " + MutedStyle.Render(updated) + "  " + m.renderIndicator()

	gap := m.viewWidth() - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 2 {
		gap = 2
	}
	return HeaderStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderIndicator() string {
	switch {
	case m.store.IsLoading():
		return lipgloss.NewStyle().Foreground(ColorAccentDim).Render(IndicatorPolling + " polling")
	case !m.store.AutoRefresh():
		return lipgloss.NewStyle().Foreground(ColorWarning).Render(IndicatorPaused + " paused")
	default:
		return lipgloss.NewStyle().Foreground(ColorHealthy).Render(IndicatorLive + " live")
	}
}

// renderConnectionBanner returns the connection error banner, or "" while
// the last fetch succeeded.
func (m Model) renderConnectionBanner() string {
	err := m.store.ConnectionError()
	if err == nil {
		return ""
	}
	text := fmt.Sprintf("%s Connection error: %s", ui.SymbolFail, errors.Message(err))
	if len(m.store.Canvases()) > 0 {
		text += " (showing last snapshot)"
	}
	return BannerStyle.Render(text)
}

func (m Model) renderFilterLine() string {
	if m.filtering {
		return m.filter.View()
	}
	if f := m.table.Config().Filter; f != "" {
		return LabelStyle.Render("filter: ") + ValueStyle.Render(f) + MutedStyle.Render("  (/ to edit)")
	}
	return ""
}

// renderFleetTable renders the visible window of the table view.
func (m Model) renderFleetTable() string {
	view := m.table.View()
	if len(view) == 0 {
		return MutedStyle.Render(m.emptyMessage())
	}

	cols := m.table.Columns()
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}

	start, end := m.window(len(view))
	sel := m.table.Selection()
	body := make([][]ui.Cell, 0, end-start)
	for i := start; i < end; i++ {
		r := &view[i]
		cells := make([]ui.Cell, 0, len(keys)+1)
		cells = append(cells, ui.Cell{Text: checkbox(sel.IsSelected(r.ID), false)})
		cells = append(cells, ui.RowCells(r, keys, m.cells)...)
		body = append(body, cells)
	}

	return ui.RenderTable(m.tableHeaders(cols), body, ui.TableOptions{
		Highlight: m.cursor - start,
		Muted: func(row int) bool {
			return !view[start+row].IsConnected
		},
	})
}

func (m Model) tableHeaders(cols []query.Column) []string {
	cfg := m.table.Config()
	view := m.table.View()
	sel := m.table.Selection()

	headers := make([]string, 0, len(cols)+1)
	headers = append(headers, checkbox(sel.IsAllSelected(view), sel.IsAnySelected(view)))
	for i, c := range cols {
		label := c.Label
		if c.Key == cfg.SortColumn {
			switch cfg.SortDirection {
			case query.SortAsc:
				label += " " + ui.SymbolSortAsc
			case query.SortDesc:
				label += " " + ui.SymbolSortDesc
			}
		}
		if i == m.colFocus {
			label = "›" + label
		}
		headers = append(headers, label)
	}
	return headers
}

func checkbox(all, some bool) string {
	switch {
	case all:
		return ui.SymbolChecked
	case some:
		return ui.SymbolPartial
	default:
		return ui.SymbolUnchecked
	}
}

func (m Model) emptyMessage() string {
	switch {
	case len(m.table.Rows()) > 0:
		return "No rows match filter"
	case m.store.LastUpdate().IsZero() && !m.store.HasConnectionError():
		return "Connecting…"
	default:
		return "No features"
	}
}

// window returns the [start, end) range of rows that fit on screen.
func (m Model) window(n int) (int, int) {
	h := m.tableBodyHeight()
	start := m.offset
	if start > n {
		start = n
	}
	end := start + h
	if end > n {
		end = n
	}
	return start, end
}

// tableBodyHeight is the number of table rows that fit on screen.
func (m Model) tableBodyHeight() int {
	h := m.height
	if h <= 0 {
		h = defaultHeight
	}
	h -= listChromeLines
	if m.store.HasConnectionError() {
		h--
	}
	if m.filtering || m.table.Config().Filter != "" {
		h--
	}
	h -= len(m.store.Notifications().Visible())
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// renderNotifications renders one line per visible notification.
func (m Model) renderNotifications() string {
	visible := m.store.Notifications().Visible()
	if len(visible) == 0 {
		return ""
	}
	lines := make([]string, 0, len(visible))
	for _, n := range visible {
		lines = append(lines, renderNotification(n))
	}
	return strings.Join(lines, "\n")
}

func renderNotification(n notify.Notification) string {
	var symbol string
	var color lipgloss.Color
	switch n.Level {
	case notify.LevelSuccess:
		symbol, color = ui.SymbolSuccess, ColorHealthy
	case notify.LevelWarning:
		symbol, color = "!", ColorWarning
	case notify.LevelError:
		symbol, color = ui.SymbolFail, ColorCritical
	default:
		symbol, color = "i", ColorAccentDim
	}

	text := lipgloss.NewStyle().Foreground(color).Bold(true).Render(symbol+" "+n.Title)
	if n.Message != "" {
		text += "  " + ValueStyle.Render(n.Message)
	}
	if n.Count > 1 {
		text += MutedStyle.Render(fmt.Sprintf(" (x%d)", n.Count))
	}
	return text
}

func (m Model) renderFooter() string {
	hints := []string{
		"↑/↓ move",
		"←/→ column",
		"s sort",
		"/ filter",
		"space select",
		"S start",
		"x stop",
		"d delete",
		"Enter open",
		"c columns",
		"p pause",
		"? help",
		"q quit",
	}
	footer := strings.Join(hints, "  ")
	if n := m.table.Selection().Len(); n > 0 {
		footer = fmt.Sprintf("%d selected  ", n) + footer
	}
	return FooterStyle.Render(footer)
}

// renderPrompt renders the confirmation modal centered on screen.
func (m Model) renderPrompt() string {
	p := m.prompt.prompt
	content := strings.Join([]string{
		TitleStyle.Render(p.Title),
		"",
		ValueStyle.Render(p.Message),
		"",
		lipgloss.NewStyle().Foreground(ColorCritical).Bold(true).Render("y "+p.ConfirmText) +
			"    " + LabelStyle.Render("n "+p.CancelText),
	}, "\n")

	return lipgloss.Place(
		m.viewWidth(),
		m.viewHeight(),
		lipgloss.Center,
		lipgloss.Center,
		PromptBoxStyle.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}

func (m Model) viewHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

// rowHealth returns the worst health tag across a row's cells. A
// disconnected row is always in danger.
func rowHealth(r *rows.Row) rows.Health {
	if r.Status != rows.StatusConnected {
		return rows.HealthDanger
	}
	worst := r.ReconnectStatus
	t := r.Telemetry
	if t == nil {
		return worst
	}
	for _, h := range []rows.Health{t.FPSStatus, t.QueueStatus, t.BufferStatus, t.WifiSignalStatus, t.DeltaStatus} {
		if healthRank(h) > healthRank(worst) {
			worst = h
		}
	}
	return worst
}

func healthRank(h rows.Health) int {
	switch h {
	case rows.HealthGood:
		return 1
	case rows.HealthWarning:
		return 2
	case rows.HealthDanger:
		return 3
	}
	return 0
}
