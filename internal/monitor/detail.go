package monitor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/nightdriver/ndsmon/internal/format"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/nightdriver/ndsmon/internal/rows"
	"github.com/nightdriver/ndsmon/internal/ui"
)

// Detail view layout
const (
	detailChromeLines   = 6 // header, blank, divider, footer and margins
	minFeatureRows      = 3
	minDetailPanelLines = 4
	detailLabelWidth    = 14
)

var detailColumns = []ui.TableColumn{
	{Title: "ID", Width: 4},
	{Title: "Feature", Width: 20},
	{Title: "Host", Width: 18},
	{Title: "Status", Width: 15},
	{Title: "FPS", Width: 9},
	{Title: "Signal", Width: 8},
}

// Meter sizing for the detail panel; the table uses the configured sizes.
var detailCells = ui.CellOptions{
	DeltaThreshold: format.DefaultDeltaThreshold,
	DeltaWidth:     format.DefaultMeterWidth,
}

// openDetail switches to the detail view for the canvas under the cursor,
// focusing the cursor row's feature.
func (m *Model) openDetail() {
	r := m.currentRow()
	if r == nil {
		return
	}
	m.store.SelectCanvas(r.CanvasID)
	m.mode = ViewDetail
	m.featureIDs = nil
	m.syncDetail()
	m.focusFeature(r.FeatureID)
	m.updateDetailContent()
}

func (m *Model) closeDetail() {
	m.store.ClearSelectedCanvas()
	m.mode = ViewList
}

// syncDetail rebuilds the feature list from the latest snapshot, keeping
// focus on the same feature. A cleared selection returns to the list.
func (m *Model) syncDetail() {
	if _, ok := m.store.SelectedCanvasID(); !ok {
		m.mode = ViewList
		return
	}

	focused, hadFocus := m.focusedFeatureID()
	canvas := m.store.SelectedCanvas()

	var tableRows []table.Row
	m.featureIDs = m.featureIDs[:0]
	if canvas != nil {
		now := rows.Now(m.now())
		for i := range canvas.Features {
			f := &canvas.Features[i]
			r := rows.Derive(canvas, f, now)
			tableRows = append(tableRows, featureTableRow(&r))
			m.featureIDs = append(m.featureIDs, f.ID)
		}
	}
	m.features.SetRows(tableRows)
	m.resizeDetail()

	if hadFocus {
		m.focusFeature(focused)
	} else if m.features.Cursor() >= len(tableRows) {
		m.features.SetCursor(0)
	}
	m.updateDetailContent()
}

func featureTableRow(r *rows.Row) table.Row {
	signal := ""
	if r.Telemetry != nil {
		signal = r.Telemetry.WifiSignal
	}
	return table.Row{
		strconv.Itoa(r.FeatureID),
		r.FeatureName,
		r.HostName,
		ui.RowCell(r, query.ColStatus, detailCells).Text,
		ui.RowCell(r, query.ColFPS, detailCells).Text,
		signal,
	}
}

func (m *Model) focusFeature(id int) {
	for i, fid := range m.featureIDs {
		if fid == id {
			m.features.SetCursor(i)
			return
		}
	}
}

func (m Model) focusedFeatureID() (int, bool) {
	i := m.features.Cursor()
	if i < 0 || i >= len(m.featureIDs) {
		return 0, false
	}
	return m.featureIDs[i], true
}

// resizeDetail splits the height between the feature list and the panel.
func (m *Model) resizeDetail() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	avail := m.height - detailChromeLines
	listHeight := len(m.featureIDs) + 1
	if maxList := avail / 2; listHeight > maxList {
		listHeight = maxList
	}
	if listHeight < minFeatureRows {
		listHeight = minFeatureRows
	}
	panel := avail - listHeight
	if panel < minDetailPanelLines {
		panel = minDetailPanelLines
	}
	m.features.SetHeight(listHeight)
	m.features.SetWidth(m.width)
	m.detailViewport.Width = m.width
	m.detailViewport.Height = panel
}

func (m *Model) updateDetailContent() {
	m.detailViewport.SetContent(m.renderFeaturePanel())
}

func (m *Model) scrollDetail(delta int) {
	m.detailViewport.SetYOffset(m.detailViewport.YOffset + delta)
}

func (m Model) renderDetailView() string {
	id, _ := m.store.SelectedCanvasID()
	canvas := m.store.SelectedCanvas()

	var b strings.Builder
	if canvas == nil {
		b.WriteString(TitleStyle.Render(fmt.Sprintf("Canvas %d", id)))
		b.WriteString("\n\n")
		b.WriteString(MutedStyle.Render("Canvas is not in the latest snapshot"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderDetailHeader(canvas))
		b.WriteString("\n")
		if banner := m.renderConnectionBanner(); banner != "" {
			b.WriteString(banner)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if len(canvas.Features) == 0 {
			b.WriteString(MutedStyle.Render("No features"))
			b.WriteString("\n")
		} else {
			b.WriteString(m.features.View())
			b.WriteString("\n")
			b.WriteString(detailDivider(m.width))
			b.WriteString("\n")
			b.WriteString(m.detailViewport.View())
			b.WriteString("\n")
		}
	}

	if notes := m.renderNotifications(); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}
	b.WriteString(m.renderDetailFooter())
	return b.String()
}

func (m Model) renderDetailHeader(c *fleet.Canvas) string {
	parts := []string{
		fmt.Sprintf("#%d", c.ID),
		fmt.Sprintf("%dx%d", c.Width, c.Height),
		format.FPS(c.FPS),
	}
	if c.CurrentEffectName != "" {
		parts = append(parts, c.CurrentEffectName)
	}
	if em := c.EffectsManager; em != nil && len(em.Effects) > 0 {
		parts = append(parts, fmt.Sprintf("effect %d of %d", em.CurrentEffectIndex+1, len(em.Effects)))
	}
	return TitleStyle.Render(c.Name) + "  " + LabelStyle.Render(strings.Join(parts, "  "))
}

// renderFeaturePanel renders the focused feature's configuration and
// telemetry as label/value lines.
func (m Model) renderFeaturePanel() string {
	canvas := m.store.SelectedCanvas()
	id, ok := m.focusedFeatureID()
	if canvas == nil || !ok {
		return ""
	}
	f := canvas.FindFeature(id)
	if f == nil {
		return ""
	}
	r := rows.Derive(canvas, f, rows.Now(m.now()))

	var lines []string
	add := func(label, value string, health rows.Health) {
		style := ValueStyle
		if health != rows.HealthNone {
			style = ui.HealthStyle(health)
		}
		lines = append(lines, LabelStyle.Width(detailLabelWidth).Render(label)+style.Render(value))
	}
	cell := func(key string) ui.Cell { return ui.RowCell(&r, key, detailCells) }

	add("Feature", r.FeatureName, rows.HealthNone)
	add("Host", fmt.Sprintf("%s:%d", f.HostName, f.Port), rows.HealthNone)
	add("Size", r.Size, rows.HealthNone)
	add("Offset", fmt.Sprintf("%d,%d", f.OffsetX, f.OffsetY), rows.HealthNone)
	add("Channel", strconv.Itoa(f.Channel), rows.HealthNone)
	add("Reversed", yesNo(f.Reversed), rows.HealthNone)
	add("R/G swap", yesNo(f.RedGreenSwap), rows.HealthNone)
	add("Buffers", strconv.Itoa(f.ClientBufferCount), rows.HealthNone)
	add("Time offset", fmt.Sprintf("%.2fs", f.TimeOffset), rows.HealthNone)

	status := cell(query.ColStatus)
	add("Status", status.Text, status.Health)
	reconnects := cell(query.ColReconnectCount)
	add("Reconnects", reconnects.Text, reconnects.Health)

	if r.Telemetry == nil {
		lines = append(lines, "", MutedStyle.Render("No telemetry"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "")
	t := r.Telemetry
	for _, key := range []string{query.ColFPS, query.ColQueueDepth, query.ColBuffer, query.ColSignal, query.ColDataRate, query.ColDelta} {
		c := cell(key)
		label, _ := query.LookupColumn(key)
		add(label.Label, c.Text, c.Health)
	}
	fill := ""
	if t.BufferRatio != nil {
		fill = format.Ratio(*t.BufferRatio)
	}
	add("Buffer fill", fill, t.BufferStatus)
	if resp := f.LastClientResponse; resp != nil {
		add("Brightness", fmt.Sprintf("%.0f%%", resp.Brightness), rows.HealthNone)
		add("Power", fmt.Sprintf("%.1f W", resp.Watts), rows.HealthNone)
	}
	if t.FlashVersion != nil {
		add("Flash", *t.FlashVersion, rows.HealthNone)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetailFooter() string {
	hints := []string{
		"↑/↓ feature",
		"PgUp/PgDn scroll",
		"S start",
		"x stop",
		"D delete feature",
		"d delete canvas",
		"Esc back",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, "  "))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// detailDivider renders a full-width rule for the detail view.
func detailDivider(width int) string {
	return lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("─", max(width, 20)))
}
