package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nightdriver/ndsmon/internal/ui"
)

var (
	editorCursorStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	editorHiddenStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)
)

// renderColumnEditor lists every data column in configured order with its
// visibility, the cursor row highlighted.
func (m Model) renderColumnEditor() string {
	cfg := m.table.Config()

	var lines []string
	lines = append(lines, TitleStyle.Render("Columns"))
	lines = append(lines, "")
	for i, c := range cfg.Columns {
		mark := ui.SymbolUnchecked
		style := editorHiddenStyle
		if cfg.IsVisible(c.Key) {
			mark = ui.SymbolChecked
			style = ValueStyle
		}
		line := mark + " " + c.Label
		if i == m.editCursor {
			lines = append(lines, editorCursorStyle.Render("› "+line))
			continue
		}
		lines = append(lines, "  "+style.Render(line))
	}
	lines = append(lines, "")
	lines = append(lines, FooterStyle.Render("space show/hide  K/J move  R reset  Esc done"))
	return strings.Join(lines, "\n")
}
