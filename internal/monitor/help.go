package monitor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpSection groups bindings under a heading in the help overlay.
type helpSection struct {
	Title    string
	Bindings []key.Binding
}

func (k KeyMap) helpSections() []helpSection {
	return []helpSection{
		{Title: "Navigation", Bindings: []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown, k.PrevColumn, k.NextColumn}},
		{Title: "Table", Bindings: []key.Binding{k.Sort, k.Filter, k.Select, k.SelectAll, k.Columns, k.Open}},
		{Title: "Commands", Bindings: []key.Binding{k.Start, k.Stop, k.DeleteCanvas, k.DeleteFeature}},
		{Title: "Columns", Bindings: []key.Binding{k.MoveUp, k.MoveDown, k.ResetColumns}},
		{Title: "General", Bindings: []key.Binding{k.Pause, k.Refresh, k.Dismiss, k.Back, k.Help, k.Quit}},
	}
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpSectionStyle = lipgloss.NewStyle().
				Foreground(ColorAccentDim).
				Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(10)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, TitleStyle.Render("Keyboard Shortcuts"))

	for _, section := range m.keys.helpSections() {
		lines = append(lines, "", helpSectionStyle.Render(section.Title))
		for _, b := range section.Bindings {
			h := b.Help()
			lines = append(lines, helpKeyStyle.Render(h.Key)+helpDescStyle.Render(h.Desc))
		}
	}

	lines = append(lines, "", LabelStyle.Render("Press ? to close"))

	return lipgloss.Place(
		m.viewWidth(),
		m.viewHeight(),
		lipgloss.Center,
		lipgloss.Center,
		helpBoxStyle.Render(strings.Join(lines, "\n")),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
