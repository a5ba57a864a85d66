package monitor

import "github.com/charmbracelet/bubbles/key"

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewColumns
)

// String returns a human-readable label for the view mode.
func (v ViewMode) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	case ViewColumns:
		return "columns"
	default:
		return "unknown"
	}
}

// KeyMap defines all key bindings for the dashboard.
type KeyMap struct {
	// Navigation
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	PrevColumn key.Binding
	NextColumn key.Binding
	PageUp     key.Binding
	PageDown   key.Binding

	// Table
	Sort      key.Binding
	Filter    key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Columns   key.Binding

	// Column editor
	MoveUp       key.Binding
	MoveDown     key.Binding
	ResetColumns key.Binding

	// Commands
	Start         key.Binding
	Stop          key.Binding
	DeleteCanvas  key.Binding
	DeleteFeature key.Binding

	// Confirmation modal
	Confirm key.Binding
	Cancel  key.Binding

	Open      key.Binding
	Back      key.Binding
	Pause     key.Binding
	Refresh   key.Binding
	Dismiss   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k/h/l) alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "previous row"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next row"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first row"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last row"),
	),
	PrevColumn: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "previous column"),
	),
	NextColumn: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next column"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("PgUp", "scroll up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("PgDn", "scroll down"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort by column (asc, desc, off)"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Select: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select row"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all / none"),
	),
	Columns: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "edit columns"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move column up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move column down"),
	),
	ResetColumns: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset columns"),
	),
	Start: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "start canvases"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop canvases"),
	),
	DeleteCanvas: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete canvas"),
	),
	DeleteFeature: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete feature (detail view)"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "cancel"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open canvas"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back / close"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause / resume auto-refresh"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "dismiss notifications"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("Ctrl+C", "quit"),
	),
}
