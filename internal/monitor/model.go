package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/nightdriver/ndsmon/internal/logger"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/nightdriver/ndsmon/internal/rows"
	"github.com/nightdriver/ndsmon/internal/ui"
)

// Options configures a Model.
type Options struct {
	// Server is shown in the header.
	Server string
	// Cells sizes the delta meter in the fleet table.
	Cells ui.CellOptions
	// Clock is the wall clock used for row derivation and relative times.
	Clock  func() time.Time
	Logger logger.Logger
}

// Model is the Bubble Tea model for the fleet dashboard.
type Model struct {
	store  *fleet.Store
	table  *query.Table
	gate   *Gate
	keys   KeyMap
	server string
	cells  ui.CellOptions
	now    func() time.Time
	log    logger.Logger

	width    int
	height   int
	mode     ViewMode
	showHelp bool
	quitting bool

	// List view cursor. cursorID follows the row across recomputes.
	cursor   int
	cursorID string
	offset   int
	colFocus int

	filtering bool
	filter    textinput.Model

	// Pending confirmation shown as a modal, nil when none.
	prompt *confirmRequest

	editCursor int

	// Detail view state
	features       table.Model
	featureIDs     []int
	detailViewport viewport.Model
}

// notifyTickMsg drives notification expiry and the "last update" clock.
type notifyTickMsg time.Time

const notifyInterval = time.Second

// Size assumed until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 120
	defaultHeight = 30
)

// NewModel creates the dashboard over a store and table. gate must be the
// Gate the store was created with.
func NewModel(store *fleet.Store, tbl *query.Table, gate *Gate, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "host, feature, canvas or effect"
	ti.CharLimit = 128

	return Model{
		store:          store,
		table:          tbl,
		gate:           gate,
		keys:           DefaultKeyMap,
		server:         opts.Server,
		cells:          opts.Cells,
		now:            opts.Clock,
		log:            opts.Logger,
		filter:         ti,
		features:       ui.NewTable(detailColumns, nil, minFeatureRows),
		detailViewport: viewport.New(defaultWidth, minDetailPanelLines),
	}
}

// Init starts the poll loop, the prompt listener and the notification clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.store.Start(),
		m.gate.Wait(),
		notifyTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeDetail()
		m.scrollToCursor()
		return m, nil

	case notifyTickMsg:
		m.store.Notifications().Expire()
		return m, notifyTickCmd()

	case promptMsg:
		req := msg.req
		m.prompt = &req
		return m, nil

	case fleet.PollResultMsg:
		cmd := m.store.Update(msg)
		m.refreshRows()
		return m, cmd
	}

	// Remaining store messages: poll ticks and command results.
	return m, m.store.Update(msg)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.prompt != nil {
		return m.renderPrompt()
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	switch m.mode {
	case ViewDetail:
		return m.renderDetailView()
	case ViewColumns:
		return m.renderColumnEditor()
	}
	return m.renderDashboard()
}

// Mode returns the active view.
func (m Model) Mode() ViewMode { return m.mode }

// Cursor returns the list cursor position in the table view.
func (m Model) Cursor() int { return m.cursor }

// Filtering reports whether keystrokes go to the filter input.
func (m Model) Filtering() bool { return m.filtering }

// PromptActive reports whether a confirmation modal is open.
func (m Model) PromptActive() bool { return m.prompt != nil }

func notifyTickCmd() tea.Cmd {
	return tea.Tick(notifyInterval, func(t time.Time) tea.Msg {
		return notifyTickMsg(t)
	})
}

// refreshRows re-derives the rows from the latest snapshot.
func (m *Model) refreshRows() {
	m.table.SetRows(rows.Expand(m.store.Canvases(), rows.Now(m.now())))
	m.restoreCursor()
	m.clampColumnFocus()
	if m.mode == ViewDetail {
		m.syncDetail()
	}
}

// currentRow returns the row under the cursor, or nil for an empty view.
func (m Model) currentRow() *rows.Row {
	view := m.table.View()
	if m.cursor < 0 || m.cursor >= len(view) {
		return nil
	}
	return &view[m.cursor]
}

// restoreCursor keeps the cursor on the same row after a recompute, or
// clamps it when that row is gone.
func (m *Model) restoreCursor() {
	view := m.table.View()
	if m.cursorID != "" {
		for i := range view {
			if view[i].ID == m.cursorID {
				m.cursor = i
				m.scrollToCursor()
				return
			}
		}
	}
	m.setCursor(m.cursor)
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

func (m *Model) setCursor(i int) {
	view := m.table.View()
	if i >= len(view) {
		i = len(view) - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	m.cursorID = ""
	if i < len(view) {
		m.cursorID = view[i].ID
	}
	m.scrollToCursor()
}

// scrollToCursor adjusts the window so the cursor row is visible.
func (m *Model) scrollToCursor() {
	h := m.tableBodyHeight()
	if h <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// pageSize is the number of rows a page key moves.
func (m Model) pageSize() int {
	if h := m.tableBodyHeight(); h > 1 {
		return h - 1
	}
	return 10
}

func (m *Model) moveColumnFocus(delta int) {
	m.colFocus += delta
	m.clampColumnFocus()
}

func (m *Model) clampColumnFocus() {
	n := len(m.table.Columns())
	if m.colFocus >= n {
		m.colFocus = n - 1
	}
	if m.colFocus < 0 {
		m.colFocus = 0
	}
}

func (m Model) focusedColumn() (query.Column, bool) {
	cols := m.table.Columns()
	if m.colFocus < 0 || m.colFocus >= len(cols) {
		return query.Column{}, false
	}
	return cols[m.colFocus], true
}

// targetCanvasIDs returns the canvases a bulk command acts on: the selected
// rows' canvases, or the canvas under the cursor when nothing is selected.
func (m Model) targetCanvasIDs() []int {
	if ids := m.table.SelectedCanvasIDs(); len(ids) > 0 {
		return ids
	}
	if r := m.currentRow(); r != nil {
		return []int{r.CanvasID}
	}
	return nil
}
