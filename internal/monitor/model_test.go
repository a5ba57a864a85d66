package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nightdriver/ndsmon/internal/fleet"
	fleettest "github.com/nightdriver/ndsmon/internal/fleet/testing"
	"github.com/nightdriver/ndsmon/internal/logger"
	"github.com/nightdriver/ndsmon/internal/notify"
	"github.com/nightdriver/ndsmon/internal/prefs"
	"github.com/nightdriver/ndsmon/internal/query"
	"github.com/nightdriver/ndsmon/internal/rows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testCanvases() []fleet.Canvas {
	clock := rows.Now(testNow) + 1
	resp := &fleet.ClientResponse{FPSDrawing: 30, BufferPos: 10, BufferSize: 20, WifiSignal: -50, CurrentClock: clock}
	return []fleet.Canvas{
		{ID: 1, Name: "Window", Width: 64, Height: 8, FPS: 30, Features: []fleet.Feature{
			{ID: 10, FriendlyName: "Left", HostName: "10.0.0.1", Width: 32, Height: 8, IsConnected: true, LastClientResponse: resp},
			{ID: 11, FriendlyName: "Right", HostName: "10.0.0.2", Width: 32, Height: 8},
		}},
		{ID: 2, Name: "Tree", Width: 100, Height: 1, FPS: 20, Features: []fleet.Feature{
			{ID: 20, FriendlyName: "Trunk", HostName: "10.0.0.3", Width: 100, Height: 1, IsConnected: true, LastClientResponse: resp},
		}},
	}
}

type testHarness struct {
	backend *fleettest.FakeBackend
	store   *fleet.Store
	gate    *Gate
}

// newTestModel builds a sized model over a fake backend without polling.
func newTestModel(t *testing.T, canvases ...fleet.Canvas) (Model, *testHarness) {
	t.Helper()
	backend := fleettest.NewFakeBackend(canvases...)
	gate := NewGate()
	t.Cleanup(gate.Close)

	store := fleet.NewStore(backend, fleet.Options{
		PollDelay:      time.Millisecond,
		RequestTimeout: time.Second,
		Gate:           gate,
	})
	tbl := query.NewTable(prefs.NewMemoryStore(), logger.Noop())
	m := NewModel(store, tbl, gate, Options{
		Server: "http://test/api",
		Clock:  func() time.Time { return testNow },
	})
	m, _ = update(m, tea.WindowSizeMsg{Width: 160, Height: 40})
	return m, &testHarness{backend: backend, store: store, gate: gate}
}

// newPolledModel builds a model that has received one snapshot.
func newPolledModel(t *testing.T) (Model, *testHarness) {
	t.Helper()
	m, h := newTestModel(t, testCanvases()...)
	return pollOnce(t, m, h), h
}

func pollOnce(t *testing.T, m Model, h *testHarness) Model {
	t.Helper()
	cmd := h.store.Start()
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(m, keyMsg(k))
	}
	return m, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func currentRowID(m Model) string {
	if r := m.currentRow(); r != nil {
		return r.ID
	}
	return ""
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, ViewList, m.Mode())
	assert.Equal(t, 0, m.Cursor())
	assert.False(t, m.Filtering())
	assert.False(t, m.PromptActive())
	assert.NotNil(t, m.Init())
}

func TestViewMode_String(t *testing.T) {
	assert.Equal(t, "list", ViewList.String())
	assert.Equal(t, "detail", ViewDetail.String())
	assert.Equal(t, "columns", ViewColumns.String())
	assert.Equal(t, "unknown", ViewMode(9).String())
}

func TestUpdate_PollResultRefreshesRows(t *testing.T) {
	m, h := newPolledModel(t)

	view := m.table.View()
	require.Len(t, view, 3)
	assert.Equal(t, rows.RowID(1, 10), view[0].ID)
	assert.Equal(t, rows.RowID(2, 20), view[2].ID)
	assert.Equal(t, rows.RowID(1, 10), currentRowID(m))
	assert.Equal(t, fleet.PollScheduled, h.store.State())
}

func TestUpdate_PollFailureKeepsRows(t *testing.T) {
	m, h := newPolledModel(t)
	h.backend.FailList(assert.AnError)

	m = pollOnce(t, m, h)

	assert.Len(t, m.table.View(), 3)
	assert.True(t, h.store.HasConnectionError())
}

func TestListNavigation(t *testing.T) {
	m, _ := newPolledModel(t)

	m, _ = press(m, "j", "j")
	assert.Equal(t, 2, m.Cursor())

	m, _ = press(m, "j")
	assert.Equal(t, 2, m.Cursor(), "cursor stops at the last row")

	m, _ = press(m, "k")
	assert.Equal(t, 1, m.Cursor())

	m, _ = press(m, "g")
	assert.Equal(t, 0, m.Cursor())

	m, _ = press(m, "G")
	assert.Equal(t, 2, m.Cursor())

	m, _ = press(m, "up")
	assert.Equal(t, 1, m.Cursor())
}

func TestCursorFollowsRowAcrossSort(t *testing.T) {
	m, _ := newPolledModel(t)
	require.Equal(t, rows.RowID(1, 10), currentRowID(m))

	// Focus the feature column, then sort ascending and descending.
	m, _ = press(m, "l", "s")
	cfg := m.table.Config()
	assert.Equal(t, query.ColFeatureName, cfg.SortColumn)
	assert.Equal(t, query.SortAsc, cfg.SortDirection)
	assert.Equal(t, 0, m.Cursor())

	m, _ = press(m, "s")
	assert.Equal(t, query.SortDesc, m.table.Config().SortDirection)
	assert.Equal(t, 2, m.Cursor())
	assert.Equal(t, rows.RowID(1, 10), currentRowID(m))
}

func TestColumnFocusClamps(t *testing.T) {
	m, _ := newPolledModel(t)

	m, _ = press(m, "h")
	assert.Equal(t, 0, m.colFocus)

	for range len(m.table.Columns()) + 3 {
		m, _ = press(m, "l")
	}
	assert.Equal(t, len(m.table.Columns())-1, m.colFocus)
}

func TestFilter(t *testing.T) {
	m, _ := newPolledModel(t)

	m, cmd := press(m, "/")
	assert.True(t, m.Filtering())
	assert.NotNil(t, cmd)

	m, _ = press(m, "t", "r")
	require.Len(t, m.table.View(), 1)
	assert.Equal(t, rows.RowID(2, 20), currentRowID(m))
	assert.Equal(t, "tr", m.table.Config().Filter)

	// Keys go to the input while filtering.
	m, _ = press(m, "q")
	assert.Equal(t, "trq", m.table.Config().Filter)
	assert.Empty(t, m.table.View())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = press(m, "enter")
	assert.False(t, m.Filtering())
	assert.Equal(t, "tr", m.table.Config().Filter)
	assert.Len(t, m.table.View(), 1)

	// Re-opening and escaping clears it.
	m, _ = press(m, "/", "esc")
	assert.False(t, m.Filtering())
	assert.Empty(t, m.table.Config().Filter)
	assert.Len(t, m.table.View(), 3)
}

func TestSelection(t *testing.T) {
	m, _ := newPolledModel(t)

	m, _ = press(m, " ")
	assert.True(t, m.table.Selection().IsSelected(rows.RowID(1, 10)))

	m, _ = press(m, "a")
	assert.True(t, m.table.Selection().IsAllSelected(m.table.View()))

	m, _ = press(m, "a")
	assert.False(t, m.table.Selection().IsAnySelected(m.table.View()))

	m, _ = press(m, " ", "esc")
	assert.Equal(t, 0, m.table.Selection().Len())
}

func TestStartStop_TargetsSelectionOrCursor(t *testing.T) {
	m, h := newPolledModel(t)

	// No selection: the cursor row's canvas.
	m, _ = press(m, "G")
	m, cmd := press(m, "S")
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	require.Len(t, h.backend.Calls, 1)
	assert.Equal(t, "StartCanvases", h.backend.Calls[0].Method)
	assert.Equal(t, []int{2}, h.backend.Calls[0].CanvasIDs)

	// Selected rows across both canvases.
	m, _ = press(m, "a")
	m, cmd = press(m, "x")
	require.NotNil(t, cmd)
	_, _ = update(m, cmd())
	require.Len(t, h.backend.Calls, 2)
	assert.Equal(t, "StopCanvases", h.backend.Calls[1].Method)
	assert.ElementsMatch(t, []int{1, 2}, h.backend.Calls[1].CanvasIDs)
}

func TestStart_NoRowsNoCommand(t *testing.T) {
	m, h := newTestModel(t)

	_, cmd := press(m, "S")
	assert.Nil(t, cmd)
	assert.Empty(t, h.backend.Calls)
}

// runConfirmed runs a gated command while answering its prompt with key.
func runConfirmed(t *testing.T, m Model, h *testHarness, cmd tea.Cmd, answer string) (Model, fleet.CommandResultMsg) {
	t.Helper()
	results := make(chan tea.Msg, 1)
	go func() { results <- cmd() }()

	prompt := h.gate.Wait()()
	require.IsType(t, promptMsg{}, prompt)
	m, _ = update(m, prompt)
	require.True(t, m.PromptActive())
	assert.Contains(t, m.View(), "Are you sure")

	m, next := press(m, answer)
	assert.False(t, m.PromptActive())
	assert.NotNil(t, next, "answering re-arms the prompt listener")

	select {
	case msg := <-results:
		result, ok := msg.(fleet.CommandResultMsg)
		require.True(t, ok)
		m, _ = update(m, result)
		return m, result
	case <-time.After(2 * time.Second):
		t.Fatal("command did not complete after answering the prompt")
	}
	return m, fleet.CommandResultMsg{}
}

func TestDeleteCanvas_Confirmed(t *testing.T) {
	m, h := newPolledModel(t)

	m, cmd := press(m, "d")
	require.NotNil(t, cmd)

	_, result := runConfirmed(t, m, h, cmd, "y")
	assert.False(t, result.Cancelled)
	assert.NoError(t, result.Err)
	assert.Equal(t, 1, h.backend.CallCount("DeleteCanvas"))
}

func TestDeleteCanvas_Declined(t *testing.T) {
	m, h := newPolledModel(t)

	m, cmd := press(m, "d")
	require.NotNil(t, cmd)

	_, result := runConfirmed(t, m, h, cmd, "n")
	assert.True(t, result.Cancelled)
	assert.Zero(t, h.backend.CallCount("DeleteCanvas"))
}

func TestPromptCapturesKeys(t *testing.T) {
	m, _ := newPolledModel(t)
	reply := make(chan bool, 1)
	m, _ = update(m, promptMsg{req: confirmRequest{prompt: fleet.Prompt{}.WithDefaults(), reply: reply}})

	m, cmd := press(m, "q", "j")
	assert.Nil(t, cmd)
	assert.True(t, m.PromptActive())
	assert.Equal(t, 0, m.Cursor())
	assert.Empty(t, reply)
}

func TestForceQuit_DeclinesOpenPrompt(t *testing.T) {
	m, _ := newPolledModel(t)
	reply := make(chan bool, 1)
	m, _ = update(m, promptMsg{req: confirmRequest{prompt: fleet.Prompt{}.WithDefaults(), reply: reply}})

	m, cmd := press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.False(t, <-reply)
	assert.Empty(t, m.View())
}

func TestQuit(t *testing.T) {
	m, _ := newPolledModel(t)

	m, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, m.quitting)
}

func TestPauseToggle(t *testing.T) {
	m, h := newPolledModel(t)

	m, cmd := press(m, "p")
	assert.Nil(t, cmd)
	assert.False(t, h.store.AutoRefresh())
	notes := h.store.Notifications().Visible()
	require.NotEmpty(t, notes)
	assert.Equal(t, "Auto-refresh paused", notes[len(notes)-1].Title)

	_, cmd = press(m, "p")
	assert.NotNil(t, cmd, "resuming fetches right away")
	assert.True(t, h.store.AutoRefresh())
}

func TestRefresh(t *testing.T) {
	m, h := newPolledModel(t)

	_, cmd := press(m, "r")
	require.NotNil(t, cmd)
	assert.True(t, h.store.IsLoading())
}

func TestDismissNotifications(t *testing.T) {
	m, h := newPolledModel(t)
	notes := h.store.Notifications()
	notes.Push(notify.LevelSuccess, "Started", "canvas 1")
	notes.PushSticky(fleet.PollNoticeKey, notify.LevelError, "Connection error", "refused")
	require.Len(t, notes.Visible(), 2)

	m, _ = press(m, "X")
	assert.Empty(t, notes.Visible())
	assert.NotContains(t, m.View(), "Connection error")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newPolledModel(t)

	m, _ = press(m, "?")
	assert.True(t, m.showHelp)

	// Other keys are swallowed while help is open.
	m, _ = press(m, "j")
	assert.Equal(t, 0, m.Cursor())

	m, _ = press(m, "esc")
	assert.False(t, m.showHelp)
}

func TestNotifyTick_ExpiresAndRearms(t *testing.T) {
	m, _ := newPolledModel(t)

	_, cmd := update(m, notifyTickMsg(testNow))
	assert.NotNil(t, cmd)
}

func TestWindowSize(t *testing.T) {
	m, _ := newPolledModel(t)

	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 12})
	assert.Equal(t, 80, m.width)
	assert.Equal(t, 12, m.height)
	assert.Equal(t, 12-listChromeLines, m.tableBodyHeight())
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	m, _ := newPolledModel(t)
	// One body row fits.
	m, _ = update(m, tea.WindowSizeMsg{Width: 160, Height: listChromeLines + 1})

	m, _ = press(m, "j", "j")
	assert.Equal(t, 2, m.offset)

	start, end := m.window(len(m.table.View()))
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)

	m, _ = press(m, "g")
	assert.Equal(t, 0, m.offset)
}
