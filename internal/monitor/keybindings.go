package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nightdriver/ndsmon/internal/notify"
)

// handleKey routes a key press. Order matters: an open prompt captures
// every key, then the filter input, then help, then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.prompt != nil {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return m.answer(true)
		case key.Matches(msg, m.keys.Cancel):
			return m.answer(false)
		}
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Back) {
			m.showHelp = false
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}

	switch m.mode {
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewColumns:
		return m.handleColumnsKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.prompt != nil {
		m.prompt.reply <- false
		m.prompt = nil
	}
	m.gate.Close()
	return m, tea.Quit
}

// answer replies to the open prompt and listens for the next one.
func (m Model) answer(ok bool) (tea.Model, tea.Cmd) {
	m.prompt.reply <- ok
	m.prompt = nil
	return m, m.gate.Wait()
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.table.SetFilter("")
		m.restoreCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.table.SetFilter(m.filter.Value())
	m.restoreCursor()
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.setCursor(0)
	case key.Matches(msg, m.keys.Bottom):
		m.setCursor(len(m.table.View()) - 1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.pageSize())
	case key.Matches(msg, m.keys.PrevColumn):
		m.moveColumnFocus(-1)
	case key.Matches(msg, m.keys.NextColumn):
		m.moveColumnFocus(1)

	case key.Matches(msg, m.keys.Sort):
		if col, ok := m.focusedColumn(); ok {
			m.table.ToggleSort(col.Key)
			m.restoreCursor()
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.SetValue(m.table.Config().Filter)
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Select):
		if r := m.currentRow(); r != nil {
			m.table.Selection().Toggle(r.ID)
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.table.Selection().ToggleAll(m.table.View())
	case key.Matches(msg, m.keys.Columns):
		m.mode = ViewColumns
		m.editCursor = 0

	case key.Matches(msg, m.keys.Start):
		return m, m.store.StartCanvases(m.targetCanvasIDs())
	case key.Matches(msg, m.keys.Stop):
		return m, m.store.StopCanvases(m.targetCanvasIDs())
	case key.Matches(msg, m.keys.DeleteCanvas):
		if r := m.currentRow(); r != nil {
			return m, m.store.DeleteCanvas(r.CanvasID)
		}

	case key.Matches(msg, m.keys.Open):
		m.openDetail()
	case key.Matches(msg, m.keys.Pause):
		return m, m.togglePause()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.store.Start()
	case key.Matches(msg, m.keys.Dismiss):
		m.store.Notifications().Clear()
	case key.Matches(msg, m.keys.Back):
		m.table.Selection().Clear()
	}
	return m, nil
}

func (m Model) handleColumnsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.table.Config().Columns
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Columns):
		m.mode = ViewList
		m.clampColumnFocus()
	case key.Matches(msg, m.keys.Up):
		if m.editCursor > 0 {
			m.editCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.editCursor < len(cols)-1 {
			m.editCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.editCursor < len(cols) {
			m.table.ToggleColumn(cols[m.editCursor].Key)
		}
	case key.Matches(msg, m.keys.MoveUp):
		if m.editCursor > 0 {
			m.table.ReorderColumns(m.editCursor, m.editCursor-1)
			m.editCursor--
		}
	case key.Matches(msg, m.keys.MoveDown):
		if m.editCursor < len(cols)-1 {
			m.table.ReorderColumns(m.editCursor, m.editCursor+1)
			m.editCursor++
		}
	case key.Matches(msg, m.keys.ResetColumns):
		m.table.ResetColumns()
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	canvasID, ok := m.store.SelectedCanvasID()
	if !ok {
		m.closeDetail()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeDetail()
	case key.Matches(msg, m.keys.Up):
		m.features.MoveUp(1)
		m.updateDetailContent()
	case key.Matches(msg, m.keys.Down):
		m.features.MoveDown(1)
		m.updateDetailContent()
	case key.Matches(msg, m.keys.PageUp):
		m.scrollDetail(-m.detailViewport.Height / 2)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollDetail(m.detailViewport.Height / 2)

	case key.Matches(msg, m.keys.Start):
		return m, m.store.StartCanvases([]int{canvasID})
	case key.Matches(msg, m.keys.Stop):
		return m, m.store.StopCanvases([]int{canvasID})
	case key.Matches(msg, m.keys.DeleteCanvas):
		return m, m.store.DeleteCanvas(canvasID)
	case key.Matches(msg, m.keys.DeleteFeature):
		if id, ok := m.focusedFeatureID(); ok {
			return m, m.store.DeleteFeature(canvasID, id)
		}

	case key.Matches(msg, m.keys.Pause):
		return m, m.togglePause()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.store.Start()
	}
	return m, nil
}

// togglePause flips auto-refresh and reports the new state.
func (m *Model) togglePause() tea.Cmd {
	enabled := !m.store.AutoRefresh()
	cmd := m.store.SetAutoRefresh(enabled)
	if enabled {
		m.store.Notifications().Push(notify.LevelInfo, "Auto-refresh resumed", "")
	} else {
		m.store.Notifications().Push(notify.LevelInfo, "Auto-refresh paused", "")
	}
	m.log.Debug("auto-refresh set to %t", enabled)
	return cmd
}
