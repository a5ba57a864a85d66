package monitor

import (
	"testing"

	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDetail(t *testing.T) {
	m, h := newPolledModel(t)

	m, _ = press(m, "j", "enter")
	assert.Equal(t, ViewDetail, m.Mode())

	id, ok := h.store.SelectedCanvasID()
	require.True(t, ok)
	assert.Equal(t, 1, id)

	// The cursor row's feature is focused.
	fid, ok := m.focusedFeatureID()
	require.True(t, ok)
	assert.Equal(t, 11, fid)

	view := m.View()
	assert.Contains(t, view, "Window")
	assert.Contains(t, view, "Left")
	assert.Contains(t, view, "Right")
	assert.Contains(t, view, "No telemetry")
}

func TestOpenDetail_EmptyTable(t *testing.T) {
	m, h := newTestModel(t)

	m, _ = press(m, "enter")
	assert.Equal(t, ViewList, m.Mode())
	_, ok := h.store.SelectedCanvasID()
	assert.False(t, ok)
}

func TestDetail_FeatureNavigation(t *testing.T) {
	m, _ := newPolledModel(t)
	m, _ = press(m, "enter")

	fid, _ := m.focusedFeatureID()
	assert.Equal(t, 10, fid)
	assert.Contains(t, m.detailViewport.View(), "Signal")

	m, _ = press(m, "j")
	fid, _ = m.focusedFeatureID()
	assert.Equal(t, 11, fid)

	m, _ = press(m, "j")
	fid, _ = m.focusedFeatureID()
	assert.Equal(t, 11, fid, "focus stops at the last feature")

	m, _ = press(m, "k")
	fid, _ = m.focusedFeatureID()
	assert.Equal(t, 10, fid)
}

func TestDetail_Back(t *testing.T) {
	m, h := newPolledModel(t)
	m, _ = press(m, "enter", "esc")

	assert.Equal(t, ViewList, m.Mode())
	_, ok := h.store.SelectedCanvasID()
	assert.False(t, ok)
}

func TestDetail_KeepsFocusAcrossPolls(t *testing.T) {
	m, h := newPolledModel(t)
	m, _ = press(m, "enter", "j")

	m = pollOnce(t, m, h)

	assert.Equal(t, ViewDetail, m.Mode())
	fid, _ := m.focusedFeatureID()
	assert.Equal(t, 11, fid)
}

func TestDetail_StartStopTargetCanvas(t *testing.T) {
	m, h := newPolledModel(t)
	m, _ = press(m, "G", "enter")

	m, cmd := press(m, "S")
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())

	_, cmd = press(m, "x")
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, h.backend.Calls, 2)
	assert.Equal(t, []int{2}, h.backend.Calls[0].CanvasIDs)
	assert.Equal(t, "StopCanvases", h.backend.Calls[1].Method)
	assert.Equal(t, []int{2}, h.backend.Calls[1].CanvasIDs)
}

func TestDetail_DeleteFeature(t *testing.T) {
	m, h := newPolledModel(t)
	m, _ = press(m, "enter", "j")

	m, cmd := press(m, "D")
	require.NotNil(t, cmd)

	_, result := runConfirmed(t, m, h, cmd, "y")
	require.NoError(t, result.Err)
	require.Equal(t, 1, h.backend.CallCount("DeleteFeature"))
	call := h.backend.Calls[0]
	assert.Equal(t, []int{1}, call.CanvasIDs)
	assert.Equal(t, 11, call.FeatureID)
}

func TestDetail_ClosesWhenCanvasDeleted(t *testing.T) {
	m, h := newPolledModel(t)
	m, _ = press(m, "G", "enter")

	m, cmd := press(m, "d")
	require.NotNil(t, cmd)
	m, _ = runConfirmed(t, m, h, cmd, "y")
	assert.Equal(t, ViewDetail, m.Mode(), "stays open until the next snapshot")

	h.backend.SetCanvases(testCanvases()[0])
	m = pollOnce(t, m, h)

	assert.Equal(t, ViewList, m.Mode())
	_, ok := h.store.SelectedCanvasID()
	assert.False(t, ok)
	assert.Len(t, m.table.View(), 2)
}

func TestDetail_MissingCanvas(t *testing.T) {
	m, h := newPolledModel(t)
	m, _ = press(m, "G", "enter")

	// Gone from the snapshot without a delete: selection survives.
	h.backend.SetCanvases(testCanvases()[0])
	m = pollOnce(t, m, h)

	assert.Equal(t, ViewDetail, m.Mode())
	assert.Contains(t, m.View(), "Canvas is not in the latest snapshot")
}

func TestDetail_PanelShowsTelemetry(t *testing.T) {
	m, _ := newPolledModel(t)
	m, _ = press(m, "enter")

	panel := m.renderFeaturePanel()
	assert.Contains(t, panel, "10.0.0.1:0")
	assert.Contains(t, panel, "10/20")
	assert.Contains(t, panel, "Buffer fill")
	assert.Contains(t, panel, "50%")
}

func TestRenderDetailHeader(t *testing.T) {
	m, _ := newPolledModel(t)
	c := &fleet.Canvas{
		ID: 7, Name: "Sign", Width: 10, Height: 2, FPS: 24, CurrentEffectName: "Rainbow",
		EffectsManager: &fleet.EffectsManager{CurrentEffectIndex: 1, Effects: []fleet.Effect{{Name: "a"}, {Name: "b"}}},
	}

	header := m.renderDetailHeader(c)
	assert.Contains(t, header, "Sign")
	assert.Contains(t, header, "#7")
	assert.Contains(t, header, "10x2")
	assert.Contains(t, header, "Rainbow")
	assert.Contains(t, header, "effect 2 of 2")
}
