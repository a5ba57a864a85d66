package fleet

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/notify"
)

// StartCanvases asks the server to start the given canvases. Ids not in the
// current snapshot are dropped; if nothing remains no request is issued and
// nil is returned.
func (s *Store) StartCanvases(ids []int) tea.Cmd {
	ids = s.knownCanvasIDs(ids)
	if len(ids) == 0 {
		s.log.Debug("start: no canvases to act on")
		return nil
	}
	target := Target{CanvasIDs: ids}
	return s.commandCmd(CommandStart, target, nil, func(ctx context.Context, b Backend) error {
		return b.StartCanvases(ctx, ids)
	})
}

// StopCanvases asks the server to stop the given canvases. Same filtering
// rules as StartCanvases.
func (s *Store) StopCanvases(ids []int) tea.Cmd {
	ids = s.knownCanvasIDs(ids)
	if len(ids) == 0 {
		s.log.Debug("stop: no canvases to act on")
		return nil
	}
	target := Target{CanvasIDs: ids}
	return s.commandCmd(CommandStop, target, nil, func(ctx context.Context, b Backend) error {
		return b.StopCanvases(ctx, ids)
	})
}

// DeleteCanvas deletes a canvas after the user confirms.
func (s *Store) DeleteCanvas(canvasID int) tea.Cmd {
	canvas := FindCanvas(s.canvases, canvasID)
	label := canvasLabel(canvas, canvasID)
	prompt := &Prompt{
		Title:       "Delete Canvas",
		Message:     fmt.Sprintf("Are you sure you want to delete %s?", label),
		ConfirmText: "Delete",
	}
	target := Target{CanvasIDs: []int{canvasID}, Label: label}
	return s.commandCmd(CommandDeleteCanvas, target, prompt, func(ctx context.Context, b Backend) error {
		return b.DeleteCanvas(ctx, canvasID)
	})
}

// DeleteFeature deletes one feature from a canvas after the user confirms.
func (s *Store) DeleteFeature(canvasID, featureID int) tea.Cmd {
	label := fmt.Sprintf("feature %d", featureID)
	if canvas := FindCanvas(s.canvases, canvasID); canvas != nil {
		if f := canvas.FindFeature(featureID); f != nil && f.FriendlyName != "" {
			label = fmt.Sprintf("feature %q", f.FriendlyName)
		}
	}
	prompt := &Prompt{
		Title:       "Delete Feature",
		Message:     fmt.Sprintf("Are you sure you want to delete %s?", label),
		ConfirmText: "Delete",
	}
	target := Target{CanvasIDs: []int{canvasID}, FeatureID: featureID, Label: label}
	return s.commandCmd(CommandDeleteFeature, target, prompt, func(ctx context.Context, b Backend) error {
		return b.DeleteFeature(ctx, canvasID, featureID)
	})
}

// commandCmd builds the two-step command: ask the gate (when a prompt is
// given), then issue the request bounded by the request timeout. The prompt
// wait itself is not bounded.
func (s *Store) commandCmd(kind CommandKind, target Target, prompt *Prompt, do func(context.Context, Backend) error) tea.Cmd {
	backend, gate, timeout := s.backend, s.gate, s.timeout
	return func() tea.Msg {
		result := CommandResultMsg{Kind: kind, Target: target}

		if prompt != nil {
			if gate == nil {
				result.Err = errors.New(errors.ErrValidation,
					fmt.Sprintf("Cannot %s without confirmation", kind),
					"Pass --yes to skip the confirmation prompt")
				return result
			}
			ok, err := gate.Confirm(context.Background(), prompt.WithDefaults())
			if err != nil {
				result.Err = err
				return result
			}
			if !ok {
				result.Cancelled = true
				return result
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		result.Err = do(ctx, backend)
		return result
	}
}

func (s *Store) handleCommandResult(msg CommandResultMsg) tea.Cmd {
	if msg.Cancelled {
		s.log.Debug("%s cancelled by user", msg.Kind)
		return nil
	}
	if msg.Err != nil {
		s.log.Warn("%s failed: %s", msg.Kind, errors.Message(msg.Err))
		s.notes.Push(notify.LevelError, msg.failureTitle(), errors.Message(msg.Err))
		return nil
	}

	title, text := msg.successText()
	s.notes.Push(notify.LevelSuccess, title, text)
	s.log.Info("%s", text)

	if msg.Kind.Destructive() {
		s.MarkSelectionStale()
	}
	// With auto-refresh on the next scheduled poll picks up the change.
	if !s.autoRefresh {
		return s.Start()
	}
	return nil
}
