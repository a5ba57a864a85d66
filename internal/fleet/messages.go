package fleet

import (
	"fmt"
	"strings"
	"time"
)

// PollResultMsg carries the outcome of one canvas fetch.
type PollResultMsg struct {
	Canvases []Canvas
	Err      error
	At       time.Time
}

// pollTickMsg fires when the minimum delay after a completed poll elapses.
// seq ties the tick to the arming that produced it so stale ticks are ignored.
type pollTickMsg struct {
	seq uint64
}

// CommandKind identifies a mutating command sent to the server.
type CommandKind int

const (
	CommandStart CommandKind = iota
	CommandStop
	CommandDeleteCanvas
	CommandDeleteFeature
)

// String returns a human-readable label for the command.
func (k CommandKind) String() string {
	switch k {
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	case CommandDeleteCanvas:
		return "delete canvas"
	case CommandDeleteFeature:
		return "delete feature"
	default:
		return "unknown"
	}
}

// Destructive reports whether the command needs a confirmation first.
func (k CommandKind) Destructive() bool {
	return k == CommandDeleteCanvas || k == CommandDeleteFeature
}

// Target names what a command acts on.
type Target struct {
	CanvasIDs []int
	FeatureID int // only for CommandDeleteFeature
	Label     string
}

// CommandResultMsg carries the outcome of a command. Cancelled is set when
// the user declined the confirmation; in that case no request was sent.
type CommandResultMsg struct {
	Kind      CommandKind
	Target    Target
	Err       error
	Cancelled bool
}

func (m CommandResultMsg) successText() (title, message string) {
	switch m.Kind {
	case CommandStart:
		return "Canvases started", describeIDs("Started", m.Target.CanvasIDs)
	case CommandStop:
		return "Canvases stopped", describeIDs("Stopped", m.Target.CanvasIDs)
	case CommandDeleteCanvas:
		return "Canvas deleted", "Deleted " + m.Target.Label
	case CommandDeleteFeature:
		return "Feature deleted", "Deleted " + m.Target.Label
	default:
		return "Done", ""
	}
}

func (m CommandResultMsg) failureTitle() string {
	switch m.Kind {
	case CommandStart:
		return "Failed to start canvases"
	case CommandStop:
		return "Failed to stop canvases"
	case CommandDeleteCanvas:
		return "Failed to delete canvas"
	case CommandDeleteFeature:
		return "Failed to delete feature"
	default:
		return "Command failed"
	}
}

func describeIDs(verb string, ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	noun := "canvases"
	if len(ids) == 1 {
		noun = "canvas"
	}
	return fmt.Sprintf("%s %s %s", verb, noun, strings.Join(parts, ", "))
}
