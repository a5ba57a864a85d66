package monitor

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nightdriver/ndsmon/internal/fleet"
)

// confirmRequest is one pending confirmation. reply is buffered so the
// update loop never blocks answering it.
type confirmRequest struct {
	prompt fleet.Prompt
	reply  chan bool
}

// promptMsg hands a confirmation request to the update loop.
type promptMsg struct {
	req confirmRequest
}

// Gate is a fleet.Gate answered by the dashboard's confirmation modal.
// Confirm runs inside a command goroutine and blocks until the user answers,
// ctx is done, or the gate is closed.
type Gate struct {
	requests  chan confirmRequest
	done      chan struct{}
	closeOnce sync.Once
}

// NewGate creates a gate. The model must be started with Wait in its Init.
func NewGate() *Gate {
	return &Gate{
		requests: make(chan confirmRequest),
		done:     make(chan struct{}),
	}
}

// Confirm implements fleet.Gate. A closed gate declines.
func (g *Gate) Confirm(ctx context.Context, prompt fleet.Prompt) (bool, error) {
	req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}

	select {
	case g.requests <- req:
	case <-g.done:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case ok := <-req.reply:
		return ok, nil
	case <-g.done:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Wait returns a command that delivers the next confirmation request as a
// promptMsg. Issue it again after each answer.
func (g *Gate) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-g.requests:
			return promptMsg{req: req}
		case <-g.done:
			return nil
		}
	}
}

// Close declines every pending and future request.
func (g *Gate) Close() {
	g.closeOnce.Do(func() { close(g.done) })
}

var _ fleet.Gate = (*Gate)(nil)
