package fleet

import "context"

// Backend is the canvas server as seen by the dashboard. Every call is a
// single request/response; implementations return a structured TRANSPORT
// error for network failures and non-2xx responses.
type Backend interface {
	ListCanvases(ctx context.Context) ([]Canvas, error)
	StartCanvases(ctx context.Context, canvasIDs []int) error
	StopCanvases(ctx context.Context, canvasIDs []int) error
	DeleteCanvas(ctx context.Context, canvasID int) error
	DeleteFeature(ctx context.Context, canvasID, featureID int) error
}

// Prompt describes a yes/no confirmation shown before a destructive command.
type Prompt struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
}

// Default prompt texts.
const (
	DefaultPromptTitle   = "Confirm Action"
	DefaultPromptMessage = "Are you certain you want to do this?"
	DefaultConfirmText   = "Confirm"
	DefaultCancelText    = "Back"
)

// WithDefaults fills empty prompt fields with the default texts.
func (p Prompt) WithDefaults() Prompt {
	if p.Title == "" {
		p.Title = DefaultPromptTitle
	}
	if p.Message == "" {
		p.Message = DefaultPromptMessage
	}
	if p.ConfirmText == "" {
		p.ConfirmText = DefaultConfirmText
	}
	if p.CancelText == "" {
		p.CancelText = DefaultCancelText
	}
	return p
}

// Gate asks the user to confirm a destructive action. Confirm blocks until
// the user answers or ctx is done. A false answer (or an error) aborts the
// action before any request is sent.
type Gate interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(ctx context.Context, prompt Prompt) (bool, error)

// Confirm calls f.
func (f GateFunc) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm is a Gate that approves every prompt (used with --yes).
var AlwaysConfirm Gate = GateFunc(func(context.Context, Prompt) (bool, error) { return true, nil })
