// Package testing provides test doubles for the fleet package.
package testing

import (
	"context"
	"sync"

	"github.com/nightdriver/ndsmon/internal/fleet"
)

// Call records one request made against a FakeBackend.
type Call struct {
	Method    string
	CanvasIDs []int
	FeatureID int
}

// FakeBackend is a scripted fleet.Backend. It returns the configured
// snapshot or error, can hold ListCanvases until released, and tracks how
// many list calls were in flight at once.
type FakeBackend struct {
	mu       sync.Mutex
	canvases []fleet.Canvas
	listErr  error
	cmdErr   error
	hold     chan struct{}

	inFlight    int
	maxInFlight int

	// Tracking for assertions
	Calls     []Call
	ListCalls int
}

// NewFakeBackend creates a fake serving the given snapshot.
func NewFakeBackend(canvases ...fleet.Canvas) *FakeBackend {
	return &FakeBackend{canvases: canvases}
}

// SetCanvases replaces the snapshot returned by ListCanvases.
func (f *FakeBackend) SetCanvases(canvases ...fleet.Canvas) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canvases = canvases
	return f
}

// FailList makes ListCanvases return err (nil restores success).
func (f *FakeBackend) FailList(err error) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
	return f
}

// FailCommands makes every mutating call return err.
func (f *FakeBackend) FailCommands(err error) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmdErr = err
	return f
}

// Hold makes subsequent ListCanvases calls block until Release is called
// or their context is done.
func (f *FakeBackend) Hold() *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = make(chan struct{})
	return f
}

// Release unblocks every held ListCanvases call.
func (f *FakeBackend) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold != nil {
		close(f.hold)
		f.hold = nil
	}
}

// InFlight returns the number of ListCanvases calls currently running.
func (f *FakeBackend) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// MaxInFlight returns the highest number of concurrent ListCanvases calls seen.
func (f *FakeBackend) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// CallCount returns the number of recorded calls with the given method name.
func (f *FakeBackend) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// ListCanvases implements fleet.Backend.
func (f *FakeBackend) ListCanvases(ctx context.Context) ([]fleet.Canvas, error) {
	f.mu.Lock()
	f.ListCalls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	hold := f.hold
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]fleet.Canvas, len(f.canvases))
	copy(out, f.canvases)
	return out, nil
}

// StartCanvases implements fleet.Backend.
func (f *FakeBackend) StartCanvases(_ context.Context, ids []int) error {
	return f.record(Call{Method: "StartCanvases", CanvasIDs: ids})
}

// StopCanvases implements fleet.Backend.
func (f *FakeBackend) StopCanvases(_ context.Context, ids []int) error {
	return f.record(Call{Method: "StopCanvases", CanvasIDs: ids})
}

// DeleteCanvas implements fleet.Backend.
func (f *FakeBackend) DeleteCanvas(_ context.Context, id int) error {
	return f.record(Call{Method: "DeleteCanvas", CanvasIDs: []int{id}})
}

// DeleteFeature implements fleet.Backend.
func (f *FakeBackend) DeleteFeature(_ context.Context, canvasID, featureID int) error {
	return f.record(Call{Method: "DeleteFeature", CanvasIDs: []int{canvasID}, FeatureID: featureID})
}

func (f *FakeBackend) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, c)
	return f.cmdErr
}

// Compile-time interface check
var _ fleet.Backend = (*FakeBackend)(nil)
