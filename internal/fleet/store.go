package fleet

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/logger"
	"github.com/nightdriver/ndsmon/internal/notify"
)

// PollState is the state of the self-rescheduling poll loop.
type PollState int

const (
	// PollIdle means no fetch is in flight and none is scheduled.
	PollIdle PollState = iota
	// PollPolling means exactly one fetch is in flight.
	PollPolling
	// PollScheduled means the previous fetch completed and the next one
	// fires once the minimum delay has elapsed.
	PollScheduled
)

// String returns a human-readable state name.
func (s PollState) String() string {
	switch s {
	case PollIdle:
		return "idle"
	case PollPolling:
		return "polling"
	case PollScheduled:
		return "scheduled"
	default:
		return "unknown"
	}
}

// Defaults for the poll loop.
const (
	DefaultPollDelay      = 80 * time.Millisecond
	DefaultRequestTimeout = 5 * time.Second
)

// PollNoticeKey is the sticky notification key used for poll failures.
const PollNoticeKey = "poll"

// Options configures a Store.
type Options struct {
	// PollDelay is the minimum pause between the end of one fetch and the
	// start of the next.
	PollDelay time.Duration
	// RequestTimeout bounds every backend request, so a hung server cannot
	// hold the loop in PollPolling forever.
	RequestTimeout time.Duration
	// AutoRefresh is the initial auto-refresh flag. Use NewStore's default
	// (true) unless a caller wants a one-shot store.
	AutoRefresh   *bool
	Gate          Gate
	Notifications *notify.Center
	Logger        logger.Logger
}

// Store owns the fleet state: the latest canvas snapshot, the loading flag,
// the last connection error and the selected canvas. It is driven by the
// Bubble Tea update loop: methods that need I/O return a tea.Cmd and all
// mutation happens when the resulting message is fed back through Update.
// Store is not safe for concurrent use; it has exactly one owner.
type Store struct {
	backend   Backend
	gate      Gate
	notes     *notify.Center
	log       logger.Logger
	pollDelay time.Duration
	timeout   time.Duration

	canvases    []Canvas
	isLoading   bool
	autoRefresh bool
	connErr     error
	lastUpdate  time.Time

	selectedCanvasID *int
	selectionStale   bool

	state  PollState
	armSeq uint64
}

// NewStore creates a store with empty canvases and auto-refresh on.
func NewStore(backend Backend, opts Options) *Store {
	if opts.PollDelay <= 0 {
		opts.PollDelay = DefaultPollDelay
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Notifications == nil {
		opts.Notifications = notify.NewCenter(notify.Options{})
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	autoRefresh := true
	if opts.AutoRefresh != nil {
		autoRefresh = *opts.AutoRefresh
	}

	return &Store{
		backend:     backend,
		gate:        opts.Gate,
		notes:       opts.Notifications,
		log:         opts.Logger,
		pollDelay:   opts.PollDelay,
		timeout:     opts.RequestTimeout,
		canvases:    []Canvas{},
		autoRefresh: autoRefresh,
	}
}

// Canvases returns the latest snapshot. Callers must not modify it.
func (s *Store) Canvases() []Canvas { return s.canvases }

// IsLoading reports whether a fetch is in flight.
func (s *Store) IsLoading() bool { return s.isLoading }

// AutoRefresh reports whether the loop re-arms after each fetch.
func (s *Store) AutoRefresh() bool { return s.autoRefresh }

// ConnectionError returns the error of the last failed fetch, or nil after a success.
func (s *Store) ConnectionError() error { return s.connErr }

// HasConnectionError reports whether the last fetch failed.
func (s *Store) HasConnectionError() bool { return s.connErr != nil }

// State returns the poll loop state.
func (s *Store) State() PollState { return s.state }

// LastUpdate returns when the last successful fetch completed.
func (s *Store) LastUpdate() time.Time { return s.lastUpdate }

// Notifications returns the notification center the store reports into.
func (s *Store) Notifications() *notify.Center { return s.notes }

// Start begins a fetch unless one is already in flight. The returned
// command performs the request; its PollResultMsg must be passed back to
// Update. Returns nil when a fetch is already outstanding.
func (s *Store) Start() tea.Cmd {
	if s.isLoading {
		s.log.Debug("poll already in flight, skipping")
		return nil
	}
	s.isLoading = true
	s.state = PollPolling
	s.armSeq++ // any tick already scheduled is now stale
	return s.fetchCmd()
}

// SetAutoRefresh toggles the loop. Turning it on starts a fetch right away;
// turning it off only stops re-arming, an in-flight fetch still completes.
func (s *Store) SetAutoRefresh(enabled bool) tea.Cmd {
	s.autoRefresh = enabled
	if enabled {
		return s.Start()
	}
	if s.state == PollScheduled {
		s.state = PollIdle
		s.armSeq++
	}
	return nil
}

// Update applies messages produced by the store's commands.
func (s *Store) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PollResultMsg:
		return s.handlePollResult(msg)
	case pollTickMsg:
		return s.handleTick(msg)
	case CommandResultMsg:
		return s.handleCommandResult(msg)
	}
	return nil
}

func (s *Store) fetchCmd() tea.Cmd {
	backend, timeout := s.backend, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		canvases, err := backend.ListCanvases(ctx)
		return PollResultMsg{Canvases: canvases, Err: err, At: time.Now()}
	}
}

func (s *Store) handlePollResult(msg PollResultMsg) tea.Cmd {
	s.isLoading = false

	if msg.Err != nil {
		// Keep the previous snapshot; only record the failure.
		s.connErr = msg.Err
		if s.notes.HasSticky(PollNoticeKey) {
			s.log.Debug("poll failed again: %s", errors.Message(msg.Err))
		} else {
			s.log.Warn("poll failed: %s", errors.Message(msg.Err))
		}
		s.notes.PushSticky(PollNoticeKey, notify.LevelError, "Connection error", errors.Message(msg.Err))
	} else {
		canvases := msg.Canvases
		if canvases == nil {
			canvases = []Canvas{}
		}
		s.canvases = canvases
		s.connErr = nil
		s.lastUpdate = msg.At
		if s.notes.Dismiss(PollNoticeKey) {
			s.log.Info("connection restored")
		}
		s.resolveSelection()
	}

	if !s.autoRefresh {
		s.state = PollIdle
		return nil
	}

	s.state = PollScheduled
	s.armSeq++
	seq := s.armSeq
	return tea.Tick(s.pollDelay, func(time.Time) tea.Msg {
		return pollTickMsg{seq: seq}
	})
}

func (s *Store) handleTick(msg pollTickMsg) tea.Cmd {
	if msg.seq != s.armSeq {
		return nil
	}
	if !s.autoRefresh {
		s.state = PollIdle
		return nil
	}
	return s.Start()
}

// SelectCanvas marks a canvas as the subject of the detail view.
func (s *Store) SelectCanvas(id int) {
	s.selectedCanvasID = &id
	s.selectionStale = false
}

// ClearSelectedCanvas closes the detail view selection.
func (s *Store) ClearSelectedCanvas() {
	s.selectedCanvasID = nil
	s.selectionStale = false
}

// MarkSelectionStale forces the selected canvas to be re-resolved against
// the next successful snapshot.
func (s *Store) MarkSelectionStale() {
	if s.selectedCanvasID != nil {
		s.selectionStale = true
	}
}

// SelectedCanvasID returns the selected canvas id, if any.
func (s *Store) SelectedCanvasID() (int, bool) {
	if s.selectedCanvasID == nil {
		return 0, false
	}
	return *s.selectedCanvasID, true
}

// SelectedCanvas returns the selected canvas from the current snapshot, or nil.
func (s *Store) SelectedCanvas() *Canvas {
	if s.selectedCanvasID == nil {
		return nil
	}
	return FindCanvas(s.canvases, *s.selectedCanvasID)
}

func (s *Store) resolveSelection() {
	if s.selectedCanvasID == nil || !s.selectionStale {
		return
	}
	s.selectionStale = false
	if FindCanvas(s.canvases, *s.selectedCanvasID) == nil {
		s.log.Debug("selected canvas %d no longer exists", *s.selectedCanvasID)
		s.selectedCanvasID = nil
	}
}

// knownCanvasIDs keeps the ids present in the current snapshot, in snapshot
// order and without duplicates.
func (s *Store) knownCanvasIDs(ids []int) []int {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []int
	for _, c := range s.canvases {
		if want[c.ID] {
			out = append(out, c.ID)
			want[c.ID] = false
		}
	}
	return out
}

func canvasLabel(c *Canvas, id int) string {
	if c == nil || c.Name == "" {
		return fmt.Sprintf("canvas %d", id)
	}
	return fmt.Sprintf("canvas %q", c.Name)
}
