// Package notify keeps the user-facing notification queue for the dashboard.
//
// Notifications come in two kinds: transient ones that expire after a TTL
// (command results) and sticky ones that stay until dismissed by key
// (ongoing conditions such as a failing poll). Identical notifications are
// collapsed into one entry with a repeat count, and at most MaxVisible are
// shown at once; the rest wait in FIFO order.
//
// A Center has a single owner (the dashboard update loop) and is not safe
// for concurrent use.
package notify

import "time"

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns a human-readable label for the level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Defaults match the dashboard's toast configuration.
const (
	DefaultMaxVisible = 5
	DefaultTTL        = 5 * time.Second
)

// Notification is a single entry in the center.
type Notification struct {
	ID      int
	Key     string // non-empty for sticky notifications
	Level   Level
	Title   string
	Message string
	Count   int // number of times this notification was pushed
	Sticky  bool

	CreatedAt time.Time
	ExpiresAt time.Time // zero for sticky notifications
}

// Options configures a Center.
type Options struct {
	MaxVisible int
	TTL        time.Duration
	Clock      func() time.Time
}

// Center collects, deduplicates, caps and expires notifications.
type Center struct {
	maxVisible int
	ttl        time.Duration
	now        func() time.Time
	nextID     int

	visible []*Notification
	queued  []*Notification
}

// NewCenter creates a notification center. Zero options fall back to defaults.
func NewCenter(opts Options) *Center {
	if opts.MaxVisible <= 0 {
		opts.MaxVisible = DefaultMaxVisible
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Center{
		maxVisible: opts.MaxVisible,
		ttl:        opts.TTL,
		now:        opts.Clock,
	}
}

// Push adds a transient notification that expires after the TTL.
// Pushing a duplicate of a pending notification bumps its count and resets its timer.
func (c *Center) Push(level Level, title, message string) {
	c.add(&Notification{Level: level, Title: title, Message: message})
}

// PushSticky adds a notification that never expires. Only one sticky
// notification per key exists; pushing again replaces its content.
func (c *Center) PushSticky(key string, level Level, title, message string) {
	if existing := c.findKey(key); existing != nil {
		if existing.Title == title && existing.Message == message && existing.Level == level {
			existing.Count++
			return
		}
		existing.Level = level
		existing.Title = title
		existing.Message = message
		existing.Count = 1
		return
	}
	c.add(&Notification{Key: key, Level: level, Title: title, Message: message, Sticky: true})
}

// Dismiss removes the sticky notification with the given key, if any.
// Returns true if something was removed.
func (c *Center) Dismiss(key string) bool {
	if key == "" {
		return false
	}
	removed := false
	c.visible, removed = removeWhere(c.visible, func(n *Notification) bool { return n.Key == key })
	var removedQueued bool
	c.queued, removedQueued = removeWhere(c.queued, func(n *Notification) bool { return n.Key == key })
	c.promote()
	return removed || removedQueued
}

// Clear removes every notification.
func (c *Center) Clear() {
	c.visible = nil
	c.queued = nil
}

// Expire drops transient notifications whose TTL has elapsed and promotes
// queued ones into the freed slots. Returns true if anything changed.
func (c *Center) Expire() bool {
	now := c.now()
	var removed bool
	c.visible, removed = removeWhere(c.visible, func(n *Notification) bool {
		return !n.Sticky && !now.Before(n.ExpiresAt)
	})
	if removed {
		c.promote()
	}
	return removed
}

// Visible returns copies of the notifications currently on screen, oldest first.
func (c *Center) Visible() []Notification {
	out := make([]Notification, 0, len(c.visible))
	for _, n := range c.visible {
		out = append(out, *n)
	}
	return out
}

// Pending returns the number of queued notifications waiting for a free slot.
func (c *Center) Pending() int {
	return len(c.queued)
}

// HasSticky reports whether a sticky notification with key is pending or visible.
func (c *Center) HasSticky(key string) bool {
	return c.findKey(key) != nil
}

func (c *Center) add(n *Notification) {
	if dup := c.findDuplicate(n); dup != nil {
		dup.Count++
		if !dup.Sticky {
			dup.ExpiresAt = c.now().Add(c.ttl)
		}
		return
	}

	c.nextID++
	n.ID = c.nextID
	n.Count = 1
	n.CreatedAt = c.now()
	if !n.Sticky {
		n.ExpiresAt = n.CreatedAt.Add(c.ttl)
	}

	if len(c.visible) < c.maxVisible {
		c.visible = append(c.visible, n)
		return
	}
	c.queued = append(c.queued, n)
}

// promote moves queued notifications into free visible slots.
// Transient notifications get a fresh TTL once they become visible.
func (c *Center) promote() {
	for len(c.visible) < c.maxVisible && len(c.queued) > 0 {
		n := c.queued[0]
		c.queued = c.queued[1:]
		if !n.Sticky {
			n.ExpiresAt = c.now().Add(c.ttl)
		}
		c.visible = append(c.visible, n)
	}
}

func (c *Center) findDuplicate(n *Notification) *Notification {
	match := func(o *Notification) bool {
		return o.Sticky == n.Sticky && o.Key == n.Key && o.Level == n.Level &&
			o.Title == n.Title && o.Message == n.Message
	}
	for _, o := range c.visible {
		if match(o) {
			return o
		}
	}
	for _, o := range c.queued {
		if match(o) {
			return o
		}
	}
	return nil
}

func (c *Center) findKey(key string) *Notification {
	if key == "" {
		return nil
	}
	for _, n := range c.visible {
		if n.Key == key {
			return n
		}
	}
	for _, n := range c.queued {
		if n.Key == key {
			return n
		}
	}
	return nil
}

func removeWhere(list []*Notification, pred func(*Notification) bool) ([]*Notification, bool) {
	out := list[:0]
	removed := false
	for _, n := range list {
		if pred(n) {
			removed = true
			continue
		}
		out = append(out, n)
	}
	return out, removed
}
