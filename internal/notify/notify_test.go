package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCenter(maxVisible int) (*Center, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCenter(Options{MaxVisible: maxVisible, TTL: 5 * time.Second, Clock: clock.Now})
	return c, clock
}

func TestNewCenter_Defaults(t *testing.T) {
	c := NewCenter(Options{})
	assert.Equal(t, DefaultMaxVisible, c.maxVisible)
	assert.Equal(t, DefaultTTL, c.ttl)
	assert.NotNil(t, c.now)
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level  Level
		expect string
	}{
		{LevelInfo, "info"},
		{LevelSuccess, "success"},
		{LevelWarning, "warning"},
		{LevelError, "error"},
		{Level(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.level.String())
		})
	}
}

func TestPush_Expires(t *testing.T) {
	c, clock := newTestCenter(5)

	c.Push(LevelSuccess, "Started", "2 canvases started")
	require.Len(t, c.Visible(), 1)

	clock.Advance(4 * time.Second)
	assert.False(t, c.Expire())
	assert.Len(t, c.Visible(), 1)

	clock.Advance(time.Second)
	assert.True(t, c.Expire())
	assert.Empty(t, c.Visible())
}

func TestPush_DeduplicatesAndResetsTimeout(t *testing.T) {
	c, clock := newTestCenter(5)

	c.Push(LevelError, "Start failed", "server unavailable")
	clock.Advance(4 * time.Second)
	c.Push(LevelError, "Start failed", "server unavailable")

	visible := c.Visible()
	require.Len(t, visible, 1, "duplicates should collapse")
	assert.Equal(t, 2, visible[0].Count)

	// Timer restarted at the duplicate push
	clock.Advance(4 * time.Second)
	c.Expire()
	assert.Len(t, c.Visible(), 1)
}

func TestPush_DifferentMessagesAreNotDuplicates(t *testing.T) {
	c, _ := newTestCenter(5)

	c.Push(LevelError, "Start failed", "a")
	c.Push(LevelError, "Start failed", "b")
	c.Push(LevelWarning, "Start failed", "a")

	assert.Len(t, c.Visible(), 3)
}

func TestPush_CapsVisibleAndQueuesRest(t *testing.T) {
	c, clock := newTestCenter(2)

	for i := 0; i < 4; i++ {
		c.Push(LevelInfo, "n", fmt.Sprintf("%d", i))
	}

	visible := c.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "0", visible[0].Message)
	assert.Equal(t, "1", visible[1].Message)
	assert.Equal(t, 2, c.Pending())

	clock.Advance(5 * time.Second)
	c.Expire()

	visible = c.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "2", visible[0].Message)
	assert.Equal(t, "3", visible[1].Message)
	assert.Equal(t, 0, c.Pending())
}

func TestPush_DuplicateOfQueuedCollapses(t *testing.T) {
	c, _ := newTestCenter(1)

	c.Push(LevelInfo, "a", "")
	c.Push(LevelInfo, "b", "")
	c.Push(LevelInfo, "b", "")

	assert.Equal(t, 1, c.Pending())
}

func TestPushSticky_NeverExpires(t *testing.T) {
	c, clock := newTestCenter(5)

	c.PushSticky("poll", LevelError, "Connection error", "refused")
	clock.Advance(time.Hour)
	c.Expire()

	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.True(t, visible[0].Sticky)
	assert.True(t, visible[0].ExpiresAt.IsZero())
}

func TestPushSticky_SameKeyUpdatesInPlace(t *testing.T) {
	c, _ := newTestCenter(5)

	c.PushSticky("poll", LevelError, "Connection error", "refused")
	c.PushSticky("poll", LevelError, "Connection error", "refused")

	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, 2, visible[0].Count)

	c.PushSticky("poll", LevelError, "Connection error", "timeout")
	visible = c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "timeout", visible[0].Message)
	assert.Equal(t, 1, visible[0].Count)
}

func TestDismiss(t *testing.T) {
	c, _ := newTestCenter(1)

	c.PushSticky("poll", LevelError, "Connection error", "refused")
	c.Push(LevelInfo, "queued", "")
	require.Equal(t, 1, c.Pending())

	assert.True(t, c.Dismiss("poll"))
	assert.False(t, c.HasSticky("poll"))

	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "queued", visible[0].Title)

	assert.False(t, c.Dismiss("poll"))
	assert.False(t, c.Dismiss(""))
}

func TestClear(t *testing.T) {
	c, _ := newTestCenter(1)
	c.Push(LevelInfo, "a", "")
	c.Push(LevelInfo, "b", "")

	c.Clear()
	assert.Empty(t, c.Visible())
	assert.Equal(t, 0, c.Pending())
}
