package playlist

import (
	"strconv"
	"sync"
	"time"
)

// IDSource hands out playlist ids.
type IDSource interface {
	NextID() string
}

// ClockIDs issues millisecond timestamps, bumped forward when two calls land
// in the same millisecond so ids stay unique and increasing.
type ClockIDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewClockIDs(now func() time.Time) *ClockIDs {
	if now == nil {
		now = time.Now
	}
	return &ClockIDs{now: now}
}

func (c *ClockIDs) NextID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return strconv.FormatInt(ms, 10)
}
