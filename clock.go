package burstgen

import (
	"sync"
	"time"
)

// Clock is the time source used for every deadline check.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock reads the wall clock. time.Now carries a monotonic reading, so
// deadlines are immune to wall clock steps.
var SystemClock Clock = systemClock{}

// Deadline is a point in time measured against a Clock.
type Deadline struct {
	clock Clock
	at    time.Time
}

// NewDeadline returns a deadline d after the current time of clock.
func NewDeadline(clock Clock, d time.Duration) Deadline {
	return Deadline{
		clock: clock,
		at:    clock.Now().Add(d),
	}
}

func (d Deadline) Expired() bool {
	return !d.clock.Now().Before(d.at)
}

func (d Deadline) Remaining() time.Duration {
	return d.at.Sub(d.clock.Now())
}

// ManualClock is a Clock that only moves when told to. If Step is non-zero
// every call to Now advances the clock by Step after reading it.
type ManualClock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now = c.now.Add(c.Step)
	return now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}
