package session

import (
	"sync"
	"time"
)

// fakeClock is a deterministic Clock for tests. Advance moves time
// forward and fires due timers in order, without real waits.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer

	// ignoreStop makes Stop a no-op, simulating a timer that has
	// already fired when cancellation races it.
	ignoreStop bool
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.clock.ignoreStop || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, firing due timers in time
// order. Callbacks run without the clock lock held, so they may
// schedule or stop timers.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

// nextDue pops the earliest pending timer due at or before target,
// advancing the clock to its deadline.
func (c *fakeClock) nextDue(target time.Time) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next *fakeTimer
	for _, t := range c.timers {
		if t.stopped || t.fired || t.when.After(target) {
			continue
		}
		if next == nil || t.when.Before(next.when) {
			next = t
		}
	}
	if next == nil {
		return nil
	}
	next.fired = true
	if next.when.After(c.now) {
		c.now = next.when
	}
	return next
}

// pending returns the number of timers that are scheduled and neither
// stopped nor fired.
func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
