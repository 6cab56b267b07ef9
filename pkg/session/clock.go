package session

import "time"

// Clock abstracts wall-clock time and deferred execution so the
// lifecycle state machine can be tested deterministically without real
// waits.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// AfterFunc schedules fn to run after d and returns a handle that
	// can cancel it.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable deferred call.
type Timer interface {
	// Stop cancels the timer. It reports whether the call was
	// prevented from running; a Stop that loses the race with firing
	// is harmless because every callback revalidates state under the
	// manager's lock.
	Stop() bool
}

// realClock is the production Clock backed by the time package.
type realClock struct{}

// NewClock returns the production wall-clock implementation.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool {
	return r.t.Stop()
}
