// Package session owns the inactivity state machine for one coaching
// session: a single armed deadline, an optional five-second countdown
// overlay, and the one-way redirect that ends an abandoned session.
//
// Activity can be noted from any goroutine: the frame loop (local
// motion), the backend reconciler (server-confirmed progress), and the
// dashboard (user input). All shared state is guarded by one mutex, and
// every transition cancels the outgoing state's timer before scheduling
// the next one, so at most one deadline timer and one countdown tick
// are ever pending.
package session

import (
	"log/slog"
	"sync"
	"time"
)

// State identifies the lifecycle state machine's current state.
type State int

const (
	// StateDisarmed is the initial state before Arm and the state after
	// Stop.
	StateDisarmed State = iota

	// StateArmed means the inactivity deadline is pending.
	StateArmed

	// StateCountingDown means the countdown overlay is live.
	StateCountingDown

	// StateRedirected is terminal: the redirect has been issued.
	StateRedirected
)

func (s State) String() string {
	switch s {
	case StateDisarmed:
		return "disarmed"
	case StateArmed:
		return "armed"
	case StateCountingDown:
		return "counting_down"
	case StateRedirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// Redirector performs the one-way navigation when the countdown expires.
type Redirector interface {
	Redirect(url string)
}

// RedirectorFunc adapts a function to the Redirector interface.
type RedirectorFunc func(url string)

// Redirect implements Redirector.
func (f RedirectorFunc) Redirect(url string) { f(url) }

// Manager is the session lifecycle manager. Create one per session with
// NewManager; it is safe for concurrent use.
type Manager struct {
	config     Config
	clock      Clock
	redirector Redirector
	logger     *slog.Logger

	mu           sync.Mutex
	state        State
	lastActivity time.Time
	stillFrames  int
	secondsLeft  int
	deadline     Timer
	tick         Timer

	// Countdown overlay callbacks, set before Arm.
	onCountdown func(secondsLeft int)
	onCancelled func()
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock substitutes the clock, typically a fake for tests.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithRedirector sets the redirect sink.
func WithRedirector(r Redirector) Option {
	return func(m *Manager) { m.redirector = r }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a disarmed lifecycle manager.
func NewManager(config Config, opts ...Option) *Manager {
	m := &Manager{
		config: config,
		clock:  NewClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "session.manager")
	return m
}

// OnCountdown sets the callback invoked with the remaining seconds when
// the countdown starts and after each tick. Set before Arm.
func (m *Manager) OnCountdown(fn func(secondsLeft int)) {
	m.onCountdown = fn
}

// OnCountdownCancelled sets the callback invoked when a live countdown
// is cancelled by activity. Set before Arm.
func (m *Manager) OnCountdownCancelled(fn func()) {
	m.onCancelled = fn
}

// Arm starts the inactivity watch. Call once after capture begins.
// Arming an already armed or redirected manager is a no-op.
func (m *Manager) Arm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateDisarmed {
		return
	}

	m.lastActivity = m.clock.Now()
	m.stillFrames = 0
	m.state = StateArmed
	m.scheduleDeadlineLocked(m.config.InactivityTimeout)
	m.logger.Info("session armed", "timeout", m.config.InactivityTimeout)
}

// NoteActivity records user activity from any source: input events,
// local motion, or server-confirmed progress. It resets the still-frame
// count, cancels a live countdown, and re-arms a fresh full timeout.
// Ignored once redirected.
func (m *Manager) NoteActivity() {
	m.mu.Lock()

	if m.state == StateRedirected || m.state == StateDisarmed {
		m.mu.Unlock()
		return
	}

	wasCounting := m.state == StateCountingDown

	m.lastActivity = m.clock.Now()
	m.stillFrames = 0
	m.cancelTimersLocked()
	m.state = StateArmed
	m.scheduleDeadlineLocked(m.config.InactivityTimeout)

	cancelled := m.onCancelled
	m.mu.Unlock()

	if wasCounting {
		m.logger.Info("countdown cancelled by activity")
		if cancelled != nil {
			cancelled()
		}
	}
}

// NoteStillFrame records one frame without detected movement. Reaching
// MaxStillFrames consecutive still frames starts the countdown
// immediately, exactly once per still streak.
func (m *Manager) NoteStillFrame() {
	m.mu.Lock()

	if m.state != StateArmed {
		m.mu.Unlock()
		return
	}

	m.stillFrames++
	if m.stillFrames != m.config.MaxStillFrames {
		m.mu.Unlock()
		return
	}

	m.logger.Info("still-frame limit reached", "frames", m.stillFrames)
	m.startCountdownFromLocked()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SecondsLeft returns the remaining countdown seconds, or 0 when not
// counting down.
func (m *Manager) SecondsLeft() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateCountingDown {
		return 0
	}
	return m.secondsLeft
}

// StillFrames returns the current consecutive still-frame count.
func (m *Manager) StillFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stillFrames
}

// Stop cancels all pending timers and disarms the manager. A redirected
// manager stays redirected.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelTimersLocked()
	if m.state != StateRedirected {
		m.state = StateDisarmed
	}
}

// scheduleDeadlineLocked replaces the deadline timer. Caller holds mu.
func (m *Manager) scheduleDeadlineLocked(d time.Duration) {
	if m.deadline != nil {
		m.deadline.Stop()
	}
	m.deadline = m.clock.AfterFunc(d, m.deadlineFired)
}

// cancelTimersLocked stops both timers. Caller holds mu.
func (m *Manager) cancelTimersLocked() {
	if m.deadline != nil {
		m.deadline.Stop()
		m.deadline = nil
	}
	if m.tick != nil {
		m.tick.Stop()
		m.tick = nil
	}
}

// deadlineFired runs when the inactivity deadline elapses. Activity may
// have been noted between scheduling and firing, so it recomputes from
// lastActivity rather than trusting elapsed wall clock.
func (m *Manager) deadlineFired() {
	m.mu.Lock()

	if m.state != StateArmed {
		m.mu.Unlock()
		return
	}

	idle := m.clock.Now().Sub(m.lastActivity)
	if idle < m.config.InactivityTimeout {
		// Raced with a just-processed activity note: re-check at the
		// recomputed deadline.
		m.scheduleDeadlineLocked(m.config.InactivityTimeout - idle)
		m.mu.Unlock()
		return
	}

	m.logger.Info("inactivity deadline reached", "idle", idle)
	m.startCountdownFromLocked()
}

// startCountdownFromLocked transitions Armed -> CountingDown. The caller
// must hold mu; the lock is released here, before the overlay callback
// runs.
func (m *Manager) startCountdownFromLocked() {
	m.cancelTimersLocked()
	m.state = StateCountingDown
	m.secondsLeft = m.config.CountdownSeconds
	m.tick = m.clock.AfterFunc(m.config.TickInterval, m.tickFired)

	seconds := m.secondsLeft
	notify := m.onCountdown
	m.mu.Unlock()

	m.logger.Info("countdown started", "seconds", seconds)
	if notify != nil {
		notify(seconds)
	}
}

// tickFired decrements the countdown once per tick and issues the
// redirect at zero.
func (m *Manager) tickFired() {
	m.mu.Lock()

	if m.state != StateCountingDown {
		m.mu.Unlock()
		return
	}

	m.secondsLeft--
	if m.secondsLeft > 0 {
		m.tick = m.clock.AfterFunc(m.config.TickInterval, m.tickFired)
		seconds := m.secondsLeft
		notify := m.onCountdown
		m.mu.Unlock()

		if notify != nil {
			notify(seconds)
		}
		return
	}

	m.cancelTimersLocked()
	m.state = StateRedirected
	url := m.config.RedirectURL
	redirector := m.redirector
	m.mu.Unlock()

	m.logger.Info("session redirected", "url", url)
	if redirector != nil {
		redirector.Redirect(url)
	}
}
