// Package coach wires the keypoint source, activity detection, session
// lifecycle, backend client and dashboard into one pipeline.
package coach

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/repcoach/go-repcoach/internal/log"
	"github.com/repcoach/go-repcoach/pkg/backend"
	"github.com/repcoach/go-repcoach/pkg/display"
	"github.com/repcoach/go-repcoach/pkg/motion"
	"github.com/repcoach/go-repcoach/pkg/session"
	"github.com/repcoach/go-repcoach/pkg/source"
	"github.com/repcoach/go-repcoach/pkg/web"
)

// App runs the coaching pipeline. One frame at a time flows from the
// source through the motion detector into the session state machine,
// and at most one landmark request is in flight to the backend at any
// moment. Frames that arrive while a request is pending are dropped,
// not queued.
type App struct {
	config Config

	src        source.Source
	detector   *motion.Detector
	sess       *session.Manager
	client     *backend.Client
	reconciler *display.Reconciler
	webServer  *web.Server

	sessionID session.ID

	inFlight atomic.Bool
	stats    Stats
}

// Option configures the App.
type Option func(*App)

// WithSource overrides the keypoint source.
func WithSource(s source.Source) Option {
	return func(a *App) { a.src = s }
}

// WithBackendClient overrides the backend client.
func WithBackendClient(c *backend.Client) Option {
	return func(a *App) { a.client = c }
}

// WithSessionManager overrides the session manager.
func WithSessionManager(m *session.Manager) Option {
	return func(a *App) { a.sess = m }
}

// WithDashboard enables or disables the dashboard server.
func WithDashboard(enabled bool) Option {
	return func(a *App) {
		if !enabled {
			a.webServer = nil
			return
		}
		if a.webServer == nil {
			a.webServer = web.NewServer(a.config.DashboardPort)
		}
	}
}

// New creates the coaching pipeline.
func New(cfg Config, opts ...Option) (*App, error) {
	if !display.KnownExercise(cfg.Exercise) {
		return nil, fmt.Errorf("coach: unknown exercise %q", cfg.Exercise)
	}

	a := &App{
		config:    cfg,
		detector:  motion.NewDetector(cfg.Motion),
		sessionID: session.NewID(),
		webServer: web.NewServer(cfg.DashboardPort),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		client, err := backend.NewClient(
			backend.WithBaseURL(cfg.BackendURL),
			backend.WithTimestamps(cfg.SendTimestamps),
		)
		if err != nil {
			return nil, err
		}
		a.client = client
	}

	if a.src == nil {
		a.src = source.NewWSSource(cfg.EngineURL, log.L())
	}

	if a.sess == nil {
		a.sess = session.NewManager(cfg.Session,
			session.WithRedirector(session.RedirectorFunc(a.redirected)))
	}
	a.sess.OnCountdown(a.countdownTick)
	a.sess.OnCountdownCancelled(a.countdownCancelled)

	a.reconciler = display.NewReconciler(cfg.Exercise, a.sess)

	if a.webServer != nil {
		a.webServer.OnSelectExercise = a.SelectExercise
		a.webServer.OnStay = a.Stay
		a.webServer.OnActivity = a.sess.NoteActivity
	}

	return a, nil
}

// SessionID returns the identity every landmark request carries.
func (a *App) SessionID() session.ID {
	return a.sessionID
}

// Stats returns the pipeline counters.
func (a *App) Stats() Snapshot {
	return a.stats.Snapshot()
}

// SessionState returns the current lifecycle state.
func (a *App) SessionState() session.State {
	return a.sess.State()
}

// Run starts the pipeline and blocks until the source closes or the
// context is cancelled.
func (a *App) Run(ctx context.Context) error {
	log.Info("coach starting",
		"session_id", a.sessionID,
		"exercise", a.exercise(),
		"backend", a.config.BackendURL,
		"engine", a.config.EngineURL)

	// Session initialization is best effort. The backend creates the
	// session lazily on the first landmark request anyway.
	go a.initializeSession(ctx, a.exercise())

	if a.webServer != nil {
		a.webServer.StartAsync()
		defer a.webServer.Shutdown()
	}

	if err := a.src.Start(ctx); err != nil {
		return fmt.Errorf("coach: source start: %w", err)
	}
	defer a.src.Close()

	a.sess.Arm()
	defer a.sess.Stop()
	a.publish()

	for frame := range a.src.Frames() {
		a.processFrame(ctx, frame)
	}

	if err := a.src.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("coach: source: %w", err)
	}
	return ctx.Err()
}

// processFrame runs the per-frame pipeline: local activity judgment
// first, then the remote analysis request if no request is pending.
func (a *App) processFrame(ctx context.Context, frame source.Frame) {
	a.stats.frames.Add(1)

	// The detector's first frame only primes it; that is not a
	// stillness judgment and must not advance the still-frame count.
	primed := a.detector.Primed()
	if a.detector.Detect(frame.Keypoints) {
		a.sess.NoteActivity()
	} else if primed {
		a.sess.NoteStillFrame()
	}

	if a.sess.State() == session.StateRedirected {
		return
	}

	if !a.inFlight.CompareAndSwap(false, true) {
		a.stats.dropped.Add(1)
		return
	}

	go a.send(ctx, frame)
}

// send performs one landmark request and applies the result. The
// in-flight flag is held for the full round trip.
func (a *App) send(ctx context.Context, frame source.Frame) {
	defer a.inFlight.Store(false)

	result, err := a.client.SendLandmarks(ctx, frame.Keypoints, a.exercise(), a.sessionID)
	if err != nil {
		a.sendFailed(err)
		return
	}

	a.stats.sent.Add(1)
	if _, changed := a.reconciler.Apply(result); changed {
		a.publish()
	}
}

// sendFailed surfaces a request failure as feedback without touching
// the rest of the display state.
func (a *App) sendFailed(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	var apiErr *backend.APIError
	message := "Unable to reach the coaching service."
	if errors.As(err, &apiErr) {
		message = apiErr.UserMessage()
	} else {
		a.stats.transportErrors.Add(1)
	}

	log.Warn("landmark request failed", "error", err)
	if _, changed := a.reconciler.SetFeedback(message); changed {
		a.publish()
	}
	a.pushEvent("error", message, 0)
}

// SelectExercise switches the active exercise and resets the display
// to its initial state.
func (a *App) SelectExercise(name string) error {
	if !display.KnownExercise(name) {
		return fmt.Errorf("coach: unknown exercise %q", name)
	}

	a.reconciler.SetExercise(name)
	go a.initializeSession(context.Background(), name)

	log.Info("exercise switched", "exercise", name)
	a.pushEvent("session", "Exercise switched to "+name, 0)
	a.publish()
	return nil
}

// Stay is the manual "I'm still here" action from the dashboard.
func (a *App) Stay() {
	a.sess.NoteActivity()
	a.pushEvent("session", "Stay requested", 0)
	a.publish()
}

// DisplayState returns the current reconciled display state.
func (a *App) DisplayState() display.State {
	return a.reconciler.State()
}

func (a *App) exercise() string {
	return a.reconciler.State().Exercise
}

func (a *App) initializeSession(ctx context.Context, exerciseType string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.client.InitializeSession(ctx, a.sessionID, exerciseType); err != nil {
		log.Warn("session initialization failed", "error", err)
	}
}

// countdownTick fires once per countdown second.
func (a *App) countdownTick(secondsLeft int) {
	a.pushEvent("countdown", "Are you still there?", secondsLeft)
	a.publish()
}

func (a *App) countdownCancelled() {
	a.pushEvent("cancelled", "Activity detected", 0)
	a.publish()
}

// redirected is the terminal inactivity transition.
func (a *App) redirected(url string) {
	log.Info("session redirected", "url", url)
	a.pushEvent("redirect", url, 0)
	a.publish()
}

// publish pushes the current status to the dashboard.
func (a *App) publish() {
	if a.webServer == nil {
		return
	}

	displayState := a.reconciler.State()
	stats := a.stats.Snapshot()
	a.webServer.UpdateStatus(func(st *web.Status) {
		st.SessionID = a.sessionID.String()
		st.SessionState = a.sess.State().String()
		st.EngineConnected = a.src.Err() == nil
		st.SecondsLeft = a.sess.SecondsLeft()
		st.Display = displayState
		st.Stats = web.Stats{
			Frames:          stats.Frames,
			Sent:            stats.Sent,
			Dropped:         stats.Dropped,
			TransportErrors: stats.TransportErrors,
		}
	})
}

func (a *App) pushEvent(eventType, message string, secondsLeft int) {
	if a.webServer == nil {
		return
	}
	a.webServer.PushEvent(eventType, message, secondsLeft)
}
