// Package display holds the reconciled projection of the analysis
// service's output: rep count, stage, feedback, joint-angle annotations,
// and warnings.
//
// The reconciler only moves forward. Server replies arrive at camera
// frame rate and may be late, partial, or for an older frame; a field is
// overwritten only when the reply defines it, so stale or partial data
// can never erase what the user already sees. The one exception is a
// user-initiated exercise switch, which is a hard reset, not a merge.
package display

import (
	"maps"
	"slices"
	"sync"

	"github.com/repcoach/go-repcoach/pkg/backend"
)

// State is the display surface's current content. Angles and Warnings
// are replaced wholesale on merge and never mutated in place, so a
// snapshot may be read (and marshaled) freely after return.
type State struct {
	Exercise   string                   `json:"exercise"`
	RepCounter int                      `json:"rep_counter"`
	Stage      string                   `json:"stage"`
	Feedback   string                   `json:"feedback"`
	Status     string                   `json:"status"`
	Angles     map[string]backend.Angle `json:"angles"`
	Warnings   []string                 `json:"warnings"`
}

// ActivityNotifier receives activity signals derived from server
// replies: a changed rep count, or the service's own engagement
// judgment. Satisfied by session.Manager.
type ActivityNotifier interface {
	NoteActivity()
}

// Reconciler merges frame results into the display state. Safe for
// concurrent use.
type Reconciler struct {
	mu       sync.Mutex
	state    State
	notifier ActivityNotifier
}

// NewReconciler creates a reconciler at the known baseline for the
// given exercise. The notifier may be nil.
func NewReconciler(exercise string, notifier ActivityNotifier) *Reconciler {
	return &Reconciler{
		state: State{
			Exercise: exercise,
			Stage:    backend.StageDown,
		},
		notifier: notifier,
	}
}

// State returns a snapshot of the current display state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Apply merges one frame result, field-wise and forward-only. It
// returns the resulting state and whether anything changed. Applying
// the same result twice yields no further change.
//
// A changed rep count signals progress; the service's explicit
// activity_detected flag is honored independently of it. Both trigger
// the activity notifier.
func (r *Reconciler) Apply(result *backend.FrameResult) (State, bool) {
	r.mu.Lock()

	changed := false
	progress := false

	if result.RepCounter != nil && *result.RepCounter != r.state.RepCounter {
		r.state.RepCounter = *result.RepCounter
		changed = true
		progress = true
	}
	if result.Stage != nil && *result.Stage != r.state.Stage {
		r.state.Stage = *result.Stage
		changed = true
	}
	if result.Feedback != nil && *result.Feedback != r.state.Feedback {
		r.state.Feedback = *result.Feedback
		changed = true
	}
	if result.Status != nil && *result.Status != r.state.Status {
		r.state.Status = *result.Status
		changed = true
	}
	if result.Angles != nil && !maps.Equal(result.Angles, r.state.Angles) {
		r.state.Angles = result.Angles
		changed = true
	}
	if result.Warnings != nil && !slices.Equal(result.Warnings, r.state.Warnings) {
		r.state.Warnings = result.Warnings
		changed = true
	}

	if result.ActivityDetected != nil && *result.ActivityDetected {
		progress = true
	}

	state := r.state
	notifier := r.notifier
	r.mu.Unlock()

	if progress && notifier != nil {
		notifier.NoteActivity()
	}

	return state, changed
}

// SetExercise performs the user-initiated exercise switch: an
// unconditional hard reset of the counters to the known baseline. It
// returns the new state and whether the exercise actually changed.
func (r *Reconciler) SetExercise(exercise string) (State, bool) {
	r.mu.Lock()

	switched := exercise != r.state.Exercise
	r.state = State{
		Exercise: exercise,
		Stage:    backend.StageDown,
	}

	state := r.state
	notifier := r.notifier
	r.mu.Unlock()

	// A deliberate user action is activity by definition.
	if notifier != nil {
		notifier.NoteActivity()
	}

	return state, switched
}

// SetFeedback overwrites the feedback line, used to surface transport
// errors on the feedback surface.
func (r *Reconciler) SetFeedback(message string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message == r.state.Feedback {
		return r.state, false
	}
	r.state.Feedback = message
	return r.state, true
}
