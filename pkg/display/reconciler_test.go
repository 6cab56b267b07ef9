package display

import (
	"reflect"
	"testing"

	"github.com/repcoach/go-repcoach/pkg/backend"
)

type countingNotifier struct {
	notes int
}

func (n *countingNotifier) NoteActivity() { n.notes++ }

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
func boolp(v bool) *bool    { return &v }

func TestReconciler_RepChangeSignalsProgress(t *testing.T) {
	n := &countingNotifier{}
	r := NewReconciler(ExerciseSquat, n)

	state, changed := r.Apply(&backend.FrameResult{RepCounter: intp(5)})
	if !changed {
		t.Error("Expected change on new rep count")
	}
	if state.RepCounter != 5 {
		t.Errorf("Expected repCounter 5, got %d", state.RepCounter)
	}
	if n.notes != 1 {
		t.Errorf("Expected one activity note, got %d", n.notes)
	}

	// Same result again: idempotent, no further mutation.
	state, changed = r.Apply(&backend.FrameResult{RepCounter: intp(5)})
	if changed {
		t.Error("Expected no change when rep count is unchanged")
	}
	if state.RepCounter != 5 {
		t.Errorf("Expected repCounter still 5, got %d", state.RepCounter)
	}
}

func TestReconciler_AbsentFieldsNeverRegress(t *testing.T) {
	r := NewReconciler(ExercisePushup, nil)

	full := &backend.FrameResult{
		RepCounter: intp(4),
		Stage:      strp(backend.StageUp),
		Feedback:   strp("Good rep!"),
		Status:     strp("Up Position"),
		Angles: map[string]backend.Angle{
			"L": {Value: 150, Position: backend.Point{X: 0.3, Y: 0.4}},
		},
		Warnings: []string{"Keep body straight!"},
	}
	before, _ := r.Apply(full)

	// A later, empty reply (e.g. a stale or malformed response) must
	// leave everything in place.
	after, changed := r.Apply(&backend.FrameResult{})
	if changed {
		t.Error("Expected empty result to be a no-op merge")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Expected state unchanged, got %+v vs %+v", before, after)
	}
	if after.RepCounter != 4 || after.Stage != backend.StageUp || after.Feedback != "Good rep!" {
		t.Errorf("State regressed: %+v", after)
	}
}

func TestReconciler_FieldwiseMerge(t *testing.T) {
	r := NewReconciler(ExerciseSquat, nil)
	r.Apply(&backend.FrameResult{
		RepCounter: intp(2),
		Feedback:   strp("Squatting"),
	})

	// Only the stage arrives; feedback and count must survive.
	state, changed := r.Apply(&backend.FrameResult{Stage: strp(backend.StageUp)})
	if !changed {
		t.Error("Expected change for new stage")
	}
	if state.Stage != backend.StageUp {
		t.Errorf("Expected stage up, got %s", state.Stage)
	}
	if state.RepCounter != 2 || state.Feedback != "Squatting" {
		t.Errorf("Expected untouched fields to survive, got %+v", state)
	}
}

func TestReconciler_IdempotentFullResult(t *testing.T) {
	n := &countingNotifier{}
	r := NewReconciler(ExercisePushup, n)

	result := &backend.FrameResult{
		RepCounter: intp(1),
		Stage:      strp(backend.StageDown),
		Feedback:   strp("Down position - hold briefly"),
		Angles: map[string]backend.Angle{
			"Avg": {Value: 85, Position: backend.Point{X: 0.5, Y: 0.5}},
		},
		Warnings: []string{"Keep body straight!"},
	}

	first, _ := r.Apply(result)
	second, changed := r.Apply(result)
	if changed {
		t.Error("Expected reconciling the same result twice to change nothing")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical state, got %+v vs %+v", first, second)
	}
}

func TestReconciler_ActivityFlagHonored(t *testing.T) {
	n := &countingNotifier{}
	r := NewReconciler(ExerciseSquat, n)

	// No rep change, but the server judged the user engaged.
	_, changed := r.Apply(&backend.FrameResult{ActivityDetected: boolp(true)})
	if changed {
		t.Error("Expected no display change from activity flag alone")
	}
	if n.notes != 1 {
		t.Errorf("Expected activity note from server flag, got %d", n.notes)
	}

	// An explicit false is not a signal.
	r.Apply(&backend.FrameResult{ActivityDetected: boolp(false)})
	if n.notes != 1 {
		t.Errorf("Expected no note for activity_detected=false, got %d", n.notes)
	}
}

func TestReconciler_SetExerciseHardReset(t *testing.T) {
	n := &countingNotifier{}
	r := NewReconciler(ExerciseSquat, n)
	r.Apply(&backend.FrameResult{
		RepCounter: intp(9),
		Stage:      strp(backend.StageUp),
		Feedback:   strp("Rep complete!"),
		Warnings:   []string{"Slow down slightly"},
	})
	notesBefore := n.notes

	state, switched := r.SetExercise(ExerciseLunge)
	if !switched {
		t.Error("Expected switched=true for a different exercise")
	}
	if state.Exercise != ExerciseLunge {
		t.Errorf("Expected exercise lunge, got %s", state.Exercise)
	}
	if state.RepCounter != 0 || state.Stage != backend.StageDown {
		t.Errorf("Expected baseline counters, got %+v", state)
	}
	if state.Feedback != "" || state.Warnings != nil || state.Angles != nil {
		t.Errorf("Expected cleared surfaces, got %+v", state)
	}
	if n.notes != notesBefore+1 {
		t.Errorf("Expected exercise switch to note activity, got %d", n.notes)
	}
}

func TestReconciler_SetFeedback(t *testing.T) {
	r := NewReconciler(ExerciseSquat, nil)

	state, changed := r.SetFeedback("Server error (503)")
	if !changed || state.Feedback != "Server error (503)" {
		t.Errorf("Expected feedback set, got changed=%v state=%+v", changed, state)
	}

	_, changed = r.SetFeedback("Server error (503)")
	if changed {
		t.Error("Expected repeated identical feedback to be a no-op")
	}
}

func TestKnownExercise(t *testing.T) {
	for _, e := range Exercises {
		if !KnownExercise(e) {
			t.Errorf("Expected %s to be known", e)
		}
	}
	if KnownExercise("deadlift") {
		t.Error("Expected deadlift to be unknown")
	}
}
