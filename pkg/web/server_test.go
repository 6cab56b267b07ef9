package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/repcoach/go-repcoach/pkg/display"
)

func TestListExercises(t *testing.T) {
	s := NewServer("0")

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/exercises", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var got []string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(display.Exercises) {
		t.Fatalf("got %d exercises, want %d", len(got), len(display.Exercises))
	}
}

func TestSelectExercise(t *testing.T) {
	s := NewServer("0")

	var selected string
	var activity int
	s.OnSelectExercise = func(name string) error {
		selected = name
		return nil
	}
	s.OnActivity = func() { activity++ }

	req := httptest.NewRequest(http.MethodPost, "/api/exercise",
		strings.NewReader(`{"exercise": "squat"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if selected != display.ExerciseSquat {
		t.Errorf("selected = %q, want %q", selected, display.ExerciseSquat)
	}
	if activity != 1 {
		t.Errorf("activity notes = %d, want 1", activity)
	}
}

func TestSelectExerciseRejectsUnknown(t *testing.T) {
	s := NewServer("0")
	s.OnSelectExercise = func(string) error {
		t.Fatal("callback fired for unknown exercise")
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/exercise",
		strings.NewReader(`{"exercise": "parkour"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStayNotesActivity(t *testing.T) {
	s := NewServer("0")

	var stays, activity int
	s.OnStay = func() { stays++ }
	s.OnActivity = func() { activity++ }

	resp, err := s.app.Test(httptest.NewRequest(http.MethodPost, "/api/stay", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if stays != 1 || activity != 1 {
		t.Errorf("stays = %d, activity = %d, want 1 and 1", stays, activity)
	}
}

func TestStatusReflectsUpdates(t *testing.T) {
	s := NewServer("0")

	s.UpdateStatus(func(st *Status) {
		st.SessionID = "abc-123"
		st.SessionState = "armed"
		st.Display.RepCounter = 4
	})

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var got Status
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SessionID != "abc-123" || got.Display.RepCounter != 4 {
		t.Errorf("status = %+v, want session abc-123 with 4 reps", got)
	}
}

func TestEventBufferIsBounded(t *testing.T) {
	s := NewServer("0")

	for i := 0; i < 250; i++ {
		s.PushEvent("session", "event", 0)
	}

	s.eventsMu.RLock()
	n := len(s.events)
	s.eventsMu.RUnlock()

	if n != 200 {
		t.Errorf("event buffer holds %d entries, want 200", n)
	}
}
