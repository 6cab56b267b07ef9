package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/repcoach/go-repcoach/pkg/pose"
	"github.com/repcoach/go-repcoach/pkg/session"
)

func testKeypoints() pose.KeypointSet {
	set := make(pose.KeypointSet, pose.NumLandmarks)
	for i := range set {
		set[i] = pose.Keypoint{X: 0.5, Y: 0.5, Visibility: 0.9}
	}
	return set
}

func TestClientSendLandmarks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process_landmarks" {
			t.Errorf("Expected /process_landmarks, got %s", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}

		var req landmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if len(req.Landmarks) != pose.NumLandmarks {
			t.Errorf("Expected %d landmarks, got %d", pose.NumLandmarks, len(req.Landmarks))
		}
		if req.ExerciseType != "squat" {
			t.Errorf("Expected exerciseType squat, got %s", req.ExerciseType)
		}
		if req.SessionID == "" {
			t.Error("Expected non-empty sessionId")
		}
		if req.Timestamp == 0 {
			t.Error("Expected timestamp to be set")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"repCounter": 3,
			"stage":      "down",
			"feedback":   "Rep complete!",
			"angles": map[string]any{
				"L": map[string]any{"value": 92.5, "position": map[string]float64{"x": 0.4, "y": 0.6}},
			},
			"warnings":          []string{"Keep body straight!"},
			"activity_detected": true,
		})
	}))
	defer server.Close()

	client, err := NewClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	result, err := client.SendLandmarks(context.Background(), testKeypoints(), "squat", sessionID())
	if err != nil {
		t.Fatalf("SendLandmarks failed: %v", err)
	}

	if result.RepCounter == nil || *result.RepCounter != 3 {
		t.Errorf("Expected repCounter 3, got %v", result.RepCounter)
	}
	if result.Stage == nil || *result.Stage != StageDown {
		t.Errorf("Expected stage down, got %v", result.Stage)
	}
	if result.Feedback == nil || *result.Feedback != "Rep complete!" {
		t.Errorf("Expected feedback, got %v", result.Feedback)
	}
	if len(result.Angles) != 1 || result.Angles["L"].Value != 92.5 {
		t.Errorf("Unexpected angles: %v", result.Angles)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Expected one warning, got %v", result.Warnings)
	}
	if result.ActivityDetected == nil || !*result.ActivityDetected {
		t.Errorf("Expected activity_detected true, got %v", result.ActivityDetected)
	}
}

func TestClientPartialResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Only repCounter: everything else must come back absent.
		json.NewEncoder(w).Encode(map[string]any{"repCounter": 7})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	result, err := client.SendLandmarks(context.Background(), testKeypoints(), "pushup", sessionID())
	if err != nil {
		t.Fatalf("SendLandmarks failed: %v", err)
	}

	if result.RepCounter == nil || *result.RepCounter != 7 {
		t.Errorf("Expected repCounter 7, got %v", result.RepCounter)
	}
	if result.Stage != nil || result.Feedback != nil || result.Angles != nil ||
		result.Warnings != nil || result.ActivityDetected != nil {
		t.Errorf("Expected all other fields absent, got %+v", result)
	}
}

func TestClientUnknownFieldsIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"repCounter": 1, "some_future_field": {"deep": [1,2,3]}}`))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	result, err := client.SendLandmarks(context.Background(), testKeypoints(), "lunge", sessionID())
	if err != nil {
		t.Fatalf("SendLandmarks failed: %v", err)
	}
	if result.RepCounter == nil || *result.RepCounter != 1 {
		t.Errorf("Expected repCounter 1, got %v", result.RepCounter)
	}
}

func TestClientMalformedResponseIsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	result, err := client.SendLandmarks(context.Background(), testKeypoints(), "squat", sessionID())
	if err != nil {
		t.Fatalf("Expected malformed body to not fail, got %v", err)
	}
	if result.RepCounter != nil || result.Stage != nil {
		t.Errorf("Expected empty result for malformed body, got %+v", result)
	}
}

func TestClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal failure", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	_, err := client.SendLandmarks(context.Background(), testKeypoints(), "squat", sessionID())
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", apiErr.StatusCode)
	}
	if !apiErr.IsServerError() {
		t.Error("Expected IsServerError true")
	}
}

func TestClientTransportError(t *testing.T) {
	// A server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, _ := NewClient(WithBaseURL(url))
	_, err := client.SendLandmarks(context.Background(), testKeypoints(), "squat", sessionID())
	if err == nil {
		t.Fatal("Expected transport error for unreachable server")
	}
}

func TestClientInitializeSession(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req initRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode init request: %v", err)
		}
		if req.ExerciseType != "bicepCurl" {
			t.Errorf("Expected bicepCurl, got %s", req.ExerciseType)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	if err := client.InitializeSession(context.Background(), sessionID(), "bicepCurl"); err != nil {
		t.Fatalf("InitializeSession failed: %v", err)
	}
	if gotPath != "/initialize_session" {
		t.Errorf("Expected /initialize_session, got %s", gotPath)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(); !errors.Is(err, ErrNoBaseURL) {
		t.Errorf("Expected ErrNoBaseURL, got %v", err)
	}
}

func sessionID() session.ID {
	return session.NewID()
}
