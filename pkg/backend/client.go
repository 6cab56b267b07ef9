// Package backend is the sync client for the remote exercise-analysis
// service. The service is a black box reached through two endpoints:
// POST /process_landmarks once per processed frame, and an optional
// fire-and-forget POST /initialize_session.
//
// The client never retries: a failed frame is simply surfaced, and the
// next frame is an independent attempt. Bounding how many requests are
// in flight at once is the caller's job (see pkg/coach).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/repcoach/go-repcoach/internal/httpc"
	"github.com/repcoach/go-repcoach/pkg/pose"
	"github.com/repcoach/go-repcoach/pkg/session"
)

// Client talks to the analysis service.
type Client struct {
	baseURL string
	config  *Config
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates an analysis service client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpc.NewClient(cfg.Timeout)
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		config:  cfg,
		http:    httpClient,
		logger:  cfg.Logger.With("component", "backend.client"),
	}, nil
}

// landmarkRequest is the per-frame wire payload.
type landmarkRequest struct {
	Landmarks    []pose.Keypoint `json:"landmarks"`
	ExerciseType string          `json:"exerciseType"`
	SessionID    string          `json:"sessionId"`
	Timestamp    int64           `json:"timestamp,omitempty"`
}

// initRequest is the session initialization payload.
type initRequest struct {
	SessionID    string `json:"sessionId"`
	ExerciseType string `json:"exerciseType"`
}

// SendLandmarks submits one frame's keypoints and returns the service's
// judgment.
//
// Transport failures and non-2xx statuses return an error. A 2xx
// response that fails to parse is treated as the service saying nothing
// at all: an empty FrameResult and no error, so the reconciler performs
// a no-op merge.
func (c *Client) SendLandmarks(ctx context.Context, keypoints pose.KeypointSet, exerciseType string, sessionID session.ID) (*FrameResult, error) {
	req := landmarkRequest{
		Landmarks:    keypoints,
		ExerciseType: exerciseType,
		SessionID:    sessionID.String(),
	}
	if c.config.SendTimestamps {
		req.Timestamp = time.Now().UnixMilli()
	}

	resp, err := c.post(ctx, "/process_landmarks", req)
	if err != nil {
		return nil, fmt.Errorf("backend: send landmarks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.parseError(resp)
	}

	var result FrameResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Malformed body on a success status: behave as if every
		// field were absent rather than failing the frame.
		c.logger.Warn("malformed frame result, treating as empty", "error", err)
		return &FrameResult{}, nil
	}

	return &result, nil
}

// InitializeSession announces a new session/exercise pair to the
// service. Fire and forget: only the success status matters.
func (c *Client) InitializeSession(ctx context.Context, sessionID session.ID, exerciseType string) error {
	resp, err := c.post(ctx, "/initialize_session", initRequest{
		SessionID:    sessionID.String(),
		ExerciseType: exerciseType,
	})
	if err != nil {
		return fmt.Errorf("backend: initialize session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseError(resp)
	}
	return nil
}

// post sends a JSON POST to the given path.
func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}

// parseError builds an APIError from a non-success response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
