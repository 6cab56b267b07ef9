// Package source supplies live keypoint frames from a pose engine.
//
// The engine itself (camera capture and skeletal tracking) is an
// external collaborator; this package only receives its per-frame
// landmark output. The production implementation is a websocket client
// reading JSON frames from the engine's feed; MockSource generates
// synthetic frames for tests and local development.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/repcoach/go-repcoach/pkg/pose"
)

// ErrUnavailable is returned when the keypoint source cannot start.
// It is retryable: the caller may surface it and try again.
var ErrUnavailable = errors.New("source: keypoint source unavailable")

// Frame is one keypoint snapshot as delivered by the engine.
type Frame struct {
	// Keypoints is the ordered landmark set for this frame. Treat it
	// as an immutable snapshot.
	Keypoints pose.KeypointSet

	// Captured is the engine's capture instant for the frame, or the
	// arrival time when the engine does not report one.
	Captured time.Time
}

// Source delivers keypoint frames.
type Source interface {
	// Start begins frame delivery. After Start, frames arrive on the
	// Frames channel until the context is cancelled or the source
	// fails.
	Start(ctx context.Context) error

	// Frames returns the frame channel. It is closed when delivery
	// ends; check Err afterwards.
	Frames() <-chan Frame

	// Err returns the terminal delivery error, if any, once Frames is
	// closed.
	Err() error

	// Close releases the source. Safe to call multiple times.
	Close() error
}
