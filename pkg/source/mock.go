package source

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/repcoach/go-repcoach/pkg/pose"
)

// MockSource generates synthetic keypoint frames for tests and local
// development. It emits a full landmark set at a fixed rate, either
// standing still (sub-threshold sensor jitter) or swinging the arms as
// if exercising.
type MockSource struct {
	interval time.Duration
	jitter   float64
	swing    float64

	mu      sync.Mutex
	running bool
	closed  bool
	moving  bool

	frames chan Frame
	phase  float64
	rng    *rand.Rand
}

// MockOption configures a MockSource.
type MockOption func(*MockSource)

// WithInterval sets the frame interval (default 33ms, ~30fps).
func WithInterval(d time.Duration) MockOption {
	return func(m *MockSource) { m.interval = d }
}

// WithJitter sets the per-frame sensor noise amplitude.
func WithJitter(amplitude float64) MockOption {
	return func(m *MockSource) { m.jitter = amplitude }
}

// WithMovement starts the mock in the moving (exercising) state.
func WithMovement(enabled bool) MockOption {
	return func(m *MockSource) { m.moving = enabled }
}

// NewMockSource creates a mock keypoint source.
func NewMockSource(opts ...MockOption) *MockSource {
	m := &MockSource{
		interval: 33 * time.Millisecond,
		jitter:   0.002, // well below the motion threshold
		swing:    0.2,
		frames:   make(chan Frame, 8),
		rng:      rand.New(rand.NewSource(42)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetMoving switches between the still and exercising states.
func (m *MockSource) SetMoving(moving bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moving = moving
}

// Start begins frame generation.
func (m *MockSource) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrUnavailable
	}
	if m.running {
		return nil
	}
	m.running = true

	go m.generate(ctx)
	return nil
}

func (m *MockSource) generate(ctx context.Context) {
	defer close(m.frames)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := Frame{Keypoints: m.nextFrame(), Captured: time.Now()}
			select {
			case m.frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}
}

// nextFrame builds the next synthetic landmark set.
func (m *MockSource) nextFrame() pose.KeypointSet {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.phase += 0.6

	set := make(pose.KeypointSet, pose.NumLandmarks)
	for i := range set {
		// A plausible standing posture: head up top, feet at the
		// bottom, with per-frame sensor jitter.
		set[i] = pose.Keypoint{
			X:          0.5 + 0.02*float64(i%2*2-1) + m.noiseLocked(),
			Y:          0.1 + 0.025*float64(i) + m.noiseLocked(),
			Visibility: 0.95,
		}
	}

	if m.moving {
		// Swing elbows and wrists as in a bicep curl.
		dy := m.swing * math.Sin(m.phase)
		for _, i := range []int{pose.LeftElbow, pose.RightElbow, pose.LeftWrist, pose.RightWrist} {
			set[i].Y += dy
		}
	}

	return set
}

func (m *MockSource) noiseLocked() float64 {
	return (m.rng.Float64()*2 - 1) * m.jitter
}

// Frames returns the frame channel.
func (m *MockSource) Frames() <-chan Frame {
	return m.frames
}

// Err always returns nil: the mock never fails.
func (m *MockSource) Err() error {
	return nil
}

// Close stops the mock. Safe to call multiple times.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
