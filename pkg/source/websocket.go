package source

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/repcoach/go-repcoach/pkg/pose"
)

// engineFrame is the pose engine's wire format for one frame.
type engineFrame struct {
	Landmarks pose.KeypointSet `json:"landmarks"`
	Timestamp int64            `json:"timestamp"` // ms since epoch, optional
}

// WSSource reads keypoint frames from the pose engine's websocket feed.
type WSSource struct {
	url    string
	logger *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	frames chan Frame
	err    error
}

// NewWSSource creates a websocket keypoint source for the given feed
// URL, e.g. "ws://localhost:8765/landmarks". The logger may be nil.
func NewWSSource(url string, logger *slog.Logger) *WSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSSource{
		url:    url,
		logger: logger.With("component", "source.ws"),
		frames: make(chan Frame, 8),
	}
}

// Start dials the engine feed and begins delivering frames. A dial
// failure is reported as ErrUnavailable so the caller can offer a
// retry.
func (s *WSSource) Start(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrUnavailable, s.url, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return fmt.Errorf("%w: source closed", ErrUnavailable)
	}
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("connected to pose engine", "url", s.url)

	// Unblock the read loop when the context is cancelled.
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	go s.readLoop(ctx)
	return nil
}

// readLoop decodes frames until the connection drops.
func (s *WSSource) readLoop(ctx context.Context) {
	defer close(s.frames)

	for {
		var raw engineFrame
		if err := s.conn.ReadJSON(&raw); err != nil {
			s.mu.Lock()
			if !s.closed && ctx.Err() == nil {
				s.err = fmt.Errorf("source: engine feed: %w", err)
			}
			s.mu.Unlock()
			return
		}

		frame := Frame{
			Keypoints: raw.Landmarks,
			Captured:  time.Now(),
		}
		if raw.Timestamp > 0 {
			frame.Captured = time.UnixMilli(raw.Timestamp)
		}

		select {
		case s.frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

// Frames returns the frame channel.
func (s *WSSource) Frames() <-chan Frame {
	return s.frames
}

// Err returns the terminal delivery error, if any.
func (s *WSSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close closes the engine connection. Safe to call multiple times.
func (s *WSSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
