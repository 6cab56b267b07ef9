// posesim - synthetic pose engine for local development
// Serves a websocket landmark stream that alternates between stillness
// and exercise-like motion, so the full coaching loop can run without a
// real pose engine.
package main

import (
	"context"
	"flag"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/repcoach/go-repcoach/internal/log"
	"github.com/repcoach/go-repcoach/pkg/pose"
	"github.com/repcoach/go-repcoach/pkg/source"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local development tool, accept any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// engineFrame matches the wire format the coaching client reads.
type engineFrame struct {
	Landmarks pose.KeypointSet `json:"landmarks"`
	Timestamp int64            `json:"timestamp"`
}

func main() {
	addr := flag.String("addr", ":8765", "Listen address")
	fps := flag.Int("fps", 30, "Frames per second")
	movePeriod := flag.Duration("move-period", 20*time.Second, "How long each still/moving phase lasts (0 = always moving)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default LOG_LEVEL env or info)")
	flag.Parse()

	log.Init(*logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	http.HandleFunc("/landmarks", func(w http.ResponseWriter, r *http.Request) {
		serveFeed(ctx, w, r, *fps, *movePeriod)
	})

	server := &http.Server{Addr: *addr}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Info("posesim listening", "addr", *addr, "fps", *fps, "move_period", *movePeriod)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("posesim: %v", err)
	}
}

// serveFeed streams synthetic frames to one client until it disconnects.
func serveFeed(ctx context.Context, w http.ResponseWriter, r *http.Request, fps int, movePeriod time.Duration) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	log.Info("client connected", "remote", conn.RemoteAddr())

	interval := time.Second / time.Duration(fps)
	src := source.NewMockSource(
		source.WithInterval(interval),
		source.WithMovement(true),
	)
	defer src.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := src.Start(ctx); err != nil {
		log.Warn("mock source start failed", "error", err)
		return
	}

	if movePeriod > 0 {
		go alternatePhases(ctx, src, movePeriod)
	}

	for frame := range src.Frames() {
		msg := engineFrame{
			Landmarks: frame.Keypoints,
			Timestamp: frame.Captured.UnixMilli(),
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Info("client disconnected", "remote", conn.RemoteAddr())
			return
		}
	}
}

// alternatePhases toggles between exercising and standing still.
func alternatePhases(ctx context.Context, src *source.MockSource, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	moving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			moving = !moving
			src.SetMoving(moving)
			log.Info("phase switched", "moving", moving)
		}
	}
}
