// RepCoach - real-time exercise coaching client
// Streams pose keypoints to the analysis backend and serves a local dashboard
package main

import (
	"context"
	"errors"
	"flag"
	stdlog "log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/repcoach/go-repcoach/internal/config"
	"github.com/repcoach/go-repcoach/internal/log"
	"github.com/repcoach/go-repcoach/pkg/coach"
	"github.com/repcoach/go-repcoach/pkg/display"
)

func main() {
	cfg, logLevel := parseFlags()
	log.Init(logLevel)

	app, err := coach.New(cfg)
	if err != nil {
		stdlog.Fatalf("configuration error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		stdlog.Fatalf("runtime error: %v", err)
	}
}

// parseFlags parses command line flags and environment variables.
func parseFlags() (coach.Config, string) {
	// Missing .env is fine, the environment may be set directly.
	godotenv.Load()

	cfg := coach.DefaultConfig()

	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default LOG_LEVEL env or info)")
	backendURL := flag.String("backend", "", "Analysis backend URL (overrides BACKEND_URL)")
	engineURL := flag.String("engine", "", "Pose engine websocket URL (overrides ENGINE_URL)")
	port := flag.String("port", "", "Dashboard port (overrides DASHBOARD_PORT)")
	exercise := flag.String("exercise", display.DefaultExercise, "Starting exercise type")
	idle := flag.Duration("idle-timeout", cfg.Session.InactivityTimeout, "Inactivity timeout before the countdown")
	countdown := flag.Int("countdown", cfg.Session.CountdownSeconds, "Countdown length in seconds")
	threshold := flag.Float64("motion-threshold", cfg.Motion.Threshold, "Per-joint movement threshold")
	noTimestamps := flag.Bool("no-timestamps", false, "Omit capture timestamps from landmark requests")
	flag.Parse()

	cfg.BackendURL = config.BackendURL(config.DefaultBackendURL)
	cfg.EngineURL = config.EngineURL(config.DefaultEngineURL)
	cfg.DashboardPort = config.DashboardPort()
	cfg.Session.RedirectURL = config.RedirectURL()

	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}
	if *engineURL != "" {
		cfg.EngineURL = *engineURL
	}
	if *port != "" {
		cfg.DashboardPort = *port
	}
	cfg.Exercise = *exercise
	cfg.Session.InactivityTimeout = *idle
	cfg.Session.CountdownSeconds = *countdown
	cfg.Motion.Threshold = *threshold
	cfg.SendTimestamps = !*noTimestamps

	if cfg.Session.InactivityTimeout <= 0 {
		cfg.Session.InactivityTimeout = 3 * time.Minute
	}

	return cfg, *logLevel
}
