package coach

import (
	"github.com/repcoach/go-repcoach/pkg/display"
	"github.com/repcoach/go-repcoach/pkg/motion"
	"github.com/repcoach/go-repcoach/pkg/session"
)

// Config holds the coaching pipeline configuration.
type Config struct {
	// BackendURL is the base URL of the exercise analysis service.
	BackendURL string

	// EngineURL is the websocket URL of the pose engine feed.
	EngineURL string

	// DashboardPort is the local dashboard HTTP port.
	DashboardPort string

	// Exercise is the exercise active at startup.
	Exercise string

	// Motion configures the activity detector.
	Motion motion.Config

	// Session configures the inactivity state machine.
	Session session.Config

	// SendTimestamps includes a capture timestamp in each landmark
	// request.
	SendTimestamps bool
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		BackendURL:     "http://localhost:8080",
		EngineURL:      "ws://localhost:8765/landmarks",
		DashboardPort:  "3000",
		Exercise:       display.DefaultExercise,
		Motion:         motion.DefaultConfig(),
		Session:        session.DefaultConfig(),
		SendTimestamps: true,
	}
}
