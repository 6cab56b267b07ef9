// Package web provides the real-time coaching dashboard.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/repcoach/go-repcoach/internal/log"
	"github.com/repcoach/go-repcoach/pkg/display"
	"github.com/repcoach/go-repcoach/pkg/hub"
)

// Status is the dashboard's view of the running session.
type Status struct {
	SessionID       string        `json:"session_id"`
	SessionState    string        `json:"session_state"`
	EngineConnected bool          `json:"engine_connected"`
	SecondsLeft     int           `json:"seconds_left"`
	Display         display.State `json:"display"`
	Stats           Stats         `json:"stats"`
}

// Stats are the pipeline counters shown on the dashboard.
type Stats struct {
	Frames          uint64 `json:"frames"`
	Sent            uint64 `json:"sent"`
	Dropped         uint64 `json:"dropped"`
	TransportErrors uint64 `json:"transport_errors"`
}

// Event is a moment worth surfacing on the dashboard: countdown ticks,
// cancellations, redirects, session changes.
type Event struct {
	Time        string `json:"time"`
	Type        string `json:"type"` // countdown, cancelled, redirect, session, error
	Message     string `json:"message"`
	SecondsLeft int    `json:"seconds_left,omitempty"`
}

// Server is the dashboard web server.
type Server struct {
	app  *fiber.App
	port string

	status   Status
	statusMu sync.RWMutex

	// Event buffer (last 200 entries)
	events   []Event
	eventsMu sync.RWMutex

	// Hubs for websocket broadcast
	stateHub *hub.Hub
	eventHub *hub.Hub

	// OnSelectExercise switches the active exercise. Required.
	OnSelectExercise func(name string) error

	// OnStay is the manual "I'm still here" action.
	OnStay func()

	// OnActivity is called for every dashboard interaction so user
	// input counts against the inactivity timeout.
	OnActivity func()
}

// NewServer creates the dashboard server.
func NewServer(port string) *Server {
	s := &Server{
		port:     port,
		events:   make([]Event, 0, 200),
		stateHub: hub.New("state"),
		eventHub: hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "RepCoach Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/exercises", s.handleListExercises)
	api.Post("/exercise", s.handleSelectExercise)
	api.Post("/stay", s.handleStay)
	api.Get("/events", s.handleGetEvents)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/state", websocket.New(s.handleStateWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Start starts the web server and its broadcast hubs.
func (s *Server) Start() error {
	log.Info("dashboard listening", "url", "http://localhost:"+s.port)

	go s.stateHub.Run()
	go s.eventHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server error", "error", err)
		}
	}()
}

// UpdateStatus mutates the status under lock and broadcasts the result
// to connected clients.
func (s *Server) UpdateStatus(update func(*Status)) {
	s.statusMu.Lock()
	update(&s.status)
	status := s.status // copy for broadcast
	s.statusMu.Unlock()

	s.stateHub.BroadcastJSON(status)
}

// PushEvent records an event and broadcasts it to connected clients.
func (s *Server) PushEvent(eventType, message string, secondsLeft int) {
	entry := Event{
		Time:        time.Now().Format("15:04:05"),
		Type:        eventType,
		Message:     message,
		SecondsLeft: secondsLeft,
	}

	s.eventsMu.Lock()
	s.events = append(s.events, entry)
	if len(s.events) > 200 {
		s.events = s.events[1:]
	}
	s.eventsMu.Unlock()

	s.eventHub.BroadcastJSON(entry)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
