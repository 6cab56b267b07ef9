package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/repcoach/go-repcoach/pkg/display"
	"github.com/repcoach/go-repcoach/pkg/hub"
)

// noteActivity reports a dashboard interaction to the session.
func (s *Server) noteActivity() {
	if s.OnActivity != nil {
		s.OnActivity()
	}
}

// handleStatus returns the current session status.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return c.JSON(s.status)
}

// handleListExercises returns the known exercise types.
func (s *Server) handleListExercises(c *fiber.Ctx) error {
	return c.JSON(display.Exercises)
}

// SelectExerciseRequest is the request body for switching exercise.
type SelectExerciseRequest struct {
	Exercise string `json:"exercise"`
}

// handleSelectExercise switches the active exercise.
func (s *Server) handleSelectExercise(c *fiber.Ctx) error {
	s.noteActivity()

	var req SelectExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if !display.KnownExercise(req.Exercise) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown exercise: " + req.Exercise,
		})
	}

	if s.OnSelectExercise == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "exercise switch not configured",
		})
	}

	if err := s.OnSelectExercise(req.Exercise); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"exercise": req.Exercise})
}

// handleStay handles the manual "I'm still here" button.
func (s *Server) handleStay(c *fiber.Ctx) error {
	s.noteActivity()

	if s.OnStay != nil {
		s.OnStay()
	}
	return c.JSON(fiber.Map{"ok": true})
}

// handleGetEvents returns recent events.
func (s *Server) handleGetEvents(c *fiber.Ctx) error {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()
	return c.JSON(s.events)
}

// handleStateWS streams status updates to the dashboard.
func (s *Server) handleStateWS(c *websocket.Conn) {
	// Send the current status so the client renders immediately.
	s.statusMu.RLock()
	c.WriteJSON(s.status)
	s.statusMu.RUnlock()

	hub.NewClient(s.stateHub, c).Run()
}

// handleEventsWS streams events to the dashboard.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	// Replay the buffered events first.
	s.eventsMu.RLock()
	for _, entry := range s.events {
		c.WriteJSON(entry)
	}
	s.eventsMu.RUnlock()

	hub.NewClient(s.eventHub, c).Run()
}
