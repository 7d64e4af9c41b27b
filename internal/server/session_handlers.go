package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/server/serializer"
	"github.com/wegavilla/server/internal/session"
)

// sess contains the administrative session-management handlers.
// Route-level authorization restricts them to administrators.
type sess struct {
	registry *session.Registry
}

// List renders all currently active, non-expired sessions.
func (s *sess) List(c echo.Context) error {
	sessions := s.registry.ListActive()
	return c.JSON(http.StatusOK, echo.Map{
		"sessions": serializer.Sessions(sessions),
		"count":    len(sessions),
	})
}

// Stats renders registry counters for monitoring.
func (s *sess) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.registry.Stats())
}

// Invalidate terminates the given session.
func (s *sess) Invalidate(c echo.Context) error {
	id := c.Param("id")
	if !s.registry.Invalidate(id) {
		return apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Session not found.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Session invalidated successfully",
		"session_id": id,
	})
}

// InvalidateUser terminates every session of the given user.
func (s *sess) InvalidateUser(c echo.Context) error {
	userID := c.Param("userID")
	count := s.registry.InvalidateAllForUser(userID)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User sessions invalidated successfully",
		"user_id": userID,
		"count":   count,
	})
}
