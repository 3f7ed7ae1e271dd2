package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/hrygo/designgenie/internal/errors"
	"github.com/hrygo/designgenie/store"
)

// CreateSessionRequest is the intake payload.
// POST /api/sessions
type CreateSessionRequest struct {
	Questionnaire map[string]string `json:"questionnaire"`
}

// MutationResponse acknowledges a write against a session id.
type MutationResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// CreateSession creates a new session document from the submitted
// questionnaire and returns it.
func (s *APIV1Service) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, apperrors.Validation("invalid request body"))
	}

	session, err := s.Store.CreateSession(c.Request().Context(), req.Questionnaire)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// ListSessions returns every session document, unpaginated.
// GET /api/sessions
func (s *APIV1Service) ListSessions(c echo.Context) error {
	sessions, err := s.Store.ListSessions(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

// GetSession returns one session document by id.
// GET /api/sessions/:id
func (s *APIV1Service) GetSession(c echo.Context) error {
	session, err := s.Store.GetSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// UpdateSession replaces a session document wholesale. The path id
// wins over whatever id the body carries.
// PUT /api/sessions/:id
func (s *APIV1Service) UpdateSession(c echo.Context) error {
	var session store.Session
	if err := c.Bind(&session); err != nil {
		return errorResponse(c, apperrors.Validation("invalid session document"))
	}

	id := c.Param("id")
	if _, err := s.Store.UpdateSession(c.Request().Context(), id, &session); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, MutationResponse{Success: true, ID: id})
}

// DeleteSession removes a session document.
// DELETE /api/sessions/:id
func (s *APIV1Service) DeleteSession(c echo.Context) error {
	id := c.Param("id")
	if err := s.Store.DeleteSession(c.Request().Context(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, MutationResponse{Success: true, ID: id})
}

// GetSharedSession serves the legacy singleton session document, or an
// empty object when none has been stored.
// GET /api/session
func (s *APIV1Service) GetSharedSession(c echo.Context) error {
	session, ok, err := s.Store.GetSharedSession(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{})
	}
	return c.JSON(http.StatusOK, session)
}

// SetSharedSession overwrites the legacy singleton session document.
// POST /api/session
func (s *APIV1Service) SetSharedSession(c echo.Context) error {
	var session store.Session
	if err := c.Bind(&session); err != nil {
		return errorResponse(c, apperrors.Validation("invalid session document"))
	}
	if err := s.Store.SetSharedSession(c.Request().Context(), &session); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
