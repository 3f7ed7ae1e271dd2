// Package v1 implements the JSON session API consumed by both the
// end-user view and the wizard dashboard.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/hrygo/designgenie/internal/errors"
	"github.com/hrygo/designgenie/internal/profile"
	"github.com/hrygo/designgenie/plugin/ai"
	"github.com/hrygo/designgenie/store"
)

// APIV1Service holds the handlers of the v1 API.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	AI      *ai.Provider
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(profile *profile.Profile, st *store.Store, provider *ai.Provider) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   st,
		AI:      provider,
	}
}

// Register mounts all v1 routes on the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api")

	g.POST("/sessions", s.CreateSession)
	g.GET("/sessions", s.ListSessions)
	g.GET("/sessions/:id", s.GetSession)
	g.PUT("/sessions/:id", s.UpdateSession)
	g.DELETE("/sessions/:id", s.DeleteSession)

	g.POST("/sessions/:id/generate", s.GenerateForSession)
	g.POST("/sessions/:id/moodboards/generate", s.GenerateMoodboard)

	// Legacy single-shared-session variants.
	g.GET("/session", s.GetSharedSession)
	g.POST("/session", s.SetSharedSession)

	g.GET("/health", s.Health)
}

// errorResponse maps the typed error taxonomy onto HTTP statuses.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err, apperrors.ErrCodeStore) {
	case apperrors.ErrCodeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
