package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GenerateForSession runs the profile and recommendation generation
// step for a session: sets customerProfile, appends the generated
// recommendations, persists and returns the updated document.
// Generation never fails outward - exhausted retries yield the static
// fallback content.
// POST /api/sessions/:id/generate
func (s *APIV1Service) GenerateForSession(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	session, err := s.Store.GetSession(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	profile := s.AI.GenerateProfile(ctx, session.Questionnaire)
	session.CustomerProfile = &profile

	moodboardDescription := ""
	if len(session.Moodboards) > 0 {
		moodboardDescription = session.Moodboards[len(session.Moodboards)-1].Description
	}
	recommendations := s.AI.GenerateRecommendations(ctx, profile, moodboardDescription)
	session.Recommendations = append(session.Recommendations, recommendations...)

	if _, err := s.Store.UpdateSession(ctx, id, session); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// GenerateMoodboard appends an AI-authored moodboard to the session
// and returns it.
// POST /api/sessions/:id/moodboards/generate
func (s *APIV1Service) GenerateMoodboard(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	session, err := s.Store.GetSession(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	profile := ""
	if session.CustomerProfile != nil {
		profile = *session.CustomerProfile
	}
	moodboard := s.AI.GenerateMoodboard(ctx, profile)
	session.Moodboards = append(session.Moodboards, moodboard)

	if _, err := s.Store.UpdateSession(ctx, id, session); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, moodboard)
}
