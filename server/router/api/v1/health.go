package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	healthCheckKey   = "health-check-test"
	healthCheckValue = "working"
)

// HealthResponse reports store connectivity and credential presence
// (never credential values).
type HealthResponse struct {
	Status    string         `json:"status"`
	Redis     string         `json:"redis,omitempty"`
	Message   string         `json:"message,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	Env       map[string]bool `json:"env"`
}

// Health round-trips a ping and a set/get/delete cycle against the
// store.
// GET /api/health
func (s *APIV1Service) Health(c echo.Context) error {
	ctx := c.Request().Context()
	env := map[string]bool{
		"hasRedisAddr":     s.Profile.RedisAddr != "",
		"hasRedisPassword": s.Profile.RedisPassword != "",
	}

	driver := s.Store.GetDriver()
	if err := driver.Ping(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, HealthResponse{
			Status: "error", Redis: "connection failed", Message: err.Error(), Env: env,
		})
	}

	if err := driver.Set(ctx, healthCheckKey, healthCheckValue, 0); err != nil {
		return c.JSON(http.StatusInternalServerError, HealthResponse{
			Status: "error", Redis: "operations failed", Message: err.Error(), Env: env,
		})
	}
	value, ok, err := driver.Get(ctx, healthCheckKey)
	if err != nil || !ok || value != healthCheckValue {
		msg := "set/get round-trip mismatch"
		if err != nil {
			msg = err.Error()
		}
		return c.JSON(http.StatusInternalServerError, HealthResponse{
			Status: "error", Redis: "operations failed", Message: msg, Env: env,
		})
	}
	if _, err := driver.Delete(ctx, healthCheckKey); err != nil {
		return c.JSON(http.StatusInternalServerError, HealthResponse{
			Status: "error", Redis: "operations failed", Message: err.Error(), Env: env,
		})
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Redis:     "connected",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Env:       env,
	})
}
