package server

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/designgenie/internal/observability"
)

// requestLogging logs one structured line per request with a generated
// request id.
func requestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := observability.NewRequestID()
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			slog.Info("http request",
				observability.LogFieldRequestID, requestID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				observability.LogFieldDuration, time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}
