package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requestIDKey is the echo context key holding the per-request ID.
const requestIDKey = "request_id"

// RequestID returns the ID assigned to this request, or "" before the
// logging middleware has run.
func RequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestLogger returns echo middleware that logs every request with
// slog. It assigns each request a UUID, logs the method, path, status
// and duration, and distinguishes handled HTTP errors from unexpected
// ones.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := uuid.NewString()
			c.Set(requestIDKey, reqID)

			err := next(c)

			duration := time.Since(start).Milliseconds()
			method := c.Request().Method
			path := c.Request().URL.Path

			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					slog.Warn("Request error",
						"method", method,
						"path", path,
						"status", httpErr.Code,
						"error", httpErr.Message,
						"request_id", reqID,
						"duration_ms", duration,
					)
				} else {
					slog.Warn("Request error",
						"method", method,
						"path", path,
						"error", err,
						"request_id", reqID,
						"duration_ms", duration,
					)
				}
			} else {
				slog.Info("Request ok",
					"method", method,
					"path", path,
					"status", c.Response().Status,
					"request_id", reqID,
					"duration_ms", duration,
				)
			}

			return err
		}
	}
}
