// errors.go - maps the domain error taxonomy to user-facing error pages
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coenradina/splitbill/internal/calculator"
	"github.com/coenradina/splitbill/internal/extract"
	mw "github.com/coenradina/splitbill/internal/middleware"
	"github.com/coenradina/splitbill/internal/token"
)

type errorPage struct {
	Status  int
	Message string
}

// ErrorHandler is the echo HTTPErrorHandler. Every error escaping a
// handler lands here and is rendered as an HTML error page with an
// actionable message; nothing reaches the transport unhandled.
//
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Something went wrong on our side. Please try again."

	switch {
	case errors.Is(err, token.ErrMalformedState):
		status = http.StatusBadRequest
		message = "The bill data attached to this form is missing or has been altered. Please start again from the upload page."
	case errors.Is(err, calculator.ErrInvalidRequest):
		status = http.StatusBadRequest
		message = "Enter at least one participant name, then try the split again."
	case errors.Is(err, extract.ErrExtraction):
		status = http.StatusUnprocessableEntity
		message = "We could not read any items from that bill image. Please try a clearer photo."
	default:
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			switch status {
			case http.StatusNotFound:
				message = "That page does not exist."
			case http.StatusMethodNotAllowed:
				message = "That page does not accept this kind of request."
			case http.StatusRequestEntityTooLarge:
				message = "That image is too large. Please upload a smaller photo."
			default:
				if m, ok := httpErr.Message.(string); ok {
					message = m
				}
			}
		}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Unhandled request error",
			"error", err,
			"path", c.Request().URL.Path,
			"request_id", mw.RequestID(c),
		)
	}

	if renderErr := c.Render(status, "error.html", errorPage{Status: status, Message: message}); renderErr != nil {
		slog.Error("Failed to render error page", "error", renderErr)
		_ = c.String(status, message)
	}
}
