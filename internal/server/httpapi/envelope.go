package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/labstack/echo/v4"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	msgUnexpected = "An unexpected error occurred"
)

// envelope is the shape of every response body.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, envelope{Status: statusSuccess, Message: message, Data: data})
}

// errorHandler renders failures in the envelope. *echo.HTTPError carries a
// client-facing message; anything else is logged and reduced to a generic 500.
func errorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := msgUnexpected

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
			if he.Internal != nil {
				logger.Warn(c.Request().Context(), "request failed",
					"status", code, "path", c.Path(), "error", he.Internal.Error())
			}
		} else {
			logger.Error(c.Request().Context(), "unexpected error",
				"method", c.Request().Method, "uri", c.Request().RequestURI, "error", err.Error())
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, envelope{Status: statusError, Message: message})
		}
		if werr != nil {
			logger.Error(c.Request().Context(), "failed to write error response", "error", werr.Error())
		}
	}
}
