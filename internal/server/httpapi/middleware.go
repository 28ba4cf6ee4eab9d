package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid or expired token"
	msgUserNotFound = "User not found"
)

type ctxKey string

const identityKey ctxKey = "identity"

// ContextWithIdentity attaches id to ctx.
func ContextWithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity RequireAuth attached.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	return id, ok
}

// RequireAuth rejects requests without a valid bearer token for an existing
// user and exposes that user to the handler through the request context.
func RequireAuth(users Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerTokenFromHeader(c.Request().Header)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, msgAuthRequired)
			}

			req := c.Request()
			identity, err := users.Authenticate(req.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
			case errors.Is(err, common.ErrorUnauthorized):
				return echo.NewHTTPError(http.StatusUnauthorized, msgUserNotFound)
			default:
				return err
			}

			c.SetRequest(req.WithContext(ContextWithIdentity(req.Context(), *identity)))
			return next(c)
		}
	}
}

// identity is for handlers mounted behind RequireAuth.
func identity(c echo.Context) (models.Identity, error) {
	id, ok := IdentityFromContext(c.Request().Context())
	if !ok {
		return models.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, msgAuthRequired)
	}
	return id, nil
}

func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil && v.Status >= http.StatusInternalServerError {
				logger.Error(c.Request().Context(), "request", append(args, "error", v.Error.Error())...)
				return nil
			}
			logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}
