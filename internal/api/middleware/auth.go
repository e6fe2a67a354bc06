package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/church-connect/admin-api/internal/api/metrics"
	"github.com/church-connect/admin-api/internal/core/domain"
	"github.com/church-connect/admin-api/internal/core/ports"
)

// callerKey is the echo context key under which the resolved CallerIdentity
// is stored for the duration of a single request.
const callerKey = "caller"

// Authenticate resolves the caller's identity from the Authorization header.
// Any valid credential passes, regardless of role. The identity is injected
// into the request context and discarded afterwards.
func Authenticate(guard ports.GuardService) echo.MiddlewareFunc {
	return authorize(guard, false)
}

// RequireAdmin resolves the caller's identity and rejects anyone whose role
// is not Admin. Every account-management mutation sits behind this.
func RequireAdmin(guard ports.GuardService) echo.MiddlewareFunc {
	return authorize(guard, true)
}

func authorize(guard ports.GuardService, requireAdmin bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			identity, err := guard.Authorize(c.Request().Context(), header, requireAdmin)
			if err != nil {
				metrics.AuthDecisionsTotal.WithLabelValues(decisionLabel(err)).Inc()
				return err
			}

			metrics.AuthDecisionsTotal.WithLabelValues("allowed").Inc()
			c.Set(callerKey, *identity)
			return next(c)
		}
	}
}

// Caller extracts the identity injected by Authenticate or RequireAdmin.
// The boolean is false when no authorization middleware ran on the route.
func Caller(c echo.Context) (domain.CallerIdentity, bool) {
	identity, ok := c.Get(callerKey).(domain.CallerIdentity)
	return identity, ok
}

func decisionLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, domain.ErrPermissionDenied):
		return "denied"
	default:
		return "error"
	}
}
