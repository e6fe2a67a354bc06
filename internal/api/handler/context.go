package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-connect/admin-api/internal/api/middleware"
	"github.com/church-connect/admin-api/internal/core/domain"
)

// ctxCaller extracts the CallerIdentity injected by the auth middleware and
// fast-fails before any service call. A missing identity means the route was
// registered without the middleware — treat it as unauthenticated rather
// than proceed unguarded.
func ctxCaller(c echo.Context) (domain.CallerIdentity, error) {
	caller, ok := middleware.Caller(c)
	if !ok {
		return domain.CallerIdentity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return caller, nil
}
