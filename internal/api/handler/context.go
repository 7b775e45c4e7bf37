package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fab1/auth-service/internal/api/middleware"
)

// ctxUsername extracts the authenticated username injected by the request
// gate. Routes using it sit behind the access policy, so a missing identity
// here means the middleware chain is misconfigured; fail closed with 401.
func ctxUsername(c echo.Context) (string, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.Username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return id.Username, nil
}
