package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

// UserKey is the context key under which RequireSession stores the signed-in
// domain.User.
const UserKey = "user"

// RequireSession rejects the request with 401 unless a user is signed in, and
// injects that user into the context.
func RequireSession(identity ports.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := identity.CurrentUser()
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
			}
			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// SessionUser returns the user injected by RequireSession.
func SessionUser(c echo.Context) (domain.User, bool) {
	u, ok := c.Get(UserKey).(domain.User)
	return u, ok
}
