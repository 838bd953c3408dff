package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/apperr"
)

const (
	// SubjectKey is the echo context key holding the validated token subject.
	SubjectKey = "auth_subject"
	// RoleKey is the echo context key holding the validated role.
	RoleKey = "auth_role"
)

// RequireRole guards a route with a path-embedded credential: the :token
// param must validate under the given role. On success the subject and role
// are stored on the request context for handlers.
func RequireRole(ts *TokenService, role Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Param("token")
			if token == "" || !ts.Validate(c.Request().Context(), token, role) {
				return apperr.HTTPError(apperr.ErrUnauthorized)
			}
			c.Set(SubjectKey, ts.Subject(token))
			c.Set(RoleKey, role)
			return next(c)
		}
	}
}

// RequireRoleFromParam guards routes where the expected role arrives as a
// path param (e.g. :user on the availability route) rather than being fixed
// at registration time.
func RequireRoleFromParam(ts *TokenService, roleParam string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := ParseRole(c.Param(roleParam))
			if !ok {
				return apperr.HTTPError(apperr.ErrUnauthorized)
			}
			token := c.Param("token")
			if token == "" || !ts.Validate(c.Request().Context(), token, role) {
				return apperr.HTTPError(apperr.ErrUnauthorized)
			}
			c.Set(SubjectKey, ts.Subject(token))
			c.Set(RoleKey, role)
			return next(c)
		}
	}
}

// Subject returns the validated token subject for the request, or "" when
// the route was not guarded.
func Subject(c echo.Context) string {
	if v, ok := c.Get(SubjectKey).(string); ok {
		return v
	}
	return ""
}
