package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workerhub/jobboard/internal/core/domain"
)

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login"

// RequireAuth redirects anonymous callers to the login page.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control. Anonymous callers are
// refused as well.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return c.String(http.StatusForbidden, "Forbidden")
			}
			if _, ok := allowed[user.Role]; !ok {
				return c.String(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}
