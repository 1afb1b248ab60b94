package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workerhub/jobboard/internal/api/middleware"
	"github.com/workerhub/jobboard/internal/api/view"
	"github.com/workerhub/jobboard/internal/core/domain"
)

// actor returns the user attached by the session middleware. Handlers behind
// RequireAuth always have one; the 401 is a fast-fail if a route was wired
// without the guard.
func actor(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return u, nil
}

// render fills the per-request parts of p and renders the named page.
func render(c echo.Context, code int, name string, p view.Page) error {
	p.User = middleware.CurrentUser(c)
	return c.Render(code, name, p)
}

// seeOther is the redirect used after every successful form submission.
func seeOther(c echo.Context, url string) error {
	return c.Redirect(http.StatusSeeOther, url)
}
