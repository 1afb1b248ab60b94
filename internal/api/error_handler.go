package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workerhub/jobboard/internal/api/middleware"
	"github.com/workerhub/jobboard/internal/api/view"
	"github.com/workerhub/jobboard/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Redirects unauthenticated callers to the login page.
//   - Answers ErrForbidden with a plain-text 403.
//   - Maps known domain errors to an error page with a fitting status.
//   - Logs unexpected errors internally and shows a generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnauthorized {
			_ = c.Redirect(http.StatusSeeOther, middleware.LoginPath)
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			_ = c.String(http.StatusForbidden, "Forbidden")
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		page := view.Page{Title: http.StatusText(code), User: middleware.CurrentUser(c), Data: msg}
		if rerr := c.Render(code, "error", page); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (router 404/405, bind failures, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(err, log, c)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, "Listing not found"
	case errors.Is(err, domain.ErrApplicationNotFound):
		return http.StatusNotFound, "Application not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "Invalid status transition"
	case errors.Is(err, domain.ErrApplicationConflict):
		return http.StatusConflict, "The application changed while you were working on it, please retry"
	case errors.Is(err, domain.ErrWorkerLimitReached):
		return http.StatusConflict, "Worker limit reached"
	case errors.Is(err, domain.ErrCapacityBelowAccepted):
		return http.StatusBadRequest, "Workers required cannot be lower than the number of accepted workers"
	case errors.Is(err, domain.ErrAlreadyApplied):
		return http.StatusBadRequest, "You have already applied to this listing"
	case errors.Is(err, domain.ErrListingClosed):
		return http.StatusBadRequest, "This listing is no longer accepting applications"
	}

	logUnhandled(err, log, c)
	return http.StatusInternalServerError, "Something went wrong"
}

func logUnhandled(err error, log zerolog.Logger, c echo.Context) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
