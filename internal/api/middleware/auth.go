package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workerhub/jobboard/internal/core/domain"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "token"

const (
	ctxUserKey   = "user"
	ctxUserIDKey = "user_id"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// LoadSession attaches the caller's identity when the session cookie carries
// a valid token. Requests without a cookie pass through anonymously; a cookie
// that fails verification or lookup is cleared and the request continues
// anonymously. Access decisions are left to RequireAuth and RequireRole.
func LoadSession(auth Authenticator, secure bool, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("session rejected")
				ClearSessionCookie(c, secure)
				return next(c)
			}

			c.Set(ctxUserKey, user)
			c.Set(ctxUserIDKey, user.ID)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous callers.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(ctxUserKey).(*domain.User)
	return u
}

// CurrentUserID returns the authenticated user's id, or "" for anonymous callers.
func CurrentUserID(c echo.Context) string {
	id, _ := c.Get(ctxUserIDKey).(string)
	return id
}

// SetSessionCookie stores token in an HTTP-only cookie that expires with it.
func SetSessionCookie(c echo.Context, token string, expires time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
