package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workerhub/jobboard/internal/api/metrics"
	"github.com/workerhub/jobboard/internal/api/middleware"
	"github.com/workerhub/jobboard/internal/api/view"
	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	secureCookie bool
	log          zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, secureCookie bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie, log: log}
}

// LoginForm renders GET /login.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, "user/login", view.Page{Title: "Log in"})
}

// Login handles POST /login: on success the session cookie is set and the
// user lands on the index page; failures re-render the form.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.loginFailed(c, http.StatusBadRequest, form, "Invalid form")
	}

	session, _, err := h.authService.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("unknown_user").Inc()
			return h.loginFailed(c, http.StatusUnauthorized, form, "User not found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
			return h.loginFailed(c, http.StatusUnauthorized, form, "Invalid credentials")
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Str("username", form.Username).Msg("login failed")
		return h.loginFailed(c, http.StatusInternalServerError, form, "server error")
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secureCookie)
	return seeOther(c, "/")
}

// SignupForm renders GET /signup.
func (h *AuthHandler) SignupForm(c echo.Context) error {
	return render(c, http.StatusOK, "user/signup", view.Page{Title: "Sign up"})
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c echo.Context) error {
	var form signupForm
	if err := c.Bind(&form); err != nil {
		return h.signupFailed(c, http.StatusBadRequest, form, "Invalid form")
	}

	role := form.Role
	if _, err := domain.ParseRole(role); err != nil {
		role = "unknown"
	}

	session, user, err := h.authService.Signup(c.Request().Context(), form.Username, form.Password, form.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			metrics.SignupsTotal.WithLabelValues(role, "invalid").Inc()
			return h.signupFailed(c, http.StatusBadRequest, form, "Missing fields")
		case errors.Is(err, domain.ErrInvalidRole):
			metrics.SignupsTotal.WithLabelValues(role, "invalid").Inc()
			return h.signupFailed(c, http.StatusBadRequest, form, "Invalid role")
		case errors.Is(err, domain.ErrUserExists):
			metrics.SignupsTotal.WithLabelValues(role, "exists").Inc()
			return h.signupFailed(c, http.StatusConflict, form, "User already exists")
		}
		metrics.SignupsTotal.WithLabelValues(role, "error").Inc()
		h.log.Error().Err(err).Str("username", form.Username).Msg("signup failed")
		return h.signupFailed(c, http.StatusInternalServerError, form, "server error")
	}

	metrics.SignupsTotal.WithLabelValues(string(user.Role), "ok").Inc()
	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secureCookie)
	return seeOther(c, "/")
}

// Logout handles GET /logout. The cookie is always cleared, even when the
// token could not be revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.log.Warn().Err(err).Msg("session revocation failed")
		}
	}
	middleware.ClearSessionCookie(c, h.secureCookie)
	return seeOther(c, "/login")
}

func (h *AuthHandler) loginFailed(c echo.Context, code int, form loginForm, msg string) error {
	form.Password = ""
	return render(c, code, "user/login", view.Page{Title: "Log in", Error: msg, Data: form})
}

func (h *AuthHandler) signupFailed(c echo.Context, code int, form signupForm, msg string) error {
	form.Password = ""
	return render(c, code, "user/signup", view.Page{Title: "Sign up", Error: msg, Data: form})
}
