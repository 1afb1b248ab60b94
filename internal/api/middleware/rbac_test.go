package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/workerhub/jobboard/internal/core/domain"
)

func newCtx(user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/addListing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(ctxUserKey, user)
		c.Set(ctxUserIDKey, user.ID)
	}
	return c, rec
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	c, rec := newCtx(nil)

	handler := RequireAuth()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRequireAuth_Allows(t *testing.T) {
	c, rec := newCtx(&domain.User{ID: "w1", Role: domain.RoleWorker})

	called := false
	handler := RequireAuth()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next handler to run, got %d", rec.Code)
	}
}

func TestRequireRole_Allows(t *testing.T) {
	c, rec := newCtx(&domain.User{ID: "b1", Role: domain.RoleBuilder})

	called := false
	handler := RequireRole(domain.RoleBuilder)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	cases := map[string]*domain.User{
		"worker":    {ID: "w1", Role: domain.RoleWorker},
		"anonymous": nil,
	}
	for name, user := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newCtx(user)

			handler := RequireRole(domain.RoleBuilder)(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})

			_ = handler(c)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
		})
	}
}

func TestGuardsCompose_FirstFailureWins(t *testing.T) {
	c, rec := newCtx(nil)

	handler := RequireAuth()(RequireRole(domain.RoleBuilder)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	}))

	_ = handler(c)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("anonymous caller must be redirected before the role check, got %d", rec.Code)
	}
}
