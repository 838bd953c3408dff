package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newGuardedContext(paramNames, paramValues []string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	return c, rec
}

func TestRequireRole(t *testing.T) {
	ts := NewTokenService([]byte("test-secret"), time.Hour)
	ts.RegisterResolver(RoleDoctor, func(ctx context.Context, subject string) (bool, error) {
		return subject == "doc@example.com", nil
	})

	token, err := ts.Issue("doc@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := RequireRole(ts, RoleDoctor)(func(c echo.Context) error {
		if got := Subject(c); got != "doc@example.com" {
			t.Errorf("Subject in handler = %q, want doc@example.com", got)
		}
		return c.NoContent(http.StatusOK)
	})

	c, rec := newGuardedContext([]string{"token"}, []string{token})
	if err := handler(c); err != nil {
		t.Fatalf("handler with valid token: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	c, _ = newGuardedContext([]string{"token"}, []string{"bogus"})
	err = handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("handler with bad token: got %v, want 401", err)
	}

	c, _ = newGuardedContext(nil, nil)
	err = handler(c)
	he, ok = err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("handler with missing token: got %v, want 401", err)
	}
}

func TestRequireRoleFromParam(t *testing.T) {
	ts := NewTokenService([]byte("test-secret"), time.Hour)
	ts.RegisterResolver(RolePatient, func(ctx context.Context, subject string) (bool, error) {
		return subject == "pat@example.com", nil
	})

	token, err := ts.Issue("pat@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := RequireRoleFromParam(ts, "user")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, rec := newGuardedContext([]string{"user", "token"}, []string{"patient", token})
	if err := handler(c); err != nil {
		t.Fatalf("handler with valid role param: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	// Valid token but the role param names a role the subject does not hold.
	c, _ = newGuardedContext([]string{"user", "token"}, []string{"doctor", token})
	err = handler(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("handler with mismatched role: got %v, want 401", err)
	}

	c, _ = newGuardedContext([]string{"user", "token"}, []string{"wizard", token})
	err = handler(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("handler with unknown role: got %v, want 401", err)
	}
}
