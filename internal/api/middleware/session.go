package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maraseel/shipping-site/internal/api/handler"
	"github.com/maraseel/shipping-site/internal/core/domain"
)

// CookieReader extracts a verified session handle from a request.
type CookieReader interface {
	Handle(r *http.Request) (string, bool)
}

// SessionReader resolves a session handle.
type SessionReader interface {
	WhoAmI(ctx context.Context, sessionHandle string) (*domain.Session, bool)
}

// Session resolves the session cookie and injects the session snapshot into
// context. Anonymous requests pass through untouched; access decisions belong
// to RequireRole.
func Session(cookies CookieReader, sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			handle, ok := cookies.Handle(c.Request())
			if !ok {
				return next(c)
			}
			if sess, ok := sessions.WhoAmI(c.Request().Context(), handle); ok {
				c.Set(handler.SessionContextKey, sess)
			}
			return next(c)
		}
	}
}
