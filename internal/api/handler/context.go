package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// SessionContextKey is where the session middleware stores the caller's
// *domain.Session on the echo context.
const SessionContextKey = "session"

// ctxSession extracts the session injected by the session middleware and
// performs a fast-fail check before any service call: a missing or
// anonymous session means the middleware did not run for this route.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(SessionContextKey).(*domain.Session)
	if sess == nil || sess.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, MsgAuthRequired)
	}
	return sess, nil
}
