package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maraseel/shipping-site/internal/api/handler"
	"github.com/maraseel/shipping-site/internal/core/domain"
)

// RequireRole enforces role-based access control on top of Session.
// No session yields 401; a session with another role yields 403.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get(handler.SessionContextKey).(*domain.Session)
			if sess == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": handler.MsgAuthRequired})
			}
			if _, ok := allowed[sess.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"message": handler.MsgAdminRequired})
			}
			return next(c)
		}
	}
}

// RequireAdmin admits admin sessions only.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
