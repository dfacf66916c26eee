package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maraseel/shipping-site/internal/api/handler"
	"github.com/maraseel/shipping-site/internal/core/domain"
)

// errorResponse is the error envelope of the auth and admin API.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes and fixed messages.
//   - Logs 5xx causes internally without leaking them to the client.
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, handler.MsgWeakPassword
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, handler.MsgPasswordTooLong
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, handler.MsgEmailTaken
	case errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusBadRequest, handler.MsgInvalidResetToken
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, handler.MsgInvalidRole
	case errors.Is(err, domain.ErrSelfModification):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, handler.MsgInvalidInput
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.MsgInvalidCredentials
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, handler.MsgAuthRequired
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, handler.MsgAdminRequired
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, handler.MsgUserNotFound
	case errors.Is(err, domain.ErrShipmentNotFound):
		return http.StatusNotFound, handler.MsgShipmentNotFound
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, "internal server error"
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
