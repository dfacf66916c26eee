package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
)

// SessionCookies encodes session handles into browser cookies and back.
type SessionCookies interface {
	New(handle string, tls bool) (*http.Cookie, error)
	Clear(tls bool) *http.Cookie
	Handle(r *http.Request) (string, bool)
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     SessionCookies
}

func NewAuthHandler(authService ports.AuthService, cookies SessionCookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Signup creates a new account with role "user".
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Email and password"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgCredentialsMissing)
	}
	if err := c.Validate(&req); err != nil {
		if hasTag(err, "email", "email") {
			return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidEmail)
		}
		return echo.NewHTTPError(http.StatusBadRequest, MsgCredentialsMissing)
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return orFail(err, MsgSignupFailed)
	}

	return c.JSON(http.StatusCreated, signupResponse{
		Message: MsgSignupOK,
		User:    accountView{ID: user.ID, Email: user.Email},
	})
}

// Login verifies credentials and starts a cookie session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidCredentials
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return orFail(err, MsgInvalidCredentials)
	}

	cookie, err := h.cookies.New(res.SessionHandle, c.IsTLS())
	if err != nil {
		_ = h.authService.Logout(c.Request().Context(), res.SessionHandle)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInvalidCredentials).SetInternal(err)
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, loginResponse{
		Message: MsgLoginOK,
		User:    accountView{ID: res.User.ID, Email: res.User.Email, Role: res.User.Role},
	})
}

// Logout ends the current session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	handle, _ := h.cookies.Handle(c.Request())
	c.SetCookie(h.cookies.Clear(c.IsTLS()))

	if err := h.authService.Logout(c.Request().Context(), handle); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, MsgLogoutFailed).SetInternal(err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: MsgLogoutOK})
}

// Me reports the account bound to the current session, if any.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	handle, ok := h.cookies.Handle(c.Request())
	if !ok {
		return c.JSON(http.StatusOK, meResponse{Authenticated: false})
	}
	sess, ok := h.authService.WhoAmI(c.Request().Context(), handle)
	if !ok {
		return c.JSON(http.StatusOK, meResponse{Authenticated: false})
	}
	return c.JSON(http.StatusOK, meResponse{
		Authenticated: true,
		User:          &accountView{ID: sess.UserID, Email: sess.Email, Role: sess.Role},
	})
}

// ForgotPassword issues a reset link. The response is the same whether or
// not the email belongs to an account.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  forgotPasswordResponse
// @Failure      400   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgEmailRequired)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgEmailRequired)
	}

	res, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return orFail(err, MsgForgotFailed)
	}

	return c.JSON(http.StatusOK, forgotPasswordResponse{
		Message: MsgForgotOK,
		DevLink: res.DevLink,
	})
}

// ResetPassword redeems a reset token and replaces the account password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgResetMissing)
	}

	err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, messageResponse{Message: MsgResetOK})
	case errors.Is(err, domain.ErrWeakPassword):
		return echo.NewHTTPError(http.StatusBadRequest, MsgResetWeakPassword)
	case errors.Is(err, domain.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, MsgResetMissing)
	}
	return orFail(err, MsgResetFailed)
}

// orFail passes client-facing domain errors through to the error handler and
// turns anything else into a 500 carrying the operation's fallback message.
func orFail(err error, fallback string) error {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
}

var clientErrors = []error{
	domain.ErrValidation,
	domain.ErrWeakPassword,
	domain.ErrPasswordTooLong,
	domain.ErrEmailTaken,
	domain.ErrInvalidCredentials,
	domain.ErrInvalidResetToken,
	domain.ErrUnauthenticated,
	domain.ErrForbidden,
	domain.ErrUserNotFound,
	domain.ErrSelfModification,
	domain.ErrInvalidRole,
}
