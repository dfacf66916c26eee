package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
)

// AdminHandler serves the admin dashboard. Every route sits behind
// middleware.RequireAdmin.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// Stats returns account counters.
//
// @Summary      Account statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.UserStats
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, MsgStatsFailed).SetInternal(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers returns all accounts, newest first.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, MsgUsersFailed).SetInternal(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes an account.
//
// @Summary      Delete an account
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	email, err := h.service.DeleteUser(c.Request().Context(), sess.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrSelfModification) {
			return echo.NewHTTPError(http.StatusBadRequest, MsgSelfDelete)
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("User %s deleted successfully", email),
	})
}

// ChangeRole sets the role of an account.
//
// @Summary      Change an account role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Account id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/admin/users/{id}/role [patch]
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidRole
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrInvalidRole
	}

	email, err := h.service.ChangeRole(c.Request().Context(), sess.UserID, c.Param("id"), req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrSelfModification) {
			return echo.NewHTTPError(http.StatusBadRequest, MsgSelfRoleChange)
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("User %s role changed to %s", email, req.Role),
	})
}
