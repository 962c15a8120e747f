package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"garage/internal/auth"
	"garage/internal/errors"
	"garage/internal/service"
)

// UserHandler serves the signed-in user's account.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// MeResponse is the public profile of the signed-in user.
type MeResponse struct {
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Role      string `json:"role" example:"user"`
	PhotoName string `json:"photo_name"`
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return fail(errors.ErrNotAuthenticated)
	}
	return c.JSON(http.StatusOK, MeResponse{
		Email:     user.Email,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Role:      user.Role,
		PhotoName: user.PhotoName,
	})
}

// Delete godoc
// @Summary Delete the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OKResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/delete [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return fail(errors.ErrNotAuthenticated)
	}
	claims, _ := auth.ClaimsFromContext(c)

	if err := h.svc.DeleteSelf(c.Request().Context(), user, claims, requestMeta(c)); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, OKResponse{OK: true})
}
