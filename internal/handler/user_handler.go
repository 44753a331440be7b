package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"taskflow/internal/apperrors"
	"taskflow/internal/model"
	"taskflow/internal/service"
)

// UserHandler handles the administrator's user management endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents an admin user-creation request; the role is
// freely chosen, unlike self-registration.
type CreateUserRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=6"`
	Role         string  `json:"role" validate:"required,oneof=specialist manager admin"`
	ProfilePhoto *string `json:"profile_photo" validate:"omitempty,url,max=2048"`
}

// UpdateUserRequest represents an admin user update; a present password
// resets the credential.
type UpdateUserRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Role     string  `json:"role" validate:"required,oneof=specialist manager admin"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context(), principalFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Users loaded.", map[string][]UserView{
		"users": newUserViews(users),
	})
}

// CreateUser godoc
// @Summary Create a user with a chosen role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.CreateUser(c.Request().Context(), principalFrom(c), service.CreateUserInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         model.Role(req.Role),
		ProfilePhoto: req.ProfilePhoto,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "User created.", map[string]UserView{
		"user": newUserView(*user),
	})
}

// UpdateUser godoc
// @Summary Update a user's data and role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param request body UpdateUserRequest true "User data"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), principalFrom(c), id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     model.Role(req.Role),
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User updated.", map[string]UserView{
		"user": newUserView(*user),
	})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 409 {object} Envelope
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userService.DeleteUser(c.Request().Context(), principalFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User deleted.", nil)
}

// pathID parses a numeric path parameter, rejecting anything that is not a
// positive integer.
func pathID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("The data is not valid.", apperrors.FieldErrors{
			name: {"Must be a positive integer."},
		})
	}
	return uint(id), nil
}
