package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/apperrors"
	"taskflow/internal/service"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a self-registration request. The created user
// is always a specialist.
type RegisterRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=6"`
	ProfilePhoto *string `json:"profile_photo" validate:"omitempty,url,max=2048"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest represents a self-service profile update. The photo
// only changes when the field is present in the request.
type UpdateProfileRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	ProfilePhoto *string `json:"profile_photo" validate:"omitempty,url,max=2048"`
}

// AuthData is the data payload of register and login responses.
type AuthData struct {
	User         UserView `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// Register godoc
// @Summary Register a specialist account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	user, accessToken, refreshToken, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.ProfilePhoto)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, "Registration successful.", AuthData{
		User:         newUserView(*user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Login successful.", AuthData{
		User:         newUserView(*user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Router /refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	accessToken, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Token refreshed.", map[string]string{
		"access_token": accessToken,
	})
}

// Logout godoc
// @Summary Log out the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := claimsFrom(c)
	p := principalFrom(c)
	if claims == nil || p == nil {
		return respondError(c, apperrors.Unauthenticated())
	}

	if err := h.authService.Logout(c.Request().Context(), p.ID, claims.ID); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "You have been logged out.", nil)
}

// UpdateProfile godoc
// @Summary Update the current user's name and photo
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile data"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), principalFrom(c), req.Name, req.ProfilePhoto)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Profile updated.", map[string]UserView{
		"user": newUserView(*user),
	})
}
