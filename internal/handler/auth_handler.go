package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"vlabgallery/internal/auth"
	apperrors "vlabgallery/internal/errors"
	"vlabgallery/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and its role.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} errors.MsgResponse
// @Failure 400 {object} errors.MsgResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := auth.RoleUser
	if req.Role != "" {
		role, _ = auth.ParseRole(req.Role) // validated above
	}

	_, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		if err == service.ErrUserAlreadyExists {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return apperrors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusCreated, apperrors.MsgResponse{Msg: "User registered successfully"})
}

// Login godoc
// @Summary Login and receive a role-scoped token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.MsgResponse
// @Failure 401 {object} errors.MsgResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, role, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return apperrors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, Role: role.String()})
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.MsgResponse
// @Failure 401 {object} errors.MsgResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	// The guard already validated this header; extract the raw token again
	// so the service can denylist its jti.
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
	}

	if err := h.authService.Logout(c.Request().Context(), parts[1]); err != nil {
		if err == service.ErrInvalidToken {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return apperrors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, apperrors.MsgResponse{Msg: "Logged out successfully"})
}
