package api

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login logs the admin in --> POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	login := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&login); err != nil {
		return message(c, 400, "invalid request payload")
	}

	token, err := h.authService.Login(c.Request().Context(), login.Email, login.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return message(c, 401, err.Error())
		}
		return writeError(c, err)
	}

	return c.JSON(200, map[string]string{"token": token})
}

// ValidateSession checks the presented token against the stored session
// --> GET /api/auth/validate (JWT-gated)
func (h *AuthHandler) ValidateSession(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return message(c, 401, "unauthorized")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return message(c, 401, "unauthorized")
	}
	email, _ := claims["email"].(string)

	if err := h.authService.ValidateSession(c.Request().Context(), email, token.Raw); err != nil {
		return message(c, 401, err.Error())
	}

	return c.JSON(200, map[string]string{"message": "session is valid"})
}
