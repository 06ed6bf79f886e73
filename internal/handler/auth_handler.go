package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"flyhigh/internal/apperr"
	"flyhigh/internal/dto"
	"flyhigh/internal/service"
	"flyhigh/internal/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users     service.UserService
	tokens    service.TokenService
	validator *validation.UserValidator
	logger    *slog.Logger
}

func NewAuthHandler(
	users service.UserService,
	tokens service.TokenService,
	validator *validation.UserValidator,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, validator: validator, logger: logger}
}

// Login authenticates credentials and issues a fresh bearer token. Each login
// issues a new token; concurrent sessions per user are allowed.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperr.Unauthorized("authentication_failure"))
		return
	}
	if !h.validator.ValidLoginRequest(req) {
		c.Error(apperr.Unauthorized("authentication_failure"))
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		c.Error(apperr.Unauthorized("authentication_failure"))
		return
	case errors.Is(err, service.ErrInactiveAccount):
		c.Error(apperr.Forbidden("inactive_authentication_failure"))
		return
	case err != nil:
		c.Error(err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    token,
	})
}

// Logout deletes the presented token if it resolves. The response is 200
// regardless, so the endpoint leaks nothing about token validity.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		value := strings.TrimPrefix(header, "Bearer ")
		if err := h.tokens.Revoke(value); err != nil {
			h.logger.Warn("token revocation failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{})
}
