package middleware

import (
	"log/slog"
	"strings"

	"flyhigh/internal/models"
	"flyhigh/internal/repository"
	"flyhigh/internal/service"

	"github.com/gin-gonic/gin"
)

const authUserKey = "authenticatedUser"

// TokenAuthentication is a soft authentication hook: it resolves the bearer
// token when one is present and attaches the caller to the request context.
// It never rejects a request — deciding whether identity is required belongs
// to the handlers.
func TokenAuthentication(tokens service.TokenService, users repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		userID, err := tokens.Verify(value)
		if err != nil {
			// Expired, unknown, or store trouble: proceed unauthenticated.
			logger.Debug("bearer token not resolved", "error", err)
			c.Next()
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			logger.Debug("token owner not resolved", "user_id", userID, "error", err)
			c.Next()
			return
		}

		SetAuthenticatedUser(c, user)
		c.Next()
	}
}

// SetAuthenticatedUser attaches the caller to the request context.
func SetAuthenticatedUser(c *gin.Context, user *models.User) {
	c.Set(authUserKey, user)
}

// AuthenticatedUser returns the caller attached by TokenAuthentication, if any.
func AuthenticatedUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(authUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
