package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ecocart/controller/respond"
	"ecocart/dto"
	"ecocart/model"
	"ecocart/services"
)

const (
	userIDKey       = "userId"
	refreshTokenKey = "refreshToken"
)

// Authenticator validates access tokens against the live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.AccessClaims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.Request.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Result{Message: message})
}

// AccessTokenMiddleware stores the caller's userId in the context.
func AccessTokenMiddleware(tokens Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abort(c, "You must be logged in.")
			return
		}

		claims, err := tokens.Authenticate(c.Request.Context(), token)
		if err != nil {
			if services.KindOf(err) == services.KindBackend {
				respond.Error(c, err)
				c.Abort()
				return
			}
			abort(c, "Token is expired or invalid.")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// RefreshTokenMiddleware only extracts the bearer token; the session
// service validates it.
func RefreshTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abort(c, "Refresh token is missing.")
			return
		}
		c.Set(refreshTokenKey, token)
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" outside AccessTokenMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func RefreshToken(c *gin.Context) string {
	return c.GetString(refreshTokenKey)
}
