package middleware

import (
	"context"
	"net/http"
	"strings"

	"inventory-billing/apperrors"
	"inventory-billing/models"
	"inventory-billing/utils"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
	claimsKey    = "claims"
)

// TokenAuthenticator validates a bearer token.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
}

func AuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenParts[1])
		if err != nil {
			status := apperrors.HTTPStatus(err)
			c.AbortWithStatusJSON(status, models.ErrorResponse{
				Success: false,
				Message: apperrors.Message(err),
				Error:   string(apperrors.KindOf(err)),
			})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Message: message,
		Error:   string(apperrors.KindUnauthorized),
	})
}

// CurrentUser returns the identity AuthMiddleware attached to the request.
func CurrentUser(c *gin.Context) (models.AuthUser, bool) {
	claims, ok := CurrentClaims(c)
	if !ok {
		return models.AuthUser{}, false
	}
	return models.AuthUser{ID: claims.UserID, Email: claims.Email}, true
}

func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.Claims)
	return claims, ok
}
