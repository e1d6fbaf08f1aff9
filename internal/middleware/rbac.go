package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/organic-api/internal/models"
	appErrors "github.com/noah-isme/organic-api/pkg/errors"
	"github.com/noah-isme/organic-api/pkg/response"
)

// RequireRoles lets the request through when the principal holds any of the roles.
// It must run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrAccessDenied)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrAccessDenied)
			c.Abort()
			return
		}

		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrAccessDenied)
		c.Abort()
	}
}
