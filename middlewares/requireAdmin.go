package middlewares

import (
	"net/http"

	"github.com/Kariqs/bistro-api/models"
	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, exists := Claims(ctx)
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}

		if claims.Role != models.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}

		ctx.Next()
	}
}
