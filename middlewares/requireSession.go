package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/bistro-api/utils"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie holds the access token issued at login.
	SessionCookie = "accessToken"
	claimsKey     = "claims"
)

func sessionToken(ctx *gin.Context) string {
	if header := ctx.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := ctx.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// SessionClaims validates the session token of the request, if any, without
// rejecting the request.
func SessionClaims(ctx *gin.Context, secret string) (*utils.Claims, bool) {
	token := sessionToken(ctx)
	if token == "" {
		return nil, false
	}
	claims, err := utils.ValidateToken(secret, token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// RequireSession lets the request through only when it carries a valid
// session token, and stores its claims on the context.
func RequireSession(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := sessionToken(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Login required"})
			return
		}
		claims, err := utils.ValidateToken(secret, token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session expired, please log in again"})
			return
		}
		ctx.Set(claimsKey, claims)
		ctx.Next()
	}
}

// Claims returns the session claims stored by RequireSession.
func Claims(ctx *gin.Context) (*utils.Claims, bool) {
	value, exists := ctx.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.Claims)
	return claims, ok
}
