package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/middlewares"
	"github.com/Kariqs/bistro-api/models"
	"github.com/Kariqs/bistro-api/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials    = "invalid email or password"
	msgFailedToGenerateToken = "failed to generate token"
	msgLoggedOut             = "Logged out"
)

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (c *Controller) Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := c.Users.FindByEmail(ctx.Request.Context(), loginData.Email)
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		c.internalError(ctx, "error looking up user", err)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(c.JWTSecret, user, c.TokenTTL)
	if err != nil {
		c.logger().ErrorContext(ctx.Request.Context(), "error signing token", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middlewares.SessionCookie, token, int(c.TokenTTL.Seconds()), "/", "", false, true)
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (c *Controller) Logout(ctx *gin.Context) {
	// the cart stays in its mirror; only the in-memory copy is released
	if claims, ok := middlewares.SessionClaims(ctx, c.JWTSecret); ok {
		c.Carts.Forget(claims.UserID)
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middlewares.SessionCookie, "", -1, "/", "", false, true)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLoggedOut})
}
