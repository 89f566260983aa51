package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Kariqs/bistro-api/cart"
	"github.com/Kariqs/bistro-api/checkout"
	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/models"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidInput        = "Invalid input"
	msgInternalServerError = "Internal server error"
	msgItemNotFound        = "Item not found"
	msgItemTypeNotFound    = "Item type not found"
	msgOrderNotFound       = "Order not found"
)

// ImageStore uploads item images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// Controller holds everything the HTTP handlers depend on.
type Controller struct {
	Items     gateway.Collection[models.Item]
	ItemTypes gateway.Collection[models.ItemType]
	Orders    gateway.Collection[models.Order]
	Users     *gateway.Users
	Carts     *cart.Sessions
	Checkout  *checkout.Workflow
	// Images is nil when uploads are not configured.
	Images    ImageStore
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *slog.Logger
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// respondWithError also reports the underlying error to the caller.
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func (c *Controller) internalError(ctx *gin.Context, msg string, err error) {
	c.logger().ErrorContext(ctx.Request.Context(), msg, "path", ctx.FullPath(), "error", err)
	sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
}
