package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/models"
	"github.com/gin-gonic/gin"
)

const msgInvalidOrderStatus = "Invalid order status"

type updateOrderRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (c *Controller) GetOrders(ctx *gin.Context) {
	orders, err := c.Orders.ListAll(ctx.Request.Context())
	if err != nil {
		c.internalError(ctx, "error listing orders", err)
		return
	}

	if status := models.OrderStatus(ctx.Query("status")); status != "" {
		filtered := make([]models.Order, 0, len(orders))
		for _, order := range orders {
			if order.Status == status {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.Orders.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		return
	}
	if err != nil {
		c.internalError(ctx, "error fetching order", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

func (c *Controller) UpdateOrder(ctx *gin.Context) {
	var req updateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !req.Status.Valid() {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidOrderStatus)
		return
	}

	err := c.Orders.Update(ctx.Request.Context(), ctx.Param("id"), map[string]any{"status": req.Status})
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		return
	}
	if err != nil {
		c.internalError(ctx, "error updating order", err)
		return
	}

	c.GetOrder(ctx)
}

func (c *Controller) DeleteOrder(ctx *gin.Context) {
	err := c.Orders.Delete(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		return
	}
	if err != nil {
		c.internalError(ctx, "error deleting order", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
