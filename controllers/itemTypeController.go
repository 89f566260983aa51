package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/models"
	"github.com/gin-gonic/gin"
)

func (c *Controller) CreateItemType(ctx *gin.Context) {
	var itemType models.ItemType
	if err := ctx.ShouldBindJSON(&itemType); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := itemType.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	itemType.ID = ""
	if _, err := c.ItemTypes.Create(ctx.Request.Context(), &itemType); err != nil {
		c.internalError(ctx, "error creating item type", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, itemType)
}

func (c *Controller) GetItemTypes(ctx *gin.Context) {
	types, err := c.ItemTypes.ListAll(ctx.Request.Context())
	if err != nil {
		c.internalError(ctx, "error listing item types", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"itemTypes": types})
}

func (c *Controller) DeleteItemType(ctx *gin.Context) {
	err := c.ItemTypes.Delete(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgItemTypeNotFound)
		return
	}
	if err != nil {
		c.internalError(ctx, "error deleting item type", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
