package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	msgUnknownItemType  = "Unknown item type"
	msgNothingToUpdate  = "No fields to update"
	msgUploadsDisabled  = "Image uploads are not configured"
	msgNoFileUploaded   = "No file uploaded"
	msgFailedToUpload   = "Failed to upload image"
	maxImageUploadBytes = 5 << 20
)

// updateItemRequest carries the fields of a partial item update. Nil fields
// are left unchanged.
type updateItemRequest struct {
	Name        *string              `json:"name"`
	Type        *string              `json:"type"`
	Price       *decimal.Decimal     `json:"price"`
	ImgURL      *string              `json:"imgUrl"`
	Quantity    *int                 `json:"quantity"`
	Ingredients *[]models.Ingredient `json:"ingredients"`
	Description *string              `json:"description"`
}

func (r updateItemRequest) fields() (map[string]any, error) {
	fields := make(map[string]any)
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return nil, models.ErrMissingName
		}
		fields["name"] = *r.Name
	}
	if r.Type != nil {
		if strings.TrimSpace(*r.Type) == "" {
			return nil, models.ErrMissingType
		}
		fields["type"] = *r.Type
	}
	if r.Price != nil {
		if r.Price.IsNegative() {
			return nil, models.ErrNegativePrice
		}
		fields["price"] = *r.Price
	}
	if r.ImgURL != nil {
		fields["img_url"] = *r.ImgURL
	}
	if r.Quantity != nil {
		if *r.Quantity < 0 {
			return nil, models.ErrNegativeQuantity
		}
		fields["quantity"] = *r.Quantity
	}
	if r.Ingredients != nil {
		fields["ingredients"] = datatypes.JSONSlice[models.Ingredient](*r.Ingredients)
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	return fields, nil
}

// checkItemType answers 400 and returns false when typeID names no item type.
func (c *Controller) checkItemType(ctx *gin.Context, typeID string) bool {
	_, err := c.ItemTypes.GetByID(ctx.Request.Context(), typeID)
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUnknownItemType)
		return false
	}
	if err != nil {
		c.internalError(ctx, "error validating item type", err)
		return false
	}
	return true
}

func (c *Controller) GetMenu(ctx *gin.Context) {
	items, err := c.Items.ListAll(ctx.Request.Context())
	if err != nil {
		c.internalError(ctx, "error listing items", err)
		return
	}

	typeID := ctx.Query("type")
	search := strings.ToLower(ctx.Query("search"))
	filtered := make([]models.Item, 0, len(items))
	for _, item := range items {
		if typeID != "" && item.Type != typeID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		filtered = append(filtered, item)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"items": filtered})
}

func (c *Controller) GetMenuItem(ctx *gin.Context) {
	item, err := c.Items.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		c.internalError(ctx, "error fetching item", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, item)
}

func (c *Controller) CreateItem(ctx *gin.Context) {
	var item models.Item
	if err := ctx.ShouldBindJSON(&item); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := item.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	if !c.checkItemType(ctx, item.Type) {
		return
	}

	item.ID = ""
	if _, err := c.Items.Create(ctx.Request.Context(), &item); err != nil {
		c.internalError(ctx, "error creating item", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, item)
}

func (c *Controller) UpdateItem(ctx *gin.Context) {
	var req updateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	if len(fields) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgNothingToUpdate)
		return
	}
	if req.Type != nil && !c.checkItemType(ctx, *req.Type) {
		return
	}

	id := ctx.Param("id")
	if err := c.Items.Update(ctx.Request.Context(), id, fields); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgItemNotFound)
			return
		}
		c.internalError(ctx, "error updating item", err)
		return
	}

	c.GetMenuItem(ctx)
}

func (c *Controller) DeleteItem(ctx *gin.Context) {
	err := c.Items.Delete(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		c.internalError(ctx, "error deleting item", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) UploadItemImage(ctx *gin.Context) {
	if c.Images == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, msgUploadsDisabled)
		return
	}

	id := ctx.Param("id")
	if _, err := c.Items.GetByID(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgItemNotFound)
			return
		}
		c.internalError(ctx, "error fetching item", err)
		return
	}

	header, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgNoFileUploaded, err)
		return
	}
	if header.Size > maxImageUploadBytes {
		sendErrorResponse(ctx, http.StatusRequestEntityTooLarge, "Image is too large")
		return
	}
	file, err := header.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgNoFileUploaded, err)
		return
	}
	defer file.Close()

	// unique key so a new upload never overwrites a cached image
	key := fmt.Sprintf("items/%s/%s%s", id, uuid.NewString(), strings.ToLower(filepath.Ext(header.Filename)))
	url, err := c.Images.Upload(ctx.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		c.logger().ErrorContext(ctx.Request.Context(), "error uploading image", "item_id", id, "file", header.Filename, "error", err)
		sendErrorResponse(ctx, http.StatusBadGateway, msgFailedToUpload)
		return
	}

	if err := c.Items.Update(ctx.Request.Context(), id, map[string]any{"img_url": url}); err != nil {
		c.internalError(ctx, "error saving image url", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Image uploaded",
		"imgUrl":  url,
	})
}
