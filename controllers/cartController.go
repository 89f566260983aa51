package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Kariqs/bistro-api/cart"
	"github.com/Kariqs/bistro-api/checkout"
	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/middlewares"
	"github.com/Kariqs/bistro-api/notify"
	"github.com/gin-gonic/gin"
)

const (
	msgLoginRequired     = "Login required"
	msgUnknownIngredient = "Unknown ingredient"
	msgFailedToLoadCart  = "Unable to load cart"
	msgFailedToSaveCart  = "Unable to save cart"
)

// addToCartRequest adds Quantity units of an item, 1 when omitted.
type addToCartRequest struct {
	ItemID      string   `json:"itemId" binding:"required"`
	Quantity    *int     `json:"quantity"`
	Ingredients []string `json:"ingredients"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// cartRequest resolves the cart of the session and a context that collects
// the notices raised while serving this request.
func (c *Controller) cartRequest(ctx *gin.Context) (*cart.Store, context.Context, *notify.Recorder, bool) {
	claims, ok := middlewares.Claims(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgLoginRequired)
		return nil, nil, nil, false
	}

	rec := &notify.Recorder{}
	reqCtx := notify.NewContext(ctx.Request.Context(), rec)
	store, err := c.Carts.Get(reqCtx, claims.UserID)
	if err != nil {
		c.internalError(ctx, msgFailedToLoadCart, err)
		return nil, nil, nil, false
	}
	return store, reqCtx, rec, true
}

func cartView(store *cart.Store, rec *notify.Recorder) gin.H {
	return gin.H{
		"items":      store.Items(),
		"totalPrice": store.TotalPrice(),
		"totalItems": store.TotalItems(),
		"notices":    rec.Notices(),
	}
}

// cartMutationStatus maps a cart store error to a response status.
func cartMutationStatus(err error) int {
	switch {
	case errors.Is(err, cart.ErrInvalidItem),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrCheckoutInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) respondCartError(ctx *gin.Context, store *cart.Store, rec *notify.Recorder, err error) {
	status := cartMutationStatus(err)
	if status == http.StatusInternalServerError {
		c.logger().ErrorContext(ctx.Request.Context(), msgFailedToSaveCart, "error", err)
	}
	body := cartView(store, rec)
	body["message"] = err.Error()
	sendJSONResponse(ctx, status, body)
}

func (c *Controller) GetCart(ctx *gin.Context) {
	store, _, rec, ok := c.cartRequest(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartView(store, rec))
}

func (c *Controller) AddToCart(ctx *gin.Context) {
	var req addToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	store, reqCtx, rec, ok := c.cartRequest(ctx)
	if !ok {
		return
	}

	item, err := c.Items.GetByID(reqCtx, req.ItemID)
	if errors.Is(err, gateway.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		c.internalError(ctx, "error fetching item", err)
		return
	}

	selections := make([]cart.IngredientSelection, 0, len(req.Ingredients))
	for _, name := range req.Ingredients {
		ing, found := item.FindIngredient(name)
		if !found {
			respondWithError(ctx, http.StatusBadRequest, msgUnknownIngredient, errors.New(name))
			return
		}
		selections = append(selections, cart.IngredientSelection{Name: ing.Name, Quantity: ing.Quantity})
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := store.Add(reqCtx, item, quantity, selections); err != nil {
		c.respondCartError(ctx, store, rec, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartView(store, rec))
}

func (c *Controller) UpdateCartItem(ctx *gin.Context) {
	var req updateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	store, reqCtx, rec, ok := c.cartRequest(ctx)
	if !ok {
		return
	}

	if err := store.UpdateQuantity(reqCtx, ctx.Param("itemId"), *req.Quantity); err != nil {
		c.respondCartError(ctx, store, rec, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartView(store, rec))
}

func (c *Controller) RemoveCartItem(ctx *gin.Context) {
	store, reqCtx, rec, ok := c.cartRequest(ctx)
	if !ok {
		return
	}

	if err := store.Remove(reqCtx, ctx.Param("itemId")); err != nil {
		c.respondCartError(ctx, store, rec, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartView(store, rec))
}

func (c *Controller) ClearCart(ctx *gin.Context) {
	store, reqCtx, rec, ok := c.cartRequest(ctx)
	if !ok {
		return
	}

	if err := store.Clear(reqCtx); err != nil {
		c.respondCartError(ctx, store, rec, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cartView(store, rec))
}

func (c *Controller) PlaceOrder(ctx *gin.Context) {
	store, reqCtx, rec, ok := c.cartRequest(ctx)
	if !ok {
		return
	}

	receipt, err := c.Checkout.Place(reqCtx, store)
	switch {
	case err == nil:
		body := cartView(store, rec)
		body["receipt"] = receipt
		body["orderIds"] = receipt.OrderIDs()
		body["total"] = receipt.Total()
		sendJSONResponse(ctx, http.StatusCreated, body)
	case errors.Is(err, checkout.ErrEmptyCart):
		body := cartView(store, rec)
		body["message"] = err.Error()
		sendJSONResponse(ctx, http.StatusBadRequest, body)
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		body := cartView(store, rec)
		body["message"] = err.Error()
		sendJSONResponse(ctx, http.StatusConflict, body)
	default:
		// placement failures keep the cart; the receipt lists what was applied
		c.logger().ErrorContext(reqCtx, "checkout failed", "lines", store.Len(), "error", err)
		body := cartView(store, rec)
		body["message"] = err.Error()
		body["receipt"] = receipt
		status := http.StatusInternalServerError
		if errors.Is(err, checkout.ErrPlacementFailed) {
			status = http.StatusBadGateway
		}
		sendJSONResponse(ctx, status, body)
	}
}
