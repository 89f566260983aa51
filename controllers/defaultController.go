package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (c *Controller) GetHome(ctx *gin.Context) {
	message := `Welcome to Bistro API. Browse the menu, fill a cart and place your order.

The following are the endpoints for this API:

AUTH
- POST "/auth/login" - Access user account
- POST "/auth/logout" - End the current session

MENU
- GET "/menu" - Get all menu items (optional ?type=<itemTypeId>)
- GET "/menu/:id" - Get menu item by ID
- GET "/item-types" - Get all item types

CART (login required)
- GET "/cart" - Get cart contents and totals
- POST "/cart/items" - Add an item to the cart
- PATCH "/cart/items/:itemId" - Change the quantity of a cart line
- DELETE "/cart/items/:itemId" - Remove a cart line
- DELETE "/cart" - Clear the cart
- POST "/cart/checkout" - Place the order

ADMIN
- POST "/items" - Create menu item
- PUT "/items/:id" - Update menu item
- DELETE "/items/:id" - Delete menu item
- POST "/items/:id/image" - Upload menu item image
- POST "/item-types" - Create item type
- DELETE "/item-types/:id" - Delete item type
- GET "/orders" - Retrieve all orders
- GET "/orders/:id" - Get order by ID
- PATCH "/orders/:id" - Update order status
- DELETE "/orders/:id" - Delete order by ID`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
