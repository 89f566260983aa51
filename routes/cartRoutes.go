package routes

import (
	"github.com/Kariqs/bistro-api/controllers"
	"github.com/Kariqs/bistro-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, c *controllers.Controller) {
	cart := server.Group("/cart", middlewares.RequireSession(c.JWTSecret))
	{
		cart.GET("", c.GetCart)
		cart.DELETE("", c.ClearCart)
		cart.POST("/items", c.AddToCart)
		cart.PATCH("/items/:itemId", c.UpdateCartItem)
		cart.DELETE("/items/:itemId", c.RemoveCartItem)
		cart.POST("/checkout", c.PlaceOrder)
	}
}
