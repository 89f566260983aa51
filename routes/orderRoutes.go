package routes

import (
	"github.com/Kariqs/bistro-api/controllers"
	"github.com/Kariqs/bistro-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, c *controllers.Controller) {
	orders := server.Group("/orders", middlewares.RequireSession(c.JWTSecret), middlewares.RequireAdmin())
	{
		orders.GET("", c.GetOrders)
		orders.GET("/:id", c.GetOrder)
		orders.PATCH("/:id", c.UpdateOrder)
		orders.DELETE("/:id", c.DeleteOrder)
	}
}
