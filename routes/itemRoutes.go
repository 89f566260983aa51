package routes

import (
	"github.com/Kariqs/bistro-api/controllers"
	"github.com/Kariqs/bistro-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ItemRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/menu", c.GetMenu)
	server.GET("/menu/:id", c.GetMenuItem)
	server.GET("/item-types", c.GetItemTypes)

	admin := server.Group("/", middlewares.RequireSession(c.JWTSecret), middlewares.RequireAdmin())
	{
		admin.POST("/items", c.CreateItem)
		admin.PUT("/items/:id", c.UpdateItem)
		admin.DELETE("/items/:id", c.DeleteItem)
		admin.POST("/items/:id/image", c.UploadItemImage)
		admin.POST("/item-types", c.CreateItemType)
		admin.DELETE("/item-types/:id", c.DeleteItemType)
	}
}
