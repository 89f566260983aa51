package routes

import (
	"github.com/Kariqs/bistro-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/", c.GetHome)
}

// Register mounts every route of the API on server.
func Register(server *gin.Engine, c *controllers.Controller) {
	DefaultRoutes(server, c)
	AuthRoutes(server, c)
	ItemRoutes(server, c)
	CartRoutes(server, c)
	OrderRoutes(server, c)
}
