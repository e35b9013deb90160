package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uiaphotography/uia-api/controllers"
	"github.com/uiaphotography/uia-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	server.POST("/product", middlewares.RequireAdmin(), controllers.CreateProduct)
	server.GET("/product", controllers.GetProducts)
	server.GET("/product/:id", controllers.GetProduct)
	server.PATCH("/product/:id/metafield", middlewares.RequireAdmin(), controllers.UpdateProductMetafield)
}
