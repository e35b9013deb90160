package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uiaphotography/uia-api/controllers"
	"github.com/uiaphotography/uia-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	server.POST("/order", controllers.CreateOrder)
	server.GET("/order", middlewares.RequireAdmin(), controllers.GetOrders)
	server.GET("/order/:orderId", controllers.GetOrderById)
	server.PATCH("/order/:orderId/shipped", middlewares.RequireAdmin(), controllers.MarkOrderShipped)
	server.DELETE("/order/:orderId", middlewares.RequireAdmin(), controllers.DeleteOrder)
	server.GET("/orders/undelivered", middlewares.RequireAdmin(), controllers.GetUndeliveredOrders)
	server.POST("/send-order-confirmation/:orderId", middlewares.RequireAdmin(), controllers.SendOrderConfirmation)
}
