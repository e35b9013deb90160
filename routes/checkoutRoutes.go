package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uiaphotography/uia-api/controllers"
)

func CheckoutRoutes(server *gin.Engine) {
	server.POST("/checkout/intent", controllers.CreateCheckoutIntent)
	server.POST("/checkout/webhook", controllers.HandleStripeWebhook)
	server.GET("/checkout/total", controllers.CalculateCheckoutTotal)
}
