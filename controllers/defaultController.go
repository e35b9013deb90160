package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the UIAPhotography API ❤️. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

PRODUCT
- POST "/product" - Create new photo product (staff)
- GET "/product" - Get all products
- GET "/product/:id" - Get product by ID
- PATCH "/product/:id/metafield" - Update photo metafield (staff)

ORDER
- POST "/order" - Create a new order
- GET "/order" - Retrieve all orders (staff)
- GET "/order/:orderId" - Get order by ID
- PATCH "/order/:orderId/shipped" - Mark order shipped (staff)
- DELETE "/order/:orderId" - Delete order by ID (staff)
- GET "/orders/undelivered" - Count undelivered orders (staff)

CHECKOUT
- POST "/checkout/intent" - Create a payment intent for a cart
- POST "/checkout/webhook" - Payment provider callback
- GET "/checkout/total" - Checkout total by order ID or customer name

EMAIL
- POST "/send-order-confirmation/:orderId" - Re-send order confirmation`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
