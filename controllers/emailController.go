package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uiaphotography/uia-api/initializers"
	"github.com/uiaphotography/uia-api/models"
)

// SendOrderConfirmation re-sends the confirmation email for an order. Unlike
// the best-effort send during reconciliation, a failure here is the failure
// of the request itself and is surfaced to the caller.
func SendOrderConfirmation(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var order models.Order
	if result := initializers.DB.Preload("Items").First(&order, orderId); result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		return
	}

	if err := notifier.SendConfirmation(&order); err != nil {
		log.Printf("Failed to send confirmation email for order %d: %v", orderId, err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to send email")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order confirmation email sent successfully"})
}
