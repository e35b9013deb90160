package controllers

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uiaphotography/uia-api/checkout"
	"github.com/uiaphotography/uia-api/initializers"
	"github.com/uiaphotography/uia-api/models"
)

// CreateOrder is the synchronous order-placement path: the cart is
// normalized, priced and persisted in one step without a staged payment
// intent. Validation failures reject the request before any row is written.
func CreateOrder(ctx *gin.Context) {
	var req checkout.OrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	order, err := ledger.FinalizeDirect(req)
	if err != nil {
		log.Printf("Failed to create order: %v", err)
		respondCheckoutError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("Items").Preload("Shipping")

	if search := ctx.Query("search"); search != "" {
		query = query.Where("id LIKE ?", "%"+search+"%")
	}

	query = query.Order("created_at " + sortOrder)

	result := query.Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("id LIKE ?", "%"+search+"%")
	}
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

func GetOrderById(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var order models.Order
	result := initializers.DB.Preload("Items").Preload("Shipping").Preload("ShippingInfo").
		First(&order, orderId)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusNotFound, msgOrderNotFound)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// MarkOrderShipped records carrier tracking details and flips the order's
// fulfillment state. Staff action; the customer email is best-effort.
func MarkOrderShipped(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var trackingInfo models.ShippingInfo
	if err := ctx.ShouldBindJSON(&trackingInfo); err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	order, err := ledger.MarkShipped(uint(orderId), trackingInfo)
	if err != nil {
		log.Printf("Failed to mark order %d shipped: %v", orderId, err)
		respondCheckoutError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order marked as shipped.",
		"order":   order,
	})
}

func DeleteOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	// OrderItems, Shipping and ShippingInfo cascade at the database level
	if result := initializers.DB.Delete(&models.Order{}, orderId); result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to delete order.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}

func GetUndeliveredOrders(ctx *gin.Context) {
	var count int64

	result := initializers.DB.
		Model(&models.Order{}).
		Where("fulfillment_state != ? AND payment_state IN ?",
			models.FulfillmentDelivered,
			[]models.PaymentState{models.PaymentOrdered, models.PaymentSucceeded}).
		Count(&count)

	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count undelivered orders"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"undeliveredOrderCount": count})
}
