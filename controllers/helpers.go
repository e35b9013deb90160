package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uiaphotography/uia-api/checkout"
)

const (
	// Standard response messages
	msgInvalidRequestBody    = "Invalid request body"
	msgProductNotFound       = "Product not found"
	msgOrderNotFound         = "Order not found"
	msgDuplicateProductTitle = "A product under this title already exists. Please try another title"
	msgInternalServerError   = "Internal server error"
)

var (
	ledger   *checkout.Ledger
	notifier checkout.Notifier
)

// Configure wires the shared ledger and notifier into the handlers. Called
// once from main after the database connection is up.
func Configure(l *checkout.Ledger, n checkout.Notifier) {
	ledger = l
	notifier = n
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// respondCheckoutError maps the ledger's error taxonomy onto HTTP statuses:
// validation failures are 4xx with a descriptive message, everything else is
// a 500.
func respondCheckoutError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrMissingShipping):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrProductNotFound),
		errors.Is(err, checkout.ErrOrderNotFound),
		errors.Is(err, checkout.ErrCheckoutNotFound),
		errors.Is(err, checkout.ErrOrderHasNoItems):
		sendErrorResponse(ctx, http.StatusNotFound, err.Error())
	default:
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
	}
}
