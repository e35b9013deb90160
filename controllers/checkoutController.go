package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
	"github.com/stripe/stripe-go/v78/webhook"
	"github.com/uiaphotography/uia-api/checkout"
	"github.com/uiaphotography/uia-api/models"
)

// minorUnits converts pounds to the pence amounts the provider expects.
var minorUnits = decimal.NewFromInt(100)

// CreateCheckoutIntent prices the cart, opens a payment intent with the
// card processor and stages a pending CheckoutInfo keyed by the intent id.
// The shipping destination rides along in the intent metadata so the
// webhook can reconstruct it at confirmation time.
func CreateCheckoutIntent(ctx *gin.Context) {
	var req checkout.OrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	// validate and price before talking to the provider
	quote, err := ledger.PriceRequest(req)
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(quote.AmountDue.Mul(minorUnits).IntPart()),
		Currency:     stripe.String(string(stripe.CurrencyGBP)),
		ReceiptEmail: stripe.String(req.CustomerEmail),
	}
	params.AddMetadata("customer_name", req.CustomerName)
	if req.Shipping != nil {
		params.AddMetadata("country", req.Shipping.Country)
		params.AddMetadata("address_line1", req.Shipping.AddressLine1)
		params.AddMetadata("address_line2", req.Shipping.AddressLine2)
		params.AddMetadata("city", req.Shipping.City)
		params.AddMetadata("state", req.Shipping.State)
		params.AddMetadata("postal_code", req.Shipping.PostalCode)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("Failed to create payment intent: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to initiate payment")
		return
	}

	info, err := ledger.Stage(req, intent.ID)
	if err != nil {
		log.Printf("Failed to stage checkout for intent %s: %v", intent.ID, err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to stage checkout")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"clientSecret":  intent.ClientSecret,
		"transactionId": info.TransactionID,
		"amountDue":     info.AmountToBePaid,
		"currency":      info.Currency,
	})
}

// HandleStripeWebhook consumes payment confirmation callbacks. Deliveries
// are verified against the endpoint signing secret and handled
// idempotently: the same success event delivered twice reconciles at most
// one order. Responses stay generic since the caller is a machine.
func HandleStripeWebhook(ctx *gin.Context) {
	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			log.Printf("Failed to parse payment intent payload: %v", err)
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
			return
		}

		order, err := ledger.Reconcile(intent.ID, addressFromMetadata(intent.Metadata))
		if err != nil {
			if errors.Is(err, checkout.ErrCheckoutNotFound) {
				log.Printf("No checkout record for transaction %s", intent.ID)
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown transaction"})
				return
			}
			log.Printf("Failed to reconcile transaction %s: %v", intent.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"received": true, "orderId": order.ID})

	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			log.Printf("Failed to parse payment intent payload: %v", err)
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
			return
		}

		if err := ledger.Reject(intent.ID); err != nil && !errors.Is(err, checkout.ErrCheckoutNotFound) {
			log.Printf("Failed to reject transaction %s: %v", intent.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"received": true})

	default:
		ctx.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// CalculateCheckoutTotal refreshes and returns the checkout record for an
// order, addressed by order id or by customer name.
func CalculateCheckoutTotal(ctx *gin.Context) {
	var (
		info *models.CheckoutInfo
		err  error
	)

	if orderIdParam := ctx.Query("orderId"); orderIdParam != "" {
		orderId, parseErr := strconv.Atoi(orderIdParam)
		if parseErr != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid orderId")
			return
		}
		info, err = ledger.CheckoutTotalForOrder(uint(orderId))
	} else if customerName := ctx.Query("customerName"); customerName != "" {
		info, err = ledger.CheckoutTotalForCustomer(customerName)
	} else {
		sendErrorResponse(ctx, http.StatusBadRequest, "Kindly enter either an Order ID or a Customer name")
		return
	}

	if err != nil {
		log.Printf("Failed to calculate checkout total: %v", err)
		respondCheckoutError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"checkout": info})
}

func addressFromMetadata(metadata map[string]string) *models.ShippingAddress {
	if metadata["country"] == "" {
		return nil
	}
	return &models.ShippingAddress{
		Country:      metadata["country"],
		AddressLine1: metadata["address_line1"],
		AddressLine2: metadata["address_line2"],
		City:         metadata["city"],
		State:        metadata["state"],
		PostalCode:   metadata["postal_code"],
	}
}
