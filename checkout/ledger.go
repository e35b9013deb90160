package checkout

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uiaphotography/uia-api/models"
	"github.com/uiaphotography/uia-api/pricing"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Currency is the only currency the shop charges in.
const Currency = "GBP"

// Ledger owns the CheckoutInfo lifecycle: staging a pending record when a
// payment intent is created, reconciling it into an order once the provider
// confirms payment, and the synchronous direct-order path.
type Ledger struct {
	db       *gorm.DB
	engine   *pricing.Engine
	notifier Notifier
}

func NewLedger(db *gorm.DB, engine *pricing.Engine, notifier Notifier) *Ledger {
	return &Ledger{db: db, engine: engine, notifier: notifier}
}

// OrderRequest is a customer's cart submission.
type OrderRequest struct {
	CustomerName  string                  `json:"customerName" binding:"required"`
	CustomerEmail string                  `json:"customerEmail" binding:"required,email"`
	Phone         string                  `json:"phone"`
	Items         []CartItem              `json:"items"`
	Shipping      *models.ShippingAddress `json:"shipping"`
	ServiceLevel  string                  `json:"serviceLevel"`
}

// Quote is a priced cart before anything is written or sent to the payment
// provider.
type Quote struct {
	Items       []models.OrderItem
	Products    map[uint]models.Product
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	AmountDue   decimal.Decimal
	HasPhysical bool
}

// PriceRequest normalizes and prices a cart without side effects. All
// request validation happens here, before any row is written or any provider
// call is made.
func (l *Ledger) PriceRequest(req OrderRequest) (*Quote, error) {
	merged, products, err := NormalizeCart(l.db, req.Items)
	if err != nil {
		return nil, err
	}

	hasPhysical := hasPhysicalItems(merged)
	if hasPhysical && (req.Shipping == nil || req.Shipping.Country == "") {
		return nil, ErrMissingShipping
	}

	country := ""
	if req.Shipping != nil {
		country = req.Shipping.Country
	}
	fee, tax := l.engine.PriceCart(toPricingItems(merged, products), country, req.ServiceLevel)
	subtotal := itemsSubtotal(merged)

	return &Quote{
		Items:       merged,
		Products:    products,
		Subtotal:    subtotal,
		ShippingFee: fee,
		Tax:         tax,
		AmountDue:   subtotal.Add(fee).Add(tax),
		HasPhysical: hasPhysical,
	}, nil
}

// Stage persists a pending CheckoutInfo for a provider transaction id,
// together with the provisional order items and the staged shipping
// address. No order exists yet; the items are linked to the ledger record.
func (l *Ledger) Stage(req OrderRequest, transactionID string) (*models.CheckoutInfo, error) {
	quote, err := l.PriceRequest(req)
	if err != nil {
		return nil, err
	}

	serviceLevel := req.ServiceLevel
	if serviceLevel == "" {
		serviceLevel = pricing.ServiceStandard
	}

	var staged datatypes.JSON
	if req.Shipping != nil {
		raw, err := json.Marshal(req.Shipping)
		if err != nil {
			return nil, err
		}
		staged = raw
	}

	info := models.CheckoutInfo{
		CustomerName:   req.CustomerName,
		Email:          req.CustomerEmail,
		Phone:          req.Phone,
		AmountToBePaid: quote.AmountDue,
		AmountPaid:     decimal.Zero,
		Currency:       Currency,
		PaymentStatus:  models.PaymentPending,
		TransactionID:  transactionID,
		ShippingFee:    quote.ShippingFee,
		Tax:            quote.Tax,
		ServiceLevel:   serviceLevel,
		StagedAddress:  staged,
		CollectedAt:    time.Now(),
		Items:          quote.Items,
	}
	if err := l.db.Create(&info).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

// Reconcile turns a succeeded payment into a persisted order, exactly once
// per transaction id. A duplicate delivery returns the already-created order
// unchanged. The CheckoutInfo row is locked for the duration of the
// transaction so concurrent deliveries of the same event serialize instead
// of both observing a null order id.
//
// addr, when non-nil, is the destination round-tripped through the
// provider's metadata; it takes precedence over the staged address.
func (l *Ledger) Reconcile(transactionID string, addr *models.ShippingAddress) (*models.Order, error) {
	var order *models.Order
	fresh := false

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var info models.CheckoutInfo
		query := tx.Where("transaction_id = ?", transactionID)
		// sqlite serializes writers on its own and rejects FOR UPDATE
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := query.First(&info).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCheckoutNotFound
			}
			return err
		}

		if info.OrderID != nil {
			existing, err := loadOrder(tx, *info.OrderID)
			if err != nil {
				return err
			}
			order = existing
			return nil
		}

		var items []models.OrderItem
		if err := tx.Where("checkout_info_id = ?", info.ID).Order("id").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrOrderHasNoItems
		}

		total := itemsSubtotal(items).Add(info.ShippingFee).Add(info.Tax)
		newOrder := models.Order{
			CustomerName:     info.CustomerName,
			CustomerEmail:    info.Email,
			Phone:            info.Phone,
			PaymentState:     models.PaymentSucceeded,
			FulfillmentState: models.FulfillmentPending,
			OrderTotal:       total,
		}
		if err := tx.Create(&newOrder).Error; err != nil {
			return err
		}

		// promote the provisional items onto the new order
		if err := tx.Model(&models.OrderItem{}).
			Where("checkout_info_id = ?", info.ID).
			Update("order_id", newOrder.ID).Error; err != nil {
			return err
		}

		if hasPhysicalItems(items) {
			dest := addr
			if dest == nil {
				dest = info.DecodedAddress()
			}
			if dest == nil {
				return ErrMissingShipping
			}
			shipping := models.Shipping{
				OrderID:      newOrder.ID,
				Country:      dest.Country,
				CountryCode:  pricing.NormalizeCountry(dest.Country),
				AddressLine1: dest.AddressLine1,
				AddressLine2: dest.AddressLine2,
				City:         dest.City,
				State:        dest.State,
				PostalCode:   dest.PostalCode,
				ShippingFee:  info.ShippingFee,
				Tax:          info.Tax,
			}
			if err := tx.Create(&shipping).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&info).Updates(map[string]any{
			"order_id":       newOrder.ID,
			"payment_status": models.PaymentSucceeded,
			"amount_paid":    info.AmountToBePaid,
		}).Error; err != nil {
			return err
		}

		created, err := loadOrder(tx, newOrder.ID)
		if err != nil {
			return err
		}
		order = created
		fresh = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if fresh && l.notifier != nil {
		if err := l.notifier.SendConfirmation(order); err != nil {
			log.Printf("order %d reconciled, but confirmation email failed: %v", order.ID, err)
		}
	}
	return order, nil
}

// Reject marks a pending checkout failed. No order is created or touched;
// rejecting an already-reconciled or already-failed record is a no-op.
func (l *Ledger) Reject(transactionID string) error {
	result := l.db.Model(&models.CheckoutInfo{}).
		Where("transaction_id = ? AND order_id IS NULL", transactionID).
		Update("payment_status", models.PaymentFailed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := l.db.Model(&models.CheckoutInfo{}).
			Where("transaction_id = ?", transactionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrCheckoutNotFound
		}
	}
	return nil
}

// FinalizeDirect creates an order synchronously, without a staged payment
// intent: order, items, shipping and a CheckoutInfo in one transaction with
// payment status "ordered". Used by the administrative order-placement path.
func (l *Ledger) FinalizeDirect(req OrderRequest) (*models.Order, error) {
	quote, err := l.PriceRequest(req)
	if err != nil {
		return nil, err
	}

	serviceLevel := req.ServiceLevel
	if serviceLevel == "" {
		serviceLevel = pricing.ServiceStandard
	}

	var order *models.Order
	err = l.db.Transaction(func(tx *gorm.DB) error {
		newOrder := models.Order{
			CustomerName:     req.CustomerName,
			CustomerEmail:    req.CustomerEmail,
			Phone:            req.Phone,
			PaymentState:     models.PaymentOrdered,
			FulfillmentState: models.FulfillmentPending,
			OrderTotal:       quote.AmountDue,
			Items:            quote.Items,
		}
		if err := tx.Create(&newOrder).Error; err != nil {
			return err
		}

		if quote.HasPhysical {
			shipping := models.Shipping{
				OrderID:      newOrder.ID,
				Country:      req.Shipping.Country,
				CountryCode:  pricing.NormalizeCountry(req.Shipping.Country),
				AddressLine1: req.Shipping.AddressLine1,
				AddressLine2: req.Shipping.AddressLine2,
				City:         req.Shipping.City,
				State:        req.Shipping.State,
				PostalCode:   req.Shipping.PostalCode,
				ShippingFee:  quote.ShippingFee,
				Tax:          quote.Tax,
			}
			if err := tx.Create(&shipping).Error; err != nil {
				return err
			}
		}

		orderID := newOrder.ID
		info := models.CheckoutInfo{
			OrderID:        &orderID,
			CustomerName:   req.CustomerName,
			Email:          req.CustomerEmail,
			Phone:          req.Phone,
			AmountToBePaid: quote.AmountDue,
			AmountPaid:     decimal.Zero,
			Currency:       Currency,
			PaymentStatus:  models.PaymentOrdered,
			TransactionID:  uuid.NewString(),
			ShippingFee:    quote.ShippingFee,
			Tax:            quote.Tax,
			ServiceLevel:   serviceLevel,
			CollectedAt:    time.Now(),
		}
		if err := tx.Create(&info).Error; err != nil {
			return err
		}

		created, err := loadOrder(tx, newOrder.ID)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CheckoutTotalForOrder recomputes an order's amount due and upserts its
// CheckoutInfo: an existing row is refreshed in place rather than
// duplicated.
func (l *Ledger) CheckoutTotalForOrder(orderID uint) (*models.CheckoutInfo, error) {
	order, err := loadOrder(l.db, orderID)
	if err != nil {
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, ErrOrderHasNoItems
	}

	total := itemsSubtotal(order.Items)
	fee, tax := decimal.Zero, decimal.Zero
	if order.Shipping != nil {
		fee = order.Shipping.ShippingFee
		tax = order.Shipping.Tax
	}
	total = total.Add(fee).Add(tax)

	var info models.CheckoutInfo
	err = l.db.Where("order_id = ?", orderID).First(&info).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		info = models.CheckoutInfo{
			OrderID:        &orderID,
			CustomerName:   order.CustomerName,
			Email:          order.CustomerEmail,
			Phone:          order.Phone,
			AmountToBePaid: total,
			AmountPaid:     decimal.Zero,
			Currency:       Currency,
			PaymentStatus:  models.PaymentPending,
			TransactionID:  uuid.NewString(),
			ShippingFee:    fee,
			Tax:            tax,
			CollectedAt:    time.Now(),
		}
		if err := l.db.Create(&info).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		updates := map[string]any{
			"amount_to_be_paid": total,
			"customer_name":     order.CustomerName,
			"email":             order.CustomerEmail,
			"collected_at":      time.Now(),
		}
		if err := l.db.Model(&info).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &info, nil
}

// CheckoutTotalForCustomer resolves a customer's most recent order by name
// and delegates to CheckoutTotalForOrder.
func (l *Ledger) CheckoutTotalForCustomer(customerName string) (*models.CheckoutInfo, error) {
	var order models.Order
	err := l.db.Where("customer_name = ?", customerName).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return l.CheckoutTotalForOrder(order.ID)
}

// MarkShipped records carrier tracking details for a dispatched order and
// moves its fulfillment state to shipped. The shipment email is best-effort.
func (l *Ledger) MarkShipped(orderID uint, info models.ShippingInfo) (*models.Order, error) {
	order, err := loadOrder(l.db, orderID)
	if err != nil {
		return nil, err
	}

	info.OrderID = orderID
	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&info).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Update("fulfillment_state", models.FulfillmentShipped).Error
	})
	if err != nil {
		return nil, err
	}
	order.FulfillmentState = models.FulfillmentShipped
	order.ShippingInfo = &info

	if l.notifier != nil {
		if err := l.notifier.SendShipmentUpdate(order, &info); err != nil {
			log.Printf("order %d marked shipped, but shipment email failed: %v", orderID, err)
		}
	}
	return order, nil
}

func loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Preload("Shipping").Preload("ShippingInfo").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
