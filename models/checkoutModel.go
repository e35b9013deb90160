package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShippingAddress is the destination a customer supplies at checkout. It is
// staged as JSON on CheckoutInfo until payment confirms, and round-tripped
// through the payment provider's intent metadata.
type ShippingAddress struct {
	Country      string `json:"country" binding:"required"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
}

// CheckoutInfo is the payment ledger record. OrderID stays null until a
// succeeded payment is reconciled into a real order; TransactionID is unique
// and anchors webhook idempotency.
type CheckoutInfo struct {
	gorm.Model
	OrderID        *uint           `json:"orderId"`
	CustomerName   string          `json:"customerName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	AmountToBePaid decimal.Decimal `json:"amountToBePaid" gorm:"type:decimal(10,2)"`
	AmountPaid     decimal.Decimal `json:"amountPaid" gorm:"type:decimal(10,2)"`
	Currency       string          `json:"currency" gorm:"size:10;default:GBP"`
	PaymentStatus  PaymentState    `json:"paymentStatus" gorm:"size:50;default:pending"`
	TransactionID  string          `json:"transactionId" gorm:"size:255;uniqueIndex"`
	ShippingFee    decimal.Decimal `json:"shippingFee" gorm:"type:decimal(10,2)"`
	Tax            decimal.Decimal `json:"tax" gorm:"type:decimal(10,2)"`
	ServiceLevel   string          `json:"serviceLevel" gorm:"size:20"`
	StagedAddress  datatypes.JSON  `json:"-"`
	CollectedAt    time.Time       `json:"collectedAt"`
	Items          []OrderItem     `json:"items,omitempty" gorm:"foreignKey:CheckoutInfoID"`
}

func (CheckoutInfo) TableName() string {
	return "Checkout_Info"
}

// DecodedAddress returns the staged shipping address, or nil when none was
// collected (digital-only checkouts).
func (c *CheckoutInfo) DecodedAddress() *ShippingAddress {
	if len(c.StagedAddress) == 0 {
		return nil
	}
	var addr ShippingAddress
	if err := json.Unmarshal(c.StagedAddress, &addr); err != nil {
		return nil
	}
	if addr.Country == "" {
		return nil
	}
	return &addr
}

// Shipping is the delivery address plus the shipping fee and tax computed
// for one order. Present if and only if the order has a physical item.
type Shipping struct {
	gorm.Model
	OrderID      uint            `json:"orderId" gorm:"uniqueIndex"`
	Country      string          `json:"country"`
	CountryCode  string          `json:"countryCode" gorm:"size:10"`
	AddressLine1 string          `json:"addressLine1"`
	AddressLine2 string          `json:"addressLine2"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	PostalCode   string          `json:"postalCode" gorm:"size:20"`
	ShippingFee  decimal.Decimal `json:"shippingFee" gorm:"type:decimal(10,2)"`
	Tax          decimal.Decimal `json:"tax" gorm:"type:decimal(10,2)"`
}

func (Shipping) TableName() string {
	return "Shipping"
}

// ShippingInfo holds carrier tracking details set by staff once an order is
// dispatched. Distinct from Shipping, which is the customer's address.
type ShippingInfo struct {
	gorm.Model
	OrderID           uint   `json:"orderId" gorm:"uniqueIndex"`
	Carrier           string `json:"carrier"`
	TrackingNumber    string `json:"trackingNumber"`
	TrackingUrl       string `json:"trackingUrl"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

func (ShippingInfo) TableName() string {
	return "Shipping_info"
}
