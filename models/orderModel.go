package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentState tracks the payment sub-lifecycle of an order,
// FulfillmentState the dispatch sub-lifecycle. The two move independently:
// an order is never "shipped but failed".
type PaymentState string

const (
	PaymentPending   PaymentState = "pending"
	PaymentOrdered   PaymentState = "ordered"
	PaymentSucceeded PaymentState = "succeeded"
	PaymentFailed    PaymentState = "failed"
)

type FulfillmentState string

const (
	FulfillmentPending   FulfillmentState = "pending"
	FulfillmentShipped   FulfillmentState = "shipped"
	FulfillmentDelivered FulfillmentState = "delivered"
)

type Order struct {
	gorm.Model
	CustomerName     string           `json:"customerName"`
	CustomerEmail    string           `json:"customerEmail"`
	Phone            string           `json:"phone"`
	PaymentState     PaymentState     `json:"paymentState" gorm:"size:50;default:pending"`
	FulfillmentState FulfillmentState `json:"fulfillmentState" gorm:"size:50;default:pending"`
	OrderTotal       decimal.Decimal  `json:"orderTotal" gorm:"type:decimal(10,2)"`
	Items            []OrderItem      `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipping         *Shipping        `json:"shipping,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingInfo     *ShippingInfo    `json:"shippingInfo,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "Orders"
}

// OrderItem rows are provisional while OrderID is null: they belong to a
// pending CheckoutInfo and get the order id attached at reconciliation.
// PriceAtPurchase is the quantity-multiplied line total snapshotted at sale
// time; it is never re-read from the catalog.
type OrderItem struct {
	gorm.Model
	OrderID         *uint           `json:"orderId"`
	CheckoutInfoID  *uint           `json:"-"`
	ProductID       uint            `json:"productId"`
	Name            string          `json:"name"`
	ProductKind     ProductKind     `json:"productKind" gorm:"size:20"`
	UnitPrice       decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2)"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase" gorm:"type:decimal(10,2)"`
}

func (OrderItem) TableName() string {
	return "OrderItems"
}
