package checkout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiaphotography/uia-api/models"
	"github.com/uiaphotography/uia-api/pricing"
	"gorm.io/gorm"
)

// mockNotifier implements Notifier for testing
type mockNotifier struct {
	confirmations []uint
	shipments     []uint
	err           error
}

func (m *mockNotifier) SendConfirmation(order *models.Order) error {
	m.confirmations = append(m.confirmations, order.ID)
	return m.err
}

func (m *mockNotifier) SendShipmentUpdate(order *models.Order, _ *models.ShippingInfo) error {
	m.shipments = append(m.shipments, order.ID)
	return m.err
}

func newTestLedger(t *testing.T) (*Ledger, *gorm.DB, *mockNotifier) {
	t.Helper()
	db := newTestDB(t)
	notifier := &mockNotifier{}
	ledger := NewLedger(db, pricing.NewEngine(pricing.DefaultConfig()), notifier)
	return ledger, db, notifier
}

func ukAddress() *models.ShippingAddress {
	return &models.ShippingAddress{
		Country:      "United Kingdom",
		AddressLine1: "1 Brick Lane",
		City:         "London",
		PostalCode:   "E1 6QL",
	}
}

func physicalRequest(t *testing.T, db *gorm.DB) OrderRequest {
	t.Helper()
	_, physical := seedProducts(t, db)
	return OrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Phone:         "+447700900000",
		Items: []CartItem{
			{ProductID: physical.ID, ProductKind: models.KindPhysical, Quantity: 1},
		},
		Shipping: ukAddress(),
	}
}

func TestStage_CreatesPendingRecordWithProvisionalItems(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	req := physicalRequest(t, db)

	info, err := ledger.Stage(req, "pi_test_123")
	require.NoError(t, err)

	// 25.00 + 4.29 shipping + 3.75 tax
	assert.Equal(t, "33.04", info.AmountToBePaid.StringFixed(2))
	assert.Equal(t, "0.00", info.AmountPaid.StringFixed(2))
	assert.Equal(t, models.PaymentPending, info.PaymentStatus)
	assert.Equal(t, "GBP", info.Currency)
	assert.Equal(t, "pi_test_123", info.TransactionID)
	assert.Equal(t, "4.29", info.ShippingFee.StringFixed(2))
	assert.Equal(t, "3.75", info.Tax.StringFixed(2))
	assert.Nil(t, info.OrderID)

	// items are provisional: linked to the ledger record, not to an order
	var items []models.OrderItem
	require.NoError(t, db.Where("checkout_info_id = ?", info.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].OrderID)

	addr := info.DecodedAddress()
	require.NotNil(t, addr)
	assert.Equal(t, "United Kingdom", addr.Country)
}

func TestStage_PhysicalWithoutDestinationFails(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	req := physicalRequest(t, db)
	req.Shipping = nil

	_, err := ledger.Stage(req, "pi_test_124")
	assert.ErrorIs(t, err, ErrMissingShipping)

	var count int64
	db.Model(&models.CheckoutInfo{}).Count(&count)
	assert.Zero(t, count)
}

func TestStage_ValidationWritesNothing(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	seedProducts(t, db)

	_, err := ledger.Stage(OrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items: []CartItem{
			{ProductID: 9999, ProductKind: models.KindDigital, Quantity: 1},
		},
	}, "pi_test_125")
	assert.ErrorIs(t, err, ErrProductNotFound)

	var checkouts, items int64
	db.Model(&models.CheckoutInfo{}).Count(&checkouts)
	db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, checkouts)
	assert.Zero(t, items)
}

func TestReconcile_MaterializesOrderExactlyOnce(t *testing.T) {
	ledger, db, notifier := newTestLedger(t)
	req := physicalRequest(t, db)

	staged, err := ledger.Stage(req, "pi_test_200")
	require.NoError(t, err)

	order, err := ledger.Reconcile("pi_test_200", nil)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentSucceeded, order.PaymentState)
	assert.Equal(t, models.FulfillmentPending, order.FulfillmentState)
	assert.Equal(t, "33.04", order.OrderTotal.StringFixed(2))
	require.Len(t, order.Items, 1)
	require.NotNil(t, order.Items[0].OrderID)
	assert.Equal(t, order.ID, *order.Items[0].OrderID)

	require.NotNil(t, order.Shipping)
	assert.Equal(t, "UK", order.Shipping.CountryCode)
	assert.Equal(t, "4.29", order.Shipping.ShippingFee.StringFixed(2))

	// order total balances against items + shipping fee + tax
	sum := order.Items[0].PriceAtPurchase.
		Add(order.Shipping.ShippingFee).
		Add(order.Shipping.Tax)
	assert.True(t, sum.Equal(order.OrderTotal))

	var info models.CheckoutInfo
	require.NoError(t, db.First(&info, staged.ID).Error)
	require.NotNil(t, info.OrderID)
	assert.Equal(t, order.ID, *info.OrderID)
	assert.Equal(t, models.PaymentSucceeded, info.PaymentStatus)
	assert.True(t, info.AmountPaid.Equal(info.AmountToBePaid))

	assert.Equal(t, []uint{order.ID}, notifier.confirmations)

	// duplicate delivery is a no-op success
	again, err := ledger.Reconcile("pi_test_200", nil)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)

	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.EqualValues(t, 1, orderCount)
	assert.EqualValues(t, 1, itemCount)
	assert.Len(t, notifier.confirmations, 1)
}

func TestReconcile_DigitalOnlyHasNoShippingRow(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	digital, _ := seedProducts(t, db)

	_, err := ledger.Stage(OrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items: []CartItem{
			{ProductID: digital.ID, ProductKind: models.KindDigital, Quantity: 1},
		},
	}, "pi_test_201")
	require.NoError(t, err)

	order, err := ledger.Reconcile("pi_test_201", nil)
	require.NoError(t, err)

	assert.Nil(t, order.Shipping)
	// 10.00 + 1.50 tax, no shipping fee
	assert.Equal(t, "11.50", order.OrderTotal.StringFixed(2))

	var shippingCount int64
	db.Model(&models.Shipping{}).Count(&shippingCount)
	assert.Zero(t, shippingCount)
}

func TestReconcile_AddressFromProviderMetadataWins(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	req := physicalRequest(t, db)

	_, err := ledger.Stage(req, "pi_test_202")
	require.NoError(t, err)

	confirmed := &models.ShippingAddress{
		Country:      "France",
		AddressLine1: "5 Rue de Rivoli",
		City:         "Paris",
		PostalCode:   "75001",
	}
	order, err := ledger.Reconcile("pi_test_202", confirmed)
	require.NoError(t, err)

	require.NotNil(t, order.Shipping)
	assert.Equal(t, "FR", order.Shipping.CountryCode)
	assert.Equal(t, "Paris", order.Shipping.City)
}

func TestReconcile_UnknownTransaction(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	_, err := ledger.Reconcile("pi_missing", nil)
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
}

func TestReconcile_NotifierFailureDoesNotUndoOrder(t *testing.T) {
	ledger, db, notifier := newTestLedger(t)
	notifier.err = errors.New("smtp is down")
	req := physicalRequest(t, db)

	_, err := ledger.Stage(req, "pi_test_203")
	require.NoError(t, err)

	order, err := ledger.Reconcile("pi_test_203", nil)
	require.NoError(t, err)
	require.NotNil(t, order)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.EqualValues(t, 1, orderCount)
}

func TestReject_MarksFailedWithoutCreatingOrder(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	req := physicalRequest(t, db)

	staged, err := ledger.Stage(req, "pi_test_300")
	require.NoError(t, err)

	require.NoError(t, ledger.Reject("pi_test_300"))

	var info models.CheckoutInfo
	require.NoError(t, db.First(&info, staged.ID).Error)
	assert.Equal(t, models.PaymentFailed, info.PaymentStatus)
	assert.Nil(t, info.OrderID)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestReject_UnknownTransaction(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	assert.ErrorIs(t, ledger.Reject("pi_missing"), ErrCheckoutNotFound)
}

func TestReject_AfterReconcileIsNoOp(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	req := physicalRequest(t, db)

	staged, err := ledger.Stage(req, "pi_test_301")
	require.NoError(t, err)
	_, err = ledger.Reconcile("pi_test_301", nil)
	require.NoError(t, err)

	require.NoError(t, ledger.Reject("pi_test_301"))

	var info models.CheckoutInfo
	require.NoError(t, db.First(&info, staged.ID).Error)
	assert.Equal(t, models.PaymentSucceeded, info.PaymentStatus)
}

func TestFinalizeDirect_CreatesEverythingInOneStep(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	req := physicalRequest(t, db)

	order, err := ledger.FinalizeDirect(req)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentOrdered, order.PaymentState)
	assert.Equal(t, "33.04", order.OrderTotal.StringFixed(2))
	require.Len(t, order.Items, 1)
	require.NotNil(t, order.Shipping)

	var info models.CheckoutInfo
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&info).Error)
	assert.Equal(t, models.PaymentOrdered, info.PaymentStatus)
	assert.NotEmpty(t, info.TransactionID)
	assert.True(t, info.AmountToBePaid.Equal(order.OrderTotal))
}

func TestFinalizeDirect_MergesDuplicateCartLines(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	digital, _ := seedProducts(t, db)

	order, err := ledger.FinalizeDirect(OrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items: []CartItem{
			{ProductID: digital.ID, ProductKind: models.KindDigital, Quantity: 1},
			{ProductID: digital.ID, ProductKind: models.KindDigital, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, "30.00", order.Items[0].PriceAtPurchase.StringFixed(2))
}

func TestCheckoutTotalForOrder_RefreshesExistingRow(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	req := physicalRequest(t, db)

	order, err := ledger.FinalizeDirect(req)
	require.NoError(t, err)

	first, err := ledger.CheckoutTotalForOrder(order.ID)
	require.NoError(t, err)
	second, err := ledger.CheckoutTotalForOrder(order.ID)
	require.NoError(t, err)

	// refreshed in place, not duplicated
	assert.Equal(t, first.ID, second.ID)
	var count int64
	db.Model(&models.CheckoutInfo{}).Where("order_id = ?", order.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, "33.04", second.AmountToBePaid.StringFixed(2))
}

func TestCheckoutTotalForCustomer(t *testing.T) {
	ledger, db, _ := newTestLedger(t)
	req := physicalRequest(t, db)

	order, err := ledger.FinalizeDirect(req)
	require.NoError(t, err)

	info, err := ledger.CheckoutTotalForCustomer("Ada Lovelace")
	require.NoError(t, err)
	require.NotNil(t, info.OrderID)
	assert.Equal(t, order.ID, *info.OrderID)

	_, err = ledger.CheckoutTotalForCustomer("Nobody")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMarkShipped(t *testing.T) {
	ledger, db, notifier := newTestLedger(t)
	req := physicalRequest(t, db)

	order, err := ledger.FinalizeDirect(req)
	require.NoError(t, err)

	shipped, err := ledger.MarkShipped(order.ID, models.ShippingInfo{
		Carrier:        "Royal Mail",
		TrackingNumber: "RM123456789GB",
	})
	require.NoError(t, err)

	assert.Equal(t, models.FulfillmentShipped, shipped.FulfillmentState)
	require.NotNil(t, shipped.ShippingInfo)
	assert.Equal(t, "Royal Mail", shipped.ShippingInfo.Carrier)
	assert.Equal(t, []uint{order.ID}, notifier.shipments)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.FulfillmentShipped, stored.FulfillmentState)
}
