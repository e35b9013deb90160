package checkout

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uiaphotography/uia-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// in-memory sqlite is per-connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.CheckoutInfo{},
		&models.Shipping{},
		&models.ShippingInfo{},
	))
	return db
}

func seedProducts(t *testing.T, db *gorm.DB) (digital, physical models.Product) {
	t.Helper()

	digital = models.Product{
		Title:    "Dawn Over The Thames",
		Slug:     "dawn-over-the-thames",
		Price:    decimal.RequireFromString("10.00"),
		ImageUrl: "https://cdn.example.com/dawn.jpg",
	}
	physical = models.Product{
		Title:      "Brick Lane At Night",
		Slug:       "brick-lane-at-night",
		Price:      decimal.RequireFromString("25.00"),
		Dimensions: "A4",
	}
	require.NoError(t, db.Create(&digital).Error)
	require.NoError(t, db.Create(&physical).Error)
	return digital, physical
}

func TestNormalizeCart_MergesDuplicateLines(t *testing.T) {
	db := newTestDB(t)
	_, physical := seedProducts(t, db)

	items := []CartItem{
		{ProductID: physical.ID, ProductKind: models.KindPhysical, Quantity: 1, UnitPrice: decimal.RequireFromString("25.00")},
		{ProductID: physical.ID, ProductKind: models.KindPhysical, Quantity: 2, UnitPrice: decimal.RequireFromString("25.00")},
	}

	merged, _, err := NormalizeCart(db, items)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, 3, merged[0].Quantity)
	assert.Equal(t, "75.00", merged[0].PriceAtPurchase.StringFixed(2))
	assert.Equal(t, "Brick Lane At Night", merged[0].Name)
}

func TestNormalizeCart_KindsStayDistinct(t *testing.T) {
	db := newTestDB(t)
	digital, _ := seedProducts(t, db)

	// same photo bought as a download and as a print
	items := []CartItem{
		{ProductID: digital.ID, ProductKind: models.KindDigital, Quantity: 1},
		{ProductID: digital.ID, ProductKind: models.KindPhysical, Quantity: 1},
	}

	merged, _, err := NormalizeCart(db, items)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, models.KindDigital, merged[0].ProductKind)
	assert.Equal(t, models.KindPhysical, merged[1].ProductKind)
}

func TestNormalizeCart_PreservesFirstOccurrenceOrder(t *testing.T) {
	db := newTestDB(t)
	digital, physical := seedProducts(t, db)

	items := []CartItem{
		{ProductID: physical.ID, ProductKind: models.KindPhysical, Quantity: 1},
		{ProductID: digital.ID, ProductKind: models.KindDigital, Quantity: 1},
		{ProductID: physical.ID, ProductKind: models.KindPhysical, Quantity: 1},
	}

	merged, _, err := NormalizeCart(db, items)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, physical.ID, merged[0].ProductID)
	assert.Equal(t, digital.ID, merged[1].ProductID)
	assert.Equal(t, 2, merged[0].Quantity)
}

func TestNormalizeCart_SnapshotsCatalogPriceWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	digital, _ := seedProducts(t, db)

	merged, _, err := NormalizeCart(db, []CartItem{
		{ProductID: digital.ID, ProductKind: models.KindDigital, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "10.00", merged[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "20.00", merged[0].PriceAtPurchase.StringFixed(2))
}

func TestNormalizeCart_DefaultsZeroQuantityToOne(t *testing.T) {
	db := newTestDB(t)
	digital, _ := seedProducts(t, db)

	merged, _, err := NormalizeCart(db, []CartItem{
		{ProductID: digital.ID, ProductKind: models.KindDigital},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, merged[0].Quantity)
}

func TestNormalizeCart_EmptyCart(t *testing.T) {
	db := newTestDB(t)

	_, _, err := NormalizeCart(db, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNormalizeCart_UnknownProduct(t *testing.T) {
	db := newTestDB(t)
	digital, _ := seedProducts(t, db)

	_, _, err := NormalizeCart(db, []CartItem{
		{ProductID: digital.ID, ProductKind: models.KindDigital, Quantity: 1},
		{ProductID: 9999, ProductKind: models.KindPhysical, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
