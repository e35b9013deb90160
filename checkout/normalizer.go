package checkout

import (
	"github.com/shopspring/decimal"
	"github.com/uiaphotography/uia-api/models"
	"github.com/uiaphotography/uia-api/pricing"
	"gorm.io/gorm"
)

// CartItem is one raw line of an incoming order request. The same
// (product, kind) pair may appear more than once, e.g. a photo added twice
// or ordered as both a download and a print.
type CartItem struct {
	ProductID   uint               `json:"productId" binding:"required"`
	ProductKind models.ProductKind `json:"productKind" binding:"required"`
	Quantity    int                `json:"quantity"`
	UnitPrice   decimal.Decimal    `json:"unitPrice"`
}

type lineKey struct {
	productID uint
	kind      models.ProductKind
}

// NormalizeCart merges duplicate (product, kind) lines into unique order
// items with summed quantities, resolving display names from the catalog.
// Result order is the first-occurrence order of the input, so totals and
// email rendering stay stable. Also returns the referenced products keyed
// by id so callers can look up dimensions without re-querying.
func NormalizeCart(db *gorm.DB, items []CartItem) ([]models.OrderItem, map[uint]models.Product, error) {
	if len(items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	idSet := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, seen := idSet[item.ProductID]; !seen {
			idSet[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	var products []models.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	if len(byID) != len(ids) {
		return nil, nil, ErrProductNotFound
	}

	index := make(map[lineKey]int, len(items))
	var merged []models.OrderItem
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		key := lineKey{item.ProductID, item.ProductKind}
		if i, ok := index[key]; ok {
			merged[i].Quantity += qty
			continue
		}

		product := byID[item.ProductID]
		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}

		merged = append(merged, models.OrderItem{
			ProductID:   item.ProductID,
			Name:        product.Title,
			ProductKind: item.ProductKind,
			UnitPrice:   unitPrice,
			Quantity:    qty,
		})
		index[key] = len(merged) - 1
	}

	for i := range merged {
		merged[i].PriceAtPurchase = merged[i].UnitPrice.Mul(decimal.NewFromInt(int64(merged[i].Quantity)))
	}
	return merged, byID, nil
}

func hasPhysicalItems(items []models.OrderItem) bool {
	for _, item := range items {
		if item.ProductKind == models.KindPhysical {
			return true
		}
	}
	return false
}

func toPricingItems(items []models.OrderItem, products map[uint]models.Product) []pricing.Item {
	out := make([]pricing.Item, 0, len(items))
	for _, item := range items {
		out = append(out, pricing.Item{
			Kind:       item.ProductKind,
			Dimensions: products[item.ProductID].Dimensions,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		})
	}
	return out
}

func itemsSubtotal(items []models.OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.PriceAtPurchase)
	}
	return subtotal
}
