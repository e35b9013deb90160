package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/uiaphotography/uia-api/models"
)

// Item is one merged cart line as the engine sees it: kind, print size
// class, snapshotted unit price and quantity.
type Item struct {
	Kind       models.ProductKind
	Dimensions string
	UnitPrice  decimal.Decimal
	Quantity   int
}

// Config holds the static tables the engine prices against. Construct once
// at startup and treat as immutable; tests inject alternate tables.
type Config struct {
	Rates          RateTable
	TaxRates       map[string]decimal.Decimal
	DefaultTaxRate decimal.Decimal
	Dimensions     map[string]Size
	GramsPerSqM    float64
}

// DefaultConfig returns the shop's production rate tables with 300gsm print
// stock.
func DefaultConfig() Config {
	return Config{
		Rates:          DefaultRates(),
		TaxRates:       DefaultTaxRates(),
		DefaultTaxRate: DefaultTaxRate(),
		Dimensions:     DefaultDimensions(),
		GramsPerSqM:    300,
	}
}

// Engine computes shipment weight, shipping fee and tax for a set of cart
// lines. Pure lookups over the injected config; no I/O.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.GramsPerSqM <= 0 {
		cfg.GramsPerSqM = 300
	}
	return &Engine{cfg: cfg}
}

// UnitWeight returns the weight in grams of a single print of the given
// size class. Unknown classes weigh nothing.
func (e *Engine) UnitWeight(dimensions string) float64 {
	size, ok := e.cfg.Dimensions[strings.ToUpper(strings.TrimSpace(dimensions))]
	if !ok {
		return 0
	}
	// area-density model: cm² scaled to m²
	return size.WidthCm * size.LengthCm * e.cfg.GramsPerSqM / 10000
}

// OrderWeight sums the weight of the physical items. Digital items
// contribute nothing.
func (e *Engine) OrderWeight(items []Item) float64 {
	var totalG float64
	for _, item := range items {
		if item.Kind != models.KindPhysical {
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		totalG += e.UnitWeight(item.Dimensions) * float64(qty)
	}
	return totalG
}

func weightTier(weightG float64) string {
	if weightG <= 100 {
		return TierLight
	}
	// anything above the top tier reuses its rate
	return TierMedium
}

// ShippingPrice looks up the flat rate for a destination, weight and service
// level. Unknown countries use the OTHER bucket; a service level the
// destination doesn't offer falls back to standard.
func (e *Engine) ShippingPrice(countryInput string, weightG float64, serviceLevel string) decimal.Decimal {
	countryCode := NormalizeCountry(countryInput)

	tierRates := e.cfg.Rates[weightTier(weightG)]
	countryRates, ok := tierRates[countryCode]
	if !ok {
		countryRates = tierRates[OtherCountry]
	}

	if serviceLevel == "" {
		serviceLevel = ServiceStandard
	}
	price, ok := countryRates[serviceLevel]
	if !ok {
		price = countryRates[ServiceStandard]
	}
	return price
}

// TaxRate returns the destination's tax rate, or the documented default for
// codes outside the table.
func (e *Engine) TaxRate(countryInput string) decimal.Decimal {
	if rate, ok := e.cfg.TaxRates[NormalizeCountry(countryInput)]; ok {
		return rate
	}
	return e.cfg.DefaultTaxRate
}

// Subtotal is the sum of unit price × quantity over all items, digital
// included.
func (e *Engine) Subtotal(items []Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(qty))))
	}
	return subtotal
}

// PriceCart computes the shipping fee and tax for a cart. A cart with no
// physical items ships for free regardless of destination.
func (e *Engine) PriceCart(items []Item, countryInput string, serviceLevel string) (shippingFee, tax decimal.Decimal) {
	shippingFee = decimal.Zero

	hasPhysical := false
	for _, item := range items {
		if item.Kind == models.KindPhysical {
			hasPhysical = true
			break
		}
	}
	if hasPhysical {
		shippingFee = e.ShippingPrice(countryInput, e.OrderWeight(items), serviceLevel)
	}

	tax = e.Subtotal(items).Mul(e.TaxRate(countryInput))
	return shippingFee, tax
}
