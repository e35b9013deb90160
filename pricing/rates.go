package pricing

import "github.com/shopspring/decimal"

const (
	ServiceStandard = "standard"
	ServiceTracked  = "tracked"

	// OtherCountry is the fallback bucket for destinations missing from a
	// tier's table.
	OtherCountry = "OTHER"

	TierLight  = "<=100"
	TierMedium = "100-250"
)

// ServiceRates maps a service level to its flat price.
type ServiceRates map[string]decimal.Decimal

// CountryRates maps a 2-letter country code to its service rates.
type CountryRates map[string]ServiceRates

// RateTable maps a weight tier to its country rates. Weights above the top
// tier reuse the top tier's rates; there is no unbounded tier.
type RateTable map[string]CountryRates

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultRates is the Royal Mail letter/large-letter price list the shop
// ships with.
func DefaultRates() RateTable {
	return RateTable{
		TierLight: {
			"UK":         {ServiceStandard: d("4.29"), ServiceTracked: d("3.45")},
			"CA":         {ServiceStandard: d("7.80"), ServiceTracked: d("13.75")},
			"US":         {ServiceStandard: d("11.75"), ServiceTracked: d("16.15")},
			"FR":         {ServiceStandard: d("5.80"), ServiceTracked: d("9.70")},
			"NG":         {ServiceStandard: d("7.80")},
			"AU":         {ServiceStandard: d("8.90"), ServiceTracked: d("13.95")},
			"IE":         {ServiceStandard: d("5.80"), ServiceTracked: d("8.65")},
			"BR":         {ServiceStandard: d("7.80"), ServiceTracked: d("12.30")},
			"DK":         {ServiceStandard: d("5.80"), ServiceTracked: d("8.75")},
			"JP":         {ServiceStandard: d("7.80"), ServiceTracked: d("11.30")},
			"NL":         {ServiceStandard: d("6.30"), ServiceTracked: d("9.00")},
			"DE":         {ServiceStandard: d("5.80"), ServiceTracked: d("8.00")},
			"IT":         {ServiceStandard: d("6.30"), ServiceTracked: d("9.65")},
			"ES":         {ServiceStandard: d("6.30"), ServiceTracked: d("9.65")},
			"ZA":         {ServiceStandard: d("7.80"), ServiceTracked: d("12.50")},
			OtherCountry: {ServiceStandard: d("11.50"), ServiceTracked: d("17.00")},
		},
		TierMedium: {
			"UK":         {ServiceStandard: d("4.29"), ServiceTracked: d("3.45")},
			"CA":         {ServiceStandard: d("9.40"), ServiceTracked: d("13.75")},
			"US":         {ServiceStandard: d("11.75"), ServiceTracked: d("16.55")},
			"FR":         {ServiceStandard: d("5.80"), ServiceTracked: d("9.70")},
			"NG":         {ServiceStandard: d("9.40")},
			"AU":         {ServiceStandard: d("10.05"), ServiceTracked: d("12.35")},
			"IE":         {ServiceStandard: d("5.80"), ServiceTracked: d("8.65")},
			"BR":         {ServiceStandard: d("9.40"), ServiceTracked: d("12.30")},
			"DK":         {ServiceStandard: d("5.80"), ServiceTracked: d("8.75")},
			"JP":         {ServiceStandard: d("9.40"), ServiceTracked: d("11.30")},
			"NL":         {ServiceStandard: d("6.30"), ServiceTracked: d("9.00")},
			"DE":         {ServiceStandard: d("5.80"), ServiceTracked: d("8.00")},
			"IT":         {ServiceStandard: d("6.30"), ServiceTracked: d("9.45")},
			"ES":         {ServiceStandard: d("6.30"), ServiceTracked: d("9.65")},
			"ZA":         {ServiceStandard: d("9.40"), ServiceTracked: d("12.50")},
			OtherCountry: {ServiceStandard: d("13.00"), ServiceTracked: d("19.00")},
		},
	}
}

// DefaultTaxRates lists the per-country tax rates. Every entry is currently
// 0.15 but the lookup supports per-country values.
func DefaultTaxRates() map[string]decimal.Decimal {
	rate := d("0.15")
	return map[string]decimal.Decimal{
		"US": rate, "CA": rate, "UK": rate,
		"FR": rate, "DK": rate, "AU": rate,
		"JP": rate, "IE": rate, "BR": rate,
		"NG": rate, "IT": rate, "DE": rate,
		"ES": rate,
	}
}

// DefaultTaxRate applies to country codes missing from the tax table.
func DefaultTaxRate() decimal.Decimal {
	return d("0.15")
}
