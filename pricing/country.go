package pricing

import "strings"

var countryNameToCode = map[string]string{
	"united kingdom": "UK",
	"canada":         "CA",
	"united states":  "US",
	"usa":            "US",
	"france":         "FR",
	"nigeria":        "NG",
	"australia":      "AU",
	"ireland":        "IE",
	"brazil":         "BR",
	"denmark":        "DK",
	"japan":          "JP",
	"netherlands":    "NL",
	"germany":        "DE",
	"italy":          "IT",
	"spain":          "ES",
	"south africa":   "ZA",
}

// NormalizeCountry maps a country name to its 2-letter code, ignoring case
// and surrounding whitespace. Unrecognized input is upper-cased and returned
// as-is; a code absent from the rate tables resolves to the OTHER bucket.
func NormalizeCountry(countryInput string) string {
	normalized := strings.ToLower(strings.TrimSpace(countryInput))
	if code, ok := countryNameToCode[normalized]; ok {
		return code
	}
	return strings.ToUpper(normalized)
}
