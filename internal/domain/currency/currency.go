package currency

import "strings"

// Currency is an ISO 4217 code from the closed set the dashboard supports.
type Currency string

const (
	TRY Currency = "TRY"
	USD Currency = "USD"
	EUR Currency = "EUR"
	SAR Currency = "SAR"
	EGP Currency = "EGP"
	AED Currency = "AED"
)

var supported = map[Currency]bool{
	TRY: true,
	USD: true,
	EUR: true,
	SAR: true,
	EGP: true,
	AED: true,
}

// Supported reports whether c is one of the known codes.
func Supported(c Currency) bool {
	return supported[c]
}

// Parse normalizes a raw code and rejects anything outside the supported set.
func Parse(raw string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if !supported[c] {
		return "", unknownCurrencyError(raw)
	}
	return c, nil
}

// All returns the supported codes in a stable order.
func All() []Currency {
	return []Currency{TRY, USD, EUR, SAR, EGP, AED}
}
