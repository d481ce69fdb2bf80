package currency

import "fmt"

// Convert turns amount in from-units into to-units using snapshot.
//
// Identity conversions return amount untouched and never require a snapshot.
// Unknown codes fail with ErrUnknownCurrency; a nil snapshot or one missing a
// needed rate fails with ErrRatesUnavailable. A rate of 1.0 is never
// fabricated for unrelated currencies.
func Convert(amount float64, from, to Currency, snapshot *Snapshot) (float64, error) {
	if !Supported(from) {
		return 0, unknownCurrencyError(string(from))
	}
	if !Supported(to) {
		return 0, unknownCurrencyError(string(to))
	}
	if from == to {
		return amount, nil
	}
	factor, err := rateFactor(from, to, snapshot)
	if err != nil {
		return 0, err
	}
	return amount * factor, nil
}

// rateFactor derives from->to from the snapshot's Base-relative table:
// one unit of from is 1/Rates[from] units of Base, which is
// Rates[to]/Rates[from] units of to.
func rateFactor(from, to Currency, snapshot *Snapshot) (float64, error) {
	if snapshot == nil {
		return 0, ErrRatesUnavailable
	}
	fromRate, ok := snapshot.Rate(from)
	if !ok {
		return 0, fmt.Errorf("%w: no %s rate in snapshot for %s", ErrRatesUnavailable, from, snapshot.Date)
	}
	toRate, ok := snapshot.Rate(to)
	if !ok {
		return 0, fmt.Errorf("%w: no %s rate in snapshot for %s", ErrRatesUnavailable, to, snapshot.Date)
	}
	return toRate / fromRate, nil
}
