package currency

import "time"

// Snapshot is a dated table of conversion factors relative to Base.
//
// Convention, applied uniformly: Rates[c] is the number of units of currency
// c bought by one unit of Base. Base itself carries an implicit rate of 1
// and may be present in Rates with that value.
type Snapshot struct {
	Base  Currency             `json:"base"`
	Date  string               `json:"date"`
	Rates map[Currency]float64 `json:"rates"`
}

// Rate returns the Base-relative factor for c.
func (s *Snapshot) Rate(c Currency) (float64, bool) {
	if c == s.Base {
		return 1, true
	}
	rate, ok := s.Rates[c]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// FallbackSnapshot returns a static table used to seed a fresh install before
// the first provider refresh succeeds. Values are indicative only.
func FallbackSnapshot(base Currency, now time.Time) Snapshot {
	usdRates := map[Currency]float64{
		USD: 1,
		EUR: 0.92,
		TRY: 34.5,
		SAR: 3.75,
		EGP: 49.0,
		AED: 3.67,
	}

	baseRate := usdRates[base]
	rates := make(map[Currency]float64, len(usdRates))
	for c, perUSD := range usdRates {
		rates[c] = perUSD / baseRate
	}

	return Snapshot{
		Base:  base,
		Date:  now.Format("2006-01-02"),
		Rates: rates,
	}
}
