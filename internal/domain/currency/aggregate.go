package currency

// Item is one monetary line in a heterogeneous collection.
type Item struct {
	Amount   float64
	Currency Currency
}

// Sum converts every item into display and adds them up. An item with an
// unknown currency or a missing rate aborts the whole aggregation; callers
// never see a partial total with items silently dropped.
func Sum(items []Item, display Currency, snapshot *Snapshot) (float64, error) {
	var total float64
	for _, item := range items {
		converted, err := Convert(item.Amount, item.Currency, display, snapshot)
		if err != nil {
			return 0, err
		}
		total += converted
	}
	return total, nil
}
