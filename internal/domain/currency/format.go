package currency

import (
	"fmt"
	"strings"
)

var symbols = map[Currency]string{
	TRY: "₺",
	USD: "$",
	EUR: "€",
	SAR: "﷼",
	EGP: "E£",
	AED: "د.إ",
}

// Format renders amount with the currency symbol, thousands separators and
// two decimals, e.g. "$1,234.50". Presentational only.
func Format(amount float64, c Currency) string {
	symbol, ok := symbols[c]
	if !ok {
		symbol = string(c) + " "
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	fixed := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(fixed, ".", 2)
	return sign + symbol + groupThousands(parts[0]) + "." + parts[1]
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
