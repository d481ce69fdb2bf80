package currency

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCurrency  = errors.New("unknown currency code")
	ErrRatesUnavailable = errors.New("exchange rates unavailable")
)

func unknownCurrencyError(raw string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCurrency, strings.TrimSpace(raw))
}
