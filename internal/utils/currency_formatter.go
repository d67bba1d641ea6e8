package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with its currency code, e.g. "125.50 USD".
func FormatAmount(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}
