package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as dollars with two decimals and thousand separators (e.g. -$1,234.50)
func FormatMoney(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	n := len(whole)
	if n <= 3 {
		return sign + "$" + whole + "." + cents
	}

	var result strings.Builder
	for i, digit := range whole {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return sign + "$" + result.String() + "." + cents
}

// MaskCardNumber hides all but the last four digits of a card number
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// LastFour returns the last four digits of a card number
func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
