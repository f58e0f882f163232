// internal/utils/money.go
package utils

import (
	"fmt"
	"strings"
)

// Monetary amounts are persisted as exact-precision decimal strings
// (decimal(10,2) columns). Arithmetic happens here in integer cents so no
// float ever touches a price.

// ParseAmountCents converts a decimal string like "1234", "1234.5" or
// "1234.56" into cents. More than two fraction digits is rejected.
func ParseAmountCents(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", amount)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	var cents int64
	for _, part := range []string{whole, frac} {
		for _, ch := range part {
			if ch < '0' || ch > '9' {
				return 0, fmt.Errorf("invalid amount: %q", amount)
			}
			cents = cents*10 + int64(ch-'0')
		}
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}

// FormatCents renders cents back into a two-decimal string, e.g. 280000 ->
// "2800.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
