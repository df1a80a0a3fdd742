package format

import (
	"fmt"
	"strings"
)

// Currency formats an amount in minor units for display.
// Example: Currency(123450, "USD") => "$1,234.50"
func Currency(minor int64, currency string) string {
	switch strings.ToUpper(currency) {
	case "USD", "":
		neg := minor < 0
		if neg {
			minor = -minor
		}
		out := "$" + thousandSep(minor/100) + fmt.Sprintf(".%02d", minor%100)
		if neg {
			return "-" + out
		}
		return out
	default:
		return fmt.Sprintf("%s %s", strings.ToUpper(currency), Decimal(minor))
	}
}

// Decimal renders minor units with exactly two decimals and no grouping, the
// way order messages print amounts.
func Decimal(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// Count caps badge numbers so the pill keeps its width.
func Count(n int) string {
	if n > 99 {
		return "99+"
	}
	return fmt.Sprintf("%d", n)
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
