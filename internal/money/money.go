// Package money formats storefront prices.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "ETB"

// Sanitize maps negative, NaN and infinite prices to zero.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// FromFloat converts a catalog price. Negative, non-finite and missing
// values become zero.
func FromFloat(v float64) decimal.Decimal {
	if v = Sanitize(v); v == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// FromPtr is FromFloat for optional prices.
func FromPtr(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return FromFloat(*v)
}

// Format renders amount as "<CODE> 1,234.50".
func Format(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return currency + " " + group(amount.StringFixed(2))
}

func group(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	out := sign + b.String()
	if frac != "" {
		out += "." + frac
	}
	return out
}
