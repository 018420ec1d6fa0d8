package allocation

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce replaces values that cannot take part in the arithmetic (NaN, ±Inf) with 0.
func Coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseNumber parses user-typed numeric input. Anything that is not a finite
// decimal number becomes 0; ok reports whether the input was used as-is.
func ParseNumber(s string) (value float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// NonNegative coerces v and floors it at zero.
func NonNegative(v float64) float64 {
	v = Coerce(v)
	if v < 0 {
		return 0
	}
	return v
}

// clamp coerces v into [lo, hi]. hi below lo collapses the range to lo.
func clamp(v, lo, hi float64) float64 {
	v = Coerce(v)
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(Coerce(v)).Round(places).InexactFloat64()
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(Coerce(v))
}
