package allocation

import "github.com/shopspring/decimal"

// SizeGroup is a set of billboards of one size rented to a company at a per-unit price.
type SizeGroup struct {
	ID           string  `json:"id"`
	Size         string  `json:"size"`
	UnitCount    int     `json:"unitCount"`
	PerUnitPrice float64 `json:"perUnitPrice"`
}

// Subtotal is the group's per-unit price times its unit count.
func (g SizeGroup) Subtotal() float64 {
	return dec(g.PerUnitPrice).Mul(decimal.NewFromInt(int64(g.UnitCount))).InexactFloat64()
}

// TotalOf returns the aggregate rental value of all groups.
func TotalOf(groups []SizeGroup) float64 {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(dec(g.Subtotal()))
	}
	return total.InexactFloat64()
}

// UnitsOf returns the total number of units across all groups. Negative counts are ignored.
func UnitsOf(groups []SizeGroup) int {
	units := 0
	for _, g := range groups {
		if g.UnitCount > 0 {
			units += g.UnitCount
		}
	}
	return units
}

// ApplyManualTotal rewrites every group's per-unit price in place so the aggregate
// approximates targetTotal.
//
// With no current value the target is split equally per unit. Otherwise every price
// is scaled by target/current, keeping the relative weighting between groups.
// Prices are rounded to whole currency units; the resulting drift is not corrected.
//
// Returns false without touching groups when targetTotal is not positive or there
// is nothing to spread it over.
func ApplyManualTotal(groups []SizeGroup, targetTotal float64) bool {
	targetTotal = Coerce(targetTotal)
	if targetTotal <= 0 || len(groups) == 0 {
		return false
	}

	target := dec(targetTotal)
	current := TotalOf(groups)
	if current == 0 {
		units := UnitsOf(groups)
		if units == 0 {
			return false
		}
		perUnit := target.Div(decimal.NewFromInt(int64(units))).Round(0).InexactFloat64()
		for i := range groups {
			groups[i].PerUnitPrice = perUnit
		}
		return true
	}

	ratio := target.Div(dec(current))
	for i := range groups {
		groups[i].PerUnitPrice = dec(groups[i].PerUnitPrice).Mul(ratio).Round(0).InexactFloat64()
	}
	return true
}
