package allocation

import "github.com/shopspring/decimal"

// CapitalAccount tracks how much of the capital invested in a shared billboard is
// still to be recovered from revenue.
type CapitalAccount struct {
	TotalCapital     float64 `json:"totalCapital"`
	CapitalRemaining float64 `json:"capitalRemaining"`
}

// Normalize coerces both amounts and keeps 0 <= CapitalRemaining <= TotalCapital.
func (c CapitalAccount) Normalize() CapitalAccount {
	total := NonNegative(c.TotalCapital)
	return CapitalAccount{
		TotalCapital:     total,
		CapitalRemaining: clamp(c.CapitalRemaining, 0, total),
	}
}

// Recovered reports whether all invested capital has been paid back.
func (c CapitalAccount) Recovered() bool {
	return c.CapitalRemaining <= 0
}

// ActiveRegime is the regime that applies to new revenue.
func (c CapitalAccount) ActiveRegime() Regime {
	if c.Recovered() {
		return RegimePostRecovery
	}
	return RegimePreRecovery
}

// RecoveredPct is the recovered share of total capital, rounded to two decimals.
// Accounts without capital count as fully recovered.
func (c CapitalAccount) RecoveredPct() float64 {
	if c.TotalCapital <= 0 {
		return 100
	}
	recovered := dec(c.TotalCapital).Sub(dec(c.CapitalRemaining))
	return recovered.Mul(decimal.NewFromInt(100)).Div(dec(c.TotalCapital)).Round(2).InexactFloat64()
}

// PartnerAmount is one partner's cut of a revenue posting.
type PartnerAmount struct {
	PartnerID string  `json:"partnerId"`
	Amount    float64 `json:"amount"`
}

// Distribution is the split of a single revenue amount.
type Distribution struct {
	Regime                Regime          `json:"regime"`
	Revenue               float64         `json:"revenue"`
	CapitalAmount         float64         `json:"capitalAmount"`
	CompanyAmount         float64         `json:"companyAmount"`
	PartnerAmounts        []PartnerAmount `json:"partnerAmounts"`
	CapitalRemainingAfter float64         `json:"capitalRemainingAfter"`
}

// Distribute splits revenue according to the regime the account is in.
//
// In the pre-recovery regime the capital deduction never exceeds what is left to
// recover; the part of the deduction beyond that is split with post-recovery
// percentages, since capital is recovered from that point on.
// Amounts are rounded to two decimal places.
func (a *Allocator) Distribute(revenue float64, account CapitalAccount) Distribution {
	account = account.Normalize()
	rev := dec(NonNegative(revenue))
	hundred := decimal.NewFromInt(100)
	pct := func(amount decimal.Decimal, p float64) decimal.Decimal {
		return amount.Mul(dec(p)).Div(hundred)
	}

	d := Distribution{
		Regime:         account.ActiveRegime(),
		Revenue:        rev.Round(2).InexactFloat64(),
		PartnerAmounts: make([]PartnerAmount, len(a.Partners)),
	}

	if d.Regime == RegimePostRecovery {
		d.CompanyAmount = pct(rev, a.CompanyPostPct).Round(2).InexactFloat64()
		for i, p := range a.Partners {
			d.PartnerAmounts[i] = PartnerAmount{PartnerID: p.PartnerID, Amount: pct(rev, p.PostPct).Round(2).InexactFloat64()}
		}
		d.CapitalRemainingAfter = account.CapitalRemaining
		return d
	}

	remaining := dec(account.CapitalRemaining)
	deduction := pct(rev, a.CapitalDeductionPct)
	capital := decimal.Min(deduction, remaining)
	excess := deduction.Sub(capital)

	d.CapitalAmount = capital.Round(2).InexactFloat64()
	d.CompanyAmount = pct(rev, a.CompanyPrePct).Add(pct(excess, a.CompanyPostPct)).Round(2).InexactFloat64()
	for i, p := range a.Partners {
		amount := pct(rev, p.PrePct).Add(pct(excess, p.PostPct))
		d.PartnerAmounts[i] = PartnerAmount{PartnerID: p.PartnerID, Amount: amount.Round(2).InexactFloat64()}
	}
	d.CapitalRemainingAfter = remaining.Sub(capital).Round(2).InexactFloat64()
	return d
}
