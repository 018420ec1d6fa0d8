// Package allocation computes how revenue of a shared billboard is split between
// the owning company, capital recovery, and partners.
//
// Two regimes exist per billboard. While invested capital is still being
// recovered the pre-recovery regime applies: company + capital deduction +
// partner shares = 100. Once capital is recovered the post-recovery regime
// applies: company + partner shares = 100.
//
// Every mutating operation redistributes the unallocated remainder equally
// across partners. Earlier unequal weightings are not preserved. Intermediate
// states may be unbalanced; Validate is the persistence gate.
//
// Everything in this package is pure and synchronous.
package allocation

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Regime identifies one of the two percentage distributions of a billboard.
type Regime string

const (
	RegimePreRecovery  Regime = "pre_recovery"
	RegimePostRecovery Regime = "post_recovery"
)

// PartnerShare is one partner's percentage of revenue in both regimes.
type PartnerShare struct {
	PartnerID string  `json:"partnerId"`
	PrePct    float64 `json:"prePct"`
	PostPct   float64 `json:"postPct"`
}

// Allocator holds the percentage knobs and partner shares of a single billboard.
// The zero value is an allocator with no company share and no partners.
type Allocator struct {
	CompanyPrePct       float64        `json:"companyPrePct"`
	CapitalDeductionPct float64        `json:"capitalDeductionPct"`
	CompanyPostPct      float64        `json:"companyPostPct"`
	Partners            []PartnerShare `json:"partners"`
}

// New returns an allocator with the given knobs and no partners.
// Inputs are coerced into [0, 100]; no redistribution takes place.
func New(companyPrePct, capitalDeductionPct, companyPostPct float64) *Allocator {
	return &Allocator{
		CompanyPrePct:       clamp(companyPrePct, 0, 100),
		CapitalDeductionPct: clamp(capitalDeductionPct, 0, 100),
		CompanyPostPct:      clamp(companyPostPct, 0, 100),
	}
}

// Clone returns a deep copy.
func (a *Allocator) Clone() *Allocator {
	c := *a
	c.Partners = slices.Clone(a.Partners)
	return &c
}

// SetCompanyPrePct sets the company's pre-recovery share, clamped so the capital
// deduction never has to go negative, and splits the remainder equally across partners.
func (a *Allocator) SetCompanyPrePct(v float64) {
	a.CompanyPrePct = clamp(v, 0, 100-a.CapitalDeductionPct)
	a.redistributePre()
}

// SetCapitalDeductionPct sets the share reserved for paying down capital,
// clamped to what the company leaves, and splits the remainder equally across partners.
func (a *Allocator) SetCapitalDeductionPct(v float64) {
	a.CapitalDeductionPct = clamp(v, 0, 100-a.CompanyPrePct)
	a.redistributePre()
}

// SetCompanyPostPct sets the company's post-recovery share and splits the remainder
// equally across partners.
func (a *Allocator) SetCompanyPostPct(v float64) {
	a.CompanyPostPct = clamp(v, 0, 100)
	a.redistributePost()
}

// AddPartner attaches a partner and resets every partner, old and new, to an equal
// share of the unallocated remainder in both regimes.
// A partner that is already attached is refused with a *DuplicatePartnerError and
// the allocator is left untouched.
func (a *Allocator) AddPartner(partnerID string) error {
	if a.HasPartner(partnerID) {
		return &DuplicatePartnerError{PartnerID: partnerID}
	}
	a.Partners = append(a.Partners, PartnerShare{PartnerID: partnerID})
	a.redistributePre()
	a.redistributePost()
	return nil
}

// RemovePartner detaches a partner and splits both remainders equally across the
// survivors. Unknown ids are ignored.
func (a *Allocator) RemovePartner(partnerID string) {
	idx := a.indexOf(partnerID)
	if idx < 0 {
		return
	}
	a.Partners = slices.Delete(a.Partners, idx, idx+1)
	a.redistributePre()
	a.redistributePost()
}

// HasPartner reports whether the partner is attached.
func (a *Allocator) HasPartner(partnerID string) bool {
	return a.indexOf(partnerID) >= 0
}

// RemainingPre is the pre-recovery percentage left for partners, never negative.
func (a *Allocator) RemainingPre() float64 {
	return NonNegative(100 - a.CompanyPrePct - a.CapitalDeductionPct)
}

// RemainingPost is the post-recovery percentage left for partners, never negative.
func (a *Allocator) RemainingPost() float64 {
	return NonNegative(100 - a.CompanyPostPct)
}

// PartnerSum returns the sum of all partner shares in the regime.
func (a *Allocator) PartnerSum(regime Regime) float64 {
	sum := decimal.Zero
	for _, p := range a.Partners {
		if regime == RegimePreRecovery {
			sum = sum.Add(dec(p.PrePct))
		} else {
			sum = sum.Add(dec(p.PostPct))
		}
	}
	return sum.InexactFloat64()
}

// RegimeSum returns company (+ deduction for pre-recovery) + partner shares,
// rounded to the nearest whole percent.
func (a *Allocator) RegimeSum(regime Regime) float64 {
	total := dec(a.PartnerSum(regime))
	if regime == RegimePreRecovery {
		total = total.Add(dec(a.CompanyPrePct)).Add(dec(a.CapitalDeductionPct))
	} else {
		total = total.Add(dec(a.CompanyPostPct))
	}
	return total.Round(0).InexactFloat64()
}

// ValidateRegimeSum fails with *UnbalancedRegimeError when the regime does not sum to 100.
func (a *Allocator) ValidateRegimeSum(regime Regime) error {
	if sum := a.RegimeSum(regime); sum != 100 {
		return &UnbalancedRegimeError{Regime: regime, Sum: sum}
	}
	return nil
}

// ValidateNonEmptyPartnerSet fails with ErrNoPartners when no partner is attached.
func (a *Allocator) ValidateNonEmptyPartnerSet() error {
	if len(a.Partners) == 0 {
		return ErrNoPartners
	}
	return nil
}

// Validate runs the checks required before a distribution may be persisted.
func (a *Allocator) Validate() error {
	if err := a.ValidateNonEmptyPartnerSet(); err != nil {
		return err
	}
	if err := a.ValidateRegimeSum(RegimePreRecovery); err != nil {
		return err
	}
	return a.ValidateRegimeSum(RegimePostRecovery)
}

func (a *Allocator) redistributePre() {
	share, ok := a.equalShare(a.RemainingPre())
	if !ok {
		return
	}
	for i := range a.Partners {
		a.Partners[i].PrePct = share
	}
}

func (a *Allocator) redistributePost() {
	share, ok := a.equalShare(a.RemainingPost())
	if !ok {
		return
	}
	for i := range a.Partners {
		a.Partners[i].PostPct = share
	}
}

// equalShare splits remaining across all partners, rounded to one decimal place.
func (a *Allocator) equalShare(remaining float64) (float64, bool) {
	n := len(a.Partners)
	if n == 0 {
		return 0, false
	}
	return dec(remaining).Div(decimal.NewFromInt(int64(n))).Round(1).InexactFloat64(), true
}

func (a *Allocator) indexOf(partnerID string) int {
	return slices.IndexFunc(a.Partners, func(p PartnerShare) bool {
		return p.PartnerID == partnerID
	})
}
