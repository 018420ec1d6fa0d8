package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// Knob values given to new billboards.
const (
	DefaultCompanyPrePct       = 35.0
	DefaultCapitalDeductionPct = 30.0
	DefaultCompanyPostPct      = 40.0
)

// round rounds a monetary value to two decimal places, halves away from zero.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(0.005)       // returns 0.01
func round(value float64) float64 {
	return allocation.Round(value, 2)
}

// allocatorFor rebuilds the allocator of a persisted partnership without
// redistributing the stored shares.
func allocatorFor(b model.Billboard, shares []model.PartnerShare) *allocation.Allocator {
	a := allocation.New(b.CompanyPrePct, b.CapitalDeductionPct, b.CompanyPostPct)
	a.Partners = make([]allocation.PartnerShare, 0, len(shares))
	for _, s := range shares {
		a.Partners = append(a.Partners, allocation.PartnerShare{
			PartnerID: s.PartnerID,
			PrePct:    s.PrePct,
			PostPct:   s.PostPct,
		})
	}
	return a
}

// buildPartnership assembles the outward view of an allocation.
// names maps partner IDs to display names.
func buildPartnership(b model.Billboard, a *allocation.Allocator, account allocation.CapitalAccount, names map[string]string) model.Partnership {
	partners := make([]model.PartnerShare, 0, len(a.Partners))
	for _, p := range a.Partners {
		partners = append(partners, model.PartnerShare{
			BillboardID: b.ID,
			PartnerID:   p.PartnerID,
			PartnerName: names[p.PartnerID],
			PrePct:      p.PrePct,
			PostPct:     p.PostPct,
		})
	}

	return model.Partnership{
		BillboardID:         b.ID,
		BillboardName:       b.Name,
		IsPartnership:       b.IsPartnership,
		TotalCapital:        account.TotalCapital,
		CapitalRemaining:    account.CapitalRemaining,
		RecoveredPct:        account.RecoveredPct(),
		ActiveRegime:        account.ActiveRegime(),
		CompanyPrePct:       a.CompanyPrePct,
		CapitalDeductionPct: a.CapitalDeductionPct,
		CompanyPostPct:      a.CompanyPostPct,
		Partners:            partners,
		PreSum:              a.RegimeSum(allocation.RegimePreRecovery),
		PostSum:             a.RegimeSum(allocation.RegimePostRecovery),
	}
}

// withTx runs fn inside a transaction, committing when it returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
