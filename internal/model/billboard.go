package model

import (
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
)

// Billboard is a rentable advertising structure. Partnership billboards are
// co-financed by partners and carry a capital account and two distribution regimes.
type Billboard struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Size                string    `json:"size"`
	Location            string    `json:"location"`
	Municipality        string    `json:"municipality"`
	IsPartnership       bool      `json:"isPartnership"`
	PartnerNames        []string  `json:"partnerNames"`
	TotalCapital        float64   `json:"totalCapital"`
	CapitalRemaining    float64   `json:"capitalRemaining"`
	CompanyPrePct       float64   `json:"companyPrePct"`
	CapitalDeductionPct float64   `json:"capitalDeductionPct"`
	CompanyPostPct      float64   `json:"companyPostPct"`
	CreatedAt           time.Time `json:"createdAt"`
}

// CapitalAccount returns the billboard's capital figures.
func (b Billboard) CapitalAccount() allocation.CapitalAccount {
	return allocation.CapitalAccount{
		TotalCapital:     b.TotalCapital,
		CapitalRemaining: b.CapitalRemaining,
	}
}

// BillboardFilter narrows billboard listings.
type BillboardFilter struct {
	OnlyPartnerships bool
	Municipality     string
}

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	Imported []Billboard  `json:"imported"`
	Skipped  []SkippedRow `json:"skipped"`
	// PendingPartnerships lists imported billboards the sheet marks as partnerships.
	// They stay plain billboards until a partnership with partners is saved.
	PendingPartnerships []string `json:"pendingPartnerships,omitempty"`
}

// SkippedRow is a spreadsheet row that could not be imported.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
